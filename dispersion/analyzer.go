// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of MDISP.
//
//  MDISP is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  MDISP is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with MDISP.  If not, see <https://www.gnu.org/licenses/>.

// Package dispersion implements lexical dispersion metrics for
// a single vocabulary unit across the parts of a corpus. It covers
// the measures discussed by S. Th. Gries ("Analyzing Dispersion")
// and the lexical prevalence framework of Egbert & Burch (2023).
// All logarithms are base 2 and the convention 0*log2(0) = 0 applies
// throughout.
package dispersion

import (
	"math"
	"sort"
)

const (
	// eps is the general frequency/size epsilon - anything below
	// is treated as zero
	eps = 1e-9

	// tiny guards ratio denominators and log arguments
	tiny = 1e-12
)

// ValidationError signals malformed engine input (vector shape or
// negative values). A unit failing validation is excluded from
// results; the error is never fatal for a whole run.
type ValidationError struct {
	Msg string
}

func (err ValidationError) Error() string {
	return err.Msg
}

// Analyzer calculates dispersion metrics for one unit. It is
// immutable after construction and safe for concurrent use.
type Analyzer struct {
	v     []float64
	sizes []float64
	total float64
	n     int

	// f is the overall frequency of the unit in the corpus
	f float64

	// s are expected mass shares: s_i = sizes_i / total
	s []float64

	// p are local densities: p_i = v_i / sizes_i (0 where a part
	// is empty)
	p []float64
}

// NewAnalyzer validates engine inputs and precomputes derived
// vectors. `v` holds the unit's frequency in each corpus part,
// `sizes` the respective part sizes in tokens and `total` the whole
// corpus size. A small relative discrepancy between sum(sizes) and
// total (up to 1e-9 * total) is tolerated as upstream float noise.
func NewAnalyzer(v, sizes []float64, total float64) (*Analyzer, error) {
	if len(v) == 0 {
		return nil, ValidationError{"input vectors cannot be empty"}
	}
	if len(v) != len(sizes) {
		return nil, ValidationError{"frequency vector and part sizes vector must have the same length"}
	}
	if total <= eps {
		return nil, ValidationError{"total corpus size must be positive"}
	}
	for _, s := range sizes {
		if s < 0 {
			return nil, ValidationError{"corpus part sizes cannot be negative"}
		}
	}
	for _, vi := range v {
		if vi < 0 {
			return nil, ValidationError{"unit frequencies cannot be negative"}
		}
	}
	ans := &Analyzer{
		v:     v,
		sizes: sizes,
		total: total,
		n:     len(v),
		s:     make([]float64, len(v)),
		p:     make([]float64, len(v)),
	}
	for i, vi := range v {
		ans.f += vi
		ans.s[i] = sizes[i] / total
		if sizes[i] > eps {
			ans.p[i] = vi / sizes[i]
		}
	}
	return ans, nil
}

// log2Safe returns log2(x) with the 0*log2(0)=0 convention in mind
// (callers multiply the result by a factor which is zero whenever
// x is zero).
func log2Safe(x float64) float64 {
	if x <= tiny {
		return 0
	}
	return math.Log2(x)
}

// klTerm calculates a single term p*log2(p/q) of a KL divergence
// sum. A positive p against a (near-)zero q diverges.
func klTerm(p, q float64) float64 {
	if p <= tiny {
		return 0
	}
	if q <= tiny {
		return math.Inf(1)
	}
	ratio := p / q
	if ratio <= tiny {
		return 0
	}
	return p * log2Safe(ratio)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Range returns the number of corpus parts containing the unit.
func (a *Analyzer) Range() int {
	var ans int
	for _, vi := range a.v {
		if vi > eps {
			ans++
		}
	}
	return ans
}

// SDPopulation returns the population standard deviation of the
// per-part frequencies.
func (a *Analyzer) SDPopulation() float64 {
	if a.f < eps {
		return 0
	}
	mean := a.f / float64(a.n)
	var sum float64
	for _, vi := range a.v {
		d := vi - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(a.n))
}

// VCPopulation returns the population variation coefficient of the
// per-part frequencies. The value is undefined (NaN) when the mean
// is zero while the total frequency is not.
func (a *Analyzer) VCPopulation() float64 {
	mean := a.f / float64(a.n)
	if math.Abs(mean) < tiny {
		if a.f < eps {
			return 0
		}
		return math.NaN()
	}
	return a.SDPopulation() / mean
}

// JuillandD returns Juilland's D in the variant for differently
// sized corpus parts (i.e. based on local densities p_i).
func (a *Analyzer) JuillandD() float64 {
	if a.n <= 1 {
		if a.f > eps {
			return 1
		}
		return 0
	}
	if a.f < eps {
		return 0
	}
	var meanP float64
	for _, pi := range a.p {
		meanP += pi
	}
	meanP /= float64(a.n)
	var sum float64
	for _, pi := range a.p {
		d := pi - meanP
		sum += d * d
	}
	sdP := math.Sqrt(sum / float64(a.n))
	if math.Abs(meanP) < tiny {
		// all densities effectively zero => perfectly even,
		// any spread => maximally clumped
		if math.Abs(sdP) < tiny {
			return 1
		}
		return 0
	}
	vcP := sdP / meanP
	return 1 - vcP/math.Sqrt(float64(a.n-1))
}

// CarrollD2 returns Carroll's D2, the entropy of normalized local
// densities divided by log2(n). For a single-part corpus the
// normalizer log2(1) is zero and the value is defined as 0.
func (a *Analyzer) CarrollD2() float64 {
	if a.n <= 1 || a.f < eps {
		return 0
	}
	var sumP float64
	for _, pi := range a.p {
		sumP += pi
	}
	if math.Abs(sumP) < tiny {
		return 0
	}
	var entropy float64
	for _, pi := range a.p {
		q := pi / sumP
		if q > tiny {
			entropy -= q * log2Safe(q)
		}
	}
	log2n := log2Safe(float64(a.n))
	if math.Abs(log2n) < tiny {
		return 0
	}
	return entropy / log2n
}

// RosengrenSAdj returns Rosengren's S_adj.
func (a *Analyzer) RosengrenSAdj() float64 {
	if a.f < eps {
		return 0
	}
	var sum float64
	for i, vi := range a.v {
		sum += math.Sqrt(a.s[i] * vi)
	}
	return sum * sum / a.f
}

// DP returns Gries' Deviation of Proportions.
func (a *Analyzer) DP() float64 {
	if a.f < eps {
		return 0
	}
	var sum float64
	for i, vi := range a.v {
		sum += math.Abs(vi/a.f - a.s[i])
	}
	return 0.5 * sum
}

// DPNorm returns DP normalized by (1 - min(s)).
func (a *Analyzer) DPNorm() float64 {
	dp := a.DP()
	minS := a.s[0]
	for _, si := range a.s[1:] {
		if si < minS {
			minS = si
		}
	}
	denom := 1 - minS
	if math.Abs(denom) < eps {
		if math.Abs(dp) < eps {
			return 0
		}
		return 1
	}
	return dp / denom
}

// KLDivergence returns D_KL(P_obs || S) where P_obs_i = v_i / f.
// The result is +Inf whenever the unit occurs in a part with
// a (near-)zero expected mass share.
func (a *Analyzer) KLDivergence() float64 {
	if a.f < eps {
		return 0
	}
	var sum float64
	for i, vi := range a.v {
		term := klTerm(vi/a.f, a.s[i])
		if math.IsInf(term, 1) {
			return math.Inf(1)
		}
		sum += term
	}
	return sum
}

// JSDDispersion returns 1 - JSD(P_obs || S) using the mixture
// distribution M = (P_obs + S) / 2. A diverging one-sided term
// means maximum divergence and thus dispersion 0.
func (a *Analyzer) JSDDispersion() float64 {
	if a.f < eps {
		return 0
	}
	var dPM, dSM float64
	for i, vi := range a.v {
		pObs := vi / a.f
		m := 0.5 * (pObs + a.s[i])
		term := klTerm(pObs, m)
		if math.IsInf(term, 1) {
			return 0
		}
		dPM += term
		term = klTerm(a.s[i], m)
		if math.IsInf(term, 1) {
			return 0
		}
		dSM += term
	}
	jsd := clamp01(0.5 * (dPM + dSM))
	return 1 - jsd
}

// HellingerDispersion returns 1 - H(P_obs, S) based on the
// Bhattacharyya coefficient (clamped to [0, 1] against float
// precision overshoot).
func (a *Analyzer) HellingerDispersion() float64 {
	if a.f < eps {
		return 0
	}
	var bc float64
	for i, vi := range a.v {
		bc += math.Sqrt(vi / a.f * a.s[i])
	}
	bc = clamp01(bc)
	return 1 - math.Sqrt(1-bc)
}

// MeanTextFrequencyFT returns the mean of local densities p_i
// (Egbert & Burch's FT).
func (a *Analyzer) MeanTextFrequencyFT() float64 {
	var sum float64
	for _, pi := range a.p {
		sum += pi
	}
	return sum / float64(a.n)
}

// PervasivenessPT returns the proportion of parts containing the
// unit (Egbert & Burch's PT).
func (a *Analyzer) PervasivenessPT() float64 {
	return float64(a.Range()) / float64(a.n)
}

// EvennessDA returns Burch et al.'s DA:
// 1 - meanPairwiseAbsDiff(p) / (2 * mean(p)), clamped to [0, 1].
// The pairwise sum uses the sorted prefix-sum identity
// sum_{i<j} |p_j - p_i| = sum_i (2i - n + 1) * pSorted_i
// which is O(n log n) instead of the direct O(n^2) pass.
func (a *Analyzer) EvennessDA() float64 {
	if a.f < eps {
		return 0
	}
	if a.n == 1 {
		return 1
	}
	meanP := a.MeanTextFrequencyFT()
	if math.Abs(meanP) < tiny {
		for _, pi := range a.p {
			if math.Abs(pi-meanP) >= tiny {
				return 0
			}
		}
		return 1
	}
	sorted := make([]float64, a.n)
	copy(sorted, a.p)
	sort.Float64s(sorted)
	var pairwiseSum float64
	for i, pi := range sorted {
		pairwiseSum += float64(2*i-a.n+1) * pi
	}
	numPairs := float64(a.n) * float64(a.n-1) / 2
	avgDiff := pairwiseSum / numPairs
	return clamp01(1 - avgDiff/(2*meanP))
}

// CalculateAll produces the full immutable metrics record for the
// unit. The calculation is deterministic and has no side effects.
func (a *Analyzer) CalculateAll() Metrics {
	ft := a.MeanTextFrequencyFT()
	pt := a.PervasivenessPT()
	da := a.EvennessDA()
	return Metrics{
		Range:               a.Range(),
		SDPopulation:        Value(a.SDPopulation()),
		VCPopulation:        Value(a.VCPopulation()),
		JuillandD:           Value(a.JuillandD()),
		CarrollD2:           Value(a.CarrollD2()),
		RosengrenSAdj:       Value(a.RosengrenSAdj()),
		DP:                  Value(a.DP()),
		DPNorm:              Value(a.DPNorm()),
		KLDivergence:        Value(a.KLDivergence()),
		JSDDispersion:       Value(a.JSDDispersion()),
		HellingerDispersion: Value(a.HellingerDispersion()),
		MeanTextFrequencyFT: Value(ft),
		PervasivenessPT:     Value(pt),
		EvennessDA:          Value(da),
		FTAdjustedByPT:      Value(ft * pt),
		FTAdjustedByDA:      Value(ft * da),
	}
}
