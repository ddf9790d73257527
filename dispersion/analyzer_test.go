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

package dispersion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustAnalyzer(t *testing.T, v, sizes []float64, total float64) *Analyzer {
	t.Helper()
	ans, err := NewAnalyzer(v, sizes, total)
	assert.NoError(t, err)
	return ans
}

func TestNewAnalyzerValidation(t *testing.T) {
	_, err := NewAnalyzer([]float64{}, []float64{}, 10)
	assert.ErrorAs(t, err, &ValidationError{})

	_, err = NewAnalyzer([]float64{1, 2}, []float64{10}, 10)
	assert.ErrorAs(t, err, &ValidationError{})

	_, err = NewAnalyzer([]float64{1}, []float64{10}, 0)
	assert.ErrorAs(t, err, &ValidationError{})

	_, err = NewAnalyzer([]float64{1, 1}, []float64{10, -1}, 9)
	assert.ErrorAs(t, err, &ValidationError{})

	_, err = NewAnalyzer([]float64{1, -1}, []float64{10, 10}, 20)
	assert.ErrorAs(t, err, &ValidationError{})
}

func TestThreePartsTwoOccupied(t *testing.T) {
	// v = [5, 0, 5], sizes = [10, 10, 10], T = 30
	a := mustAnalyzer(t, []float64{5, 0, 5}, []float64{10, 10, 10}, 30)
	assert.Equal(t, 2, a.Range())
	assert.InDelta(t, 2.0/3, a.PervasivenessPT(), 1e-9)
	assert.InDelta(t, 1.0/3, a.MeanTextFrequencyFT(), 1e-9)
	// mean pairwise |p_i - p_j| = (0.5 + 0 + 0.5) / 3
	// DA = 1 - (1/3) / (2 * 1/3) = 0.5
	assert.InDelta(t, 0.5, a.EvennessDA(), 1e-9)
}

func TestSinglePartCorpus(t *testing.T) {
	a := mustAnalyzer(t, []float64{7}, []float64{100}, 100)
	assert.InDelta(t, 1.0, a.JuillandD(), 1e-9)
	assert.InDelta(t, 1.0, a.EvennessDA(), 1e-9)
	assert.InDelta(t, 0.0, a.CarrollD2(), 1e-9)
	assert.InDelta(t, 0.0, a.DPNorm(), 1e-9)
	assert.InDelta(t, 1.0, a.PervasivenessPT(), 1e-9)
}

func TestZeroFrequencyUnit(t *testing.T) {
	a := mustAnalyzer(t, []float64{0, 0, 0}, []float64{10, 10, 10}, 30)
	assert.Equal(t, 0, a.Range())
	assert.InDelta(t, 0.0, a.PervasivenessPT(), 1e-9)
	assert.InDelta(t, 0.0, a.EvennessDA(), 1e-9)
	assert.InDelta(t, 0.0, a.DP(), 1e-9)
	assert.InDelta(t, 0.0, a.KLDivergence(), 1e-9)
	assert.InDelta(t, 0.0, a.SDPopulation(), 1e-9)
	assert.InDelta(t, 0.0, a.VCPopulation(), 1e-9)
	assert.InDelta(t, 0.0, a.JuillandD(), 1e-9)
}

func TestPerfectMatchWithExpectedShares(t *testing.T) {
	// observed proportions exactly match the expected mass shares
	a := mustAnalyzer(t, []float64{3, 1}, []float64{30, 10}, 40)
	assert.InDelta(t, 0.0, a.KLDivergence(), 1e-9)
	assert.InDelta(t, 0.0, a.DP(), 1e-9)
	assert.InDelta(t, 1.0, a.JSDDispersion(), 1e-9)
	assert.InDelta(t, 1.0, a.HellingerDispersion(), 1e-9)
}

func TestKLDivergesOnZeroSizePart(t *testing.T) {
	// the unit occurs in a part with zero size => P_obs > 0
	// against s = 0
	a := mustAnalyzer(t, []float64{1, 1}, []float64{0, 10}, 10)
	assert.True(t, math.IsInf(a.KLDivergence(), 1))
	// JSD mixture keeps all terms finite here; result stays in [0, 1]
	jsd := a.JSDDispersion()
	assert.GreaterOrEqual(t, jsd, 0.0)
	assert.LessOrEqual(t, jsd, 1.0)
}

func TestVCUndefinedForZeroMean(t *testing.T) {
	// a huge part count pushes the mean below the guard epsilon
	// while the total frequency stays non-negligible
	n := 100000
	v := make([]float64, n)
	sizes := make([]float64, n)
	for i := range sizes {
		sizes[i] = 1
	}
	v[0] = 1e-8
	a := mustAnalyzer(t, v, sizes, float64(n))
	assert.True(t, math.IsNaN(a.VCPopulation()))
}

func TestMetricRanges(t *testing.T) {
	vectors := [][]float64{
		{1, 2, 3, 4, 5},
		{10, 0, 0, 0, 0},
		{2, 2, 2, 2, 2},
		{0, 7, 0, 3, 1},
	}
	sizes := []float64{100, 50, 80, 120, 60}
	var total float64
	for _, s := range sizes {
		total += s
	}
	for _, v := range vectors {
		a := mustAnalyzer(t, v, sizes, total)
		assert.GreaterOrEqual(t, a.Range(), 0)
		assert.LessOrEqual(t, a.Range(), len(v))
		pt := a.PervasivenessPT()
		assert.GreaterOrEqual(t, pt, 0.0)
		assert.LessOrEqual(t, pt, 1.0)
		da := a.EvennessDA()
		assert.GreaterOrEqual(t, da, 0.0)
		assert.LessOrEqual(t, da, 1.0)
		assert.GreaterOrEqual(t, a.KLDivergence(), 0.0)
		jsd := a.JSDDispersion()
		assert.GreaterOrEqual(t, jsd, 0.0)
		assert.LessOrEqual(t, jsd, 1.0)
		hd := a.HellingerDispersion()
		assert.GreaterOrEqual(t, hd, 0.0)
		assert.LessOrEqual(t, hd, 1.0)
	}
}

// directPairwiseDA recalculates DA using the O(n^2) pairwise pass;
// the production code uses the sorted prefix-sum equivalent and the
// two must agree within float tolerance.
func directPairwiseDA(a *Analyzer) float64 {
	if a.f < eps {
		return 0
	}
	if a.n == 1 {
		return 1
	}
	meanP := a.MeanTextFrequencyFT()
	if math.Abs(meanP) < tiny {
		return 1
	}
	var sum float64
	var numPairs int
	for i := 0; i < a.n; i++ {
		for j := i + 1; j < a.n; j++ {
			sum += math.Abs(a.p[i] - a.p[j])
			numPairs++
		}
	}
	return clamp01(1 - sum/float64(numPairs)/(2*meanP))
}

func TestEvennessDAMatchesDirectPairwise(t *testing.T) {
	vectors := [][]float64{
		{5, 0, 5},
		{1, 2, 3, 4, 5, 6, 7},
		{0, 0, 9, 0, 0, 1, 4},
		{3, 3, 3, 3},
		{12},
	}
	for _, v := range vectors {
		sizes := make([]float64, len(v))
		var total float64
		for i := range sizes {
			sizes[i] = float64(10 * (i + 1))
			total += sizes[i]
		}
		a := mustAnalyzer(t, v, sizes, total)
		assert.InDelta(t, directPairwiseDA(a), a.EvennessDA(), 1e-9)
	}
}

func TestCalculateAllComposites(t *testing.T) {
	a := mustAnalyzer(t, []float64{5, 0, 5}, []float64{10, 10, 10}, 30)
	m := a.CalculateAll()
	assert.Equal(t, 2, m.Range)
	assert.InDelta(t, float64(m.MeanTextFrequencyFT)*float64(m.PervasivenessPT), float64(m.FTAdjustedByPT), 1e-9)
	assert.InDelta(t, float64(m.MeanTextFrequencyFT)*float64(m.EvennessDA), float64(m.FTAdjustedByDA), 1e-9)
}

func TestCalculateAllDeterministic(t *testing.T) {
	a := mustAnalyzer(t, []float64{2, 5, 0, 1}, []float64{20, 50, 10, 30}, 110)
	assert.Equal(t, a.CalculateAll(), a.CalculateAll())
}
