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

package corpus

import "sort"

// Unit is the atomic item being measured - a (word form, PoS tag)
// pair with both values treated as opaque strings. A Unit exists in
// the vocabulary only once it has been observed in some part.
type Unit struct {
	Word string `json:"word"`
	POS  string `json:"pos"`
}

func (u Unit) String() string {
	return u.Word + "/" + u.POS
}

type unitCounts struct {
	total float64

	// perPart maps part index -> frequency; parts without the unit
	// are absent (implicit zero)
	perPart map[int]float64
}

// Vocabulary accumulates corpus-wide unit frequencies. Per-unit
// counts are stored sparsely (vocabulary size times part count can
// get large); dense vectors for the metric engine are materialized
// lazily per unit. The merge is a commutative per-unit sum, so the
// order in which parts are added does not matter.
type Vocabulary struct {
	numParts int
	units    map[Unit]*unitCounts
}

func NewVocabulary(numParts int) *Vocabulary {
	return &Vocabulary{
		numParts: numParts,
		units:    make(map[Unit]*unitCounts),
	}
}

// AddPartCounts merges one part's (unit -> count) multiset into the
// vocabulary. Must not be called twice for the same part index with
// overlapping units unless an additive merge is intended.
func (voc *Vocabulary) AddPartCounts(partIdx int, counts map[Unit]float64) {
	for u, cnt := range counts {
		rec, ok := voc.units[u]
		if !ok {
			rec = &unitCounts{perPart: make(map[int]float64)}
			voc.units[u] = rec
		}
		rec.total += cnt
		rec.perPart[partIdx] += cnt
	}
}

func (voc *Vocabulary) Size() int {
	return len(voc.units)
}

func (voc *Vocabulary) NumParts() int {
	return voc.numParts
}

// TotalFrequency returns the corpus-wide frequency of a unit
// (zero for units never observed).
func (voc *Vocabulary) TotalFrequency(u Unit) float64 {
	rec, ok := voc.units[u]
	if !ok {
		return 0
	}
	return rec.total
}

// DenseVector materializes the unit's per-part frequency vector of
// length NumParts with zeros for parts not containing it.
func (voc *Vocabulary) DenseVector(u Unit) []float64 {
	ans := make([]float64, voc.numParts)
	rec, ok := voc.units[u]
	if !ok {
		return ans
	}
	for idx, cnt := range rec.perPart {
		ans[idx] = cnt
	}
	return ans
}

// Units returns all vocabulary units sorted by word form and PoS
// tag, giving runs a deterministic result ordering.
func (voc *Vocabulary) Units() []Unit {
	ans := make([]Unit, 0, len(voc.units))
	for u := range voc.units {
		ans = append(ans, u)
	}
	sort.Slice(ans, func(i, j int) bool {
		if ans[i].Word == ans[j].Word {
			return ans[i].POS < ans[j].POS
		}
		return ans[i].Word < ans[j].Word
	})
	return ans
}
