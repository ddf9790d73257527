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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabularyMerge(t *testing.T) {
	voc := NewVocabulary(3)
	voc.AddPartCounts(0, map[Unit]float64{
		{Word: "a", POS: "N"}: 2,
		{Word: "b", POS: "V"}: 1,
	})
	voc.AddPartCounts(2, map[Unit]float64{
		{Word: "a", POS: "N"}: 3,
	})

	assert.Equal(t, 2, voc.Size())
	assert.Equal(t, 5.0, voc.TotalFrequency(Unit{Word: "a", POS: "N"}))
	assert.Equal(t, []float64{2, 0, 3}, voc.DenseVector(Unit{Word: "a", POS: "N"}))
	assert.Equal(t, []float64{1, 0, 0}, voc.DenseVector(Unit{Word: "b", POS: "V"}))
}

func TestVocabularyTotalMatchesVectorSum(t *testing.T) {
	voc := NewVocabulary(4)
	voc.AddPartCounts(0, map[Unit]float64{{Word: "x", POS: "N"}: 1})
	voc.AddPartCounts(1, map[Unit]float64{{Word: "x", POS: "N"}: 4})
	voc.AddPartCounts(3, map[Unit]float64{{Word: "x", POS: "N"}: 2})
	u := Unit{Word: "x", POS: "N"}
	var sum float64
	for _, v := range voc.DenseVector(u) {
		sum += v
	}
	assert.Equal(t, voc.TotalFrequency(u), sum)
	assert.Equal(t, voc.NumParts(), len(voc.DenseVector(u)))
}

func TestVocabularyUnknownUnit(t *testing.T) {
	voc := NewVocabulary(2)
	assert.Equal(t, 0.0, voc.TotalFrequency(Unit{Word: "nope", POS: "N"}))
	assert.Equal(t, []float64{0, 0}, voc.DenseVector(Unit{Word: "nope", POS: "N"}))
}

func TestVocabularyUnitsOrdering(t *testing.T) {
	voc := NewVocabulary(1)
	voc.AddPartCounts(0, map[Unit]float64{
		{Word: "b", POS: "N"}: 1,
		{Word: "a", POS: "V"}: 1,
		{Word: "a", POS: "N"}: 1,
	})
	assert.Equal(
		t,
		[]Unit{
			{Word: "a", POS: "N"},
			{Word: "a", POS: "V"},
			{Word: "b", POS: "N"},
		},
		voc.Units(),
	)
}
