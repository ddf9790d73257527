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
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"mdisp/dispersion"

	"github.com/stretchr/testify/assert"
)

func TestExportCSV(t *testing.T) {
	rows := []UnitRow{
		{
			Word:           "天气",
			POS:            "n",
			TotalFrequency: 10,
			Metrics: dispersion.Metrics{
				Range:               2,
				JuillandD:           dispersion.Value(0.5),
				KLDivergence:        dispersion.Value(math.Inf(1)),
				VCPopulation:        dispersion.Value(math.NaN()),
				MeanTextFrequencyFT: dispersion.Value(1.0 / 3),
			},
		},
	}
	var buf bytes.Buffer
	assert.NoError(t, ExportCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(records))

	header := records[0]
	assert.Equal(t, 4+16, len(header))
	assert.Equal(t, []string{"word", "pos", "numChars", "totalFrequency"}, header[:4])
	assert.Equal(t, "range", header[4])
	assert.Equal(t, "ftAdjustedByDA", header[len(header)-1])

	row := records[1]
	assert.Equal(t, "天气", row[0])
	assert.Equal(t, "n", row[1])
	// character count, not byte count
	assert.Equal(t, "2", row[2])
	assert.Equal(t, "10", row[3])

	byName := make(map[string]string)
	for i, name := range header {
		byName[name] = row[i]
	}
	assert.Equal(t, "2", byName["range"])
	assert.Equal(t, "0.5000", byName["juillandD"])
	assert.Equal(t, "0.3333", byName["meanTextFrequencyFT"])
	assert.Equal(t, "inf", byName["klDivergence"])
	assert.Equal(t, "nan", byName["vcPopulation"])
	assert.Equal(t, "0.0000", byName["dp"])
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, ExportCSV(&buf, []UnitRow{}))
	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	// header only
	assert.Equal(t, 1, len(records))
}
