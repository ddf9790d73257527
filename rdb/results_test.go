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

package rdb

import (
	"encoding/json"
	"math"
	"mdisp/corpus"
	"mdisp/dispersion"
	"mdisp/results"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerResultRoundTrip(t *testing.T) {
	src := &results.CorpusDispersion{
		CorpusSize: 30,
		NumParts:   3,
		Rows: []corpus.UnitRow{
			{
				Word:           "vítr",
				POS:            "NOUN",
				TotalFrequency: 10,
				Metrics: dispersion.Metrics{
					Range:        2,
					JuillandD:    dispersion.Value(0.75),
					KLDivergence: dispersion.Value(math.Inf(1)),
					VCPopulation: dispersion.Value(math.NaN()),
				},
			},
		},
		Warnings: []string{"skipping unreadable document docx.txt"},
	}
	wr, err := CreateWorkerResult(src)
	assert.NoError(t, err)

	// the envelope must survive serialization to Redis and back
	data, err := json.Marshal(wr)
	assert.NoError(t, err)
	var wr2 WorkerResult
	assert.NoError(t, json.Unmarshal(data, &wr2))

	ans, err := TypedResultOf[*results.CorpusDispersion](&wr2)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, ans.CorpusSize)
	assert.Equal(t, 3, ans.NumParts)
	assert.Len(t, ans.Rows, 1)
	assert.Equal(t, "vítr", ans.Rows[0].Word)
	assert.Equal(t, 2, ans.Rows[0].Metrics.Range)
	assert.InDelta(t, 0.75, float64(ans.Rows[0].Metrics.JuillandD), 1e-9)
	assert.True(t, math.IsInf(float64(ans.Rows[0].Metrics.KLDivergence), 1))
	assert.True(t, math.IsNaN(float64(ans.Rows[0].Metrics.VCPopulation)))
	assert.Equal(t, src.Warnings, ans.Warnings)
}

func TestWorkerResultErrorEnvelope(t *testing.T) {
	wr, err := CreateWorkerResult(&results.ErrorResult{
		Func:  FuncCorpusDispersion,
		Error: "tagging service not ready",
	})
	assert.NoError(t, err)
	_, err = TypedResultOf[*results.CorpusDispersion](wr)
	assert.ErrorContains(t, err, "tagging service not ready")
}

func TestQueryArgsRoundTrip(t *testing.T) {
	query, err := NewQuery(FuncCorpusDispersion, CorpusDispersionArgs{
		CorpusID:         "intro",
		ExcludeStopwords: true,
	})
	assert.NoError(t, err)
	msg, err := query.ToJSON()
	assert.NoError(t, err)
	query2, err := DecodeQuery(msg)
	assert.NoError(t, err)
	var args CorpusDispersionArgs
	assert.NoError(t, json.Unmarshal(query2.Args, &args))
	assert.Equal(t, "intro", args.CorpusID)
	assert.True(t, args.ExcludeStopwords)
}
