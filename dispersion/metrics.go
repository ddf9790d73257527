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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a single metric value. Standard JSON cannot represent
// non-finite numbers so Value marshals them as the string literals
// "inf", "-inf" and "nan" (the same tokens are used in CSV exports).
// NaN stands for "structurally undefined" (e.g. a variation
// coefficient with a zero mean).
type Value float64

func (v Value) IsDefined() bool {
	return !math.IsNaN(float64(v))
}

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return json.Marshal("inf")
	case math.IsInf(f, -1):
		return json.Marshal("-inf")
	case math.IsNaN(f):
		return json.Marshal("nan")
	}
	return json.Marshal(f)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "inf":
			*v = Value(math.Inf(1))
		case "-inf":
			*v = Value(math.Inf(-1))
		case "nan":
			*v = Value(math.NaN())
		default:
			return fmt.Errorf("unknown metric value literal: %s", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// String formats the value with four decimal places. Non-finite
// values produce the literals "inf", "-inf", "nan".
func (v Value) String() string {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// Metrics is an immutable record of all dispersion metrics
// calculated for a single (word, PoS) unit. The field order matches
// the column order of exported tables.
type Metrics struct {
	Range               int   `json:"range"`
	SDPopulation        Value `json:"sdPopulation"`
	VCPopulation        Value `json:"vcPopulation"`
	JuillandD           Value `json:"juillandD"`
	CarrollD2           Value `json:"carrollD2"`
	RosengrenSAdj       Value `json:"rosengrenSAdj"`
	DP                  Value `json:"dp"`
	DPNorm              Value `json:"dpNorm"`
	KLDivergence        Value `json:"klDivergence"`
	JSDDispersion       Value `json:"jsdDispersion"`
	HellingerDispersion Value `json:"hellingerDispersion"`
	MeanTextFrequencyFT Value `json:"meanTextFrequencyFT"`
	PervasivenessPT     Value `json:"pervasivenessPT"`
	EvennessDA          Value `json:"evennessDA"`
	FTAdjustedByPT      Value `json:"ftAdjustedByPT"`
	FTAdjustedByDA      Value `json:"ftAdjustedByDA"`
}

// ColumnNames returns export column names in the canonical order
// (matching the Metrics field order).
func ColumnNames() []string {
	return []string{
		"range",
		"sdPopulation",
		"vcPopulation",
		"juillandD",
		"carrollD2",
		"rosengrenSAdj",
		"dp",
		"dpNorm",
		"klDivergence",
		"jsdDispersion",
		"hellingerDispersion",
		"meanTextFrequencyFT",
		"pervasivenessPT",
		"evennessDA",
		"ftAdjustedByPT",
		"ftAdjustedByDA",
	}
}

// ColumnValues returns formatted values in the same order as
// ColumnNames.
func (m Metrics) ColumnValues() []string {
	return []string{
		strconv.Itoa(m.Range),
		m.SDPopulation.String(),
		m.VCPopulation.String(),
		m.JuillandD.String(),
		m.CarrollD2.String(),
		m.RosengrenSAdj.String(),
		m.DP.String(),
		m.DPNorm.String(),
		m.KLDivergence.String(),
		m.JSDDispersion.String(),
		m.HellingerDispersion.String(),
		m.MeanTextFrequencyFT.String(),
		m.PervasivenessPT.String(),
		m.EvennessDA.String(),
		m.FTAdjustedByPT.String(),
		m.FTAdjustedByDA.String(),
	}
}
