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

package results

import (
	"encoding/json"
	"errors"

	"mdisp/corpus"
)

const (
	ResultTypeCorpusDispersion = "corpusDispersion"
	ResultTypeError            = "error"
)

type ResultType string

func (rt ResultType) String() string {
	return string(rt)
}

type SerializableResult interface {
	Type() ResultType
	Err() error
}

// ----

// CorpusDispersion is the complete outcome of one analysis run -
// one row per vocabulary unit plus run statistics. A cancelled or
// aborted run produces no rows (never a partial list).
type CorpusDispersion struct {

	// CorpusSize is the total token count of the corpus (before
	// stopword filtering)
	CorpusSize float64

	// NumParts is the number of corpus parts (documents)
	NumParts int

	Rows []corpus.UnitRow

	// Warnings collects non-fatal issues (e.g. unreadable
	// documents) so a client can tell "degraded but completed"
	// from "failed"
	Warnings []string

	// Cancelled is true when the run was interrupted by the client
	Cancelled bool

	Error string
}

func (res *CorpusDispersion) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

func (res *CorpusDispersion) Type() ResultType {
	return ResultTypeCorpusDispersion
}

func (res *CorpusDispersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CorpusSize float64          `json:"corpusSize"`
		NumParts   int              `json:"numParts"`
		NumUnits   int              `json:"numUnits"`
		Rows       []corpus.UnitRow `json:"rows"`
		Warnings   []string         `json:"warnings,omitempty"`
		Cancelled  bool             `json:"cancelled,omitempty"`
		ResultType ResultType       `json:"resultType"`
		Error      string           `json:"error,omitempty"`
	}{
		CorpusSize: res.CorpusSize,
		NumParts:   res.NumParts,
		NumUnits:   len(res.Rows),
		Rows:       res.Rows,
		Warnings:   res.Warnings,
		Cancelled:  res.Cancelled,
		ResultType: res.Type(),
		Error:      res.Error,
	})
}

// ----

type ErrorResult struct {
	Func  string `json:"func"`
	Error string `json:"error"`
}

func (res *ErrorResult) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

func (res *ErrorResult) Type() ResultType {
	return ResultTypeError
}
