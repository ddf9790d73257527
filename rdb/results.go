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
	"fmt"
	"mdisp/results"
)

// function names addressable via the work queue
const (
	FuncCorpusDispersion = "corpusDispersion"
)

// CorpusDispersionArgs are arguments of the dispersion analysis
// job. Either CorpusID (resolved against the configured corpora
// root directory) or an explicit file list must be set.
type CorpusDispersionArgs struct {
	CorpusID         string   `json:"corpusId"`
	Files            []string `json:"files,omitempty"`
	ExcludeStopwords bool     `json:"excludeStopwords"`
}

// WorkerResult is a union wrapper for any result type a worker
// may produce. The concrete value is kept serialized so the
// envelope survives the Redis round trip without type loss.
type WorkerResult struct {
	ResultType results.ResultType `json:"resultType"`
	Value      json.RawMessage    `json:"value"`
}

// AttachValue serializes the provided result into the envelope.
// A serialization failure turns the envelope into an error result.
func (wr *WorkerResult) AttachValue(value results.SerializableResult) {
	rawValue, err := json.Marshal(value)
	if err != nil {
		wr.ResultType = results.ResultTypeError
		wr.Value, _ = json.Marshal(results.ErrorResult{
			Error: fmt.Sprintf("failed to serialize worker result: %s", err),
		})
		return
	}
	wr.ResultType = value.Type()
	wr.Value = rawValue
}

func CreateWorkerResult(value results.SerializableResult) (*WorkerResult, error) {
	ans := new(WorkerResult)
	rawValue, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker result: %w", err)
	}
	ans.ResultType = value.Type()
	ans.Value = rawValue
	return ans, nil
}

// TypedResultOf decodes the envelope into the expected concrete
// result type. An envelope carrying an error result (or a type
// mismatch) is reported via the error return.
func TypedResultOf[T results.SerializableResult](wr *WorkerResult) (T, error) {
	var ans T
	if wr.ResultType == results.ResultTypeError {
		var errResult results.ErrorResult
		if err := json.Unmarshal(wr.Value, &errResult); err != nil {
			return ans, fmt.Errorf("failed to decode error result: %w", err)
		}
		return ans, errResult.Err()
	}
	if err := json.Unmarshal(wr.Value, &ans); err != nil {
		return ans, fmt.Errorf("failed to decode result of type %s: %w", wr.ResultType, err)
	}
	if ans.Type() != wr.ResultType {
		return ans, fmt.Errorf(
			"unexpected result type, wanted: %s, found: %s", ans.Type(), wr.ResultType)
	}
	return ans, nil
}
