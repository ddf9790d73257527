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

import "mdisp/dispersion"

type EventType string

const (
	EventStatus           EventType = "status"
	EventPass1Progress    EventType = "pass1Progress"
	EventPass1Complete    EventType = "pass1Complete"
	EventPass2Complete    EventType = "pass2Complete"
	EventPass3Progress    EventType = "pass3Progress"
	EventWarning          EventType = "warning"
	EventError            EventType = "error"
	EventAnalysisComplete EventType = "analysisComplete"
	EventFinalResults     EventType = "finalResults"
)

// UnitRow is one line of the final result - a vocabulary unit with
// its corpus-wide frequency and the calculated metrics record.
type UnitRow struct {
	Word           string             `json:"word"`
	POS            string             `json:"pos"`
	TotalFrequency float64            `json:"totalFrequency"`
	Metrics        dispersion.Metrics `json:"metrics"`
}

// Event is a single tagged item of the pipeline's event stream.
// Events are emitted by a single goroutine and thus strictly
// ordered: all pass1* events precede pass2Complete, which precedes
// all pass3* events, which precede analysisComplete and the
// terminal finalResults. finalResults is emitted at most once per
// run and always last; cancelled and failed runs emit none.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`

	// Current and Total carry pass 1/3 progress
	Current int `json:"current,omitempty"`
	Total   int `json:"total,omitempty"`

	// Label identifies the currently processed document (pass 1)
	// or unit (pass 3)
	Label string `json:"label,omitempty"`

	// CorpusSize is the total token count over all documents,
	// attached to pass1Complete and finalResults
	CorpusSize float64 `json:"corpusSize,omitempty"`

	// Rows is attached to the finalResults event only
	Rows []UnitRow `json:"rows,omitempty"`
}
