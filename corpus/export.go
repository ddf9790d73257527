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
	"encoding/csv"
	"io"
	"strconv"
	"unicode/utf8"

	"mdisp/dispersion"
)

// baseColumns precede the metric columns in exported tables
var baseColumns = []string{"word", "pos", "numChars", "totalFrequency"}

// ExportCSV writes one header row plus one row per unit. Metric
// values are formatted with four decimal places; non-finite values
// use the literals inf, -inf and nan. numChars is the number of
// characters (runes) of the word form.
func ExportCSV(w io.Writer, rows []UnitRow) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(baseColumns)+16)
	header = append(header, baseColumns...)
	header = append(header, dispersion.ColumnNames()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, 0, len(header))
		rec = append(
			rec,
			row.Word,
			row.POS,
			strconv.Itoa(utf8.RuneCountInString(row.Word)),
			strconv.FormatFloat(row.TotalFrequency, 'f', -1, 64),
		)
		rec = append(rec, row.Metrics.ColumnValues()...)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
