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

// Package corpus implements the corpus aggregation pipeline - the
// multi-pass accumulation of per-document (word, PoS) counts into
// a corpus-wide vocabulary and the per-unit dispersion metric
// calculation on top of it.
package corpus

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	dfltMaxParallelDocs = 4
)

// CorporaSetup configures where MDISP looks for analyzable corpora.
// Each corpus is a directory of plain text documents.
type CorporaSetup struct {
	// RootDir is a directory containing one subdirectory per corpus
	RootDir string `json:"rootDir"`

	// MaxParallelDocs limits the number of documents tokenized
	// concurrently during pass 1
	MaxParallelDocs int `json:"maxParallelDocs"`
}

func (cs *CorporaSetup) ValidateAndDefaults(confContext string) error {
	if cs == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if cs.RootDir == "" {
		return fmt.Errorf("missing `%s.rootDir`", confContext)
	}
	if cs.MaxParallelDocs == 0 {
		cs.MaxParallelDocs = dfltMaxParallelDocs
	}
	return nil
}

// CorpusPath translates a corpus identifier into its directory
// path. Identifiers containing path separators or parent references
// are rejected.
func (cs *CorporaSetup) CorpusPath(corpusID string) (string, error) {
	if corpusID == "" || strings.ContainsAny(corpusID, `/\`) || strings.Contains(corpusID, "..") {
		return "", fmt.Errorf("invalid corpus identifier: %s", corpusID)
	}
	return filepath.Join(cs.RootDir, corpusID), nil
}
