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

// Package tagger defines the contract MDISP requires from an
// external tokenization + PoS tagging service and provides an HTTP
// client for such a service. The analysis pipeline depends only on
// the Tagger interface.
package tagger

import "context"

// Token is a single (word form, PoS tag) pair as produced by
// a tagging service. Both values are treated as opaque strings.
type Token struct {
	Word string `json:"word"`
	POS  string `json:"pos"`
}

// Tagger tokenizes and PoS-tags a text. Tokenize must be
// deterministic for identical input. The returned int is the number
// of valid tokens BEFORE stopword removal (the tokens slice already
// reflects the removal when excludeStopwords is true) - corpus part
// sizes used for normalization must not be distorted by the
// filtering policy.
//
// An implementation which is not ready (e.g. a remote service that
// cannot be reached) must return merror.InitError; the pipeline
// treats that as fatal for the whole run, unlike per-document read
// failures.
type Tagger interface {
	Tokenize(ctx context.Context, text string, excludeStopwords bool) ([]Token, int, error)
}

// Service is a Tagger whose readiness can be verified before
// starting a (possibly long) analysis run.
type Service interface {
	Tagger
	Ping(ctx context.Context) error
}
