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

package worker

import (
	"context"
	"fmt"
	"mdisp/corpus"
	"mdisp/rdb"
	"mdisp/tagger"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTagger struct {
	pingErr error
}

func (ft *fakeTagger) Ping(ctx context.Context) error {
	return ft.pingErr
}

func (ft *fakeTagger) Tokenize(
	ctx context.Context, text string, excludeStopwords bool,
) ([]tagger.Token, int, error) {
	fields := strings.Fields(text)
	ans := make([]tagger.Token, 0, len(fields))
	for _, f := range fields {
		ans = append(ans, tagger.Token{Word: f, POS: "N"})
	}
	return ans, len(fields), nil
}

func prepareCorpus(t *testing.T, corpusID string, docs ...string) *corpus.CorporaSetup {
	rootDir := t.TempDir()
	corpDir := filepath.Join(rootDir, corpusID)
	if err := os.Mkdir(corpDir, 0o777); err != nil {
		t.Fatal(err)
	}
	for i, doc := range docs {
		path := filepath.Join(corpDir, fmt.Sprintf("doc%d.txt", i))
		if err := os.WriteFile(path, []byte(doc), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return &corpus.CorporaSetup{RootDir: rootDir, MaxParallelDocs: 2}
}

func TestCorpusDispersionJob(t *testing.T) {
	w := &Worker{
		corpora: prepareCorpus(t, "intro", "one two one", "two three"),
		tagg:    &fakeTagger{},
	}
	res := w.corpusDispersion(rdb.CorpusDispersionArgs{CorpusID: "intro"})
	assert.NoError(t, res.Err())
	assert.Equal(t, 2, res.NumParts)
	assert.Equal(t, 5.0, res.CorpusSize)
	assert.Len(t, res.Rows, 3)
	assert.Empty(t, res.Warnings)
}

func TestCorpusDispersionJobUnknownCorpus(t *testing.T) {
	w := &Worker{
		corpora: prepareCorpus(t, "intro", "one two"),
		tagg:    &fakeTagger{},
	}
	res := w.corpusDispersion(rdb.CorpusDispersionArgs{CorpusID: "no-such-corpus"})
	assert.Error(t, res.Err())
	assert.Empty(t, res.Rows)
}

func TestCorpusDispersionJobTaggerDown(t *testing.T) {
	w := &Worker{
		corpora: prepareCorpus(t, "intro", "one two"),
		tagg:    &fakeTagger{pingErr: fmt.Errorf("tagging service not ready")},
	}
	res := w.corpusDispersion(rdb.CorpusDispersionArgs{CorpusID: "intro"})
	assert.ErrorContains(t, res.Err(), "not ready")
	assert.Empty(t, res.Rows)
}
