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

package handlers

import (
	"mdisp/corpus"
	"net/http"
	"os"
	"sort"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

type corpusInfo struct {
	ID      string `json:"id"`
	NumDocs int    `json:"numDocs"`
}

// Corplist lists available corpora, i.e. the subdirectories of the
// configured corpora root along with their document counts.
func (a *Actions) Corplist(ctx *gin.Context) {
	entries, err := os.ReadDir(a.corpora.RootDir)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	ans := make([]corpusInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		corpPath, err := a.corpora.CorpusPath(entry.Name())
		if err != nil {
			continue
		}
		files, err := corpus.DiscoverFiles([]string{corpPath})
		if err != nil {
			continue
		}
		ans = append(ans, corpusInfo{ID: entry.Name(), NumDocs: len(files)})
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].ID < ans[j].ID })
	uniresp.WriteJSONResponse(ctx.Writer, map[string]any{"corpora": ans})
}
