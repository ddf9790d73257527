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
	"fmt"
	"mdisp/corpus"
	"mdisp/rdb"
	"mdisp/results"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

func (a *Actions) publishDispersionQuery(
	ctx *gin.Context,
) (*results.CorpusDispersion, bool) {
	args := rdb.CorpusDispersionArgs{
		CorpusID:         ctx.Param("corpusId"),
		ExcludeStopwords: ctx.Request.URL.Query().Get("excludeStopwords") == "1",
	}
	query, err := rdb.NewQuery(rdb.FuncCorpusDispersion, args)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return nil, false
	}
	wait, err := a.radapter.CacheResult(a.radapter.PublishQuery, query)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return nil, false
	}
	rawResult := <-wait
	return TypedOrRespondError[*results.CorpusDispersion](ctx, rawResult)
}

// Dispersion runs (or fetches from the cache) the dispersion
// analysis of the whole corpus and returns metrics of all its
// (word, PoS) units as JSON.
func (a *Actions) Dispersion(ctx *gin.Context) {
	result, ok := a.publishDispersionQuery(ctx)
	if !ok {
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		result,
	)
}

// DispersionExport returns the analysis result as a CSV file
// download, one row per unit.
func (a *Actions) DispersionExport(ctx *gin.Context) {
	result, ok := a.publishDispersionQuery(ctx)
	if !ok {
		return
	}
	ctx.Writer.Header().Set("Content-Type", "text/csv")
	ctx.Writer.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s-dispersion.csv\"", ctx.Param("corpusId")),
	)
	ctx.Writer.WriteHeader(http.StatusOK)
	if err := corpus.ExportCSV(ctx.Writer, result.Rows); err != nil {
		// headers are already sent, we can only log the failure
		_ = ctx.Error(err)
	}
}
