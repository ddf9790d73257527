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
	"errors"
	"mdisp/corpus"
	"mdisp/merror"
	"mdisp/rdb"
	"mdisp/results"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

// Actions wraps the HTTP endpoints of the dispersion API. The
// actual analysis runs in workers; handlers only translate requests
// into queue jobs and job results into responses.
type Actions struct {
	radapter *rdb.Adapter
	corpora  *corpus.CorporaSetup
}

func NewActions(
	radapter *rdb.Adapter,
	corpora *corpus.CorporaSetup,
) *Actions {
	return &Actions{
		radapter: radapter,
		corpora:  corpora,
	}
}

// errStatus maps application error types to HTTP status codes.
func errStatus(err error) int {
	var errInput merror.InputError
	var errInit merror.InitError
	var errTimeout merror.TimeoutError
	switch {
	case errors.As(err, &errInput):
		return http.StatusUnprocessableEntity
	case errors.As(err, &errInit):
		return http.StatusServiceUnavailable
	case errors.As(err, &errTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// TypedOrRespondError decodes a worker result envelope into the
// expected concrete type. On any failure (incl. an error result
// inside the envelope) it writes an error response and reports
// false.
func TypedOrRespondError[T results.SerializableResult](
	ctx *gin.Context, w *rdb.WorkerResult,
) (T, bool) {
	ans, err := rdb.TypedResultOf[T](w)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			errStatus(err),
		)
		return ans, false
	}
	if resErr := ans.Err(); resErr != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(resErr),
			errStatus(resErr),
		)
		return ans, false
	}
	return ans, true
}
