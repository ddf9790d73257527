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
	"mdisp/corpus"
	"mdisp/merror"
	"mdisp/rdb"
	"mdisp/results"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

const (
	taggerPingTimeout = 10 * time.Second
)

func (w *Worker) resolveInputFiles(args rdb.CorpusDispersionArgs) ([]string, error) {
	if len(args.Files) > 0 {
		return corpus.DiscoverFiles(args.Files)
	}
	corpPath, err := w.corpora.CorpusPath(args.CorpusID)
	if err != nil {
		return nil, err
	}
	if isDir, _ := fs.IsDir(corpPath); !isDir {
		return nil, merror.InputError{Msg: "unknown corpus: " + args.CorpusID}
	}
	return corpus.DiscoverFiles([]string{corpPath})
}

// corpusDispersion runs the three-pass dispersion analysis for the
// requested corpus and folds the pipeline's event stream into a
// single result record.
func (w *Worker) corpusDispersion(args rdb.CorpusDispersionArgs) *results.CorpusDispersion {
	ans := new(results.CorpusDispersion)
	files, err := w.resolveInputFiles(args)
	if err != nil {
		ans.Error = err.Error()
		return ans
	}
	ans.NumParts = len(files)

	ctx := context.Background()
	pingCtx, cancelPing := context.WithTimeout(ctx, taggerPingTimeout)
	defer cancelPing()
	if err := w.tagg.Ping(pingCtx); err != nil {
		ans.Error = err.Error()
		return ans
	}

	pipeline := corpus.NewPipeline(w.tagg, args.ExcludeStopwords, w.corpora.MaxParallelDocs)
	var finalSeen bool
	var errMessages []string
	for event := range pipeline.Run(ctx, files) {
		switch event.Type {
		case corpus.EventStatus:
			log.Info().
				Str("corpusId", args.CorpusID).
				Msg(event.Message)
		case corpus.EventPass1Progress, corpus.EventPass3Progress:
			log.Debug().
				Str("corpusId", args.CorpusID).
				Int("current", event.Current).
				Int("total", event.Total).
				Str("label", event.Label).
				Str("eventType", string(event.Type)).
				Msg("analysis progress")
		case corpus.EventWarning:
			log.Warn().
				Str("corpusId", args.CorpusID).
				Msg(event.Message)
			ans.Warnings = append(ans.Warnings, event.Message)
		case corpus.EventError:
			log.Error().
				Str("corpusId", args.CorpusID).
				Msg(event.Message)
			errMessages = append(errMessages, event.Message)
		case corpus.EventFinalResults:
			finalSeen = true
			ans.Rows = event.Rows
			ans.CorpusSize = event.CorpusSize
		}
	}
	if finalSeen {
		// unit-level failures with a finished run degrade to warnings
		ans.Warnings = append(ans.Warnings, errMessages...)

	} else if len(errMessages) > 0 {
		ans.Error = errMessages[len(errMessages)-1]

	} else {
		ans.Error = "analysis ended without producing results"
	}
	return ans
}
