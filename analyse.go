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

package main

import (
	"context"
	"mdisp/cnf"
	"mdisp/corpus"
	"mdisp/tagger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// resolveAnalyseInput accepts either a single corpus ID (resolved
// against the configured corpora root), a directory path or an
// explicit list of .txt files.
func resolveAnalyseInput(conf *cnf.Conf, args []string) ([]string, error) {
	if len(args) == 1 {
		if isDir, _ := fs.IsDir(args[0]); !isDir {
			if isFile, _ := fs.IsFile(args[0]); !isFile {
				corpPath, err := conf.CorporaSetup.CorpusPath(args[0])
				if err != nil {
					return nil, err
				}
				return corpus.DiscoverFiles([]string{corpPath})
			}
		}
	}
	return corpus.DiscoverFiles(args)
}

// runAnalyse runs the dispersion analysis synchronously, without
// the work queue, and writes the result as CSV either to stdout or
// to the file specified via the -export flag.
func runAnalyse(conf *cnf.Conf, args []string, exportPath string, excludeStopwords bool) {
	files, err := resolveAnalyseInput(conf, args)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve analysis input")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tagg := tagger.NewRemoteTagger(conf.Tagger)
	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	defer cancelPing()
	if err := tagg.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("tagging service is not available")
		return
	}

	var rows []corpus.UnitRow
	var finalSeen bool
	pipeline := corpus.NewPipeline(tagg, excludeStopwords, conf.CorporaSetup.MaxParallelDocs)
	for event := range pipeline.Run(ctx, files) {
		switch event.Type {
		case corpus.EventStatus, corpus.EventPass1Complete, corpus.EventPass2Complete,
			corpus.EventAnalysisComplete:
			log.Info().Msg(event.Message)
		case corpus.EventPass1Progress, corpus.EventPass3Progress:
			log.Info().
				Int("current", event.Current).
				Int("total", event.Total).
				Str("label", event.Label).
				Msg("progress")
		case corpus.EventWarning:
			log.Warn().Msg(event.Message)
		case corpus.EventError:
			log.Error().Msg(event.Message)
		case corpus.EventFinalResults:
			finalSeen = true
			rows = event.Rows
		}
	}
	if !finalSeen {
		log.Fatal().Msg("analysis did not finish")
		return
	}

	out := os.Stdout
	if exportPath != "" {
		out, err = os.Create(exportPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create export file")
			return
		}
		defer out.Close()
	}
	if err := corpus.ExportCSV(out, rows); err != nil {
		log.Fatal().Err(err).Msg("failed to export results")
		return
	}
	if exportPath != "" {
		log.Info().
			Str("file", exportPath).
			Int("numUnits", len(rows)).
			Msg("export finished")
	}
}
