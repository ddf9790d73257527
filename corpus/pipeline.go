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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"mdisp/dispersion"
	"mdisp/merror"
	"mdisp/tagger"

	"github.com/rs/zerolog/log"
)

const (
	// zeroFreqEpsilon - frequencies below are treated as zero
	zeroFreqEpsilon = 1e-9

	pass3ProgressStep    = 50
	pass3CancelCheckStep = 64
)

// DocReader obtains the raw text of a corpus part. A failed read
// (including undecodable content) is recovered by treating the
// document as empty - it is never fatal for a run.
type DocReader interface {
	ReadDoc(path string) (string, error)
}

type osDocReader struct{}

func (osDocReader) ReadDoc(path string) (string, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(rawData) {
		return "", fmt.Errorf("file %s is not valid UTF-8", filepath.Base(path))
	}
	return string(rawData), nil
}

// Pipeline runs the three-phase dispersion analysis:
// 1) per-document tokenization and counting,
// 2) merging per-document counts into a corpus-wide vocabulary,
// 3) per-unit metric calculation.
// The phases are strictly sequential - pass 2 needs every part size
// final before normalization is meaningful and pass 3 needs the
// complete vocabulary. A Pipeline holds no run state and is
// reentrant across independent runs.
type Pipeline struct {
	tagger           tagger.Tagger
	reader           DocReader
	excludeStopwords bool
	maxParallelDocs  int
}

func NewPipeline(tg tagger.Tagger, excludeStopwords bool, maxParallelDocs int) *Pipeline {
	if maxParallelDocs <= 0 {
		maxParallelDocs = dfltMaxParallelDocs
	}
	return &Pipeline{
		tagger:           tg,
		reader:           osDocReader{},
		excludeStopwords: excludeStopwords,
		maxParallelDocs:  maxParallelDocs,
	}
}

// Run starts the analysis over the given document paths and returns
// the event stream. The returned channel is closed once the run
// terminates (normally, cancelled or failed). Cancellation via ctx
// is checked before dispatching each document in pass 1 and at unit
// batch boundaries in pass 3; a cancelled run never emits
// finalResults so a consumer cannot mistake a half-built aggregate
// for a complete one.
func (p *Pipeline) Run(ctx context.Context, files []string) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		p.run(ctx, files, events)
	}()
	return events
}

// docOutcome is a single pass-1 completion notice. Sizes and counts
// are written directly into index-partitioned slots by the workers;
// outcomes only carry warnings/errors and drive progress reporting.
type docOutcome struct {
	idx     int
	warning string
	err     error
}

func (p *Pipeline) run(ctx context.Context, files []string, events chan<- Event) {
	numParts := len(files)
	if numParts == 0 {
		events <- Event{Type: EventStatus, Message: "no .txt files found to process"}
		events <- Event{Type: EventFinalResults, Rows: []UnitRow{}}
		return
	}

	events <- Event{
		Type:    EventStatus,
		Message: fmt.Sprintf("pass 1: processing %d texts (tokenization, tagging, counting)", numParts),
	}
	sizes := make([]float64, numParts)
	counts := make([]map[Unit]float64, numParts)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	jobs := make(chan int)
	outcomes := make(chan docOutcome)
	var wg sync.WaitGroup
	for range p.maxParallelDocs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes <- p.processDoc(runCtx, files[idx], idx, sizes, counts)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case <-runCtx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var fatalErr error
	var numDone int
	for outcome := range outcomes {
		numDone++
		if outcome.err != nil {
			if fatalErr == nil {
				fatalErr = outcome.err
				cancelRun()
			}
			continue
		}
		if outcome.warning != "" {
			events <- Event{Type: EventWarning, Message: outcome.warning}
		}
		events <- Event{
			Type:    EventPass1Progress,
			Current: numDone,
			Total:   numParts,
			Label:   filepath.Base(files[outcome.idx]),
		}
	}
	if fatalErr != nil {
		events <- Event{
			Type:    EventError,
			Message: fmt.Sprintf("analysis failed: %s", fatalErr),
		}
		return
	}
	if ctx.Err() != nil {
		events <- Event{Type: EventStatus, Message: "analysis cancelled"}
		return
	}
	var totalSize float64
	for _, s := range sizes {
		totalSize += s
	}
	events <- Event{Type: EventPass1Complete, Message: "pass 1 complete", CorpusSize: totalSize}

	if totalSize < zeroFreqEpsilon {
		events <- Event{
			Type:    EventStatus,
			Message: "total corpus size (after tokenization) is zero - dispersion analysis is not possible",
		}
		events <- Event{Type: EventFinalResults, Rows: []UnitRow{}}
		return
	}

	events <- Event{Type: EventStatus, Message: "pass 2: aggregating frequencies for all (word, PoS) units"}
	voc := NewVocabulary(numParts)
	for i, cnt := range counts {
		voc.AddPartCounts(i, cnt)
	}
	events <- Event{Type: EventPass2Complete, Message: "pass 2 complete"}

	units := voc.Units()
	events <- Event{
		Type:    EventStatus,
		Message: fmt.Sprintf("pass 3: calculating dispersion metrics for %d units", len(units)),
	}
	rows := make([]UnitRow, 0, len(units))
	for i, u := range units {
		if i%pass3CancelCheckStep == 0 && ctx.Err() != nil {
			events <- Event{Type: EventStatus, Message: "analysis cancelled"}
			return
		}
		freq := voc.TotalFrequency(u)
		if freq < zeroFreqEpsilon {
			// cannot happen with a correctly built vocabulary
			continue
		}
		row, err := p.analyzeUnit(u, freq, voc.DenseVector(u), sizes, totalSize)
		if err != nil {
			events <- Event{
				Type:    EventError,
				Message: fmt.Sprintf("failed to analyze unit %s (frequency %.0f): %s", u, freq, err),
			}
			continue
		}
		rows = append(rows, row)
		if (i+1)%pass3ProgressStep == 0 || i == len(units)-1 {
			events <- Event{
				Type:    EventPass3Progress,
				Current: i + 1,
				Total:   len(units),
				Label:   u.String(),
			}
		}
	}
	events <- Event{Type: EventAnalysisComplete, Message: "corpus analysis complete"}
	events <- Event{Type: EventFinalResults, Rows: rows, CorpusSize: totalSize}
}

// processDoc reads and tokenizes a single document, storing its
// size and unit counts into the run's index-partitioned slots.
// Read failures degrade to an empty document with a warning. Tagger
// failures are fatal for the whole run.
func (p *Pipeline) processDoc(
	ctx context.Context,
	path string,
	idx int,
	sizes []float64,
	counts []map[Unit]float64,
) docOutcome {
	outcome := docOutcome{idx: idx}
	text, err := p.reader.ReadDoc(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to read document")
		outcome.warning = fmt.Sprintf(
			"file %s could not be read (%s), treating as empty", filepath.Base(path), err)
		return outcome
	}
	if strings.TrimSpace(text) == "" {
		outcome.warning = fmt.Sprintf("file %s is empty, skipped", filepath.Base(path))
		return outcome
	}
	tokens, validTokenCount, err := p.tagger.Tokenize(ctx, text, p.excludeStopwords)
	if err != nil {
		outcome.err = err
		return outcome
	}
	// the size reflects valid tokens before stopword removal so
	// normalization denominators are not distorted by the filtering
	sizes[idx] = float64(validTokenCount)
	cnt := make(map[Unit]float64)
	for _, tk := range tokens {
		cnt[Unit{Word: tk.Word, POS: tk.POS}]++
	}
	counts[idx] = cnt
	return outcome
}

// analyzeUnit runs the metric engine for one unit with panic
// recovery - a failure affects just the single unit, never the
// whole run.
func (p *Pipeline) analyzeUnit(
	u Unit,
	freq float64,
	v []float64,
	sizes []float64,
	totalSize float64,
) (row UnitRow, ansErr error) {
	defer func() {
		if r := recover(); r != nil {
			ansErr = merror.PanicValueToErr(r)
		}
	}()
	analyzer, err := dispersion.NewAnalyzer(v, sizes, totalSize)
	if err != nil {
		return row, err
	}
	return UnitRow{
		Word:           u.Word,
		POS:            u.POS,
		TotalFrequency: freq,
		Metrics:        analyzer.CalculateAll(),
	}, nil
}
