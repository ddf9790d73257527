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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mdisp/merror"
	"mdisp/tagger"

	"github.com/stretchr/testify/assert"
)

// fakeTagger splits text on whitespace; a token "word_P" becomes
// (word, P), anything else gets the PoS tag "N".
type fakeTagger struct {
	stopwords map[string]bool
	failWith  error
}

func (ft *fakeTagger) Tokenize(
	ctx context.Context,
	text string,
	excludeStopwords bool,
) ([]tagger.Token, int, error) {
	if ft.failWith != nil {
		return nil, 0, ft.failWith
	}
	fields := strings.Fields(text)
	ans := make([]tagger.Token, 0, len(fields))
	for _, f := range fields {
		if excludeStopwords && ft.stopwords[f] {
			continue
		}
		word, pos, ok := strings.Cut(f, "_")
		if !ok {
			pos = "N"
		}
		ans = append(ans, tagger.Token{Word: word, POS: pos})
	}
	return ans, len(fields), nil
}

func writeCorpus(t *testing.T, docs ...string) []string {
	t.Helper()
	dir := t.TempDir()
	ans := make([]string, len(docs))
	for i, doc := range docs {
		ans[i] = filepath.Join(dir, "doc"+string(rune('a'+i))+".txt")
		assert.NoError(t, os.WriteFile(ans[i], []byte(doc), 0644))
	}
	return ans
}

func collectEvents(ch <-chan Event) []Event {
	var ans []Event
	for evt := range ch {
		ans = append(ans, evt)
	}
	return ans
}

func eventsOfType(events []Event, et EventType) []Event {
	var ans []Event
	for _, evt := range events {
		if evt.Type == et {
			ans = append(ans, evt)
		}
	}
	return ans
}

func finalRows(t *testing.T, events []Event) []UnitRow {
	t.Helper()
	final := eventsOfType(events, EventFinalResults)
	assert.Equal(t, 1, len(final))
	return final[0].Rows
}

func TestPipelineBasicRun(t *testing.T) {
	files := writeCorpus(t, "a b a", "b b", "a")
	p := NewPipeline(&fakeTagger{}, false, 2)
	events := collectEvents(p.Run(context.Background(), files))

	rows := finalRows(t, events)
	byWord := make(map[string]UnitRow)
	for _, row := range rows {
		byWord[row.Word] = row
	}
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, 3.0, byWord["a"].TotalFrequency)
	assert.Equal(t, 3.0, byWord["b"].TotalFrequency)
	// unit "a" occurs in parts 0 and 2, unit "b" in parts 0 and 1
	assert.Equal(t, 2, byWord["a"].Metrics.Range)
	assert.Equal(t, 2, byWord["b"].Metrics.Range)

	// aggregation round-trip: per-unit totals sum to the corpus
	// token count
	var sum float64
	for _, row := range rows {
		sum += row.TotalFrequency
	}
	assert.Equal(t, 6.0, sum)
}

func TestPipelineEventOrdering(t *testing.T) {
	files := writeCorpus(t, "a b", "c d", "e")
	p := NewPipeline(&fakeTagger{}, false, 3)
	events := collectEvents(p.Run(context.Background(), files))

	lastPos := func(et EventType) int {
		ans := -1
		for i, evt := range events {
			if evt.Type == et {
				ans = i
			}
		}
		return ans
	}
	firstPos := func(et EventType) int {
		for i, evt := range events {
			if evt.Type == et {
				return i
			}
		}
		return -1
	}
	assert.Less(t, lastPos(EventPass1Progress), firstPos(EventPass1Complete))
	assert.Less(t, lastPos(EventPass1Complete), firstPos(EventPass2Complete))
	assert.Less(t, lastPos(EventPass2Complete), firstPos(EventPass3Progress))
	assert.Less(t, lastPos(EventPass3Progress), firstPos(EventAnalysisComplete))
	assert.Less(t, lastPos(EventAnalysisComplete), firstPos(EventFinalResults))
	assert.Equal(t, EventFinalResults, events[len(events)-1].Type)
}

func TestPipelineStopwordPolicy(t *testing.T) {
	// stopwords are excluded from unit counts while part sizes
	// keep reflecting the unfiltered token count
	files := writeCorpus(t, "the cat the dog", "the cat")
	ft := &fakeTagger{stopwords: map[string]bool{"the": true}}
	p := NewPipeline(ft, true, 1)
	events := collectEvents(p.Run(context.Background(), files))

	rows := finalRows(t, events)
	byWord := make(map[string]UnitRow)
	for _, row := range rows {
		byWord[row.Word] = row
	}
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, 2.0, byWord["cat"].TotalFrequency)
	// p_i uses the pre-filtering sizes: cat density is 1/4 and 1/2
	assert.InDelta(t, (0.25+0.5)/2, float64(byWord["cat"].Metrics.MeanTextFrequencyFT), 1e-9)
}

func TestPipelineUnreadableDoc(t *testing.T) {
	files := writeCorpus(t, "a b", "c a", "x")
	// invalid UTF-8 content cannot be decoded => DocumentReadFailure
	assert.NoError(t, os.WriteFile(files[2], []byte{0xff, 0xfe, 0x80}, 0644))

	p := NewPipeline(&fakeTagger{}, false, 2)
	events := collectEvents(p.Run(context.Background(), files))

	warnings := eventsOfType(events, EventWarning)
	assert.Equal(t, 1, len(warnings))
	assert.Contains(t, warnings[0].Message, "docc.txt")

	rows := finalRows(t, events)
	byWord := make(map[string]UnitRow)
	for _, row := range rows {
		byWord[row.Word] = row
	}
	// the unreadable document contributes nothing
	_, containsX := byWord["x"]
	assert.False(t, containsX)
	assert.Equal(t, 2.0, byWord["a"].TotalFrequency)
}

func TestPipelineNoInputFiles(t *testing.T) {
	p := NewPipeline(&fakeTagger{}, false, 2)
	events := collectEvents(p.Run(context.Background(), []string{}))
	assert.Equal(t, 0, len(finalRows(t, events)))
}

func TestPipelineZeroSizeCorpus(t *testing.T) {
	files := writeCorpus(t, "   ", "\n\t")
	p := NewPipeline(&fakeTagger{}, false, 2)
	events := collectEvents(p.Run(context.Background(), files))
	assert.Equal(t, 0, len(finalRows(t, events)))
	// empty documents are reported but not fatal
	assert.Equal(t, 2, len(eventsOfType(events, EventWarning)))
}

func TestPipelineCancelledBeforeStart(t *testing.T) {
	files := writeCorpus(t, "a b", "c d")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(&fakeTagger{}, false, 2)
	events := collectEvents(p.Run(ctx, files))
	// a cancelled run reports no final results
	assert.Equal(t, 0, len(eventsOfType(events, EventFinalResults)))
}

func TestPipelineTaggerFailureIsFatal(t *testing.T) {
	files := writeCorpus(t, "a b", "c d")
	ft := &fakeTagger{failWith: merror.InitError{Msg: "tagger service not ready"}}
	p := NewPipeline(ft, false, 2)
	events := collectEvents(p.Run(context.Background(), files))
	assert.Equal(t, 0, len(eventsOfType(events, EventFinalResults)))
	errors := eventsOfType(events, EventError)
	assert.Equal(t, 1, len(errors))
	assert.Contains(t, errors[0].Message, "not ready")
}
