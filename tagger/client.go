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

package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mdisp/merror"

	"github.com/czcorpus/cnc-gokit/httpclient"
)

const (
	dfltRequestTimeoutSecs  = 60
	dfltIdleConnTimeoutSecs = 60
)

type Conf struct {
	// ServiceURL is the address of a tagging service exposing
	// the /tokenize action
	ServiceURL string `json:"serviceUrl"`

	RequestTimeoutSecs int `json:"requestTimeoutSecs"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.ServiceURL == "" {
		return fmt.Errorf("missing tagger.serviceUrl")
	}
	if conf.RequestTimeoutSecs == 0 {
		conf.RequestTimeoutSecs = dfltRequestTimeoutSecs
	}
	return nil
}

type tokenizeRequest struct {
	Text             string `json:"text"`
	ExcludeStopwords bool   `json:"excludeStopwords"`
}

type tokenizeResponse struct {
	Tokens          []Token `json:"tokens"`
	ValidTokenCount int     `json:"validTokenCount"`
	Error           string  `json:"error,omitempty"`
}

// RemoteTagger calls an external tokenization + tagging service
// over HTTP. It is safe for concurrent use.
type RemoteTagger struct {
	serviceURL string
	client     *http.Client
}

// Ping tests whether the remote service is up. A failing Ping at
// run start is the fatal-initialization case - the analysis does
// not start at all.
func (rt *RemoteTagger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rt.serviceURL+"/status", nil)
	if err != nil {
		return merror.InitError{Msg: err.Error()}
	}
	resp, err := rt.client.Do(req)
	if err != nil {
		return merror.InitError{Msg: fmt.Sprintf("tagger service not ready: %s", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return merror.InitError{Msg: fmt.Sprintf("tagger service not ready: status %d", resp.StatusCode)}
	}
	return nil
}

func (rt *RemoteTagger) Tokenize(
	ctx context.Context,
	text string,
	excludeStopwords bool,
) ([]Token, int, error) {
	body, err := json.Marshal(tokenizeRequest{Text: text, ExcludeStopwords: excludeStopwords})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode tokenize request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, rt.serviceURL+"/tokenize", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create tokenize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := rt.client.Do(req)
	if err != nil {
		return nil, 0, merror.InitError{Msg: fmt.Sprintf("tagger service not ready: %s", err)}
	}
	defer resp.Body.Close()
	rawAns, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read tokenize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, merror.InternalError{
			Msg: fmt.Sprintf("tokenize request failed with status %d", resp.StatusCode)}
	}
	var ans tokenizeResponse
	if err := json.Unmarshal(rawAns, &ans); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tokenize response: %w", err)
	}
	if ans.Error != "" {
		return nil, 0, merror.InternalError{Msg: ans.Error}
	}
	return ans.Tokens, ans.ValidTokenCount, nil
}

func NewRemoteTagger(conf *Conf) *RemoteTagger {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = dfltIdleConnTimeoutSecs * time.Second
	return &RemoteTagger{
		serviceURL: conf.ServiceURL,
		client: &http.Client{
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
}
