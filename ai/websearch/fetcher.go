// Copyright 2026 Emberfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package websearch implements the best-effort context lookup against
// DuckDuckGo through the langchaingo tool. No credentials are needed, so a
// fetcher is always available; failures degrade to empty context upstream.
package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/tools/duckduckgo"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/core"
)

const userAgent = "Mozilla/5.0 (compatible; faultwise/1.0)"

// Fetcher implements ai.ContextFetcher using DuckDuckGo web search.
type Fetcher struct {
	tool   *duckduckgo.Tool
	logger *slog.Logger
}

// NewFetcher creates a context fetcher returning up to maxResults search
// hits per fault.
//
// Returns the ai.ContextFetcher interface to enforce abstraction.
func NewFetcher(maxResults int) (ai.ContextFetcher, error) {
	if maxResults < 1 {
		maxResults = 1
	}

	tool, err := duckduckgo.New(maxResults, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo tool: %w", err)
	}

	return &Fetcher{
		tool:   tool,
		logger: slog.Default().With("component", "websearch"),
	}, nil
}

// FetchContext searches for the fault and returns the combined result text.
// No results is not an error; the empty string is returned instead.
func (f *Fetcher) FetchContext(ctx context.Context, fault *core.Fault) (string, error) {
	query := searchQuery(fault)

	out, err := f.tool.Call(ctx, query)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	f.logger.Debug("fetched search context", "fault", fault.Key(), "bytes", len(out))
	return out, nil
}

// searchQuery builds the search string from the fault identity.
func searchQuery(fault *core.Fault) string {
	parts := make([]string, 0, 4)
	if fault.Maker != "" {
		parts = append(parts, fault.Maker)
	}
	if fault.Model != "" {
		parts = append(parts, fault.Model)
	}
	parts = append(parts, "fault code")
	if fault.ErrorCode != "" {
		parts = append(parts, fault.ErrorCode)
	}
	return strings.Join(parts, " ") + " fix"
}
