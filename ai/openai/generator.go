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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/core"
)

// Generator implements ai.OverviewGenerator using an OpenAI-compatible chat
// API via langchaingo.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates an overview generator using the provided
// configuration. The config is validated before use.
//
// Returns the ai.OverviewGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.OverviewGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newGenerator(config)
}

// GenerateOverview asks the model for the fault overview and rewritten
// troubleshooting text. Markdown code fences around the answer are stripped
// and common JSON malformations repaired before parsing; a response that
// still fails to parse is surfaced as ai.ErrMalformedResponse.
func (g *Generator) GenerateOverview(ctx context.Context, fault *core.Fault, searchContext string) (*ai.Overview, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(overviewSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(overviewPrompt(fault, searchContext))},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}

	text := stripCodeFences(response.Choices[0].Content)
	if text == "" {
		return nil, ai.ErrEmptyResponse
	}
	text = repairJSON(text)

	var overview ai.Overview
	if err := json.Unmarshal([]byte(text), &overview); err != nil {
		g.logger.Warn("overview response did not parse",
			"fault", fault.Key(),
			"err", err)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	return &overview, nil
}

// newChatClient builds the langchaingo client shared by the generator and
// the resource searcher.
func newChatClient(config *ai.Config) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	return openai.New(opts...)
}
