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

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/core"
)

// Searcher implements ai.ResourceSearcher using an OpenAI-compatible chat
// API via langchaingo.
type Searcher struct {
	client       llms.Model
	maxResources int
	logger       *slog.Logger
}

// rawResource is the wire shape of a single resource in the model response.
// The type claimed by the model is ignored; classification happens from the
// URL so output typing stays consistent.
type rawResource struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// resourcesPayload is the wrapper structure of the model response.
type resourcesPayload struct {
	HelpfulResources []rawResource `json:"helpful_resources"`
}

// newSearcher is an internal constructor that returns the concrete type.
func newSearcher(config *ai.Config) (*Searcher, error) {
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &Searcher{
		client:       client,
		maxResources: config.MaxResources,
		logger:       slog.Default().With("component", "openai-searcher"),
	}, nil
}

// NewSearcher creates a resource searcher using the provided configuration.
//
// Returns the ai.ResourceSearcher interface to enforce abstraction.
func NewSearcher(config *ai.Config) (ai.ResourceSearcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newSearcher(config)
}

// SearchResources asks the model for repair resources for the fault. An
// empty model response yields an empty list; a response that fails to parse
// after fence stripping and repair is surfaced as ai.ErrMalformedResponse.
func (s *Searcher) SearchResources(ctx context.Context, fault *core.Fault) ([]core.Resource, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(resourcesSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(resourcesPrompt(fault))},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, err
	}

	if len(response.Choices) < 1 {
		s.logger.Debug("no choices in resources response", "fault", fault.Key())
		return []core.Resource{}, nil
	}

	text := stripCodeFences(response.Choices[0].Content)
	if text == "" {
		s.logger.Debug("empty resources response", "fault", fault.Key())
		return []core.Resource{}, nil
	}
	text = repairJSON(text)

	var payload resourcesPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		s.logger.Warn("resources response did not parse",
			"fault", fault.Key(),
			"err", err)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	resources := make([]core.Resource, 0, len(payload.HelpfulResources))
	for _, raw := range payload.HelpfulResources {
		if raw.URL == "" {
			continue
		}
		resources = append(resources, core.Resource{
			Type:        ai.ClassifyResourceURL(raw.URL),
			Title:       raw.Title,
			URL:         raw.URL,
			Description: ai.NormalizeDescription(raw.Description),
		})
		if len(resources) == s.maxResources {
			break
		}
	}

	return resources, nil
}
