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


package ai

import "errors"

// Config holds configuration for the external enrichment services.
type Config struct {
	// Model is the generation model identifier.
	// Example: "gpt-4o-mini"
	Model string

	// Token is the API key for the generation service. Required: the
	// generation capability is mandatory, so a missing token is a
	// startup-time configuration error rather than a degraded mode.
	Token string

	// BaseURL overrides the service endpoint for OpenAI-compatible
	// providers. Empty means the provider default.
	BaseURL string

	// MaxResources caps how many resource links a search returns.
	// Default: 5
	MaxResources int

	// ContextResults is the number of search hits folded into the
	// contextual text for generation. Default: 3
	ContextResults int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithModel sets the generation model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the generation API key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithBaseURL sets a custom endpoint for OpenAI-compatible providers.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithMaxResources sets the maximum number of resource links per fault.
func WithMaxResources(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResources = n
	}
}

// WithContextResults sets the number of search hits used for context.
func WithContextResults(n int) ConfigOption {
	return func(c *Config) {
		c.ContextResults = n
	}
}

// DefaultConfig returns a Config with sensible defaults. The token must
// still be supplied before the config validates.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4o-mini",
		MaxResources:   5,
		ContextResults: 3,
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithModel("gpt-4o-mini"),
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Token == "" {
		return ErrMissingAPIKey
	}
	if c.MaxResources < 1 {
		return errors.New("ai config: MaxResources must be at least 1")
	}
	if c.ContextResults < 1 {
		return errors.New("ai config: ContextResults must be at least 1")
	}
	return nil
}
