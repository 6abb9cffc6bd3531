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


package mock

import (
	"context"
	"sync"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/core"
)

// Client is a test double implementing all three ai capabilities. Behavior
// is injected via function fields; call counts are tracked under a mutex so
// concurrent pipeline workers can share one instance.
type Client struct {
	// FetchContextFunc is called by FetchContext if set.
	// If nil, FetchContext returns an empty string.
	FetchContextFunc func(ctx context.Context, fault *core.Fault) (string, error)

	// GenerateOverviewFunc is called by GenerateOverview if set.
	// If nil, a deterministic overview derived from the fault key is returned.
	GenerateOverviewFunc func(ctx context.Context, fault *core.Fault, searchContext string) (*ai.Overview, error)

	// SearchResourcesFunc is called by SearchResources if set.
	// If nil, a single article resource is returned.
	SearchResourcesFunc func(ctx context.Context, fault *core.Fault) ([]core.Resource, error)

	mu            sync.Mutex
	contextCalls  int
	overviewCalls int
	resourceCalls int
}

// NewClient creates a mock client with default behaviors.
// Note: returns the concrete type so tests can inject behavior and inspect
// call counts.
func NewClient() *Client {
	return &Client{}
}

// FetchContext returns injected or default (empty) context.
func (c *Client) FetchContext(ctx context.Context, fault *core.Fault) (string, error) {
	c.mu.Lock()
	c.contextCalls++
	c.mu.Unlock()

	if c.FetchContextFunc != nil {
		return c.FetchContextFunc(ctx, fault)
	}
	return "", nil
}

// GenerateOverview returns injected or default deterministic output.
func (c *Client) GenerateOverview(ctx context.Context, fault *core.Fault, searchContext string) (*ai.Overview, error) {
	c.mu.Lock()
	c.overviewCalls++
	c.mu.Unlock()

	if c.GenerateOverviewFunc != nil {
		return c.GenerateOverviewFunc(ctx, fault, searchContext)
	}
	return &ai.Overview{
		AIOverview:      "overview for " + fault.Key(),
		Troubleshooting: "troubleshooting for " + fault.Key(),
	}, nil
}

// SearchResources returns injected or default single-article output.
func (c *Client) SearchResources(ctx context.Context, fault *core.Fault) ([]core.Resource, error) {
	c.mu.Lock()
	c.resourceCalls++
	c.mu.Unlock()

	if c.SearchResourcesFunc != nil {
		return c.SearchResourcesFunc(ctx, fault)
	}
	return []core.Resource{
		{
			Type:        core.ResourceTypeArticle,
			Title:       "Guide for " + fault.ErrorCode,
			URL:         "https://example.com/" + fault.ErrorCode,
			Description: "how to fix " + fault.ErrorCode,
		},
	}, nil
}

// Close is a no-op for the mock client.
func (c *Client) Close() error {
	return nil
}

// ContextCalls returns how many times FetchContext was invoked.
func (c *Client) ContextCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contextCalls
}

// OverviewCalls returns how many times GenerateOverview was invoked.
func (c *Client) OverviewCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overviewCalls
}

// ResourceCalls returns how many times SearchResources was invoked.
func (c *Client) ResourceCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resourceCalls
}

// Reset clears call counts and injected functions.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contextCalls = 0
	c.overviewCalls = 0
	c.resourceCalls = 0
	c.FetchContextFunc = nil
	c.GenerateOverviewFunc = nil
	c.SearchResourcesFunc = nil
}
