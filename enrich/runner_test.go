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


package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/ai/mock"
	"github.com/emberfield/faultwise/core"
)

func writeInput(t *testing.T, dir string, faults []*core.Fault) string {
	t.Helper()
	path := filepath.Join(dir, "input.json")
	data, err := json.Marshal(core.Document{Records: faults})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func testRunConfig(input, output string) *Config {
	cfg := DefaultConfig()
	cfg.InputPath = input
	cfg.OutputPath = output
	cfg.Model = "gpt-4o-mini"
	cfg.Workers = 2
	cfg.BatchSize = 2
	cfg.RateLimit = 0 // unthrottled in tests
	return cfg
}

func newTestRunner(t *testing.T, cfg *Config, client *mock.Client) *Runner {
	t.Helper()
	enricher, err := NewEnricher(client, cfg.Model,
		WithContextFetcher(client),
		WithResourceSearcher(client),
		WithRetryPolicy(testPolicy(cfg.MaxRetries, time.Millisecond)))
	require.NoError(t, err)

	runner, err := NewRunner(cfg, enricher, WithProgressWriter(io.Discard))
	require.NoError(t, err)
	return runner
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []*core.Fault{
		testFault("Vaillant", "ecoTEC", "F28"),
		testFault("Worcester", "Greenstar", "EA"),
		testFault("Vaillant", "ecoTEC", "F28"), // duplicate
		testFault("Baxi", "800", "E133"),
	})
	output := filepath.Join(dir, "enriched.json")

	client := mock.NewClient()
	runner := newTestRunner(t, testRunConfig(input, output), client)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total, "duplicate removed")
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, client.OverviewCalls())

	doc, err := core.ReadDocument(output)
	require.NoError(t, err)
	require.Len(t, doc.Records, 3)
	assert.Equal(t, 3, doc.Metadata.TotalEntries)
	for _, record := range doc.Records {
		require.NotNil(t, record.Enrichment)
		assert.True(t, record.Enrichment.Success)
		assert.NotEmpty(t, record.AIOverview)
	}

	// Clean completion removes the checkpoint.
	_, statErr := os.Stat(CheckpointPath(output))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunnerTestModeCap(t *testing.T) {
	dir := t.TempDir()
	faults := make([]*core.Fault, 8)
	for i := range faults {
		faults[i] = testFault("Maker", "Model", string(rune('A'+i)))
	}
	input := writeInput(t, dir, faults)
	output := filepath.Join(dir, "enriched.json")

	cfg := testRunConfig(input, output)
	cfg.TestMode = true
	cfg.TestCount = 5

	client := mock.NewClient()
	summary, err := newTestRunner(t, cfg, client).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, 5, client.OverviewCalls())

	doc, err := core.ReadDocument(output)
	require.NoError(t, err)
	assert.Len(t, doc.Records, 5)
	assert.True(t, doc.Metadata.TestMode)
}

func TestRunnerCountsFailures(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []*core.Fault{
		testFault("A", "B", "1"),
		testFault("A", "B", "2"),
	})
	output := filepath.Join(dir, "enriched.json")

	client := mock.NewClient()
	client.GenerateOverviewFunc = func(ctx context.Context, fault *core.Fault, searchContext string) (*ai.Overview, error) {
		if fault.ErrorCode == "2" {
			return nil, errors.New("model unavailable")
		}
		return &ai.Overview{AIOverview: "ok", Troubleshooting: "steps"}, nil
	}

	summary, err := newTestRunner(t, testRunConfig(input, output), client).Run(context.Background())
	require.NoError(t, err, "a failed record is an outcome, not a run error")

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	// Failed records still appear in the output with failure metadata.
	doc, err := core.ReadDocument(output)
	require.NoError(t, err)
	require.Len(t, doc.Records, 2)

	var failed *core.Fault
	for _, record := range doc.Records {
		if record.ErrorCode == "2" {
			failed = record
		}
	}
	require.NotNil(t, failed)
	require.NotNil(t, failed.Enrichment)
	assert.False(t, failed.Enrichment.Success)
	assert.Contains(t, failed.Enrichment.Error, "model unavailable")

	// Both outcomes settle the record, so the checkpoint is cleared.
	_, statErr := os.Stat(CheckpointPath(output))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunnerResumeSkipsCompleted(t *testing.T) {
	dir := t.TempDir()
	faults := []*core.Fault{
		testFault("Vaillant", "ecoTEC", "F28"),
		testFault("Worcester", "Greenstar", "EA"),
		testFault("Baxi", "800", "E133"),
	}
	input := writeInput(t, dir, faults)
	output := filepath.Join(dir, "enriched.json")

	// Simulate an interrupted run: indices 0 and 2 settled, their results
	// flushed, index 1 still pending.
	cp := NewCheckpoint(CheckpointPath(output))
	require.NoError(t, cp.Load())
	require.NoError(t, cp.MarkDone(0))
	require.NoError(t, cp.MarkDone(2))

	prior0 := faults[0].Clone()
	prior0.AIOverview = "from the first run"
	prior0.Enrichment = &core.EnrichmentMetadata{Success: true, ModelUsed: "gpt-4o-mini"}
	prior2 := faults[2].Clone()
	prior2.AIOverview = "also from the first run"
	prior2.Enrichment = &core.EnrichmentMetadata{Success: true, ModelUsed: "gpt-4o-mini"}
	sink := NewSink(output, "gpt-4o-mini", false)
	require.NoError(t, sink.Flush([]*core.Fault{prior0, nil, prior2}))

	client := mock.NewClient()
	summary, err := newTestRunner(t, testRunConfig(input, output), client).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, client.OverviewCalls(), "settled records spend no calls")

	doc, err := core.ReadDocument(output)
	require.NoError(t, err)
	require.Len(t, doc.Records, 3)
	assert.Equal(t, "from the first run", doc.Records[0].AIOverview,
		"prior enrichment survives the resume")
	assert.Equal(t, "also from the first run", doc.Records[2].AIOverview)
	require.NotNil(t, doc.Records[1].Enrichment)
	assert.True(t, doc.Records[1].Enrichment.Success)

	_, statErr := os.Stat(CheckpointPath(output))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunnerEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, []*core.Fault{})

	client := mock.NewClient()
	cfg := testRunConfig(input, filepath.Join(dir, "enriched.json"))

	enricher, err := NewEnricher(client, cfg.Model)
	require.NoError(t, err)
	runner, err := NewRunner(cfg, enricher, WithProgressWriter(io.Discard))
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrNoRecords)
}

func TestNewRunnerValidates(t *testing.T) {
	client := mock.NewClient()
	enricher, err := NewEnricher(client, "m")
	require.NoError(t, err)

	_, err = NewRunner(&Config{}, enricher)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRunner(testRunConfig("in.json", "out.json"), nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}
