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
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/emberfield/faultwise/core"
)

// Sink durably writes the accumulating enriched output. Every flush rewrites
// the complete document (non-empty slots only) plus run metadata, via a temp
// file and rename so a reader never observes a half-written document.
// Flushes from concurrent workers are serialized by a mutex and idempotent:
// flushing the same slot state twice produces identical output apart from
// the metadata timestamp.
type Sink struct {
	mu       sync.Mutex
	path     string
	model    string
	testMode bool
}

// NewSink creates a sink writing to path. Model and testMode are recorded
// in the document metadata on every flush.
func NewSink(path, model string, testMode bool) *Sink {
	return &Sink{
		path:     path,
		model:    model,
		testMode: testMode,
	}
}

// Flush writes all non-empty slots and current run metadata to the output
// file, replacing the previous version atomically.
func (s *Sink) Flush(slots []*core.Fault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*core.Fault, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			records = append(records, slot)
		}
	}

	doc := core.Document{
		Records: records,
		Metadata: core.DocumentMetadata{
			TotalEntries: len(records),
			EnrichedAt:   time.Now().UTC(),
			ModelUsed:    s.model,
			TestMode:     s.testMode,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace output %s: %w", s.path, err)
	}
	return nil
}

// LoadPrevious reads the previously flushed document, if any, and returns
// its records keyed by identity. Used on resume to seed result slots for
// checkpointed indices so an interrupted run converges on the same output
// as an uninterrupted one. A missing file yields an empty map.
func (s *Sink) LoadPrevious() (map[string]*core.Fault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return map[string]*core.Fault{}, nil
	}

	doc, err := core.ReadDocument(s.path)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*core.Fault, len(doc.Records))
	for _, record := range doc.Records {
		if record != nil {
			byKey[record.Key()] = record
		}
	}
	return byKey, nil
}
