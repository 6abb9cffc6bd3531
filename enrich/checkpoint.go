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
	"sort"
	"strings"
	"sync"
)

// checkpointFile is the durable shape of the progress checkpoint.
type checkpointFile struct {
	ProcessedIndices []int `json:"processedIndices"`
}

// Checkpoint is the durable record of which input indices have completed
// processing, enabling a killed run to resume without redoing work. Both
// successful and failed records are marked done, so a failed record is not
// retried on resume (a known gap: a transient failure permanently excludes
// the record until the checkpoint is deleted).
//
// MarkDone persists the whole set on every call and is safe for concurrent
// workers.
type Checkpoint struct {
	mu   sync.Mutex
	path string
	done map[int]struct{}
}

// CheckpointPath derives the checkpoint location from the output path:
// "out.json" becomes "out_progress.json".
func CheckpointPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, ".json") + "_progress.json"
}

// NewCheckpoint creates a checkpoint bound to the given file. Call Load
// before use.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{
		path: path,
		done: make(map[int]struct{}),
	}
}

// Load reconstructs the completed-index set from durable storage. A missing
// file means a fresh run and loads an empty set.
func (c *Checkpoint) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load checkpoint %s: %w", c.path, err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode checkpoint %s: %w", c.path, err)
	}

	c.done = make(map[int]struct{}, len(file.ProcessedIndices))
	for _, idx := range file.ProcessedIndices {
		c.done[idx] = struct{}{}
	}
	return nil
}

// Done reports whether the index has already completed processing.
func (c *Checkpoint) Done(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.done[index]
	return ok
}

// Count returns how many indices have completed processing.
func (c *Checkpoint) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.done)
}

// MarkDone adds the index to the completed set and durably persists the
// updated set before returning.
func (c *Checkpoint) MarkDone(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done[index] = struct{}{}
	return c.persist()
}

// Clear removes the durable checkpoint. Called only after a fully
// successful run. Clearing a checkpoint that was never written is not an
// error.
func (c *Checkpoint) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done = make(map[int]struct{})
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear checkpoint %s: %w", c.path, err)
	}
	return nil
}

// persist writes the full set atomically (temp file then rename). Must be
// called with the lock held.
func (c *Checkpoint) persist() error {
	indices := make([]int, 0, len(c.done))
	for idx := range c.done {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	data, err := json.Marshal(checkpointFile{ProcessedIndices: indices})
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace checkpoint %s: %w", c.path, err)
	}
	return nil
}
