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


package core

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DocumentMetadata describes a flushed output document as a whole.
type DocumentMetadata struct {
	TotalEntries int       `json:"total_entries"`
	EnrichedAt   time.Time `json:"enriched_at"`
	ModelUsed    string    `json:"model_used"`
	TestMode     bool      `json:"test_mode"`
}

// Document is the durable enriched output: the full record array plus run
// metadata. Every flush rewrites the whole document.
type Document struct {
	Records  []*Fault         `json:"records"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DecodeRecords extracts the fault array from raw JSON. Three shapes are
// accepted: a Document (`{"records": [...]}`), the same wrapped under a
// top-level "data" key, or a bare array.
func DecodeRecords(data []byte) ([]*Fault, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Records != nil {
		return doc.Records, nil
	}

	var nested struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && nested.Data.Records != nil {
		return nested.Data.Records, nil
	}

	var faults []*Fault
	if err := json.Unmarshal(data, &faults); err == nil && faults != nil {
		return faults, nil
	}

	return nil, ErrMalformedDocument
}

// ReadRecords loads and decodes the fault array from a JSON file.
func ReadRecords(path string) ([]*Fault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	faults, err := DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode input %s: %w", path, err)
	}
	if len(faults) == 0 {
		return nil, ErrNoRecords
	}
	return faults, nil
}

// ReadDocument loads a previously flushed output document from a JSON file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	return &doc, nil
}
