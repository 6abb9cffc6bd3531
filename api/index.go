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


package api

import (
	"fmt"
	"os"
	"sort"

	"github.com/emberfield/faultwise/core"
)

// FaultSummary is the list-view projection of a fault: just its code and a
// one-line description.
type FaultSummary struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Index is a read-only in-memory view over an enriched fault document,
// organized for the query API's access paths. Built once at startup; safe
// for concurrent readers.
type Index struct {
	faults  []*core.Fault
	byMaker map[string]map[string][]*core.Fault
}

// NewIndex builds an index over the given records. Records missing identity
// fields are still indexed under their (possibly empty) maker and model.
func NewIndex(faults []*core.Fault) *Index {
	idx := &Index{
		faults:  faults,
		byMaker: make(map[string]map[string][]*core.Fault),
	}
	for _, fault := range faults {
		if fault == nil {
			continue
		}
		models, ok := idx.byMaker[fault.Maker]
		if !ok {
			models = make(map[string][]*core.Fault)
			idx.byMaker[fault.Maker] = models
		}
		models[fault.Model] = append(models[fault.Model], fault)
	}
	return idx
}

// LoadIndex reads an enriched document from disk and indexes its records.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data %s: %w", path, err)
	}
	faults, err := core.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode data %s: %w", path, err)
	}
	return NewIndex(faults), nil
}

// Len returns the number of indexed faults.
func (i *Index) Len() int {
	return len(i.faults)
}

// Makers returns the distinct maker names, sorted.
func (i *Index) Makers() []string {
	makers := make([]string, 0, len(i.byMaker))
	for maker := range i.byMaker {
		makers = append(makers, maker)
	}
	sort.Strings(makers)
	return makers
}

// Models returns the distinct model names for a maker, sorted. An unknown
// maker yields an empty list, not an error.
func (i *Index) Models(maker string) []string {
	byModel := i.byMaker[maker]
	models := make([]string, 0, len(byModel))
	for model := range byModel {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// Faults returns code/description summaries for every fault of a model, in
// document order. Unknown maker or model yields an empty list.
func (i *Index) Faults(maker, model string) []FaultSummary {
	faults := i.byMaker[maker][model]
	summaries := make([]FaultSummary, 0, len(faults))
	for _, fault := range faults {
		summaries = append(summaries, FaultSummary{
			Code:        fault.ErrorCode,
			Description: fault.PossibleCause,
		})
	}
	return summaries
}

// Fault returns the full record for one error code, or core.ErrNotFound.
func (i *Index) Fault(maker, model, errorCode string) (*core.Fault, error) {
	for _, fault := range i.byMaker[maker][model] {
		if fault.ErrorCode == errorCode {
			return fault, nil
		}
	}
	return nil, core.ErrNotFound
}
