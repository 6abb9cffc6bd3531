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


// Package ai defines the external enrichment service contracts consumed by
// the pipeline, together with their shared configuration and the response
// shaping rules (resource typing, description truncation) applied at the
// service boundary.
//
// Three capabilities are modeled:
//
//   - ContextFetcher: a best-effort search lookup feeding contextual text
//     into generation. Failures degrade to an empty string.
//   - OverviewGenerator: the mandatory generation call producing the AI
//     overview and rewritten troubleshooting text. Failures here fail the
//     record being enriched.
//   - ResourceSearcher: a best-effort search for curated repair links.
//     Failures degrade to an empty resource list.
//
// Concrete implementations live in subpackages: openai (langchaingo-backed
// generation and resource search), websearch (DuckDuckGo context lookup),
// and mock (injectable test doubles).
//
// Error classification for retry decisions is centralized here:
// IsRateLimited recognizes provider quota failures, the only class of
// failure the pipeline retries with backoff.
package ai
