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


// Package openai implements the generation and resource-search capabilities
// against OpenAI-compatible chat APIs through langchaingo.
//
// Both calls request JSON mode at temperature 0 and tolerate models that
// wrap their answer in markdown code fences or drop opening quotes on
// object keys; responses are stripped and repaired before parsing. The
// generator treats a response that still fails to parse as fatal for the
// record, while the searcher's caller degrades that failure to an empty
// resource list.
package openai
