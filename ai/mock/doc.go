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


// Package mock provides a configurable test double for the ai capability
// interfaces. Inject behavior through the exported function fields and
// assert on call counts; the double is safe for concurrent use so it can be
// shared across pipeline workers in tests.
package mock
