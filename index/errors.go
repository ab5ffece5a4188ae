// Copyright 2024 Google LLC
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

package index

import "errors"

// ErrCancelled is returned by [Index.FindInsertionPoint] and
// [Index.LongestPrefix] when the caller's interrupt flag was observed set
// mid-search. No partial side effects occur before it is returned.
var ErrCancelled = errors.New("index: search cancelled")
