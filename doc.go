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

// Package dictionary implements the on-disk bilingual dictionary
// container: a header, an entry store of four parallel addressable lists
// (sources, translation pairs, plain text, and HTML titles/bodies), and one
// or more sorted [index.Index] values, each with its own row stream into
// the entry store. Dictionaries are written once by a [Builder] and opened
// read-only thereafter by [Open].
package dictionary
