// Copyright 2021 Google LLC
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

// Package raf implements the "addressable list" primitive the dictionary
// file format is built from: a persisted, ordered sequence of elements,
// openable by byte offset, that supports O(1) random access to element i
// without decoding any of the others.
//
// Two variants are provided. [List] stores elements of varying width behind
// a table of absolute offsets. [UniformList] specializes the same contract
// for fixed-width elements, trading the offset table for a single width and
// a multiplication.
//
// Both read through an io.ReaderAt so that concurrent readers never
// contend over a shared file cursor.
package raf
