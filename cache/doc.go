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

// Package cache decorates a random-access, lazily-decoded element source
// (a [github.com/Wintandre/Dictionary/raf.List] or
// [github.com/Wintandre/Dictionary/raf.UniformList]) with a bounded LRU, or
// with eager full decoding at construction time ("fully cached").
package cache
