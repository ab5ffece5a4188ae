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

package dictionary

import (
	"errors"
	"fmt"
)

// CurrentVersion is the newest file format version this package writes.
const CurrentVersion = 7

// sentinel is the MUTF-8 string that must terminate every dictionary file.
const sentinel = "END OF DICTIONARY"

// ErrUnsupportedVersion is returned by [Open] when the header version is
// outside [0, CurrentVersion].
var ErrUnsupportedVersion = errors.New("dictionary: unsupported version")

// ErrClosed is returned by the Dictionary methods that read entries, rows or
// indices (Source, Pair, Text, HTMLEntry, HTMLBody, Index, Resolve, Print)
// when called after [Dictionary.Close].
var ErrClosed = errors.New("dictionary: closed")

// ErrUnsupportedWriteVersion is returned by [Builder.WriteV6] and
// [Builder.Write] for a version neither writer supports, and in particular
// for skipHTML requested against v7, which is rejected per the container's
// external interface contract.
var ErrUnsupportedWriteVersion = errors.New("dictionary: unsupported write version")

func errUnsupportedVersion(version int32) error {
	return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
}
