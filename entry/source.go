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

package entry

import (
	"fmt"
	"io"

	"github.com/Wintandre/Dictionary/raf"
)

// Source is a named provenance for dictionary rows, such as a wordlist or
// corpus that contributed entries. Its ordinal is its position in the
// Dictionary's sources list; every Pair, Text and HTML entry references a
// Source by that ordinal.
type Source struct {
	Name       string
	NumEntries int
}

// DecodeSource implements [raf.Decoder] for Source: MUTF8 name; int32
// numEntries.
func DecodeSource(r io.Reader, _ int) (Source, error) {
	name, err := raf.ReadString(r)
	if err != nil {
		return Source{}, fmt.Errorf("decoding source name: %w", err)
	}
	n, err := raf.ReadInt32(r)
	if err != nil {
		return Source{}, fmt.Errorf("decoding source numEntries: %w", err)
	}
	return Source{Name: name, NumEntries: int(n)}, nil
}

// EncodeSource implements [raf.Encoder] for Source.
func EncodeSource(w io.Writer, s Source) error {
	if err := raf.WriteString(w, s.Name); err != nil {
		return fmt.Errorf("encoding source name: %w", err)
	}
	if err := raf.WriteInt32(w, int32(s.NumEntries)); err != nil {
		return fmt.Errorf("encoding source numEntries: %w", err)
	}
	return nil
}
