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

// Package row implements the dictionary's Row tagged variant: a one-byte
// kind discriminator plus a 4-byte reference into the corresponding Entry
// Store list, stored as fixed-width (W=5) elements of a
// [raf.UniformList]. The source's original design used a class hierarchy
// per kind (RowBase/PairEntry.Row/TokenRow/TextEntry.Row/HtmlEntry.Row); it
// is replaced here by a tag and a small dispatch table, as the wire format
// already encodes the kind as a small integer.
package row

import (
	"fmt"
	"io"

	"github.com/Wintandre/Dictionary/raf"
)

// Kind discriminates the five row variants.
type Kind byte

const (
	// Pair rows point at an entry.Pair in the Dictionary's pairs list.
	Pair Kind = 0
	// TokenMain rows anchor a run of rows for a main (non-synonym) token
	// and point at the entry.Pair that names it.
	TokenMain Kind = 1
	// Text rows point at an entry.Text.
	Text Kind = 2
	// TokenNonMain rows anchor a run of rows for a synonym token.
	TokenNonMain Kind = 3
	// HTML rows point at an entry.HTML.
	HTML Kind = 4
)

// Width is the encoded size of a Row: one tag byte plus a 4-byte reference.
const Width = 5

// Row is one element of an Index's row stream: a kind tag plus the position
// of the referenced entry within the Entry Store list that kind addresses.
type Row struct {
	Kind      Kind
	Reference int
}

// IsToken reports whether k is one of the two TokenRow kinds: the row kind
// every IndexEntry.StartRow must point at.
func (k Kind) IsToken() bool {
	return k == TokenMain || k == TokenNonMain
}

// String renders k using the name a debug dump would use.
func (k Kind) String() string {
	switch k {
	case Pair:
		return "PairRow"
	case TokenMain:
		return "TokenRow(main)"
	case Text:
		return "TextRow"
	case TokenNonMain:
		return "TokenRow(non-main)"
	case HTML:
		return "HtmlRow"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Decode implements [raf.Decoder] for Row: the format [raf.UniformList]
// encoding used for an Index's row array.
func Decode(r io.Reader, _ int) (Row, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return Row{}, fmt.Errorf("%w: decoding row tag: %v", raf.ErrCorrupt, err)
	}
	kind := Kind(tag[0])
	switch kind {
	case Pair, TokenMain, Text, TokenNonMain, HTML:
	default:
		return Row{}, fmt.Errorf("%w: unknown row tag %d", raf.ErrCorrupt, tag[0])
	}
	ref, err := raf.ReadInt32(r)
	if err != nil {
		return Row{}, fmt.Errorf("decoding row reference: %w", err)
	}
	return Row{Kind: kind, Reference: int(ref)}, nil
}

// Encode implements [raf.Encoder] for Row.
func Encode(w io.Writer, row Row) error {
	if _, err := w.Write([]byte{byte(row.Kind)}); err != nil {
		return fmt.Errorf("encoding row tag: %w", err)
	}
	if err := raf.WriteInt32(w, int32(row.Reference)); err != nil {
		return fmt.Errorf("encoding row reference: %w", err)
	}
	return nil
}
