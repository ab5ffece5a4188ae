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

// LangPair is one translation pair belonging to a Pair entry. Which side is
// "A" and which is "B" is fixed by the containing Index's SwapPairEntries
// flag, not by this type.
type LangPair struct {
	A string
	B string
}

// Pair is a translation-pair payload row: a Source ordinal and one or more
// language pairs.
type Pair struct {
	Source int
	Pairs  []LangPair
}

// DecodePair implements [raf.Decoder] for Pair: int16 sourceOrdinal; int32
// numPairs; numPairs x (MUTF8 langA; MUTF8 langB).
func DecodePair(r io.Reader, _ int) (Pair, error) {
	ordinal, err := raf.ReadInt16(r)
	if err != nil {
		return Pair{}, fmt.Errorf("decoding pair source ordinal: %w", err)
	}
	n, err := raf.ReadInt32(r)
	if err != nil {
		return Pair{}, fmt.Errorf("decoding pair count: %w", err)
	}
	if n < 0 {
		return Pair{}, fmt.Errorf("%w: negative pair count", raf.ErrCorrupt)
	}
	var pairs []LangPair
	if n > 0 {
		pairs = make([]LangPair, n)
	}
	for i := range pairs {
		a, err := raf.ReadString(r)
		if err != nil {
			return Pair{}, fmt.Errorf("decoding pair %d side A: %w", i, err)
		}
		b, err := raf.ReadString(r)
		if err != nil {
			return Pair{}, fmt.Errorf("decoding pair %d side B: %w", i, err)
		}
		pairs[i] = LangPair{A: a, B: b}
	}
	return Pair{Source: int(ordinal), Pairs: pairs}, nil
}

// EncodePair implements [raf.Encoder] for Pair.
func EncodePair(w io.Writer, p Pair) error {
	if err := raf.WriteInt16(w, int16(p.Source)); err != nil {
		return fmt.Errorf("encoding pair source ordinal: %w", err)
	}
	if err := raf.WriteInt32(w, int32(len(p.Pairs))); err != nil {
		return fmt.Errorf("encoding pair count: %w", err)
	}
	for i, lp := range p.Pairs {
		if err := raf.WriteString(w, lp.A); err != nil {
			return fmt.Errorf("encoding pair %d side A: %w", i, err)
		}
		if err := raf.WriteString(w, lp.B); err != nil {
			return fmt.Errorf("encoding pair %d side B: %w", i, err)
		}
	}
	return nil
}
