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

// Text is a plain-text payload row.
type Text struct {
	Source int
	Text   string
}

// DecodeText implements [raf.Decoder] for Text: int16 sourceOrdinal; MUTF8
// text.
func DecodeText(r io.Reader, _ int) (Text, error) {
	ordinal, err := raf.ReadInt16(r)
	if err != nil {
		return Text{}, fmt.Errorf("decoding text source ordinal: %w", err)
	}
	text, err := raf.ReadString(r)
	if err != nil {
		return Text{}, fmt.Errorf("decoding text: %w", err)
	}
	return Text{Source: int(ordinal), Text: text}, nil
}

// EncodeText implements [raf.Encoder] for Text.
func EncodeText(w io.Writer, t Text) error {
	if err := raf.WriteInt16(w, int16(t.Source)); err != nil {
		return fmt.Errorf("encoding text source ordinal: %w", err)
	}
	if err := raf.WriteString(w, t.Text); err != nil {
		return fmt.Errorf("encoding text: %w", err)
	}
	return nil
}
