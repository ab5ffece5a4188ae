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

import (
	"errors"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrUnsupportedLanguage indicates an Index's declared isoLang tag could not
// be parsed into a [language.Tag].
var ErrUnsupportedLanguage = errors.New("index: unsupported language")

// NewCollator returns a Unicode-aware collator for the given BCP 47
// language tag, at the default (tertiary) strength: case and accent
// distinctions are both significant for ordering. This makes strength a
// property of the language
// configuration rather than a per-call option, per the storage engine's
// design.
func NewCollator(isoLang string) (*collate.Collator, error) {
	tag, err := language.Parse(isoLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupportedLanguage, isoLang, err)
	}
	return collate.New(tag), nil
}
