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
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Wintandre/Dictionary/internal/folding"
)

// Normalizer applies a persisted transliterator ruleset to tokens, producing
// a language-neutral sort key. It implements a restricted but practically
// complete subset of ICU transliterator rule syntax: NFD/NFC, Unicode
// general-category removal (only [:Mn:], the mark-nonspacing category
// diacritics fall into), Lower/Upper case folding, single-rune literal
// mappings, and whitespace folding. This is an intentional, constrained
// reinterpretation rather than a full ICU rule-language implementation; see
// the module's grounding ledger for the rationale.
//
// A Normalizer is pure and safe for concurrent use: Normalize builds a fresh
// [transform.Transformer] chain from the parsed step factories on every
// call, so no mutable state is shared between callers.
type Normalizer struct {
	rules string
	steps []func() transform.Transformer
}

// Rules returns the ruleset string the Normalizer was parsed from.
func (n *Normalizer) Rules() string {
	return n.rules
}

// ParseRules compiles rules, an ICU-style transliterator rules string (e.g.
// ":: NFD ; :: [:Mn:] Remove ; :: NFC ;" or ":: Lower ;"), into a Normalizer.
// An empty string is valid; its Normalizer only trims leading and trailing
// whitespace.
func ParseRules(rules string) (*Normalizer, error) {
	n := &Normalizer{rules: rules}
	for _, stmt := range strings.Split(rules, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		step, err := parseStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("index: parsing normalizer rule %q: %w", stmt, err)
		}
		if step != nil {
			n.steps = append(n.steps, step)
		}
	}
	return n, nil
}

func parseStatement(stmt string) (func() transform.Transformer, error) {
	if rest, ok := cutGlobalRule(stmt); ok {
		switch rest {
		case "NFD":
			return func() transform.Transformer { return norm.NFD }, nil
		case "NFC":
			return func() transform.Transformer { return norm.NFC }, nil
		case "[:Mn:] Remove":
			return func() transform.Transformer {
				return runes.Remove(runes.In(unicode.Mn))
			}, nil
		case "Lower":
			return func() transform.Transformer { return cases.Lower(language.Und) }, nil
		case "Upper":
			return func() transform.Transformer { return cases.Upper(language.Und) }, nil
		case "FoldSpace":
			return func() transform.Transformer { return folding.New(' ') }, nil
		default:
			return nil, fmt.Errorf("unsupported global rule %q", rest)
		}
	}

	if from, to, ok := cutLiteralMapping(stmt); ok {
		return func() transform.Transformer { return &literalMapper{from: from, to: to} }, nil
	}

	return nil, fmt.Errorf("unrecognized rule syntax")
}

// cutGlobalRule recognizes the "::" global-transform statement form, e.g.
// ":: NFD" (the trailing ";" is already stripped by the caller's Split).
func cutGlobalRule(stmt string) (string, bool) {
	rest, ok := strings.CutPrefix(stmt, "::")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// cutLiteralMapping recognizes a single-rune literal rule of the form
// "x > y", which transliterates every occurrence of the rune x to the rune
// y.
func cutLiteralMapping(stmt string) (from, to rune, ok bool) {
	parts := strings.SplitN(stmt, ">", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lhs := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[1])
	lr := []rune(lhs)
	rr := []rune(rhs)
	if len(lr) != 1 || len(rr) != 1 {
		return 0, 0, false
	}
	return lr[0], rr[0], true
}

// literalMapper transliterates a single source rune to a single
// replacement rune, leaving everything else untouched.
type literalMapper struct {
	from, to rune
}

func (m *literalMapper) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && size == 1 && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if c == m.from {
			c = m.to
		}
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		nSrc += size
	}
	return nDst, nSrc, nil
}

func (m *literalMapper) Reset() {}

// Normalize applies the ruleset to s.
func (n *Normalizer) Normalize(s string) (string, error) {
	if len(n.steps) == 0 {
		return strings.TrimSpace(s), nil
	}
	transformers := make([]transform.Transformer, len(n.steps))
	for i, f := range n.steps {
		transformers[i] = f()
	}
	out, _, err := transform.String(transform.Chain(transformers...), s)
	if err != nil {
		return "", fmt.Errorf("index: normalizing %q: %w", s, err)
	}
	return out, nil
}
