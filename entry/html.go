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
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/Wintandre/Dictionary/raf"
)

// HTML is an HTML-titled payload row. From v7 on, its body lives separately
// in the dictionary's htmlBodies list and BodyRef is the ordinal into that
// list. Versions 5 and 6 instead inline the compressed body directly after
// the title; a legacy entry decoded from one of those versions carries its
// body in InlineBody and leaves BodyRef unset.
type HTML struct {
	Source     int
	Title      string
	BodyRef    int
	InlineBody *HTMLBody
}

// DecodeHTML implements [raf.Decoder] for HTML: int16 sourceOrdinal; MUTF8
// title; then, for version>=7, int32 bodyRef, or for version 5-6, an inline
// HtmlBody block.
func DecodeHTML(r io.Reader, version int) (HTML, error) {
	ordinal, err := raf.ReadInt16(r)
	if err != nil {
		return HTML{}, fmt.Errorf("decoding html source ordinal: %w", err)
	}
	title, err := raf.ReadString(r)
	if err != nil {
		return HTML{}, fmt.Errorf("decoding html title: %w", err)
	}
	if version < 7 {
		body, err := DecodeHTMLBody(r, version)
		if err != nil {
			return HTML{}, fmt.Errorf("decoding html inline body: %w", err)
		}
		return HTML{Source: int(ordinal), Title: title, InlineBody: &body}, nil
	}
	ref, err := raf.ReadInt32(r)
	if err != nil {
		return HTML{}, fmt.Errorf("decoding html body ref: %w", err)
	}
	return HTML{Source: int(ordinal), Title: title, BodyRef: int(ref)}, nil
}

// EncodeHTML implements [raf.Encoder] for HTML, writing the v7 bodyRef form.
func EncodeHTML(w io.Writer, h HTML) error {
	if err := raf.WriteInt16(w, int16(h.Source)); err != nil {
		return fmt.Errorf("encoding html source ordinal: %w", err)
	}
	if err := raf.WriteString(w, h.Title); err != nil {
		return fmt.Errorf("encoding html title: %w", err)
	}
	if err := raf.WriteInt32(w, int32(h.BodyRef)); err != nil {
		return fmt.Errorf("encoding html body ref: %w", err)
	}
	return nil
}

// EncodeHTMLLegacy writes h in the v5/v6 form, inlining body after the
// title instead of referencing a separate htmlBodies list.
func EncodeHTMLLegacy(w io.Writer, h HTML, body HTMLBody) error {
	if err := raf.WriteInt16(w, int16(h.Source)); err != nil {
		return fmt.Errorf("encoding html source ordinal: %w", err)
	}
	if err := raf.WriteString(w, h.Title); err != nil {
		return fmt.Errorf("encoding html title: %w", err)
	}
	if err := EncodeHTMLBody(w, body); err != nil {
		return fmt.Errorf("encoding html inline body: %w", err)
	}
	return nil
}

// HTMLBody is a gzip-compressed HTML body, stored as its own Addressable
// List element so bodies can be paged in independently of their titles.
type HTMLBody struct {
	UncompressedLen int
	Compressed      []byte
}

// NewHTMLBody gzip-compresses body (UTF-8 HTML text) into an HTMLBody.
func NewHTMLBody(body string) (HTMLBody, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(body)); err != nil {
		return HTMLBody{}, fmt.Errorf("gzip-compressing html body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return HTMLBody{}, fmt.Errorf("closing html body gzip writer: %w", err)
	}
	return HTMLBody{UncompressedLen: len(body), Compressed: buf.Bytes()}, nil
}

// Decompress returns the body's original UTF-8 HTML text.
func (b HTMLBody) Decompress() (string, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b.Compressed))
	if err != nil {
		return "", fmt.Errorf("opening html body gzip reader: %w", err)
	}
	defer zr.Close()
	out := make([]byte, 0, b.UncompressedLen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return "", fmt.Errorf("decompressing html body: %w", err)
	}
	return buf.String(), nil
}

// DecodeHTMLBody implements [raf.Decoder] for HTMLBody: int32
// uncompressedLen; int32 compressedLen; compressedLen bytes of gzip data.
func DecodeHTMLBody(r io.Reader, _ int) (HTMLBody, error) {
	n, err := raf.ReadInt32(r)
	if err != nil {
		return HTMLBody{}, fmt.Errorf("decoding html body uncompressed length: %w", err)
	}
	clen, err := raf.ReadInt32(r)
	if err != nil {
		return HTMLBody{}, fmt.Errorf("decoding html body compressed length: %w", err)
	}
	if clen < 0 {
		return HTMLBody{}, fmt.Errorf("%w: negative html body length", raf.ErrCorrupt)
	}
	data := make([]byte, clen)
	if _, err := io.ReadFull(r, data); err != nil {
		return HTMLBody{}, fmt.Errorf("%w: reading html body: %v", raf.ErrCorrupt, err)
	}
	return HTMLBody{UncompressedLen: int(n), Compressed: data}, nil
}

// EncodeHTMLBody implements [raf.Encoder] for HTMLBody.
func EncodeHTMLBody(w io.Writer, b HTMLBody) error {
	if err := raf.WriteInt32(w, int32(b.UncompressedLen)); err != nil {
		return fmt.Errorf("encoding html body uncompressed length: %w", err)
	}
	if err := raf.WriteInt32(w, int32(len(b.Compressed))); err != nil {
		return fmt.Errorf("encoding html body compressed length: %w", err)
	}
	if _, err := w.Write(b.Compressed); err != nil {
		return fmt.Errorf("encoding html body: %w", err)
	}
	return nil
}
