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
	"fmt"
	"io"
	"strings"

	"github.com/Wintandre/Dictionary/entry"
	"github.com/Wintandre/Dictionary/row"
)

// Print writes a full debug dump of d to out: the header comment, every
// source, and every index with its rows resolved to their entries. No
// stable textual schema is guaranteed across versions of this package;
// this is a debug view, not a serialization format.
func (d *Dictionary) Print(out io.Writer) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	fmt.Fprintf(out, "dictInfo=%s\n", d.info)
	fmt.Fprintf(out, "version=%d createdAt=%s\n", d.version, d.createdAt)

	for i := 0; i < d.NumSources(); i++ {
		s, err := d.Source(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "EntrySource: %s %d\n", s.Name, s.NumEntries)
	}

	for _, idx := range d.indices {
		fmt.Fprintf(out, "Index: %s %s\n", idx.ShortName, idx.LongName)
		for i := 0; i < idx.NumRows(); i++ {
			r, err := idx.Row(i)
			if err != nil {
				return err
			}
			line, err := d.renderRow(r)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

// renderRow produces one line describing r, resolved to its backing entry.
func (d *Dictionary) renderRow(r row.Row) (string, error) {
	v, err := d.Resolve(r)
	if err != nil {
		return "", err
	}
	switch e := v.(type) {
	case entry.Pair:
		sides := make([]string, len(e.Pairs))
		for i, lp := range e.Pairs {
			sides[i] = fmt.Sprintf("%s/%s", lp.A, lp.B)
		}
		return fmt.Sprintf("%s[%d]: %s", r.Kind, r.Reference, strings.Join(sides, "; ")), nil
	case entry.Text:
		return fmt.Sprintf("%s[%d]: %s", r.Kind, r.Reference, e.Text), nil
	case entry.HTML:
		return fmt.Sprintf("%s[%d]: %s", r.Kind, r.Reference, e.Title), nil
	default:
		return fmt.Sprintf("%s[%d]", r.Kind, r.Reference), nil
	}
}
