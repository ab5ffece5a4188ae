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

package main

import (
	"fmt"

	"github.com/k3a/html2text"
	"github.com/urfave/cli/v2"

	"github.com/Wintandre/Dictionary"
	"github.com/Wintandre/Dictionary/entry"
	"github.com/Wintandre/Dictionary/row"
)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "Find the insertion point for a query in every index of a dictionary",
	ArgsUsage: "FILE QUERY",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fail("query requires a file and a query string")
		}
		path, query := c.Args().Get(0), c.Args().Get(1)

		d, err := dictionary.Open(path)
		if err != nil {
			return err
		}
		defer d.Close()

		for _, idx := range d.Indices() {
			e, err := idx.FindInsertionPoint(query, nil)
			if err != nil {
				fmt.Printf("%s: %v\n", idx.ShortName, err)
				continue
			}
			fmt.Printf("%s: %s\n", idx.ShortName, e.Token)

			rows, err := idx.Rows(e)
			if err != nil {
				return err
			}
			for _, r := range rows {
				if err := printRow(d, r); err != nil {
					return err
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func printRow(d *dictionary.Dictionary, r row.Row) error {
	v, err := d.Resolve(r)
	if err != nil {
		return err
	}
	switch e := v.(type) {
	case entry.Pair:
		for _, lp := range e.Pairs {
			fmt.Printf("  %s -> %s\n", lp.A, lp.B)
		}
	case entry.Text:
		fmt.Printf("  %s\n", e.Text)
	case entry.HTML:
		body, err := d.HTMLBodyFor(e)
		if err != nil {
			return err
		}
		html, err := body.Decompress()
		if err != nil {
			return err
		}
		fmt.Printf("  %s: %s\n", e.Title, html2text.HTML2Text(html))
	}
	return nil
}
