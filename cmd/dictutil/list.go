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
	"os"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/Wintandre/Dictionary"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "List dictionaries found under one or more directories",
	ArgsUsage: "DIR...",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return fail("list requires at least one directory")
		}

		var dicts []*dictionary.Dictionary
		for _, dir := range c.Args().Slice() {
			found, errs := dictionary.OpenAll(dir)
			for _, err := range errs {
				fmt.Fprintln(os.Stderr, err)
			}
			dicts = append(dicts, found...)
		}
		defer func() {
			for _, d := range dicts {
				d.Close()
			}
		}()

		tbl := table.New("Path", "Version", "Indices", "Entries")
		for _, d := range dicts {
			entries := 0
			names := make([]string, 0, len(d.Indices()))
			for _, idx := range d.Indices() {
				entries += idx.Size()
				names = append(names, idx.ShortName)
			}
			tbl.AddRow(d.Path(), d.Version(), names, entries)
		}
		tbl.Print()

		return nil
	},
}
