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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/Wintandre/Dictionary"
)

var infoCommand = &cli.Command{
	Name:      "info",
	Usage:     "Print a dictionary's header metadata without decoding entries",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fail("info requires exactly one file")
		}

		info := dictionary.Info(c.Args().Get(0))
		fmt.Printf("Path:    %s\n", info.Path)
		fmt.Printf("Size:    %d bytes\n", info.Size)
		fmt.Printf("Version: %d\n", info.Version)
		fmt.Printf("Created: %s\n", info.CreatedAt)
		fmt.Printf("Comment: %s\n", info.Comment)

		tbl := table.New("Index", "Long name", "Entries")
		for _, idx := range info.Indices {
			tbl.AddRow(idx.ShortName, idx.LongName, idx.NumEntries)
		}
		tbl.Print()
		return nil
	},
}
