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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Wintandre/Dictionary"
)

var printCommand = &cli.Command{
	Name:      "print",
	Usage:     "Dump a dictionary's full contents for debugging",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fail("print requires exactly one file")
		}

		d, err := dictionary.Open(c.Args().Get(0))
		if err != nil {
			return err
		}
		defer d.Close()

		return d.Print(os.Stdout)
	},
}
