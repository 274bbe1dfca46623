// Copyright 2024 The sortx Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print example invocations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(helpExamples())
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the recognized key data types",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(helpTypes())
	},
}

func helpExamples() string {
	return `Sort a CSV by a single descending numeric field:
  sortx -k amount:num:desc=true -o out.csv in.csv

Sort by name ascending, then amount descending:
  sortx -k name -k amount:num:desc=true -o out.csv in.csv

Natural sort of filenames in a single-column text file:
  sortx --natural -o out.txt names.txt

Drop duplicate rows by id after sorting, reading gzip and writing zstd:
  sortx -k id:num --unique id -o out.jsonl.zst in.jsonl.gz

Force a 16 MB (16,000,000 byte) run size and print statistics:
  sortx -k date:date --memory-limit 16M --stats -o out.csv big.csv
`
}

func helpTypes() string {
	return `str   lexicographic comparison; locale-aware if a tag is set, else code-point order
num   signed integer or floating point; unparseable values sort last
date  RFC 3339 / ISO 8601 date-time, ISO 8601 date, "YYYY-MM-DD HH:MM:SS", or epoch seconds
nat   splits digit and non-digit runs, comparing digit runs as integers (file2 < file10)
`
}
