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

package sortengine

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/sortx/sortx/record"
	"github.com/sortx/sortx/sortkey"
)

func mustKeys(t *testing.T, specs ...string) []sortkey.KeySpec {
	t.Helper()
	ks, err := sortkey.ParseKeySpecs(specs)
	if err != nil {
		t.Fatalf("ParseKeySpecs(%v) error: %v", specs, err)
	}
	return ks
}

func TestSortFileNumericAscending(t *testing.T) {
	input := "amount\n30\n10\n20\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatCSV},
		record.Sink{Writer: &out, Format: record.FormatCSV},
		mustKeys(t, "amount:num"), Options{})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	want := "amount\n10\n20\n30\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortFileMultiKeyDescendingSecondary(t *testing.T) {
	input := "name,amount\nbob,5\nalice,20\nalice,10\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatCSV},
		record.Sink{Writer: &out, Format: record.FormatCSV},
		mustKeys(t, "name", "amount:num:desc=true"), Options{})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	want := "name,amount\nalice,20\nalice,10\nbob,5\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortFileNaturalSort(t *testing.T) {
	input := "file2\nfile10\nfile1\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatTXT},
		record.Sink{Writer: &out, Format: record.FormatTXT},
		nil, Options{Natural: true})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	want := "file1\nfile2\nfile10\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortFileDefaultKeyWhenNoneGiven(t *testing.T) {
	// No -k keys and no --natural: sort must fall back to a stable whole-line
	// comparison under code-point order (spec.md §8), not a no-op pass-through
	// of input order.
	input := "banana\napple\ncherry\napple\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatTXT},
		record.Sink{Writer: &out, Format: record.FormatTXT},
		nil, Options{})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	want := "apple\napple\nbanana\ncherry\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortFileUniqueOnKeyField(t *testing.T) {
	input := "id,name\n1,a\n2,b\n1,c\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatCSV},
		record.Sink{Writer: &out, Format: record.FormatCSV},
		mustKeys(t, "id:num"), Options{HasUnique: true, Unique: record.ParseSelector("id")})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	// id=1's first occurrence in the original input (name=a) survives; the
	// later duplicate (name=c) is dropped, even though sorted and input order
	// coincide here (the ordering-independent case is covered separately by
	// TestSortFileUniqueSurvivorIsFirstInInputNotFirstInSortedOrder).
	want := "id,name\n1,a\n2,b\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

// TestSortFileUniqueSurvivorIsFirstInInputNotFirstInSortedOrder reproduces
// the case where the unique selector is orthogonal to the sort key, so the
// sorted/merged order of a dedup class has no relationship to its input
// order: id 1 appears twice, first with score 95, later with score 92.
// Sorting by score ascending puts 92 before 95, so a merge that kept
// "first popped off the heap" would wrongly surface the score-92 record.
// The correct, spec-required survivor is the one that appeared first in
// the original input: score 95.
func TestSortFileUniqueSurvivorIsFirstInInputNotFirstInSortedOrder(t *testing.T) {
	input := "id,score\n1,95\n2,87\n1,92\n3,91\n"
	var out bytes.Buffer
	_, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(input), Format: record.FormatCSV},
		record.Sink{Writer: &out, Format: record.FormatCSV},
		mustKeys(t, "score:num"), Options{HasUnique: true, Unique: record.ParseSelector("id")})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	want := "id,score\n2,87\n3,91\n1,95\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestSortFileForcesSpillWithSmallMemoryLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("amount\n")
	for i := 50; i > 0; i-- {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("\n")
	}
	var out bytes.Buffer
	stats, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(sb.String()), Format: record.FormatCSV},
		record.Sink{Writer: &out, Format: record.FormatCSV},
		mustKeys(t, "amount:num"), Options{MemoryLimit: 256})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	if stats.RunsGenerated < 2 {
		t.Fatalf("RunsGenerated = %d, want at least 2 with a tiny memory limit", stats.RunsGenerated)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 51 { // header + 50 records
		t.Fatalf("got %d lines, want 51", len(lines))
	}
	if lines[1] != "1" || lines[50] != "50" {
		t.Fatalf("output not fully sorted: first=%q last=%q", lines[1], lines[50])
	}
}

// TestSortFileSpillsPositionalRecordsLosslessly forces a spill on a plain
// text (Positional) input sorted with --natural and asserts the final
// order is fully correct, not run-ordinal order: the internal run codec
// must round-trip a Positional record (and the index-0 selector --natural
// resolves against) exactly, unlike the public JSONL writer/reader, which
// would fold every spilled line into a Named record and break index
// resolution on the way back out.
func TestSortFileSpillsPositionalRecordsLosslessly(t *testing.T) {
	var sb strings.Builder
	for i := 50; i > 0; i-- {
		sb.WriteString("file")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("\n")
	}
	var out bytes.Buffer
	stats, err := SortFile(context.Background(),
		record.Source{Reader: strings.NewReader(sb.String()), Format: record.FormatTXT},
		record.Sink{Writer: &out, Format: record.FormatTXT},
		nil, Options{Natural: true, MemoryLimit: 256})
	if err != nil {
		t.Fatalf("SortFile() error: %v", err)
	}
	if stats.RunsGenerated < 2 {
		t.Fatalf("RunsGenerated = %d, want at least 2 with a tiny memory limit", stats.RunsGenerated)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("got %d lines, want 50", len(lines))
	}
	if lines[0] != "file1" || lines[49] != "file50" {
		t.Fatalf("output not naturally sorted: first=%q last=%q", lines[0], lines[49])
	}
}

func TestSortIterInMemory(t *testing.T) {
	recs := []*record.Record{
		record.NewNamed(record.Field{Name: "n", Value: record.Int(3)}),
		record.NewNamed(record.Field{Name: "n", Value: record.Int(1)}),
		record.NewNamed(record.Field{Name: "n", Value: record.Int(2)}),
	}
	reader := SortIter(recs, mustKeys(t, "n:num"), Options{})
	var got []int64
	for {
		r, err := reader.Next()
		if err != nil {
			break
		}
		v, _ := r.Get("n")
		got = append(got, v.Int)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("SortIter() order = %v, want [1 2 3]", got)
	}
}
