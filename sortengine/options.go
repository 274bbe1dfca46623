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
	"os"

	"golang.org/x/text/language"

	"github.com/sortx/sortx/record"
)

// DefaultMemoryLimit is the Run Generator's default buffer budget, 256 MiB
// per spec.md §4.5.
const DefaultMemoryLimit int64 = 256 * 1024 * 1024

// Options configures a Sort. The zero value is usable except that a zero
// MemoryLimit is replaced by DefaultMemoryLimit, a zero TempDir falls back
// to SORTX_TMPDIR then os.TempDir, and Unstable must be set explicitly to
// turn off the stable-by-default behavior spec.md §4.5 requires (so a
// library caller who never touches Options gets the spec's default, not
// Go's zero-value false).
type Options struct {
	MemoryLimit int64 // bytes; <= 0 means DefaultMemoryLimit

	Unique    record.Selector // zero value + !HasUnique means no dedup
	HasUnique bool
	Natural   bool // synthesize a nat key over field 0 when Keys is empty
	SkipBlank bool
	Unstable  bool // sort.Slice instead of sort.SliceStable; default is stable
	Locale    language.Tag
	TempDir   string

	FormatIn  record.Format
	FormatOut record.Format
	CodecIn   record.Codec
	CodecOut  record.Codec
	DelimIn   rune
	DelimOut  rune
}

func (o Options) memoryLimit() int64 {
	if o.MemoryLimit <= 0 {
		return DefaultMemoryLimit
	}
	return o.MemoryLimit
}

// stable reports whether equal-keyed records should keep their relative
// input order, true unless the caller explicitly opts out.
func (o Options) stable() bool {
	return !o.Unstable
}

func (o Options) tempDir() string {
	if o.TempDir != "" {
		return o.TempDir
	}
	if d := os.Getenv("SORTX_TMPDIR"); d != "" {
		return d
	}
	return os.TempDir()
}

// Stats reports the measurements a Sort collects while running, per
// spec.md §3's Statistics tuple.
type Stats struct {
	LinesProcessed         int64
	RunsGenerated          int64
	PeakMemoryBytesEstimate int64
	ProcessingTimeSeconds  float64
	InputPath              string
	OutputPath             string
}
