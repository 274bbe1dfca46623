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

//go:generate go run github.com/abice/go-enum -f=$GOFILE --nocase --flag --names
package record

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// ENUM(CSV, TSV, JSONL, TXT)
type Format int

// Codec identifies a transparent compression wrapper around a record
// stream's underlying bytes.
type Codec int

const (
	CodecNone Codec = iota
	CodecGzip
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	default:
		return "none"
	}
}

// IsValid reports whether f is an explicitly specified Format.
func (f Format) IsValid() bool {
	return f != FormatUnspecified
}

// StripCompressionSuffix removes a recognized compression extension from
// name and reports which Codec it implies, so format detection can run
// against the remaining base name per spec.md's "compression suffix
// stripped first" precedence rule.
func StripCompressionSuffix(name string) (base string, codec Codec) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return name[:len(name)-3], CodecGzip
	case strings.HasSuffix(lower, ".zst"):
		return name[:len(name)-4], CodecZstd
	case strings.HasSuffix(lower, ".zstd"):
		return name[:len(name)-5], CodecZstd
	default:
		return name, CodecNone
	}
}

// GuessFormatFromName infers a Format from a file's extension, following
// spec.md §4.2's precedence: csv, tsv/tab, jsonl/ndjson/json, any other
// extension txt. A name with no extension is an error, so Open falls back
// to content sniffing and Create to csv.
func GuessFormatFromName(name string) (Format, error) {
	base, _ := StripCompressionSuffix(name)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	switch ext {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	case "":
		return Format(0), fmt.Errorf("no file extension in %q", name)
	default:
		return FormatTXT, nil
	}
}

const contentPeekSize = 8192

// GuessFormatFromContent inspects a small prefix of r to pick a Format
// when no extension is available (e.g. reading standard input), using the
// same delimited-header heuristics the teacher applies for CSV/TSV.
func GuessFormatFromContent(r *bufio.Reader) (Format, error) {
	buf, _ := r.Peek(contentPeekSize)
	start := bytes.TrimLeftFunc(buf, unicode.IsSpace)
	if len(start) == 0 {
		return Format(0), fmt.Errorf("could not determine data format, input is empty")
	}
	if start[0] == '{' || start[0] == '[' {
		return FormatJSONL, nil
	}
	if line := firstLine(start); line != "" {
		if strings.Contains(line, "\t") {
			return FormatTSV, nil
		}
		if strings.Contains(line, ",") {
			return FormatCSV, nil
		}
	}
	return FormatTXT, nil
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// DetectDelimiter picks the CSV field delimiter by counting occurrences of
// each candidate in the first non-empty line of sample, per spec.md
// §4.2's detection rule; ties are broken in candidate order.
func DetectDelimiter(sample []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	line := firstNonEmptyLine(sample)
	best := candidates[0]
	bestCount := -1
	for _, c := range candidates {
		n := strings.Count(line, string(c))
		if n > bestCount {
			bestCount = n
			best = c
		}
	}
	return best
}

func firstNonEmptyLine(b []byte) string {
	for _, line := range strings.Split(string(b), "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParseMemoryLimit parses a byte-size flag value with optional K, M, G
// decimal-multiplier suffixes, per spec.md §6's --memory-limit grammar.
func ParseMemoryLimit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty memory limit")
	}
	mult := int64(1)
	suffix := s[len(s)-1]
	switch suffix {
	case 'k', 'K':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1_000_000
		s = s[:len(s)-1]
	case 'g', 'G':
		mult = 1_000_000_000
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q: %w", s, err)
	}
	return n * mult, nil
}
