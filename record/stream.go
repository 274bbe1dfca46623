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

package record

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Source describes where a Record Stream's bytes come from and how to
// interpret them: a file path (always restartable), or an arbitrary
// io.Reader supplied by the caller (never restartable), plus format/codec
// overrides matching spec.md §6's --format-in/--codec-in flags.
type Source struct {
	Path   string // "-" means standard input; "" means Reader is set directly
	Reader io.Reader
	Format Format // FormatUnspecified autodetects
	Codec  Codec  // CodecNone with Path set still autodetects from extension
	Delim  rune   // 0 autodetects for csv/tsv
}

// Restartable reports whether Open can be called again to get a fresh pass
// over the same data - true for file paths, false for an injected Reader,
// per spec.md §4.2's Restartability contract.
func (s Source) Restartable() bool { return s.Path != "" && s.Path != "-" }

// Open returns a Reader over s, resolving format and compression codec
// overrides, extension, and content sniffing in that precedence order.
func Open(s Source) (Reader, Format, error) {
	var rc io.ReadCloser
	name := s.Path
	if s.Reader != nil {
		rc = io.NopCloser(s.Reader)
	} else if s.Path == "" || s.Path == "-" {
		rc = io.NopCloser(os.Stdin)
		name = "(standard input)"
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, 0, fmt.Errorf("opening %s: %w", s.Path, err)
		}
		rc = f
	}

	codec := s.Codec
	base := s.Path
	if codec == CodecNone && s.Path != "" && s.Path != "-" {
		base, codec = StripCompressionSuffix(s.Path)
	}
	decompressed, err := WrapReader(rc, codec)
	if err != nil {
		rc.Close()
		return nil, 0, fmt.Errorf("opening %s: %w", name, err)
	}

	br := bufio.NewReaderSize(decompressed, 64*1024)
	format := s.Format
	if !format.IsValid() {
		if base != "" && base != "-" {
			if f, err := GuessFormatFromName(base); err == nil {
				format = f
			}
		}
		if !format.IsValid() {
			f, err := GuessFormatFromContent(br)
			if err != nil {
				decompressed.Close()
				return nil, 0, fmt.Errorf("could not determine format of %s: %w", name, err)
			}
			format = f
		}
	}

	closer := multiCloser(rc, decompressed)
	switch format {
	case FormatCSV, FormatTSV:
		delim := s.Delim
		if delim == 0 {
			peek, _ := br.Peek(contentPeekSize)
			if format == FormatTSV {
				delim = '\t'
			} else {
				delim = DetectDelimiter(peek)
			}
		}
		r, err := newCSVReader(br, delim, closer)
		if err != nil {
			closer()
			return nil, format, fmt.Errorf("reading %s: %w", name, err)
		}
		return r, format, nil
	case FormatJSONL:
		return newJSONLReader(br, closer), format, nil
	default:
		return newTextReader(br, false, closer), format, nil
	}
}

// SkipBlankOpen is like Open but configures a text Reader to drop blank
// lines, per the --skip-blank option (spec.md §4.5). Non-text formats
// ignore the flag.
func SkipBlankOpen(s Source, skipBlank bool) (Reader, Format, error) {
	r, format, err := Open(s)
	if err != nil || !skipBlank || format != FormatTXT {
		return r, format, err
	}
	tr := r.(*textReader)
	tr.skipBlank = true
	return tr, format, nil
}

// Sink describes where a Record Stream's output bytes go: a file path or
// an arbitrary io.Writer, plus format/codec overrides.
type Sink struct {
	Path   string // "-" or "" means Writer is used directly (e.g. stdout)
	Writer io.Writer
	Format Format
	Codec  Codec
	Delim  rune
}

// Create returns a Writer over sk, creating the destination file if sk.Path
// is set, and resolving the output codec from the path's extension when
// sk.Codec is CodecNone.
func Create(sk Sink) (Writer, error) {
	var wc io.WriteCloser
	if sk.Writer != nil {
		wc = nopWriteCloser{sk.Writer}
	} else if sk.Path == "" || sk.Path == "-" {
		wc = nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(sk.Path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", sk.Path, err)
		}
		wc = f
	}

	codec := sk.Codec
	if codec == CodecNone && sk.Path != "" && sk.Path != "-" {
		_, codec = StripCompressionSuffix(sk.Path)
	}
	compressed, err := WrapWriter(wc, codec)
	if err != nil {
		wc.Close()
		return nil, err
	}

	format := sk.Format
	if !format.IsValid() && sk.Path != "" && sk.Path != "-" {
		base, _ := StripCompressionSuffix(sk.Path)
		if f, err := GuessFormatFromName(base); err == nil {
			format = f
		}
	}
	if !format.IsValid() {
		format = FormatCSV
	}

	closer := multiCloser(wc, compressed)
	switch format {
	case FormatCSV:
		return &closingWriter{Writer: newCSVWriter(compressed, ',', nil), closer: closer}, nil
	case FormatTSV:
		return &closingWriter{Writer: newCSVWriter(compressed, '\t', nil), closer: closer}, nil
	case FormatJSONL:
		return &closingWriter{Writer: newJSONLWriter(compressed, nil), closer: closer}, nil
	default:
		return &closingWriter{Writer: newTextWriter(compressed, nil), closer: closer}, nil
	}
}

// closingWriter lets each format writer focus on encoding while the
// underlying file/compressor handle is always closed exactly once, in the
// right order, regardless of which codec produced it.
type closingWriter struct {
	Writer
	closer closerFunc
}

func (c *closingWriter) Close() error {
	if err := c.Writer.Close(); err != nil {
		c.closer()
		return err
	}
	return c.closer()
}
