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
	"io"
)

// textReader yields one width-1 Positional record per line, trailing
// newline stripped; blank lines are preserved unless skipBlank is set, per
// spec.md §4.2's text contract.
type textReader struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	skipBlank bool
}

func newTextReader(r io.Reader, skipBlank bool, closer io.Closer) Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &textReader{scanner: sc, closer: closer, skipBlank: skipBlank}
}

func (r *textReader) Next() (*Record, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" && r.skipBlank {
			continue
		}
		return NewPositional(String(line)), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (r *textReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

type textWriter struct {
	w      io.Writer
	closer io.Closer
}

func newTextWriter(w io.Writer, closer io.Closer) Writer {
	return &textWriter{w: w, closer: closer}
}

func (w *textWriter) Write(r *Record) error {
	var line string
	if r.IsPositional() {
		if vals := r.Values(); len(vals) > 0 {
			line = vals[0].AsString()
		}
	} else if fields := r.Fields(); len(fields) > 0 {
		line = fields[0].Value.AsString()
	}
	_, err := io.WriteString(w.w, line+"\n")
	return err
}

func (w *textWriter) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
