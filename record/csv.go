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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// csvReader reads delimited (csv or tsv) records, named by a header row
// read once at open time. Grounded on adif.CSVIO.Read, generalized to an
// arbitrary delimiter and a pull-based Next instead of whole-file Read.
type csvReader struct {
	c      *csv.Reader
	header []string
	closer io.Closer
	line   int
}

func newCSVReader(r io.Reader, delim rune, closer io.Closer) (Reader, error) {
	c := csv.NewReader(r)
	c.Comma = delim
	c.FieldsPerRecord = -1
	c.ReuseRecord = true
	header, err := c.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("got EOF reading header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	h := append([]string(nil), header...)
	return &csvReader{c: c, header: h, closer: closer}, nil
}

func (r *csvReader) Next() (*Record, error) {
	line, err := r.c.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	fields := make([]Field, len(r.header))
	for i, name := range r.header {
		var v string
		if i < len(line) {
			v = line[i]
		}
		fields[i] = Field{Name: name, Value: String(v)}
	}
	// extra columns beyond the header are appended with a positional name
	for i := len(r.header); i < len(line); i++ {
		fields = append(fields, Field{Name: fmt.Sprintf("%d", i), Value: String(line[i])})
	}
	return NewNamed(fields...), nil
}

func (r *csvReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// csvWriter writes delimited records, deriving the header from the first
// record's field order per the writer contract in spec.md §4.2.
type csvWriter struct {
	w          *csv.Writer
	closer     io.Closer
	header     []string
	wroteFirst bool
}

func newCSVWriter(w io.Writer, delim rune, closer io.Closer) Writer {
	c := csv.NewWriter(w)
	c.Comma = delim
	return &csvWriter{w: c, closer: closer}
}

func (w *csvWriter) Write(r *Record) error {
	if !w.wroteFirst {
		w.wroteFirst = true
		if r.IsPositional() {
			w.header = nil // positional records get no header row
		} else {
			w.header = r.FieldNames()
			if err := w.w.Write(w.header); err != nil {
				return fmt.Errorf("writing header: %w", err)
			}
		}
	}
	var row []string
	if r.IsPositional() {
		vals := r.Values()
		row = make([]string, len(vals))
		for i, v := range vals {
			row[i] = v.AsString()
		}
	} else {
		row = make([]string, len(w.header))
		for i, name := range w.header {
			if v, ok := r.Get(name); ok {
				row[i] = v.AsString()
			}
		}
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

func (w *csvWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
