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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// jsonlReader reads one JSON object per non-empty line, grounded on
// adif.JSONIO's json.Decoder/UseNumber pattern but streaming line by line
// instead of decoding a single {HEADER, RECORDS} document, per spec.md
// §4.2's JSONL contract.
type jsonlReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

func newJSONLReader(r io.Reader, closer io.Closer) Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &jsonlReader{scanner: sc, closer: closer}
}

func (r *jsonlReader) Next() (*Record, error) {
	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON object: %w", r.line, err)
		}
		return jsonMapToRecord(raw), nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (r *jsonlReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func jsonMapToRecord(raw map[string]any) *Record {
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	// map iteration order is randomized; JSON objects have no inherent
	// field order, so sort for determinism per spec.md §5.
	sort.Strings(names)
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Value: jsonValueToValue(raw[name])}
	}
	return NewNamed(fields...)
}

func jsonValueToValue(v any) Value {
	switch vv := v.(type) {
	case nil:
		return Null()
	case string:
		return String(vv)
	case bool:
		return Bool(vv)
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return Int(i)
		}
		f, _ := vv.Float64()
		return Float(f)
	default:
		return String(fmt.Sprint(vv))
	}
}

// jsonlWriter writes one JSON object per record; the first record's field
// order fixes the key order subsequent records project onto, missing
// fields become JSON null, per the writer contract.
type jsonlWriter struct {
	w          io.Writer
	closer     io.Closer
	header     []string
	wroteFirst bool
}

func newJSONLWriter(w io.Writer, closer io.Closer) Writer {
	return &jsonlWriter{w: w, closer: closer}
}

func (w *jsonlWriter) Write(r *Record) error {
	if !w.wroteFirst {
		w.wroteFirst = true
		if !r.IsPositional() {
			w.header = r.FieldNames()
		}
	}
	var obj map[string]any
	if r.IsPositional() || w.header == nil {
		vals := r.Values()
		if r.IsPositional() {
			obj = make(map[string]any, len(vals))
			for i, v := range vals {
				obj[fmt.Sprintf("%d", i)] = valueToJSON(v)
			}
		} else {
			for _, f := range r.Fields() {
				if obj == nil {
					obj = make(map[string]any)
				}
				obj[f.Name] = valueToJSON(f.Value)
			}
		}
	} else {
		obj = make(map[string]any, len(w.header))
		for _, name := range w.header {
			if v, ok := r.Get(name); ok {
				obj[name] = valueToJSON(v)
			} else {
				obj[name] = nil
			}
		}
	}
	line, err := marshalOrdered(w.header, obj)
	if err != nil {
		return fmt.Errorf("encoding JSON record: %w", err)
	}
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err = w.w.Write([]byte("\n"))
	return err
}

// marshalOrdered encodes obj as a single-line JSON object, preserving
// header's key order when non-nil (encoding/json's map marshaling would
// otherwise sort keys alphabetically, which is fine but loses the
// first-record field order contract for non-alphabetic schemas).
func marshalOrdered(order []string, obj map[string]any) ([]byte, error) {
	keys := order
	if keys == nil {
		keys = make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(obj[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

func valueToJSON(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

func (w *jsonlWriter) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
