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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sortx/sortx/record"
)

// taggedRecord pairs a Record with the ordinal position it held in the
// original input stream. Runs and intermediate merge files must carry this
// ordinal through every spill/merge round trip: it is what lets the final
// merge pick the first-in-input survivor of a uniqueness class (spec.md
// §4.4) and lets every merge level - base or hierarchical - break
// comparator ties in original input order without needing a separate
// per-run ordinal scheme.
type taggedRecord struct {
	Ordinal int64
	Rec     *record.Record
}

// wireValue/wireField/wireRecord mirror record.Value/Field/Record in a
// shape that survives an encoding/json round trip exactly. This is
// deliberately a different codec from record/jsonl.go's public JSONL
// writer/reader: that one is a user-facing format and folds every record
// into a Named record with alphabetically sorted keys (reasonable for a
// human-editable JSONL file), which silently reshapes a Positional record
// or reorders a Named one - fine for output, fatal for an internal run
// file a later merge pass must read back bit-for-bit.
type wireValue struct {
	Kind  record.Kind `json:"k"`
	Str   string      `json:"s,omitempty"`
	Int   int64       `json:"i,omitempty"`
	Float float64     `json:"f,omitempty"`
	Bool  bool        `json:"b,omitempty"`
}

func toWireValue(v record.Value) wireValue {
	return wireValue{Kind: v.Kind, Str: v.Str, Int: v.Int, Float: v.Float, Bool: v.Bool}
}

func (w wireValue) toValue() record.Value {
	return record.Value{Kind: w.Kind, Str: w.Str, Int: w.Int, Float: w.Float, Bool: w.Bool}
}

type wireField struct {
	Name  string    `json:"n"`
	Value wireValue `json:"v"`
}

type wireRecord struct {
	Ordinal    int64       `json:"ord"`
	Positional bool        `json:"pos,omitempty"`
	Fields     []wireField `json:"fields,omitempty"`
	Values     []wireValue `json:"values,omitempty"`
}

func toWireRecord(tr taggedRecord) wireRecord {
	wr := wireRecord{Ordinal: tr.Ordinal, Positional: tr.Rec.IsPositional()}
	if wr.Positional {
		for _, v := range tr.Rec.Values() {
			wr.Values = append(wr.Values, toWireValue(v))
		}
		return wr
	}
	for _, f := range tr.Rec.Fields() {
		wr.Fields = append(wr.Fields, wireField{Name: f.Name, Value: toWireValue(f.Value)})
	}
	return wr
}

func (wr wireRecord) toTagged() taggedRecord {
	if wr.Positional {
		values := make([]record.Value, len(wr.Values))
		for i, v := range wr.Values {
			values[i] = v.toValue()
		}
		return taggedRecord{Ordinal: wr.Ordinal, Rec: record.NewPositional(values...)}
	}
	fields := make([]record.Field, len(wr.Fields))
	for i, f := range wr.Fields {
		fields[i] = record.Field{Name: f.Name, Value: f.Value.toValue()}
	}
	return taggedRecord{Ordinal: wr.Ordinal, Rec: record.NewNamed(fields...)}
}

// runWriter appends taggedRecords to a run file, one JSON object per line.
type runWriter struct {
	f   *os.File
	enc *json.Encoder
}

func createRunFile(path string) (*runWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &runWriter{f: f, enc: json.NewEncoder(f)}, nil
}

func (w *runWriter) Write(tr taggedRecord) error {
	return w.enc.Encode(toWireRecord(tr))
}

func (w *runWriter) Close() error { return w.f.Close() }

// runReader reads taggedRecords back out of a run file in order.
type runReader struct {
	f   *os.File
	dec *json.Decoder
}

func openRunFile(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &runReader{f: f, dec: json.NewDecoder(bufio.NewReaderSize(f, 64*1024))}, nil
}

func (r *runReader) Next() (taggedRecord, error) {
	var wr wireRecord
	if err := r.dec.Decode(&wr); err != nil {
		if err == io.EOF {
			return taggedRecord{}, io.EOF
		}
		return taggedRecord{}, fmt.Errorf("invalid run record: %w", err)
	}
	return wr.toTagged(), nil
}

func (r *runReader) Close() error { return r.f.Close() }

// bufReader adapts an in-memory []taggedRecord to the same Next/Close
// shape as runReader, so the merger doesn't care whether a source is a
// spilled file or the run generator's unspilled residual buffer.
type bufReader struct {
	buf []taggedRecord
	i   int
}

func (b *bufReader) Next() (taggedRecord, error) {
	if b.i >= len(b.buf) {
		return taggedRecord{}, io.EOF
	}
	tr := b.buf[b.i]
	b.i++
	return tr, nil
}

func (b *bufReader) Close() error { return nil }

// isFirstInInput reports whether tr is the surviving record of its
// uniqueness class: the one whose ordinal matches the smallest ordinal
// recorded for that dedup value across the whole input, per spec.md
// §4.4's "the first record in any equivalence class is the one that
// survives".
func isFirstInInput(tr taggedRecord, sel record.Selector, firstOrdinal map[string]int64) bool {
	v, _ := sel.Resolve(tr.Rec)
	first, ok := firstOrdinal[v.AsString()]
	return ok && first == tr.Ordinal
}
