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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNamedRecordSetPreservesOrder(t *testing.T) {
	r := NewNamed(Field{Name: "b", Value: String("2")}, Field{Name: "a", Value: String("1")})
	r.Set(Field{Name: "a", Value: String("updated")})
	got := r.FieldNames()
	want := []string{"b", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FieldNames() mismatch (-want +got):\n%s", diff)
	}
	v, ok := r.Get("a")
	if !ok || v.AsString() != "updated" {
		t.Fatalf("Get(a) = %v, %v, want updated, true", v, ok)
	}
}

func TestPositionalRecordGetAt(t *testing.T) {
	r := NewPositional(String("x"), String("y"))
	if v, ok := r.GetAt(1); !ok || v.AsString() != "y" {
		t.Fatalf("GetAt(1) = %v, %v, want y, true", v, ok)
	}
	if _, ok := r.GetAt(2); ok {
		t.Fatal("GetAt(2) should fail to resolve, out of range")
	}
	if _, ok := r.Get("x"); ok {
		t.Fatal("Get by name should fail to resolve against a Positional record")
	}
}

func TestSelectorResolve(t *testing.T) {
	named := NewNamed(Field{Name: "amount", Value: Int(42)})
	positional := NewPositional(String("line one"))

	tests := []struct {
		name string
		sel  Selector
		rec  *Record
		want string
		ok   bool
	}{
		{"name against named", ParseSelector("amount"), named, "42", true},
		{"name against positional", ParseSelector("amount"), positional, "", false},
		{"index against positional", ParseSelector("0"), positional, "line one", true},
		{"index against named", ParseSelector("0"), named, "", false},
		{"absent name", ParseSelector("missing"), named, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.sel.Resolve(tt.rec)
			if ok != tt.ok {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.ok)
			}
			if ok && v.AsString() != tt.want {
				t.Fatalf("Resolve() = %q, want %q", v.AsString(), tt.want)
			}
		})
	}
}

func TestParseSelectorIndexVsName(t *testing.T) {
	if s := ParseSelector("3"); !s.IsIndex || s.Index != 3 {
		t.Fatalf("ParseSelector(3) = %+v, want index 3", s)
	}
	if s := ParseSelector("03"); !s.IsIndex || s.Index != 3 {
		t.Fatalf("ParseSelector(03) = %+v, want index 3 (leading zeros still parse as digits)", s)
	}
	if s := ParseSelector("amount"); s.IsIndex {
		t.Fatalf("ParseSelector(amount) = %+v, want a field name", s)
	}
}

func TestEstimateSize(t *testing.T) {
	named := NewNamed(Field{Name: "a", Value: String("hello")})
	positional := NewPositional(String("hello"))
	if EstimateSize(named) <= EstimateSize(positional) {
		t.Fatalf("named record's size estimate should exceed positional's by the field name's length")
	}
}
