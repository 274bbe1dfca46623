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

package sortkey

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/sortx/sortx/record"
)

func namedNum(val string) *record.Record {
	return record.NewNamed(record.Field{Name: "n", Value: record.String(val)})
}

func TestCompareNumAscending(t *testing.T) {
	specs, _ := ParseKeySpecs([]string{"n:num"})
	vec := Compile(specs, language.Und)
	a, b := namedNum("2"), namedNum("10")
	if vec.Compare(a, b) >= 0 {
		t.Fatal("2 should sort before 10 under num comparison")
	}
}

func TestCompareNumDescending(t *testing.T) {
	specs, _ := ParseKeySpecs([]string{"n:num:desc=true"})
	vec := Compile(specs, language.Und)
	a, b := namedNum("2"), namedNum("10")
	if vec.Compare(a, b) <= 0 {
		t.Fatal("2 should sort after 10 under descending num comparison")
	}
}

func TestCoercionMissSortsLastRegardlessOfDescending(t *testing.T) {
	present := namedNum("5")
	missing := namedNum("not a number")

	for _, desc := range []bool{false, true} {
		specs := []KeySpec{{Selector: record.ParseSelector("n"), Type: DataTypeNum, Descending: desc}}
		vec := Compile(specs, language.Und)
		if c := vec.Compare(missing, present); c <= 0 {
			t.Errorf("desc=%v: coercion miss should sort after a present value, got Compare=%d", desc, c)
		}
		if c := vec.Compare(present, missing); c >= 0 {
			t.Errorf("desc=%v: a present value should sort before a coercion miss, got Compare=%d", desc, c)
		}
	}
}

func TestCoercionMissesCompareEqualAmongThemselves(t *testing.T) {
	a := namedNum("x")
	b := namedNum("y")
	specs := []KeySpec{{Selector: record.ParseSelector("n"), Type: DataTypeNum}}
	vec := Compile(specs, language.Und)
	if c := vec.Compare(a, b); c != 0 {
		t.Fatalf("two coercion misses should compare equal on that key, got %d", c)
	}
}

func TestCompositionFallsThroughToSecondKey(t *testing.T) {
	r1 := record.NewNamed(record.Field{Name: "a", Value: record.String("x")}, record.Field{Name: "b", Value: record.Int(1)})
	r2 := record.NewNamed(record.Field{Name: "a", Value: record.String("x")}, record.Field{Name: "b", Value: record.Int(2)})
	specs := []KeySpec{
		{Selector: record.ParseSelector("a"), Type: DataTypeStr},
		{Selector: record.ParseSelector("b"), Type: DataTypeNum},
	}
	vec := Compile(specs, language.Und)
	if c := vec.Compare(r1, r2); c >= 0 {
		t.Fatalf("equal first key should fall through to second key, got Compare=%d", c)
	}
}

func TestNatKeyFileOrdering(t *testing.T) {
	specs := []KeySpec{{Selector: record.Selector{Index: 0, IsIndex: true}, Type: DataTypeNat}}
	vec := Compile(specs, language.Und)
	a := record.NewPositional(record.String("file2"))
	b := record.NewPositional(record.String("file10"))
	if vec.Compare(a, b) >= 0 {
		t.Fatal("file2 should sort before file10 under nat comparison")
	}
}

func TestDateKeyOrdering(t *testing.T) {
	specs := []KeySpec{{Selector: record.ParseSelector("d"), Type: DataTypeDate}}
	vec := Compile(specs, language.Und)
	earlier := record.NewNamed(record.Field{Name: "d", Value: record.String("2024-01-01")})
	later := record.NewNamed(record.Field{Name: "d", Value: record.String("2024-06-01")})
	if vec.Compare(earlier, later) >= 0 {
		t.Fatal("earlier date should sort first")
	}
}
