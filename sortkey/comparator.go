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
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sortx/sortx/record"
)

// key is one compiled key spec: an extractor (Selector.Resolve plus typed
// coercion) and a pure comparison function over two successfully coerced
// values, built once so comparisons never re-parse the selector or
// re-resolve the locale, per spec.md §9's "Comparator composition ->
// function objects" design note.
type key struct {
	extract    func(*record.Record) (any, bool)
	less       func(a, b any) int
	descending bool
}

// Vector is a compiled key vector: lexicographic composition of compiled
// keys defines the total order over records (spec.md §4.1 Composition).
type Vector struct {
	keys []key
}

var warnOnce sync.Once

// Compare returns a negative number, zero, or a positive number (not
// necessarily -1 or 1) composing all keys lexicographically: the
// first key with a nonzero result decides the order (spec.md §4.1
// Composition). An empty Vector compares everything equal.
func (v Vector) Compare(a, b *record.Record) int {
	for _, k := range v.keys {
		if c := k.compareOne(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether a sorts strictly before b, for use with
// sort.SliceStable and container/heap.
func (v Vector) Less(a, b *record.Record) bool {
	return v.Compare(a, b) < 0
}

// Len reports the number of compiled keys, mainly for diagnostics.
func (v Vector) Len() int { return len(v.keys) }

// compareOne resolves and coerces the key on both records, then applies
// spec.md §4.3's coercion-miss rule: a record whose key selector fails to
// resolve, or whose value fails its typed coercion, sorts after every
// record with a present value for that key, regardless of desc, and
// compares equal to every other record missing that key. Only once both
// sides are present does the typed comparison run, with its sign flipped
// for desc.
func (k key) compareOne(a, b *record.Record) int {
	av, aok := k.extract(a)
	bv, bok := k.extract(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	c := k.less(av, bv)
	if k.descending {
		c = -c
	}
	return c
}

// Default returns the key vector sort(x) uses when no -k keys are given
// and --natural isn't set: the whole record rendered the way Record.String
// does, compared under code-point order, per spec.md §8's "sort(x) with no
// keys on a text file equals a stable sort by full line under code-point
// order" scenario, generalized to Named records since nothing in the
// selector grammar can express "the whole row" as an ordinary KeySpec.
func Default() Vector {
	return Vector{keys: []key{{
		extract: func(r *record.Record) (any, bool) { return r.String(), true },
		less:    func(a, b any) int { return strings.Compare(a.(string), b.(string)) },
	}}}
}

// Compile builds a Vector from parsed KeySpecs. defaultLocale is applied to
// str keys that don't specify their own locale option (spec.md §4.5's
// `locale` global option).
func Compile(specs []KeySpec, defaultLocale language.Tag) Vector {
	keys := make([]key, len(specs))
	for i, spec := range specs {
		keys[i] = compileKey(spec, defaultLocale)
	}
	return Vector{keys: keys}
}

func compileKey(spec KeySpec, defaultLocale language.Tag) key {
	sel := spec.Selector
	switch spec.Type {
	case DataTypeNum:
		return key{
			extract:    func(r *record.Record) (any, bool) { return extractNum(sel, r) },
			less:       func(a, b any) int { return compareFloat(a.(float64), b.(float64)) },
			descending: spec.Descending,
		}
	case DataTypeDate:
		return key{
			extract: func(r *record.Record) (any, bool) { return extractDate(sel, r) },
			less: func(a, b any) int {
				at, bt := a.(time.Time), b.(time.Time)
				switch {
				case at.Equal(bt):
					return 0
				case at.Before(bt):
					return -1
				default:
					return 1
				}
			},
			descending: spec.Descending,
		}
	case DataTypeNat:
		return key{
			extract:    func(r *record.Record) (any, bool) { return extractNat(sel, r) },
			less:       func(a, b any) int { return compareNatural(a.([]natRun), b.([]natRun)) },
			descending: spec.Descending,
		}
	default: // DataTypeStr
		locale := defaultLocale
		if spec.HasLocale {
			locale = spec.Locale
		}
		cmp := stringComparator(locale)
		return key{
			extract:    func(r *record.Record) (any, bool) { return extractStr(sel, r) },
			less:       func(a, b any) int { return cmp(a.(string), b.(string)) },
			descending: spec.Descending,
		}
	}
}

func extractDate(sel record.Selector, r *record.Record) (any, bool) {
	v, ok := sel.Resolve(r)
	if !ok {
		return nil, false
	}
	return parseDate(v.AsString())
}

func extractStr(sel record.Selector, r *record.Record) (any, bool) {
	v, ok := sel.Resolve(r)
	if !ok {
		return nil, false
	}
	return v.AsString(), true
}

func extractNum(sel record.Selector, r *record.Record) (any, bool) {
	v, ok := sel.Resolve(r)
	if !ok {
		return nil, false
	}
	switch v.Kind {
	case record.KindInt:
		return float64(v.Int), true
	case record.KindFloat:
		return v.Float, true
	default:
		s := strings.TrimSpace(v.AsString())
		if s == "" {
			return nil, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != f { // f != f is the NaN check
			return nil, false
		}
		return f, true
	}
}

func extractNat(sel record.Selector, r *record.Record) (any, bool) {
	v, ok := sel.Resolve(r)
	if !ok {
		return nil, false
	}
	return splitNatural(v.AsString()), true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// stringComparator returns a comparator for str keys: locale-aware
// collation when locale is set to something other than the zero tag, else
// code-point order, grounded on adif/spec/compare.go's compareStringsBasic
// / compareStringsLocale split.
func stringComparator(locale language.Tag) func(a, b string) int {
	if locale == language.Und {
		return strings.Compare
	}
	base, conf := locale.Base()
	if conf == language.No {
		warnOnce.Do(func() {
			log.Printf("locale %q not recognized, falling back to code-point order", locale)
		})
		return strings.Compare
	}
	_ = base
	col := collate.New(locale, collate.Loose)
	return func(a, b string) int { return col.CompareString(a, b) }
}
