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
	"fmt"
	"strconv"
)

// Kind identifies which alternative of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is a single field value. Delimited and text formats only ever
// produce KindString values; JSONL preserves the native JSON scalar type of
// each field so key coercion can tolerate already-typed input per spec.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func Null() Value { return Value{Kind: KindNull} }

func String(s string) Value { return Value{Kind: KindString, Str: s} }

func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsNull reports whether v represents an absent or JSON-null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString renders v the way a delimited writer would: the raw string for
// KindString, a canonical decimal form for numbers, "true"/"false" for
// booleans, and "" for null.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "<null>"
	default:
		return fmt.Sprintf("%q", v.AsString())
	}
}
