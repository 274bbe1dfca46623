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
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/sortx/sortx/record"
)

// InvalidKeySpecError reports a malformed -k/--key flag value, surfaced
// before any I/O per spec.md §7.
type InvalidKeySpecError struct {
	Spec   string
	Reason string
}

func (e *InvalidKeySpecError) Error() string {
	return fmt.Sprintf("invalid key spec %q: %s", e.Spec, e.Reason)
}

// KeySpec is the parsed form of a -k/--key flag value: SELECTOR[:TYPE[:OPT[=VAL]...]].
type KeySpec struct {
	Selector   record.Selector
	Type       DataType
	Descending bool
	Locale     language.Tag
	HasLocale  bool
}

// ParseKeySpec parses one key-spec token per spec.md §4.1's grammar.
// SELECTOR is a bare token: if it parses as a non-negative integer it's a
// positional index, else a field name. TYPE defaults to str. Recognized
// options are desc=true|false and locale=<tag>; anything else is
// InvalidKeySpec.
func ParseKeySpec(spec string) (KeySpec, error) {
	parts := strings.Split(spec, ":")
	if parts[0] == "" {
		return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: "empty selector"}
	}
	ks := KeySpec{Selector: record.ParseSelector(parts[0]), Type: DataTypeStr}
	if len(parts) == 1 {
		return ks, nil
	}
	t, err := ParseDataType(parts[1])
	if err != nil {
		return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: fmt.Sprintf("unknown type %q", parts[1])}
	}
	ks.Type = t
	for _, opt := range parts[2:] {
		if opt == "" {
			return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: "empty option"}
		}
		kv := strings.SplitN(opt, "=", 2)
		if len(kv) != 2 {
			return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: fmt.Sprintf("option %q missing =value", opt)}
		}
		switch kv[0] {
		case "desc":
			switch kv[1] {
			case "true":
				ks.Descending = true
			case "false":
				ks.Descending = false
			default:
				return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: fmt.Sprintf("desc must be true or false, got %q", kv[1])}
			}
		case "locale":
			tag, err := language.Parse(kv[1])
			if err != nil {
				return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: fmt.Sprintf("invalid locale %q", kv[1])}
			}
			ks.Locale = tag
			ks.HasLocale = true
		default:
			return KeySpec{}, &InvalidKeySpecError{Spec: spec, Reason: fmt.Sprintf("unknown option %q", kv[0])}
		}
	}
	return ks, nil
}

// ParseKeySpecs parses a list of -k/--key flag values in order, preserving
// the ordering that defines lexicographic composition.
func ParseKeySpecs(specs []string) ([]KeySpec, error) {
	out := make([]KeySpec, len(specs))
	for i, s := range specs {
		ks, err := ParseKeySpec(s)
		if err != nil {
			return nil, err
		}
		out[i] = ks
	}
	return out, nil
}

// Natural synthesizes the --natural shorthand: a single key over field 0
// with nat comparison, ascending, no locale (spec.md §4.5).
func Natural() []KeySpec {
	return []KeySpec{{Selector: record.Selector{Index: 0, IsIndex: true}, Type: DataTypeNat}}
}
