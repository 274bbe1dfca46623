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

import "strings"

// natRun is one maximal run of either digit or non-digit characters, the
// unit natural ("nat") comparison splits a string into, grounded in shape
// on adif/spec/compare.go's compareStringLists run-splitting idea but
// splitting on digit/non-digit transitions instead of a separator.
type natRun struct {
	digit bool
	text  string
}

func splitNatural(s string) []natRun {
	if s == "" {
		return nil
	}
	var runs []natRun
	start := 0
	digit := isDigitByte(s[0])
	for i := 1; i < len(s); i++ {
		d := isDigitByte(s[i])
		if d != digit {
			runs = append(runs, natRun{digit: digit, text: s[start:i]})
			start = i
			digit = d
		}
	}
	runs = append(runs, natRun{digit: digit, text: s[start:]})
	return runs
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// compareNatural implements spec.md §4.1's nat comparison: digit runs
// compare as integers (leading zeros ignored, longer numbers larger),
// non-digit runs compare by code-point order. This yields file2 < file10.
func compareNatural(a, b []natRun) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ra, rb := a[i], b[i]
		if ra.digit != rb.digit {
			return strings.Compare(ra.text, rb.text)
		}
		var c int
		if ra.digit {
			c = compareDigitRuns(ra.text, rb.text)
		} else {
			c = strings.Compare(ra.text, rb.text)
		}
		if c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
