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

import "testing"

func TestCompareNaturalFileNumbering(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"file2", "file10", -1},
		{"file10", "file2", 1},
		{"file2", "file2", 0},
		{"file02", "file2", 0}, // leading zeros ignored
		{"a", "b", -1},
		{"file1a", "file1b", -1},
	}
	for _, tt := range tests {
		got := sign(compareNatural(splitNatural(tt.a), splitNatural(tt.b)))
		if got != tt.want {
			t.Errorf("compareNatural(%q, %q) sign = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
