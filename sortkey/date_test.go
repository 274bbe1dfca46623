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
	"time"
)

func TestParseDateRecognizers(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05T12:00:00Z", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
		{"2024-03-05T12:00:00+02:00", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 12:00:00", time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)},
		{"1709640000", time.Unix(1709640000, 0).UTC()},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		if !ok {
			t.Errorf("parseDate(%q) failed to parse", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDateCoercionMiss(t *testing.T) {
	tests := []string{"", "not a date", "2024-13-99", "123456789012"}
	for _, in := range tests {
		if _, ok := parseDate(in); ok {
			t.Errorf("parseDate(%q) should be a coercion miss", in)
		}
	}
}
