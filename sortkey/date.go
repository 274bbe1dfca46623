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
	"strconv"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order for values carrying time-of-day and an
// optional offset, grounded on adif.Record.ParseDate/ParseTime's
// time.ParseInLocation chains, extended to RFC 3339.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

const dateOnlyLayout = "2006-01-02"
const spaceSeparatedLayout = "2006-01-02 15:04:05"

// parseDate implements spec.md §4.1's date recognizer: RFC 3339/ISO 8601
// date-time with optional offset, then ISO 8601 date, then
// "YYYY-MM-DD HH:MM:SS", then epoch seconds for a pure-digit field of
// length <= 11. Naive values (no offset) are treated as UTC. Returns
// false on a coercion miss, never an error.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(spaceSeparatedLayout, s, time.UTC); err == nil {
		return t, true
	}
	if len(s) <= 11 && isAllDigits(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(n, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
