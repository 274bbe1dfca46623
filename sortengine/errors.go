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

// Package sortengine wires the record and sortkey packages into the
// external multi-key sort pipeline: bounded in-memory run generation,
// spill to temp storage, k-way merge, and optional deduplication.
package sortengine

import (
	"errors"
	"fmt"
)

// InvalidRecordError reports a record that cannot be parsed under its
// format, e.g. a JSONL line that isn't a top-level object.
type InvalidRecordError struct {
	Path   string
	Line   int64
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("%s:%d: invalid record: %s", e.Path, e.Line, e.Reason)
}

// IOError wraps a read/write/seek/unlink failure on a named path, fatal
// and triggering temp-file cleanup.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ErrCancelled is surfaced when a Sort is aborted via its context.
var ErrCancelled = errors.New("sort cancelled")

// ErrResourceExhausted is surfaced when temp storage cannot be written.
var ErrResourceExhausted = errors.New("resource exhausted: could not write temp run file")
