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

import "io"

// Reader is a lazy pull iterator over a record stream: each call to Next
// returns the next Record, or io.EOF once exhausted. Close releases the
// underlying file handle and must be safe to call after Next returns
// io.EOF or an error, and safe to call more than once.
type Reader interface {
	Next() (*Record, error)
	Close() error
}

// Writer accepts records in order and serializes them to an underlying
// stream. The first call to Write fixes the field order of a delimited
// header row (for Named records); later records project onto that order.
type Writer interface {
	Write(*Record) error
	Close() error
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// multiCloser closes an inner Writer/Reader-owned resource and an
// underlying decompressor/file handle together, in reverse open order.
func multiCloser(closers ...io.Closer) closerFunc {
	return func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if closers[i] == nil {
				continue
			}
			if err := closers[i].Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
}
