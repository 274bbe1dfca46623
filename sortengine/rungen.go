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

package sortengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sortx/sortx/record"
	"github.com/sortx/sortx/sortkey"
)

// run describes one sorted run: either the in-memory residual buffer (the
// fast path, Path == "") or a spilled temp file in the canonical internal
// run format (runcodec.go's taggedRecord wire shape, chosen for lossless
// round-tripping of Named and Positional records alike, in their original
// field order, regardless of the input's native format, per spec.md §3's
// "canonical internal format; implementer's choice").
type run struct {
	Path   string
	Buffer []taggedRecord
}

// runGenerator pulls records from src, buffers them until the estimated
// live payload exceeds memoryLimit, sorts each buffer stably under vec,
// and spills it to a temp file. Grounded on the teacher's cmd/sort.go
// sort.SliceStable usage, generalized to spill instead of holding
// everything in memory. When hasUnique is set it also builds firstOrdinal,
// the first-input-ordinal-per-dedup-value index the final merge needs to
// pick the first-in-input survivor of each uniqueness class (spec.md
// §4.4) - this has to happen here, in the single pass that sees every
// input record in true input order, since later stages only ever see
// records in sorted (not input) order.
type runGenerator struct {
	vec         sortkey.Vector
	memoryLimit int64
	tempDir     string
	prefix      string
	stable      bool
	hasUnique   bool
	uniqueSel   record.Selector

	buf          []taggedRecord
	bufBytes     int64
	nextOrdinal  int
	peakBytes    int64
	linesRead    int64
	firstOrdinal map[string]int64
}

func newRunGenerator(vec sortkey.Vector, memoryLimit int64, tempDir, prefix string, stable, hasUnique bool, uniqueSel record.Selector) *runGenerator {
	return &runGenerator{
		vec: vec, memoryLimit: memoryLimit, tempDir: tempDir, prefix: prefix, stable: stable,
		hasUnique: hasUnique, uniqueSel: uniqueSel, firstOrdinal: make(map[string]int64),
	}
}

// generate drains src, producing zero or more spilled runs plus exactly
// one final run (spilled if any prior run exists, otherwise returned as
// the in-memory fast-path buffer). On any error the caller is responsible
// for unlinking already-spilled runs via cleanup.
func (g *runGenerator) generate(ctx context.Context, src record.Reader) ([]run, error) {
	var runs []run
	for {
		if err := ctx.Err(); err != nil {
			return runs, ErrCancelled
		}
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return runs, &IOError{Op: "read", Err: err}
		}
		ordinal := g.linesRead
		g.linesRead++
		if g.hasUnique {
			v, _ := g.uniqueSel.Resolve(rec)
			d := v.AsString()
			if _, seen := g.firstOrdinal[d]; !seen {
				g.firstOrdinal[d] = ordinal
			}
		}
		size := record.EstimateSize(rec)
		g.buf = append(g.buf, taggedRecord{Ordinal: ordinal, Rec: rec})
		g.bufBytes += size
		if g.bufBytes > g.peakBytes {
			g.peakBytes = g.bufBytes
		}
		if g.bufBytes > g.memoryLimit {
			r, err := g.spill()
			if err != nil {
				return runs, err
			}
			runs = append(runs, r)
		}
	}
	if len(g.buf) > 0 || len(runs) == 0 {
		g.sortBuf()
		if len(runs) == 0 {
			// fast path: nothing spilled yet, hand the sorted buffer back
			// directly with no temp file.
			runs = append(runs, run{Buffer: g.buf})
		} else {
			r, err := g.spill()
			if err != nil {
				return runs, err
			}
			runs = append(runs, r)
		}
	}
	return runs, nil
}

func (g *runGenerator) sortBuf() {
	less := func(i, j int) bool { return g.vec.Less(g.buf[i].Rec, g.buf[j].Rec) }
	if g.stable {
		sort.SliceStable(g.buf, less)
	} else {
		sort.Slice(g.buf, less)
	}
}

func (g *runGenerator) spill() (run, error) {
	g.sortBuf()
	ordinal := g.nextOrdinal
	g.nextOrdinal++
	path := filepath.Join(g.tempDir, fmt.Sprintf("%s-%d.run", g.prefix, ordinal))
	w, err := createRunFile(path)
	if err != nil {
		return run{}, &IOError{Path: path, Op: "create", Err: err}
	}
	for _, tr := range g.buf {
		if err := w.Write(tr); err != nil {
			w.Close()
			os.Remove(path)
			return run{}, &IOError{Path: path, Op: "write", Err: err}
		}
	}
	if err := w.Close(); err != nil {
		os.Remove(path)
		return run{}, &IOError{Path: path, Op: "close", Err: err}
	}
	g.buf = nil
	g.bufBytes = 0
	return run{Path: path}, nil
}
