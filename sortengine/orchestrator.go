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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sortx/sortx/record"
	"github.com/sortx/sortx/sortkey"
)

// maxFanIn bounds the number of run files merged in a single heap pass
// before the orchestrator falls back to hierarchical (two-or-more-level)
// merging, per spec.md §4.4's fan-in MAY clause.
const maxFanIn = 64

// sliceReader adapts an in-memory slice of records to the record.Reader
// interface so SortIter's result composes with the same writer path as
// SortFile's.
type sliceReader struct {
	recs []*record.Record
	i    int
}

func (s *sliceReader) Next() (*record.Record, error) {
	if s.i >= len(s.recs) {
		return nil, io.EOF
	}
	r := s.recs[s.i]
	s.i++
	return r, nil
}

func (s *sliceReader) Close() error { return nil }

// compileVector resolves the key vector a sort runs under: the compiled
// -k keys if any were given, else the --natural shorthand, else the whole-
// record default comparator spec.md §8 requires when neither is supplied.
func compileVector(keys []sortkey.KeySpec, opts Options) sortkey.Vector {
	if len(keys) == 0 {
		if opts.Natural {
			return sortkey.Compile(sortkey.Natural(), opts.Locale)
		}
		return sortkey.Default()
	}
	return sortkey.Compile(keys, opts.Locale)
}

// SortIter sorts an in-memory slice of records, entirely in memory, with
// no temp files: spec.md §4.5's single-run fast-path entry point.
func SortIter(records []*record.Record, keys []sortkey.KeySpec, opts Options) record.Reader {
	vec := compileVector(keys, opts)
	out := append([]*record.Record(nil), records...)
	less := func(i, j int) bool { return vec.Less(out[i], out[j]) }
	if opts.stable() {
		sort.SliceStable(out, less)
	} else {
		sort.Slice(out, less)
	}
	if opts.HasUnique {
		out = dedupByFirstInInput(out, records, opts.Unique)
	}
	return &sliceReader{recs: out}
}

// dedupByFirstInInput drops every record but the first-in-input of each
// uniqueness class (spec.md §4.4), even though sorted and original share
// no positional relationship: original gives each record's true input
// order, sorted is what gets filtered and returned. Record pointers are
// shared between the two slices (sorted is a permutation of original), so
// pointer identity recovers each record's original index cheaply.
func dedupByFirstInInput(sorted, original []*record.Record, sel record.Selector) []*record.Record {
	indexOf := make(map[*record.Record]int, len(original))
	firstIdx := make(map[string]int, len(original))
	for i, r := range original {
		indexOf[r] = i
		v, _ := sel.Resolve(r)
		d := v.AsString()
		if _, ok := firstIdx[d]; !ok {
			firstIdx[d] = i
		}
	}
	out := make([]*record.Record, 0, len(sorted))
	for _, r := range sorted {
		v, _ := sel.Resolve(r)
		if indexOf[r] == firstIdx[v.AsString()] {
			out = append(out, r)
		}
	}
	return out
}

func dedupTagged(recs []taggedRecord, sel record.Selector, firstOrdinal map[string]int64) []taggedRecord {
	out := make([]taggedRecord, 0, len(recs))
	for _, tr := range recs {
		if isFirstInInput(tr, sel, firstOrdinal) {
			out = append(out, tr)
		}
	}
	return out
}

// SortFile runs the full external pipeline: open the input stream, drive
// the Run Generator, merge runs (hierarchically if there are many), and
// write the result to the output sink. It always returns Stats, even on
// error, reflecting progress made before the failure.
func SortFile(ctx context.Context, in record.Source, out record.Sink, keys []sortkey.KeySpec, opts Options) (Stats, error) {
	start := time.Now()
	stats := Stats{InputPath: in.Path, OutputPath: out.Path}

	in.Format = opts.FormatIn
	in.Codec = opts.CodecIn
	in.Delim = opts.DelimIn
	reader, _, err := record.SkipBlankOpen(in, opts.SkipBlank)
	if err != nil {
		return stats, &IOError{Path: in.Path, Op: "open", Err: err}
	}
	defer reader.Close()

	vec := compileVector(keys, opts)
	prefix, err := randomPrefix()
	if err != nil {
		return stats, &IOError{Op: "tempdir", Err: err}
	}
	gen := newRunGenerator(vec, opts.memoryLimit(), opts.tempDir(), prefix, opts.stable(), opts.HasUnique, opts.Unique)

	runs, genErr := gen.generate(ctx, reader)
	stats.LinesProcessed = gen.linesRead
	stats.PeakMemoryBytesEstimate = gen.peakBytes
	if genErr != nil {
		cleanupRuns(runs)
		stats.ProcessingTimeSeconds = time.Since(start).Seconds()
		return stats, genErr
	}
	stats.RunsGenerated = int64(countSpilled(runs))

	outReader, cleanup, err := buildMergeReader(vec, runs, opts, gen.firstOrdinal)
	if err != nil {
		cleanupRuns(runs)
		stats.ProcessingTimeSeconds = time.Since(start).Seconds()
		return stats, err
	}
	defer cleanup()

	writeErr := writeAll(ctx, out, opts, outReader)
	cleanupRuns(runs)
	stats.ProcessingTimeSeconds = time.Since(start).Seconds()
	if writeErr != nil {
		return stats, writeErr
	}
	return stats, nil
}

func countSpilled(runs []run) int {
	n := 0
	for _, r := range runs {
		if r.Path != "" {
			n++
		}
	}
	return n
}

// buildMergeReader returns the single logical stream the orchestrator
// writes out: the bare buffer on the fast path (one run, never spilled),
// or a k-way merge (possibly hierarchical) otherwise. cleanup removes any
// intermediate merge files it created; the caller remains responsible for
// the original runs. firstOrdinal is the run generator's first-input-
// ordinal-per-dedup-value index, built in a single true-input-order pass,
// and is what the final merge consults to decide which popped record
// survives a uniqueness class - never the merged/sorted order, which has
// no necessary relationship to input order once the unique selector
// differs from the sort key (spec.md §4.4).
func buildMergeReader(vec sortkey.Vector, runs []run, opts Options, firstOrdinal map[string]int64) (record.Reader, func(), error) {
	if len(runs) == 1 && runs[0].Path == "" {
		out := runs[0].Buffer
		if opts.HasUnique {
			out = dedupTagged(out, opts.Unique, firstOrdinal)
		}
		return &taggedSliceReader{buf: out}, func() {}, nil
	}

	current := runs
	var intermediates []string
	for len(current) > maxFanIn {
		next, paths, err := reduceLevel(vec, current, opts)
		if err != nil {
			removeAll(intermediates)
			removeAll(paths)
			return nil, func() {}, err
		}
		intermediates = append(intermediates, paths...)
		current = next
	}

	sources, err := openSources(current)
	if err != nil {
		removeAll(intermediates)
		return nil, func() {}, err
	}
	m, err := newMerger(vec, sources, opts.HasUnique, opts.Unique, firstOrdinal)
	if err != nil {
		for _, s := range sources {
			s.reader.Close()
		}
		removeAll(intermediates)
		return nil, func() {}, err
	}
	cleanup := func() {
		m.Close()
		removeAll(intermediates)
	}
	return &mergerReader{m: m}, cleanup, nil
}

// taggedSliceReader adapts the run generator's unspilled residual buffer
// to record.Reader, discarding each record's ordinal since nothing
// downstream of the fast path needs it.
type taggedSliceReader struct {
	buf []taggedRecord
	i   int
}

func (s *taggedSliceReader) Next() (*record.Record, error) {
	if s.i >= len(s.buf) {
		return nil, io.EOF
	}
	r := s.buf[s.i].Rec
	s.i++
	return r, nil
}

func (s *taggedSliceReader) Close() error { return nil }

// reduceLevel merges current in groups of maxFanIn into fewer, larger
// runs. Every merged record is written with its own original input
// ordinal intact (runWriter preserves taggedRecord.Ordinal verbatim), so
// correctness at any later fan-in level, or at the final top-level merge,
// never depends on how many hierarchical levels a record passed through.
func reduceLevel(vec sortkey.Vector, current []run, opts Options) ([]run, []string, error) {
	var next []run
	var paths []string
	for i := 0; i < len(current); i += maxFanIn {
		group := current[i:min(i+maxFanIn, len(current))]
		sources, err := openSources(group)
		if err != nil {
			return nil, paths, err
		}
		m, err := newMerger(vec, sources, false, record.Selector{}, nil)
		if err != nil {
			for _, s := range sources {
				s.reader.Close()
			}
			return nil, paths, err
		}
		prefix, err := randomPrefix()
		if err != nil {
			m.Close()
			return nil, paths, err
		}
		path := fmt.Sprintf("%s/%s-merge-%d.run", opts.tempDir(), prefix, i)
		w, err := createRunFile(path)
		if err != nil {
			m.Close()
			return nil, paths, &IOError{Path: path, Op: "create", Err: err}
		}
		for {
			tr, err := m.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				w.Close()
				m.Close()
				return nil, paths, err
			}
			if err := w.Write(tr); err != nil {
				w.Close()
				m.Close()
				return nil, paths, &IOError{Path: path, Op: "write", Err: err}
			}
		}
		if err := w.Close(); err != nil {
			m.Close()
			return nil, paths, &IOError{Path: path, Op: "close", Err: err}
		}
		m.Close()
		paths = append(paths, path)
		next = append(next, run{Path: path})
	}
	return next, paths, nil
}

func openSources(runs []run) ([]mergeSource, error) {
	sources := make([]mergeSource, 0, len(runs))
	for _, r := range runs {
		reader, err := openRunFile(r.Path)
		if err != nil {
			for _, s := range sources {
				s.reader.Close()
			}
			return nil, &IOError{Path: r.Path, Op: "open", Err: err}
		}
		sources = append(sources, mergeSource{reader: reader})
	}
	return sources, nil
}

func writeAll(ctx context.Context, sink record.Sink, opts Options, reader record.Reader) error {
	sink.Format = opts.FormatOut
	sink.Codec = opts.CodecOut
	sink.Delim = opts.DelimOut
	w, err := record.Create(sink)
	if err != nil {
		return &IOError{Path: sink.Path, Op: "create", Err: err}
	}
	for {
		if err := ctx.Err(); err != nil {
			w.Close()
			return ErrCancelled
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(rec); err != nil {
			w.Close()
			return &IOError{Path: sink.Path, Op: "write", Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return &IOError{Path: sink.Path, Op: "close", Err: err}
	}
	return nil
}

func cleanupRuns(runs []run) {
	for _, r := range runs {
		if r.Path != "" {
			os.Remove(r.Path)
		}
	}
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

func randomPrefix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "sortx-" + hex.EncodeToString(b[:]), nil
}
