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
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// codec pairs a Codec tag with the constructors needed to wrap a plain
// byte stream transparently on read and write.
type codec struct {
	tag    Codec
	reader func(io.Reader) (io.ReadCloser, error)
	writer func(io.Writer) (io.WriteCloser, error)
}

var (
	gzipCodec = codec{tag: CodecGzip, reader: newParallelGzipReader, writer: newParallelGzipWriter}
	zstdCodec = codec{tag: CodecZstd, reader: newZstdDecoder, writer: newZstdEncoder}
)

func codecFor(tag Codec) (codec, bool) {
	switch tag {
	case CodecGzip:
		return gzipCodec, true
	case CodecZstd:
		return zstdCodec, true
	default:
		return codec{}, false
	}
}

// WrapReader returns r decompressed according to codec, or r unchanged if
// codec is CodecNone.
func WrapReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	cd, ok := codecFor(c)
	if !ok {
		return io.NopCloser(r), nil
	}
	return cd.reader(r)
}

// WrapWriter returns w compressed according to codec, or w unchanged (with
// a no-op Close) if codec is CodecNone.
func WrapWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	cd, ok := codecFor(c)
	if !ok {
		return nopWriteCloser{w}, nil
	}
	return cd.writer(w)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newParallelGzipReader returns a pgzip reader with pgzip's default
// read-ahead settings. Only the writer side caps its goroutine count.
func newParallelGzipReader(r io.Reader) (io.ReadCloser, error) {
	return pgzip.NewReader(r)
}

func newParallelGzipWriter(w io.Writer) (io.WriteCloser, error) {
	threads := runtime.GOMAXPROCS(0)
	if threads < 1 {
		threads = 1
	}
	if threads > 8 {
		threads = 8
	}
	gw := pgzip.NewWriter(w)
	if err := gw.SetConcurrency(1<<20, threads); err != nil {
		return nil, fmt.Errorf("configuring parallel gzip writer: %w", err)
	}
	return gw, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newZstdDecoder(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{Decoder: dec}, nil
}

func newZstdEncoder(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}
