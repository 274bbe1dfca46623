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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/sortx/sortx/record"
	"github.com/sortx/sortx/sortengine"
	"github.com/sortx/sortx/sortkey"
)

// Flag variables, package-level as cobra's flag binding expects (matching
// the shape of quellog's cmd/root.go).
var (
	outputFlag      string
	keyFlags        []string
	memoryLimitFlag string
	uniqueFlag      string
	naturalFlag     bool
	localeFlag      string
	stableFlag      bool
	formatInFlag    string
	formatOutFlag   string
	codecInFlag     string
	codecOutFlag    string
	statsFlag       bool
	skipBlankFlag   bool
	tempDirFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "sortx PATH",
	Short: "Sort large record-oriented files by one or more typed keys",
	Long: `sortx sorts csv, tsv, jsonl, and txt files - optionally gzip or
zstd compressed - by one or more typed keys, spilling to temporary
storage when the input doesn't fit in memory.

PATH may be - to read from standard input, in which case --format-in
is required since there's no file extension to autodetect from.`,
	Args: cobra.ExactArgs(1),
	RunE: runSort,
}

func init() {
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output path (required unless writing to standard output)")
	rootCmd.Flags().StringArrayVarP(&keyFlags, "key", "k", nil, "key spec SELECTOR[:TYPE[:OPT=VAL...]], repeatable")
	rootCmd.Flags().StringVar(&memoryLimitFlag, "memory-limit", "256M", "run generator memory budget, accepts K/M/G suffixes")
	rootCmd.Flags().StringVar(&uniqueFlag, "unique", "", "keep only the first record in input order for each value of this field")
	rootCmd.Flags().BoolVar(&naturalFlag, "natural", false, "shorthand for a single nat key over field 0 when no -k is given")
	rootCmd.Flags().StringVar(&localeFlag, "locale", "", "default locale tag for str keys that don't specify their own")
	rootCmd.Flags().BoolVar(&stableFlag, "stable", true, "preserve input order among equal keys")
	rootCmd.Flags().StringVar(&formatInFlag, "format-in", "", "override input format autodetection: csv, tsv, jsonl, txt")
	rootCmd.Flags().StringVar(&formatOutFlag, "format-out", "", "override output format autodetection")
	rootCmd.Flags().StringVar(&codecInFlag, "codec-in", "", "override input compression autodetection: none, gzip, zstd")
	rootCmd.Flags().StringVar(&codecOutFlag, "codec-out", "", "override output compression autodetection")
	rootCmd.Flags().BoolVar(&statsFlag, "stats", false, "print statistics to standard error on completion")
	rootCmd.Flags().BoolVar(&skipBlankFlag, "skip-blank", false, "drop blank lines from txt input")
	rootCmd.Flags().StringVar(&tempDirFlag, "temp-dir", "", "directory for spilled run files (default: $SORTX_TMPDIR or the OS temp dir)")

	rootCmd.AddCommand(examplesCmd, typesCmd)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return 0
}

func runSort(cmd *cobra.Command, args []string) error {
	keys, err := sortkey.ParseKeySpecs(keyFlags)
	if err != nil {
		return err
	}

	memLimit, err := record.ParseMemoryLimit(memoryLimitFlag)
	if err != nil {
		return &sortkey.InvalidKeySpecError{Spec: memoryLimitFlag, Reason: err.Error()}
	}

	opts := sortengine.Options{
		MemoryLimit: memLimit,
		Natural:     naturalFlag,
		SkipBlank:   skipBlankFlag,
		Unstable:    !stableFlag,
		TempDir:     tempDirFlag,
	}
	if uniqueFlag != "" {
		opts.Unique = record.ParseSelector(uniqueFlag)
		opts.HasUnique = true
	}
	if localeFlag != "" {
		tag, err := language.Parse(localeFlag)
		if err != nil {
			return &sortkey.InvalidKeySpecError{Spec: localeFlag, Reason: fmt.Sprintf("invalid locale: %v", err)}
		}
		opts.Locale = tag
	}
	if formatInFlag != "" {
		f, err := record.ParseFormat(formatInFlag)
		if err != nil {
			return err
		}
		opts.FormatIn = f
	}
	if formatOutFlag != "" {
		f, err := record.ParseFormat(formatOutFlag)
		if err != nil {
			return err
		}
		opts.FormatOut = f
	}
	if codecInFlag != "" {
		c, err := parseCodecFlag(codecInFlag)
		if err != nil {
			return err
		}
		opts.CodecIn = c
	}
	if codecOutFlag != "" {
		c, err := parseCodecFlag(codecOutFlag)
		if err != nil {
			return err
		}
		opts.CodecOut = c
	}

	in := record.Source{Path: args[0]}
	if in.Path == "-" && formatInFlag == "" {
		return &sortkey.InvalidKeySpecError{Spec: "-", Reason: "reading from standard input requires --format-in"}
	}
	out := record.Sink{Path: outputFlag}

	stats, err := sortengine.SortFile(cmd.Context(), in, out, keys, opts)
	if statsFlag {
		printStats(stats)
	}
	return err
}

func parseCodecFlag(s string) (record.Codec, error) {
	switch s {
	case "none":
		return record.CodecNone, nil
	case "gzip", "gz":
		return record.CodecGzip, nil
	case "zstd", "zst":
		return record.CodecZstd, nil
	default:
		return record.CodecNone, fmt.Errorf("unknown codec %q, want none, gzip, or zstd", s)
	}
}

func printStats(s sortengine.Stats) {
	fmt.Fprintf(os.Stderr, "lines_processed=%d runs_generated=%d peak_memory_bytes_estimate=%d processing_time_seconds=%.3f input_path=%s output_path=%s\n",
		s.LinesProcessed, s.RunsGenerated, s.PeakMemoryBytesEstimate, s.ProcessingTimeSeconds, s.InputPath, s.OutputPath)
}

// exitCodeFor maps an error to the exit codes fixed by spec.md §6: 2 for
// invalid arguments or key specs, 3 for input I/O or parse errors, 4 for
// cancellation, 1 for anything else.
func exitCodeFor(err error) int {
	var keySpecErr *sortkey.InvalidKeySpecError
	if errors.As(err, &keySpecErr) {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if errors.Is(err, sortengine.ErrCancelled) {
		fmt.Fprintln(os.Stderr, err)
		return 4
	}
	var ioErr *sortengine.IOError
	var recErr *sortengine.InvalidRecordError
	if errors.As(err, &ioErr) || errors.As(err, &recErr) {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}
