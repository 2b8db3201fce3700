// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package criterion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNoData reports that the criterion result tree does not exist at
// all, as opposed to existing but matching nothing.
var ErrNoData = errors.New("No benchmark data found — have you run the benchmark yet?")

// A ConventionError reports a result tree that does not follow
// criterion's on-disk layout conventions.
type ConventionError struct {
	Path string // offending path, relative to the result root
	Msg  string
}

func (e *ConventionError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// resultDir is where criterion writes its output, relative to the
// root of the benchmarked project.
const resultDir = "target/criterion"

// datasetMarker names the subdirectory holding the current run.
// Criterion keeps historical baselines in sibling directories, which
// this tool ignores.
const datasetMarker = "new"

// builder accumulates the two record kinds for one benchmark
// directory until both have been seen.
type builder struct {
	benchmark *Benchmark
	estimates *Estimates
}

// ReadAll walks the criterion result tree under root and returns one
// reconciled BenchmarkInfo per benchmark whose group name matches sel.
//
// The walk prunes criterion's rendered HTML ("report" directories at
// the first two levels), anything outside the current dataset, and
// groups whose name does not match sel. Result order is not
// specified; callers are expected to sort downstream.
func ReadAll(root string, sel *regexp.Regexp) ([]BenchmarkInfo, error) {
	base := filepath.Join(root, resultDir)
	if _, err := os.Stat(base); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, err
	}

	benchmarks := make(map[string]*builder)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(base, path)
		if rerr != nil {
			return rerr
		}
		if rel == "." {
			return nil
		}
		if !utf8.ValidString(rel) {
			return &ConventionError{Msg: fmt.Sprintf("non-UTF-8 path name %q", rel)}
		}
		rel = filepath.ToSlash(rel)

		keep, err := keepEntry(rel, d.IsDir(), sel)
		if err != nil {
			return err
		}
		if !keep {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if strings.Count(rel, "/") < 3 {
			// Ancestor directory still under consideration.
			return nil
		}
		return readDataFile(benchmarks, base, rel, sel)
	})
	if err != nil {
		return nil, err
	}

	// Reconciliation: every benchmark directory must have yielded
	// both record kinds, and the group directory name must round-trip
	// to the recorded group ID.
	result := make([]BenchmarkInfo, 0, len(benchmarks))
	for dir, b := range benchmarks {
		if b.benchmark == nil || b.estimates == nil {
			return nil, &ConventionError{Path: dir, Msg: "did not get all expected data for this benchmark"}
		}
		groupDir := dir[:strings.IndexByte(dir, '/')]
		if got := GroupName(groupDir); got != b.benchmark.GroupID {
			return nil, &ConventionError{
				Path: dir,
				Msg:  fmt.Sprintf("group directory decodes to %q but benchmark records group %q", got, b.benchmark.GroupID),
			}
		}
		result = append(result, BenchmarkInfo{Benchmark: *b.benchmark, Estimates: *b.estimates})
	}
	return result, nil
}

// keepEntry applies the traversal filter to a path relative to the
// result root, split at "/". It mirrors criterion's layout: group
// directory, value directory, dataset marker, data file.
func keepEntry(rel string, isDir bool, sel *regexp.Regexp) (bool, error) {
	comps := strings.Split(rel, "/")

	// Group directory: reject the rendered HTML report and any
	// group the user did not select.
	if comps[0] == "report" {
		return false, nil
	}
	if !sel.MatchString(GroupName(comps[0])) {
		return false, nil
	}
	if len(comps) == 1 {
		return true, nil
	}

	// Value directory: groups also carry a per-group report.
	if comps[1] == "report" {
		return false, nil
	}
	if len(comps) == 2 {
		return true, nil
	}

	// Dataset marker: only the current run.
	if comps[2] != datasetMarker {
		return false, nil
	}
	if len(comps) == 3 {
		return true, nil
	}

	// Data file: only the two record kinds this tool understands.
	stem, ok := strings.CutSuffix(comps[3], ".json")
	if !ok || (stem != "benchmark" && stem != "estimates") {
		return false, nil
	}
	if isDir {
		return false, &ConventionError{Path: rel, Msg: "expected a data file, found a directory"}
	}
	return true, nil
}

// readDataFile decodes one kept data file into the builder for its
// benchmark directory.
func readDataFile(benchmarks map[string]*builder, base, rel string, sel *regexp.Regexp) error {
	data, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("reading data file: %w", err)
	}

	dir := rel[:strings.LastIndexByte(rel, '/')]
	b := benchmarks[dir]
	if b == nil {
		b = new(builder)
		benchmarks[dir] = b
	}

	stem := strings.TrimSuffix(rel[len(dir)+1:], ".json")
	switch stem {
	case "benchmark":
		bench, err := decodeBenchmark(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", rel, err)
		}
		if !sel.MatchString(bench.GroupID) {
			return &ConventionError{
				Path: rel,
				Msg:  fmt.Sprintf("group %q does not match the selection regex although its directory name does", bench.GroupID),
			}
		}
		b.benchmark = bench
	case "estimates":
		est, err := decodeEstimates(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", rel, err)
		}
		b.estimates = est
	}
	return nil
}

// decodeBenchmark decodes benchmark.json, rejecting records that lack
// any of the required fields.
func decodeBenchmark(data []byte) (*Benchmark, error) {
	var raw struct {
		GroupID    *string     `json:"group_id"`
		ValueStr   *string     `json:"value_str"`
		Throughput *Throughput `json:"throughput"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch {
	case raw.GroupID == nil || *raw.GroupID == "":
		return nil, errors.New("benchmark record has no group_id")
	case raw.ValueStr == nil:
		return nil, errors.New("benchmark record has no value_str")
	case raw.Throughput == nil:
		return nil, errors.New("benchmark record has no throughput configuration")
	}
	return &Benchmark{GroupID: *raw.GroupID, ValueStr: *raw.ValueStr, Throughput: *raw.Throughput}, nil
}

// decodeEstimates decodes estimates.json, requiring the median
// estimate and its confidence interval to be present.
func decodeEstimates(data []byte) (*Estimates, error) {
	var raw struct {
		Median *struct {
			PointEstimate      *float32            `json:"point_estimate"`
			StandardError      float32             `json:"standard_error"`
			ConfidenceInterval *ConfidenceInterval `json:"confidence_interval"`
		} `json:"median"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch {
	case raw.Median == nil:
		return nil, errors.New("estimates record has no median estimate")
	case raw.Median.PointEstimate == nil:
		return nil, errors.New("median estimate has no point estimate")
	case raw.Median.ConfidenceInterval == nil:
		return nil, errors.New("median estimate has no confidence interval")
	}
	return &Estimates{Median: Estimate{
		PointEstimate:      *raw.Median.PointEstimate,
		StandardError:      raw.Median.StandardError,
		ConfidenceInterval: *raw.Median.ConfidenceInterval,
	}}, nil
}

// GroupName reverse-engineers a benchmark group name from its
// directory name. Criterion flattens "/" separators to "_" when
// naming group directories; the substitution is lossy for names that
// contain a literal "_", which this tool inherits from the harness.
func GroupName(dir string) string {
	return strings.ReplaceAll(dir, "_", "/")
}
