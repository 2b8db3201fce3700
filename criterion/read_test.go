// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package criterion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile writes JSON data at path, creating parent directories.
func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o777))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
}

// writeBenchmark lays out a complete benchmark directory under the
// result root: <groupDir>/<value>/new/{benchmark,estimates}.json.
func writeBenchmark(t *testing.T, root, groupDir, value, throughput string, pe, lb, ub, cl float64) {
	t.Helper()
	dir := filepath.Join(root, resultDir, groupDir, value, "new")
	writeFile(t, filepath.Join(dir, "benchmark.json"), fmt.Sprintf(
		`{"group_id": %q, "value_str": %q, "throughput": %s}`,
		GroupName(groupDir), value, throughput))
	writeFile(t, filepath.Join(dir, "estimates.json"), fmt.Sprintf(
		`{"median": {"point_estimate": %g, "standard_error": 1.0,
		  "confidence_interval": {"confidence_level": %g, "lower_bound": %g, "upper_bound": %g}}}`,
		pe, cl, lb, ub))
}

func matchAll(t *testing.T) *regexp.Regexp {
	t.Helper()
	return regexp.MustCompile(".*")
}

func TestReadAllSingleBenchmark(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "foo", "1024", `{"Bytes": 1024}`, 512.0, 500.0, 520.0, 0.95)

	infos, err := ReadAll(root, matchAll(t))
	require.NoError(t, err)
	require.Len(t, infos, 1)

	b := infos[0].Benchmark
	assert.Equal(t, "foo", b.GroupID)
	assert.Equal(t, "1024", b.ValueStr)
	assert.Equal(t, Throughput{Type: Bytes, Count: 1024}, b.Throughput)

	m := infos[0].Estimates.Median
	assert.Equal(t, float32(512.0), m.PointEstimate)
	assert.Equal(t, float32(500.0), m.ConfidenceInterval.LowerBound)
	assert.Equal(t, float32(520.0), m.ConfidenceInterval.UpperBound)
	assert.Equal(t, float32(0.95), m.ConfidenceInterval.ConfidenceLevel)
}

func TestReadAllSkipsReportsAndBaselines(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "foo", "16", `{"Elements": 16}`, 10.0, 9.0, 11.0, 0.95)

	// Rendered HTML reports at both prune depths, plus a historical
	// baseline dataset. None of these are valid JSON, so reading any
	// of them would fail loudly.
	base := filepath.Join(root, resultDir)
	writeFile(t, filepath.Join(base, "report", "index.html"), "<html>")
	writeFile(t, filepath.Join(base, "foo", "report", "index.html"), "<html>")
	writeFile(t, filepath.Join(base, "foo", "16", "base", "benchmark.json"), "not json")
	writeFile(t, filepath.Join(base, "foo", "16", "new", "sample.json"), "not json")

	infos, err := ReadAll(root, matchAll(t))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "foo", infos[0].Benchmark.GroupID)
}

func TestReadAllRegexFilter(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "keep_me", "1", `{"Elements": 1}`, 10.0, 9.0, 11.0, 0.95)
	// The excluded group holds deliberately bogus JSON: the walker
	// must prune it before ever opening a file.
	dir := filepath.Join(root, resultDir, "drop/1/new")
	writeFile(t, filepath.Join(dir, "benchmark.json"), "not json")
	writeFile(t, filepath.Join(dir, "estimates.json"), "not json")

	infos, err := ReadAll(root, regexp.MustCompile("^keep/me$"))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "keep/me", infos[0].Benchmark.GroupID)
}

func TestReadAllMissingRoot(t *testing.T) {
	_, err := ReadAll(t.TempDir(), matchAll(t))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestReadAllMissingEstimates(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, resultDir, "foo", "8", "new")
	writeFile(t, filepath.Join(dir, "benchmark.json"),
		`{"group_id": "foo", "value_str": "8", "throughput": {"Elements": 8}}`)

	_, err := ReadAll(root, matchAll(t))
	var cerr *ConventionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "foo/8/new", cerr.Path)
}

func TestReadAllMissingBenchmark(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, resultDir, "foo", "8", "new")
	writeFile(t, filepath.Join(dir, "estimates.json"),
		`{"median": {"point_estimate": 10, "standard_error": 1,
		  "confidence_interval": {"confidence_level": 0.95, "lower_bound": 9, "upper_bound": 11}}}`)

	_, err := ReadAll(root, matchAll(t))
	var cerr *ConventionError
	assert.ErrorAs(t, err, &cerr)
}

func TestReadAllGroupDirMismatch(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, resultDir, "foo", "8", "new")
	writeFile(t, filepath.Join(dir, "benchmark.json"),
		`{"group_id": "bar", "value_str": "8", "throughput": {"Elements": 8}}`)
	writeFile(t, filepath.Join(dir, "estimates.json"),
		`{"median": {"point_estimate": 10, "standard_error": 1,
		  "confidence_interval": {"confidence_level": 0.95, "lower_bound": 9, "upper_bound": 11}}}`)

	// "bar" matches ".*", so the regex cross-check passes and the
	// directory name reconciliation must catch the divergence.
	_, err := ReadAll(root, matchAll(t))
	var cerr *ConventionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, `"bar"`)
}

func TestReadAllGroupRegexMismatch(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, resultDir, "foo", "8", "new")
	// Directory name matches the regex but the recorded group does
	// not: the on-disk convention has diverged.
	writeFile(t, filepath.Join(dir, "benchmark.json"),
		`{"group_id": "other", "value_str": "8", "throughput": {"Elements": 8}}`)

	_, err := ReadAll(root, regexp.MustCompile("^foo$"))
	var cerr *ConventionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "selection regex")
}

func TestReadAllDirectoryAtDataDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, resultDir, "foo", "8", "new", "benchmark.json", "oops"), "{}")

	_, err := ReadAll(root, matchAll(t))
	var cerr *ConventionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "directory")
}

func TestReadAllMalformedJSON(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, resultDir, "foo", "8", "new")
	writeFile(t, filepath.Join(dir, "benchmark.json"), "{")
	writeFile(t, filepath.Join(dir, "estimates.json"), "{}")

	_, err := ReadAll(root, matchAll(t))
	assert.Error(t, err)
}

func TestGroupNameRoundTrip(t *testing.T) {
	for _, name := range []string{"foo", "alg/v1", "a/b/c", "plain"} {
		dir := ""
		for _, r := range name {
			if r == '/' {
				dir += "_"
			} else {
				dir += string(r)
			}
		}
		assert.Equal(t, name, GroupName(dir))
	}
}
