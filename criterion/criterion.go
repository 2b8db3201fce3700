// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package criterion reads raw result data written by the criterion
// benchmarking harness.
//
// Criterion lays out its results as a directory tree under
// target/criterion in the benchmarked project. Each benchmark is a
// directory <group>/<value>/new containing small JSON records:
// benchmark.json holds the benchmark's identity and throughput
// configuration, estimates.json holds the statistical summary of the
// run. ReadAll walks that tree and reconciles the record pairs into
// BenchmarkInfo values.
package criterion

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// A Benchmark is the identity record of a single criterion benchmark,
// decoded from benchmark.json.
type Benchmark struct {
	// GroupID is the name of the benchmark group. It may contain
	// "/" separators.
	GroupID string `json:"group_id"`

	// ValueStr is the benchmark's label within its group.
	// Criterion allows any string here, but this tool requires it
	// to parse as a non-negative integer problem size.
	ValueStr string `json:"value_str"`

	// Throughput is the benchmark's throughput configuration.
	Throughput Throughput `json:"throughput"`
}

// Value decodes the benchmark's label as a problem size.
func (b *Benchmark) Value() (int, error) {
	v, err := strconv.Atoi(b.ValueStr)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("expected a non-negative integer benchmark value, got %q", b.ValueStr)
	}
	return v, nil
}

// A ThroughputType identifies the dimensional unit of a throughput
// measurement.
type ThroughputType int

const (
	// Bytes means bytes per second, reported with binary (IEC)
	// prefixes.
	Bytes ThroughputType = iota
	// BytesDecimal is equivalent to Bytes, but reported with
	// decimal (SI) prefixes.
	BytesDecimal
	// Elements means elements per second, where an element is
	// whatever the benchmark processes one of per count unit.
	Elements
)

var throughputTypeNames = [...]string{"Bytes", "BytesDecimal", "Elements"}

func (t ThroughputType) String() string {
	if t < 0 || int(t) >= len(throughputTypeNames) {
		return fmt.Sprintf("ThroughputType(%d)", int(t))
	}
	return throughputTypeNames[t]
}

// A Throughput is a throughput configuration: a type tag plus the raw
// per-iteration count (bytes or elements processed by one iteration).
type Throughput struct {
	Type  ThroughputType
	Count uint64
}

// UnmarshalJSON decodes criterion's externally tagged representation,
// e.g. {"Bytes": 1024}. Exactly one known variant must be present.
func (t *Throughput) UnmarshalJSON(data []byte) error {
	var variants map[string]uint64
	if err := json.Unmarshal(data, &variants); err != nil {
		return err
	}
	if len(variants) != 1 {
		return fmt.Errorf("expected exactly one throughput variant, got %d", len(variants))
	}
	for name, count := range variants {
		for i, known := range throughputTypeNames {
			if name == known {
				t.Type = ThroughputType(i)
				t.Count = count
				return nil
			}
		}
		return fmt.Errorf("unknown throughput variant %q", name)
	}
	return nil
}

// MarshalJSON encodes the throughput back into criterion's externally
// tagged representation.
func (t Throughput) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]uint64{t.Type.String(): t.Count})
}

// Estimates is the statistical summary of a benchmark run, decoded
// from estimates.json. Only the median estimate is retained.
type Estimates struct {
	// Median is the estimate of the median iteration time, in
	// nanoseconds.
	Median Estimate `json:"median"`
}

// An Estimate is a single statistical estimate with its confidence
// interval. Times are in nanoseconds per iteration.
type Estimate struct {
	PointEstimate      float32            `json:"point_estimate"`
	StandardError      float32            `json:"standard_error"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
}

// A ConfidenceInterval bounds an Estimate at a stated confidence
// level. Criterion emits 0.95 by default and this tool accepts
// nothing else.
type ConfidenceInterval struct {
	ConfidenceLevel float32 `json:"confidence_level"`
	LowerBound      float32 `json:"lower_bound"`
	UpperBound      float32 `json:"upper_bound"`
}

// A BenchmarkInfo is the reconciled record for one benchmark: its
// identity and its run statistics, both guaranteed present.
type BenchmarkInfo struct {
	Benchmark Benchmark
	Estimates Estimates
}
