// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtrace rearranges raw criterion benchmark records into
// named traces suitable for plotting.
//
// Each trace is the series of measurements for one benchmark group,
// keyed by problem size. Timing estimates are converted to throughput
// on the way in, all records must agree on a single throughput type,
// and the output is fully sorted: traces by natural name order,
// points by ascending problem size.
package benchtrace

import (
	"fmt"
	"math"
	"sort"

	"critplot/criterion"
)

// ProblemSize is the independent variable of a trace point, typically
// an input length or iteration count.
type ProblemSize = int

// A MeasurementDisplay is a throughput measurement prepared for
// display: the central value and its 95% confidence bounds, in units
// of the run's throughput type per second.
type MeasurementDisplay struct {
	PointEstimate float32
	LowerBound    float32
	UpperBound    float32
}

// timeDisplay converts a median timing estimate into display form,
// still in time units. The estimate must carry the standard 95%
// confidence interval.
func timeDisplay(e criterion.Estimate) (MeasurementDisplay, error) {
	if e.ConfidenceInterval.ConfidenceLevel != 0.95 {
		return MeasurementDisplay{}, fmt.Errorf(
			"expected a standard 95%% confidence interval, got confidence level %v",
			e.ConfidenceInterval.ConfidenceLevel)
	}
	return MeasurementDisplay{
		PointEstimate: e.PointEstimate,
		LowerBound:    e.ConfidenceInterval.LowerBound,
		UpperBound:    e.ConfidenceInterval.UpperBound,
	}, nil
}

// timeToThroughput converts a timing measurement in nanoseconds per
// iteration into a throughput measurement, given the per-iteration
// count. Faster time means higher throughput, so the bounds swap.
func (m MeasurementDisplay) timeToThroughput(count uint64) MeasurementDisplay {
	c := float32(count)
	return MeasurementDisplay{
		PointEstimate: c / (m.PointEstimate * 1e-9),
		LowerBound:    c / (m.UpperBound * 1e-9),
		UpperBound:    c / (m.LowerBound * 1e-9),
	}
}

// A Point is one measurement of a trace at a given problem size.
type Point struct {
	Size        ProblemSize
	Measurement MeasurementDisplay
}

// A Trace is a named series of points, sorted by ascending problem
// size. Each problem size appears at most once.
type Trace struct {
	Name string
	Data []Point
}

// Traces is a set of traces prepared for plotting. Traces are sorted
// by natural name order. If the set is non-empty, all traces share
// the throughput type reported by ThroughputType.
type Traces struct {
	throughputType criterion.ThroughputType
	hasThroughput  bool
	traces         []Trace
}

// A MixedThroughputError reports input records that disagree on the
// throughput type, which would make a single Y axis meaningless.
type MixedThroughputError struct {
	Common criterion.ThroughputType // type established by earlier records
	Found  criterion.ThroughputType
}

func (e *MixedThroughputError) Error() string {
	return fmt.Sprintf("expected all traces to use throughput type %s, but found %s", e.Common, e.Found)
}

// A DuplicatePointError reports two records for the same trace and
// problem size.
type DuplicatePointError struct {
	Trace string
	Size  ProblemSize
}

func (e *DuplicatePointError) Error() string {
	return fmt.Sprintf("trace %q has more than one data point for value %d", e.Trace, e.Size)
}

// New folds raw benchmark records into a sorted set of traces.
func New(infos []criterion.BenchmarkInfo) (*Traces, error) {
	byName := make(map[string]map[ProblemSize]MeasurementDisplay)
	t := new(Traces)
	for _, info := range infos {
		size, err := info.Benchmark.Value()
		if err != nil {
			return nil, err
		}

		tp := info.Benchmark.Throughput
		if t.hasThroughput && tp.Type != t.throughputType {
			return nil, &MixedThroughputError{Common: t.throughputType, Found: tp.Type}
		}
		t.throughputType, t.hasThroughput = tp.Type, true

		disp, err := timeDisplay(info.Estimates.Median)
		if err != nil {
			return nil, err
		}

		name := info.Benchmark.GroupID
		points := byName[name]
		if points == nil {
			points = make(map[ProblemSize]MeasurementDisplay)
			byName[name] = points
		}
		if _, dup := points[size]; dup {
			return nil, &DuplicatePointError{Trace: name, Size: size}
		}
		points[size] = disp.timeToThroughput(tp.Count)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	t.traces = make([]Trace, 0, len(names))
	for _, name := range names {
		points := byName[name]
		sizes := make([]ProblemSize, 0, len(points))
		for size := range points {
			sizes = append(sizes, size)
		}
		sort.Ints(sizes)
		data := make([]Point, 0, len(sizes))
		for _, size := range sizes {
			data = append(data, Point{Size: size, Measurement: points[size]})
		}
		t.traces = append(t.traces, Trace{Name: name, Data: data})
	}
	return t, nil
}

// Len returns the number of traces in the set.
func (t *Traces) Len() int { return len(t.traces) }

// All returns the traces in natural name order. The caller must
// not modify the returned slice.
func (t *Traces) All() []Trace { return t.traces }

// ThroughputType returns the common throughput type of the set. The
// boolean is false only when the set is empty.
func (t *Traces) ThroughputType() (criterion.ThroughputType, bool) {
	return t.throughputType, t.hasThroughput
}

// A Range is a closed interval of axis coordinates.
type Range struct {
	Min, Max float64
}

// XYRange computes the plotting extents of the set: X spans the first
// through last problem size across all traces, Y spans the lowest
// lower bound through the highest upper bound across all points.
// Float comparisons use a total order with NaN above every finite
// value. XYRange must not be called on an empty set.
func (t *Traces) XYRange() (x, y Range) {
	if len(t.traces) == 0 {
		panic("benchtrace: XYRange on an empty trace set")
	}
	first := true
	for _, tr := range t.traces {
		lo := float64(tr.Data[0].Size)
		hi := float64(tr.Data[len(tr.Data)-1].Size)
		if first {
			x = Range{Min: lo, Max: hi}
		} else {
			x.Min = math.Min(x.Min, lo)
			x.Max = math.Max(x.Max, hi)
		}
		for _, p := range tr.Data {
			lb := float64(p.Measurement.LowerBound)
			ub := float64(p.Measurement.UpperBound)
			if first {
				y = Range{Min: lb, Max: ub}
				first = false
			}
			if totalLess(lb, y.Min) {
				y.Min = lb
			}
			if totalLess(y.Max, ub) {
				y.Max = ub
			}
		}
	}
	return x, y
}

// totalLess is a total order on float64 that ranks NaN above every
// other value.
func totalLess(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}
