// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot draws a set of benchmark traces as a throughput
// vs. problem size chart with error bars and a legend.
package benchplot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"critplot/benchtrace"
	"critplot/benchunit"
	"critplot/criterion"
)

// Options is the presentation configuration of a chart.
type Options struct {
	// Path of the output image. A ".svg" extension selects the
	// vector backend; anything else produces a PNG raster image.
	Path string

	// Width and Height of the image, in points.
	Width, Height int

	// Title of the chart. Empty means no title.
	Title string

	// XLabel is the X axis description.
	XLabel string

	// ElementUnit is the unit shown on the Y axis when the traces
	// measure element throughput (e.g. "FLOP" for a "FLOP/s"
	// axis). Byte throughput is always labeled "B/s".
	ElementUnit string

	// YMin and YMax force the Y axis bounds when non-zero. Both
	// axes are logarithmic, so forced bounds must be positive.
	YMin, YMax float64
}

// Draw renders traces into the image described by opt. The trace set
// must not be empty.
func Draw(traces *benchtrace.Traces, opt Options) error {
	if traces.Len() == 0 {
		return errors.New("refusing to draw an empty chart")
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = yLabel(traces, opt.ElementUnit)

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = unitTicks{cls: classOf(traces)}

	x, y := traces.XYRange()
	// Log ticking cannot handle a non-positive axis minimum.
	if x.Min <= 0 || y.Min <= 0 {
		return fmt.Errorf("log-scale axes require positive problem sizes and throughput bounds (got x >= %g, y >= %g)", x.Min, y.Min)
	}
	p.X.Min, p.X.Max = x.Min, x.Max
	p.Y.Min, p.Y.Max = y.Min, y.Max
	if opt.YMin != 0 {
		p.Y.Min = opt.YMin
	}
	if opt.YMax != 0 {
		p.Y.Max = opt.YMax
	}

	colors := traceColors(traces.Len())

	for i, tr := range traces.All() {
		pts := tracePoints(tr)
		line, err := plotter.NewLine(pts.XYs)
		if err != nil {
			return fmt.Errorf("drawing trace %s: %w", tr.Name, err)
		}
		line.Color = colors[i]
		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return fmt.Errorf("drawing error bars for trace %s: %w", tr.Name, err)
		}
		bars.Color = colors[i]
		p.Add(line, bars)
		p.Legend.Add(tr.Name, line)
	}
	p.Legend.Padding = vg.Millimeter

	return write(p, opt)
}

// traceColors returns one color per trace, sampling hues at
// positions i/n around the hue circle. Rainbow interpolates between
// its endpoint hues and needs at least two stops.
func traceColors(n int) []color.Color {
	if n == 1 {
		return palette.Rainbow(2, 0, palette.Hue(0.5), 1, 1, 1).Colors()[:1]
	}
	return palette.Rainbow(n, 0, palette.Hue(float64(n-1)/float64(n)), 1, 1, 1).Colors()
}

// seriesPoints adapts one trace to the plotter interfaces: XYs for
// the line, YErrors for the error bars.
type seriesPoints struct {
	plotter.XYs
	plotter.YErrors
}

func tracePoints(tr benchtrace.Trace) seriesPoints {
	pts := seriesPoints{
		XYs:     make(plotter.XYs, len(tr.Data)),
		YErrors: make(plotter.YErrors, len(tr.Data)),
	}
	for i, p := range tr.Data {
		y := float64(p.Measurement.PointEstimate)
		pts.XYs[i].X = float64(p.Size)
		pts.XYs[i].Y = y
		// Error bar offsets are relative to the point estimate.
		pts.YErrors[i].Low = y - float64(p.Measurement.LowerBound)
		pts.YErrors[i].High = float64(p.Measurement.UpperBound) - y
	}
	return pts
}

// yLabel picks the Y axis unit label from the trace set's common
// throughput type.
func yLabel(traces *benchtrace.Traces, elementUnit string) string {
	tt, ok := traces.ThroughputType()
	if !ok {
		return "s"
	}
	switch tt {
	case criterion.Bytes, criterion.BytesDecimal:
		return "B/s"
	default:
		return elementUnit + "/s"
	}
}

// classOf picks the prefix class for Y axis tick labels. Criterion's
// plain Bytes throughput is conventionally reported with binary
// prefixes; everything else is decimal.
func classOf(traces *benchtrace.Traces) benchunit.Class {
	if tt, ok := traces.ThroughputType(); ok && tt == criterion.Bytes {
		return benchunit.Binary
	}
	return benchunit.Decimal
}

// unitTicks reformats logarithmic tick labels with unit prefixes, so
// a 2e9 B/s tick reads "1.86Gi" rather than "2e+09".
type unitTicks struct {
	cls benchunit.Class
}

func (u unitTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.LogTicks{Prec: -1}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label != "" {
			ticks[i].Label = benchunit.Scale(t.Value, u.cls)
		}
	}
	return ticks
}

// write renders the finished plot to the output file, picking the
// backend from the file extension.
func write(p *plot.Plot, opt Options) error {
	format := "png"
	if strings.EqualFold(filepath.Ext(opt.Path), ".svg") {
		format = "svg"
	}
	wt, err := p.WriterTo(vg.Points(float64(opt.Width)), vg.Points(float64(opt.Height)), format)
	if err != nil {
		return fmt.Errorf("rendering the chart: %w", err)
	}
	f, err := os.Create(opt.Path)
	if err != nil {
		return fmt.Errorf("creating the output file: %w", err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing the chart to %s: %w", opt.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing the chart to %s: %w", opt.Path, err)
	}
	return nil
}
