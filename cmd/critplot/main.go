// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Critplot plots criterion benchmark results in bulk.
//
// Usage:
//
//	critplot [flags] <regex>
//
// Critplot reads the result tree that criterion leaves under
// target/criterion of the benchmarked project, selects the benchmark
// groups whose name matches the regex, and draws one throughput vs.
// problem size trace per group into a single image, with error bars
// and a legend. A ".svg" output extension produces a vector image;
// anything else produces a PNG.
package main

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/spf13/cobra"

	"critplot/benchplot"
	"critplot/benchtrace"
	"critplot/criterion"
)

func newRootCmd() *cobra.Command {
	var opt benchplot.Options
	var inputPath string

	cmd := &cobra.Command{
		Use:   "critplot [flags] <regex>",
		Short: "Plot criterion benchmark results in bulk",
		Long: `Critplot turns the on-disk results of criterion benchmark runs into a
single throughput vs. problem size chart. Traces are selected by a
regular expression matching benchmark group names.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := regexp.Compile(args[0])
			if err != nil {
				return fmt.Errorf("compiling the trace selection regex: %w", err)
			}
			return run(sel, inputPath, opt)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input-path", "i", ".", "root of the project where criterion data was acquired")
	cmd.Flags().StringVarP(&opt.Path, "output-path", "o", "./output.svg", "name of the output image")
	cmd.Flags().IntVar(&opt.Width, "width", 1024, "width of the output image")
	cmd.Flags().IntVar(&opt.Height, "height", 768, "height of the output image")
	cmd.Flags().StringVar(&opt.Title, "title", "", "title of the plot")
	cmd.Flags().StringVar(&opt.XLabel, "x-label", "Problem size", "X axis label")
	cmd.Flags().StringVarP(&opt.ElementUnit, "throughput-name", "t", "FLOP", "base unit for element throughput (labeled as <unit>/s)")
	cmd.Flags().Float64Var(&opt.YMin, "y-min", 0, "force the lower Y axis bound")
	cmd.Flags().Float64Var(&opt.YMax, "y-max", 0, "force the upper Y axis bound")
	return cmd
}

func run(sel *regexp.Regexp, inputPath string, opt benchplot.Options) error {
	infos, err := criterion.ReadAll(inputPath, sel)
	if err != nil {
		return fmt.Errorf("loading data from benchmark results: %w", err)
	}

	traces, err := benchtrace.New(infos)
	if err != nil {
		return fmt.Errorf("rearranging data into plot traces: %w", err)
	}
	if traces.Len() == 0 {
		return errors.New("Specified regex does not select any trace")
	}

	if err := benchplot.Draw(traces, opt); err != nil {
		return fmt.Errorf("drawing the performance plot: %w", err)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("critplot: ")
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
