// Command denature fits the two-state thermal denaturation model to a
// measured melting curve.
//
// Usage:
//
//	denature [flags]
//
// The input is a CSV file with "temperature / K" and "signal" columns and an
// optional "temperature / °C" column. Settings are read from DENATURE_*
// environment variables (and .env) first; flags override them.
//
// Examples:
//
//	denature -data melt.csv
//	denature -data melt.csv -plot melt.svg -export melt-fit.csv -v
//	denature -synth sample.csv -seed 9470
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tobias-fritz/thermal-denaturation/analysis"
	"github.com/tobias-fritz/thermal-denaturation/dataset"
	"github.com/tobias-fritz/thermal-denaturation/fit"
	"github.com/tobias-fritz/thermal-denaturation/internal/config"
	"github.com/tobias-fritz/thermal-denaturation/synth"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "denature: ", 0)

	cfg, err := config.Load()
	if err != nil {
		logger.Print(err)
		return exitUsage
	}

	fs := flag.NewFlagSet("denature", flag.ContinueOnError)
	fs.SetOutput(stderr)
	data := fs.String("data", cfg.DataPath, "input CSV file")
	plotPath := fs.String("plot", cfg.PlotPath, "chart output file, format from extension (empty disables)")
	export := fs.String("export", cfg.ExportPath, "write the table with fraction and fit columns to this CSV file")
	synthPath := fs.String("synth", "", "write a synthetic dataset to this CSV file and exit")
	seed := fs.Int64("seed", synth.DefaultSeed, "random seed for -synth")
	maxIter := fs.Int("max-iter", cfg.MaxIterations, "solver iteration limit")
	strict := fs.Bool("strict", cfg.Strict, "fail when the fit does not converge")
	verbose := fs.Bool("v", cfg.Verbose, "print fit diagnostics and solver progress")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: denature [flags]\n\n")
		fmt.Fprintf(stderr, "Fits a two-state thermal denaturation model to a melting curve.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  denature -data melt.csv\n")
		fmt.Fprintf(stderr, "  denature -data melt.csv -plot melt.svg -export melt-fit.csv -v\n")
		fmt.Fprintf(stderr, "  denature -synth sample.csv -seed 9470\n")
	}

	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		logger.Printf("unexpected arguments: %v", fs.Args())
		fs.Usage()
		return exitUsage
	}
	if *maxIter <= 0 {
		logger.Printf("-max-iter must be positive: %d", *maxIter)
		return exitUsage
	}

	if *synthPath != "" {
		if err := writeSynthetic(*synthPath, *seed); err != nil {
			logger.Print(err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "wrote synthetic dataset (seed %d) to %s\n", *seed, *synthPath)
		return exitOK
	}

	fitOpts := []fit.Option{fit.WithMaxIterations(*maxIter)}
	if *strict {
		fitOpts = append(fitOpts, fit.WithStrict())
	}

	opts := []analysis.Option{
		analysis.WithOutput(stdout),
		analysis.WithPlot(*plotPath),
		analysis.WithExport(*export),
		analysis.WithFitOptions(fitOpts...),
	}
	if *verbose {
		opts = append(opts, analysis.WithVerbose(), analysis.WithLogger(logger))
	}

	if _, err := analysis.NewAnalyzer(opts...).Analyze(*data); err != nil {
		logger.Print(err)
		return exitFailure
	}

	return exitOK
}

func writeSynthetic(path string, seed int64) error {
	s, err := synth.NewGenerator(synth.WithSeed(seed)).Generate()
	if err != nil {
		return err
	}

	tbl, err := dataset.FromSample(s.Temperatures, s.Signal)
	if err != nil {
		return err
	}

	return tbl.Save(path)
}
