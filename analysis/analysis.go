package analysis

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tobias-fritz/thermal-denaturation/chart"
	"github.com/tobias-fritz/thermal-denaturation/dataset"
	"github.com/tobias-fritz/thermal-denaturation/fit"
	"github.com/tobias-fritz/thermal-denaturation/model"
	"github.com/tobias-fritz/thermal-denaturation/stats"
)

// DefaultInitialGuess is the starting point used for normalized data.
var DefaultInitialGuess = model.Params{SA: 3, MA: -0.003, SB: 4, MB: -0.003, DH: 4e5, Tm: 325}

// DefaultPlotPath is where DenaturationAnalysis saves the chart.
const DefaultPlotPath = "denaturation.png"

// Report holds the outcome of one analysis.
type Report struct {
	Loaded    bool           // false when the data file could not be read
	Table     *dataset.Table // input with fraction and fit columns
	Fit       fit.Result
	Residuals stats.Summary // statistics of fraction - fit
}

// LargestResidual returns the residual of largest magnitude and its row.
func (r Report) LargestResidual() (float64, int) {
	if -r.Residuals.Min > r.Residuals.Max {
		return r.Residuals.Min, r.Residuals.MinPos
	}

	return r.Residuals.Max, r.Residuals.MaxPos
}

// Analyzer runs the denaturation workflow. The zero value fits from
// DefaultInitialGuess, writes no files and prints to stdout.
type Analyzer struct {
	InitialGuess model.Params
	PlotPath     string // chart destination, empty to skip
	ExportPath   string // augmented CSV destination, empty to skip
	FitOptions   []fit.Option
	Out          io.Writer   // result lines, os.Stdout when nil
	Logger       *log.Logger // warnings and solver summary, nil to disable
	Verbose      bool        // also print residual statistics and solver status
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithInitialGuess overrides DefaultInitialGuess.
func WithInitialGuess(p model.Params) Option {
	return func(a *Analyzer) { a.InitialGuess = p }
}

// WithPlot saves the chart to path.
func WithPlot(path string) Option {
	return func(a *Analyzer) { a.PlotPath = path }
}

// WithExport writes the augmented table to path.
func WithExport(path string) Option {
	return func(a *Analyzer) { a.ExportPath = path }
}

// WithFitOptions passes solver options through to fit.Fit.
func WithFitOptions(opts ...fit.Option) Option {
	return func(a *Analyzer) { a.FitOptions = append(a.FitOptions, opts...) }
}

// WithOutput directs the result lines to w.
func WithOutput(w io.Writer) Option {
	return func(a *Analyzer) { a.Out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) { a.Logger = l }
}

// WithVerbose prints fit diagnostics after the result lines.
func WithVerbose() Option {
	return func(a *Analyzer) { a.Verbose = true }
}

// NewAnalyzer creates an analyzer starting from DefaultInitialGuess.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{InitialGuess: DefaultInitialGuess}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// DenaturationAnalysis analyzes fname with the default guess, saves the chart
// to DefaultPlotPath and prints the results to w.
func DenaturationAnalysis(fname string, w io.Writer) (Report, error) {
	return NewAnalyzer(WithPlot(DefaultPlotPath), WithOutput(w)).Analyze(fname)
}

// Analyze loads path and runs the workflow. Schema, degenerate-signal and
// output errors are returned; an unreadable file is reported on Out only.
func (a *Analyzer) Analyze(path string) (Report, error) {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}

	tbl, err := dataset.Load(path)
	if err != nil {
		if errors.Is(err, dataset.ErrUnreadable) {
			a.logf("%v", err)
			fmt.Fprintln(out, "No data file found")
			return Report{}, nil
		}
		return Report{}, err
	}

	report, err := a.Run(tbl)
	if err != nil {
		return report, fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(out, "Enthalpy: %v J/mol\n", report.Fit.Params.DH)
	fmt.Fprintf(out, "Midpoint temperature: %v K\n", report.Fit.Params.Tm)
	if a.Verbose {
		worst, row := report.LargestResidual()
		fmt.Fprintf(out, "Residual RMS: %.4g\n", report.Residuals.RMS)
		fmt.Fprintf(out, "Largest residual: %.4g at %.2f K\n", worst, report.Table.Kelvin[row])
		fmt.Fprintf(out, "Status: %s after %d iterations\n", report.Fit.Status, report.Fit.Iterations)
	}

	return report, nil
}

// Run fits an already loaded table, filling its fraction and fit columns, and
// writes the configured outputs. It prints nothing.
func (a *Analyzer) Run(tbl *dataset.Table) (Report, error) {
	report := Report{Loaded: true, Table: tbl}

	frac, err := stats.Normalize(tbl.Signal)
	if err != nil {
		return report, fmt.Errorf("normalize signal: %w", err)
	}
	if err := tbl.SetFraction(frac); err != nil {
		return report, err
	}

	guess := a.InitialGuess
	if guess == (model.Params{}) {
		guess = DefaultInitialGuess
	}

	opts := a.FitOptions
	if a.Logger != nil {
		opts = append(append([]fit.Option(nil), opts...), fit.WithLogger(a.Logger))
	}

	res, err := fit.Fit(tbl.Kelvin, tbl.Fraction, guess, opts...)
	report.Fit = res
	if err != nil {
		return report, err
	}
	if !res.Converged {
		a.logf("fit stopped without converging: %s", res.Status)
	}

	curve := model.EvalAll(nil, tbl.Kelvin, res.Params)
	if err := tbl.SetFit(curve); err != nil {
		return report, err
	}

	residuals, err := fit.Residuals(res.Params, tbl.Kelvin, tbl.Fraction)
	if err != nil {
		return report, err
	}
	report.Residuals = stats.Calculate(residuals)

	if a.PlotPath != "" {
		if err := chart.Render(tbl, a.PlotPath, chart.WithTitle("Thermal denaturation")); err != nil {
			return report, err
		}
	}
	if a.ExportPath != "" {
		if err := tbl.Save(a.ExportPath); err != nil {
			return report, fmt.Errorf("export: %w", err)
		}
	}

	return report, nil
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}
