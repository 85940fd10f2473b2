// Package chart renders a fitted denaturation curve.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tobias-fritz/thermal-denaturation/dataset"
)

// ErrNoFit is returned when the table lacks the fraction or fit column.
var ErrNoFit = errors.New("chart: table has no fitted curve")

var (
	dataColor = color.RGBA{R: 255, A: 255}
	fitColor  = color.RGBA{A: 255}
)

type config struct {
	width, height vg.Length
	title         string
}

// Option configures Render.
type Option func(*config)

// WithSize sets the canvas size.
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// Render plots the fraction column as red points and the fit column as a
// black line against Celsius temperature, and saves the chart to path. The
// image format follows the file extension.
func Render(t *dataset.Table, path string, opts ...Option) error {
	cfg := config{width: 6 * vg.Inch, height: 4 * vg.Inch}
	for _, opt := range opts {
		opt(&cfg)
	}

	p, err := build(t, cfg)
	if err != nil {
		return err
	}

	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}

	return nil
}

func build(t *dataset.Table, cfg config) (*plot.Plot, error) {
	if t.Fit == nil || t.Fraction == nil {
		return nil, ErrNoFit
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = dataset.ColumnCelsius
	p.Y.Label.Text = dataset.ColumnFraction

	data := make(plotter.XYs, t.Len())
	for i := range data {
		data[i].X = t.Celsius[i]
		data[i].Y = t.Fraction[i]
	}

	points, err := plotter.NewScatter(data)
	if err != nil {
		return nil, fmt.Errorf("chart: data: %w", err)
	}
	points.GlyphStyle.Color = dataColor
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(2.5)

	// The line is drawn in temperature order regardless of row order.
	xs := append([]float64(nil), t.Celsius...)
	order := make([]int, len(xs))
	floats.Argsort(xs, order)

	curve := make(plotter.XYs, len(xs))
	for i, j := range order {
		curve[i].X = xs[i]
		curve[i].Y = t.Fit[j]
	}

	line, err := plotter.NewLine(curve)
	if err != nil {
		return nil, fmt.Errorf("chart: fit: %w", err)
	}
	line.LineStyle.Color = fitColor
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(points, line)
	p.Legend.Add("DATA", points)
	p.Legend.Add("FIT", line)
	p.Legend.Top = true

	return p, nil
}
