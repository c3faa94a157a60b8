// Package charts renders the simulated price distribution to an image file.
// It sits strictly downstream of the numeric core: it consumes a finished
// report and performs the only file I/O in the system.
package charts

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

var (
	priceColor = color.RGBA{R: 0xd9, G: 0x3a, B: 0x2b, A: 0xff}
	meanColor  = color.RGBA{G: 0x8a, B: 0x3a, A: 0xff}
	boundColor = color.RGBA{R: 0x2b, G: 0x5f, B: 0xd9, A: 0xff}
)

// WriteHistogram renders the report's price distribution with dashed
// vertical markers for the current price, the mean simulated price and the
// confidence interval bounds, then writes a PNG to path.
func WriteHistogram(report domain.Report, path string) error {
	p, err := buildPlot(report)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// RenderPNG streams the same chart to a writer, used by the HTTP layer.
func RenderPNG(report domain.Report, w io.Writer) error {
	p, err := buildPlot(report)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func buildPlot(report domain.Report) (*plot.Plot, error) {
	if len(report.SimulatedPrices) == 0 {
		return nil, fmt.Errorf("no simulated prices to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Monte Carlo Valuation for %s", report.Ticker)
	p.X.Label.Text = "Price"
	p.Y.Label.Text = "Frequency"

	bins := len(report.Histogram)
	if bins < 1 {
		bins = 50
	}
	hist, err := plotter.NewHist(plotter.Values(report.SimulatedPrices), bins)
	if err != nil {
		return nil, fmt.Errorf("build histogram: %w", err)
	}
	hist.FillColor = color.RGBA{R: 0xcf, G: 0xcf, B: 0xcf, A: 0xff}
	p.Add(hist)

	top := maxCount(report.Histogram)
	markers := []struct {
		label string
		value float64
		color color.RGBA
	}{
		{"Stock Price", report.StockPrice, priceColor},
		{"Mean Simulated Price", report.MeanSimulatedPrice, meanColor},
		{"CI Lower", report.Interval.Lower, boundColor},
		{"CI Upper", report.Interval.Upper, boundColor},
	}
	for _, m := range markers {
		line, err := verticalLine(m.value, top, m.color)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(m.label, line)
	}
	p.Legend.Top = true

	return p, nil
}

func verticalLine(x, top float64, c color.RGBA) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return nil, fmt.Errorf("build marker line: %w", err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	return line, nil
}

func maxCount(bins []domain.HistogramBin) float64 {
	max := 1.0
	for _, b := range bins {
		if float64(b.Count) > max {
			max = float64(b.Count)
		}
	}
	return max
}
