package mcfit

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveSignalPlot renders one signal (pad or mesh) as amplitude over time
// buckets and writes a PNG.
func SaveSignalPlot(sig []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time bucket"
	p.Y.Label.Text = "amplitude (ADC)"

	pts := make(plotter.XYs, len(sig))
	for i, v := range sig {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("error building signal line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// SaveConvergencePlot renders the per-round best cost of a fit and writes a
// PNG.
func SaveConvergencePlot(minChis []float64, path string) error {
	p := plot.New()
	p.Title.Text = "fit convergence"
	p.X.Label.Text = "round"
	p.Y.Label.Text = "chi2"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	pts := make(plotter.XYs, 0, len(minChis))
	for i, v := range minChis {
		if v <= 0 {
			continue // log axis
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("error building convergence line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// SaveHitPatternPlot renders total charge per pad number and writes a PNG.
func SaveHitPatternPlot(hits []float64, path string) error {
	p := plot.New()
	p.Title.Text = "hit pattern"
	p.X.Label.Text = "pad"
	p.Y.Label.Text = "charge (ADC)"

	pts := make(plotter.XYs, 0, 256)
	for pad, v := range hits {
		if v == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(pad), Y: v})
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("error building hit scatter: %w", err)
	}
	p.Add(scatter)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
