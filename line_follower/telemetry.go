package main

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	control "linefollow-core/line_follower/lateral_control"
)

// TelemetrySample is one tick of recorded run state.
type TelemetrySample struct {
	T        float64
	X        float64
	Z        float64
	Heading  float64
	Error    float64
	Steering float64
	LineLost bool
	P        float64
	I        float64
	D        float64
}

// WriteCSV exports the samples as a CSV file.
func WriteCSV(path string, samples []TelemetrySample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"t_s", "x", "z", "heading_deg", "error", "steering_dps", "line_lost", "p", "i", "d"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{
			ff(s.T), ff(s.X), ff(s.Z), ff(s.Heading),
			ff(s.Error), ff(s.Steering),
			strconv.Itoa(control.BoolToInt(s.LineLost)),
			ff(s.P), ff(s.I), ff(s.D),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// RenderChart draws the line error and the steering command over time into a
// PNG. Steering is plotted scaled down to share the error axis.
func RenderChart(path, title string, samples []TelemetrySample) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("line follower telemetry: %s", title)
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "error / steering (deg/s ÷ 100)"

	errXY := make(plotter.XYs, len(samples))
	steerXY := make(plotter.XYs, len(samples))
	for i, s := range samples {
		errXY[i] = plotter.XY{X: s.T, Y: s.Error}
		steerXY[i] = plotter.XY{X: s.T, Y: s.Steering / 100}
	}

	errLine, err := plotter.NewLine(errXY)
	if err != nil {
		return err
	}
	errLine.Color = color.RGBA{R: 200, A: 255}

	steerLine, err := plotter.NewLine(steerXY)
	if err != nil {
		return err
	}
	steerLine.Color = color.RGBA{B: 200, A: 255}

	p.Add(errLine, steerLine)
	p.Legend.Add("error", errLine)
	p.Legend.Add("steering/100", steerLine)
	p.Legend.Top = true

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
