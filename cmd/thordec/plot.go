/*
DESCRIPTION
  plot.go provides plotting and percentiles of the bits used by each decoded
  frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// plotBits saves a line plot of bits against decode order to path. The image
// format is chosen by the file extension.
func plotBits(path string, bits []float64) error {
	if len(bits) == 0 {
		return errors.New("no frames to plot")
	}

	pts := make(plotter.XYs, len(bits))
	for i, b := range bits {
		pts[i].X = float64(i)
		pts[i].Y = b
	}

	p := plot.New()
	p.Title.Text = "Bits per frame"
	p.X.Label.Text = "Decode order"
	p.Y.Label.Text = "Bits"

	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "could not create line")
	}
	p.Add(l, plotter.NewGrid())

	err = p.Save(plotWidth, plotHeight, path)
	if err != nil {
		return errors.Wrap(err, "could not save plot")
	}
	return nil
}

// percentiles returns the median and 95th percentile of bits.
func percentiles(bits []float64) (med, p95 float64) {
	x := append([]float64(nil), bits...)
	sort.Float64s(x)
	return stat.Quantile(0.5, stat.Empirical, x, nil), stat.Quantile(0.95, stat.Empirical, x, nil)
}
