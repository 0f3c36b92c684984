package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/envdata-hub/internal/pipeline"
)

// plotScatter saves s as a PNG scatter plot with its least-squares fit line
// and returns the file path.
func plotScatter(dir string, s pipeline.ScatterSeries) (string, error) {
	p := plot.New()
	p.Title.Text = s.Y + " vs " + s.X
	p.X.Label.Text = s.X
	p.Y.Label.Text = s.Y

	pts := make(plotter.XYs, len(s.Points))
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, pt := range s.Points {
		pts[i].X, pts[i].Y = pt[0], pt[1]
		xs[i], ys[i] = pt[0], pt[1]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("scatter %s/%s: %w", s.X, s.Y, err)
	}
	sc.Color = plotutil.Color(0)
	p.Add(sc)

	// A fit needs two distinct x values.
	if len(xs) >= 2 && slices.Min(xs) != slices.Max(xs) {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		lo, hi := slices.Min(xs), slices.Max(xs)
		l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: alpha + beta*lo}, {X: hi, Y: alpha + beta*hi}})
		if err != nil {
			return "", fmt.Errorf("fit line %s/%s: %w", s.X, s.Y, err)
		}
		l.Color = plotutil.Color(1)
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}

	path := filepath.Join(dir, slug(s.X)+"_vs_"+slug(s.Y)+".png")
	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save plot: %w", err)
	}
	return path, nil
}

// slug lowercases s and joins its alphanumeric runs with dashes.
func slug(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "-")
}
