package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

var (
	strongPositive = color.New(color.FgGreen, color.Bold)
	strongNegative = color.New(color.FgRed, color.Bold)
	moderate       = color.New(color.FgYellow)
	undefined      = color.New(color.Faint)
	header         = color.New(color.Bold)
)

// cell formats one table value for the terminal.
func cell(v domain.Value) string {
	if v.Kind() == domain.KindFloat {
		f, _ := v.Float()
		return strconv.FormatFloat(f, 'f', 3, 64)
	}
	return v.String()
}

// renderTable prints t as aligned columns.
func renderTable(w io.Writer, t *domain.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// renderMatrix prints m with coefficients coloured by strength. Padding is
// computed on the plain text so escape codes never break alignment.
func renderMatrix(w io.Writer, m *domain.CorrelationMatrix) {
	width := 6
	for _, c := range m.Columns {
		width = max(width, len(c))
	}

	fmt.Fprint(w, strings.Repeat(" ", width))
	for _, c := range m.Columns {
		fmt.Fprint(w, "  ", header.Sprint(pad(c, width)))
	}
	fmt.Fprintln(w)

	for i, c := range m.Columns {
		fmt.Fprint(w, header.Sprint(pad(c, width)))
		for j := range m.Columns {
			fmt.Fprint(w, "  ", coefficient(m.At(i, j), width))
		}
		fmt.Fprintln(w)
	}
}

func coefficient(r float64, width int) string {
	if math.IsNaN(r) {
		return undefined.Sprint(pad("n/a", width))
	}
	text := pad(strconv.FormatFloat(r, 'f', 3, 64), width)
	switch {
	case r >= 0.7:
		return strongPositive.Sprint(text)
	case r <= -0.7:
		return strongNegative.Sprint(text)
	case math.Abs(r) >= 0.3:
		return moderate.Sprint(text)
	default:
		return text
	}
}

// pad right-aligns s to width.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
