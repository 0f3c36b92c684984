package pipeline

import (
	"context"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

// Output column names of the air-quality tables.
const (
	colShare  = "Share"
	colMin    = "Min"
	colQ1     = "Q1"
	colMedian = "Median"
	colQ3     = "Q3"
	colMax    = "Max"
)

func (p *Pipeline) airQuality(ctx context.Context, q AirQualityQuery) (*AirQualityReport, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	ds, err := p.load(ctx, domain.KindAQI)
	if err != nil {
		return nil, err
	}
	measure := q.Measure()
	if err := ds.Require(domain.ColMonth, measure); err != nil {
		return nil, err
	}

	available, err := yearSpan(ds, domain.ColYear)
	if err != nil {
		return nil, err
	}
	filtered, err := domain.Filter(ds, domain.Predicate{
		YearRange{From: q.YearFrom, To: q.YearTo}.condition(domain.ColYear),
	})
	if err != nil {
		return nil, err
	}

	r := &AirQualityReport{
		ReportMeta: newMeta(DashboardAirQuality),
		Query:      q,
		Measure:    measure,
		Available:  available,
	}
	mean := []domain.Aggregation{{Column: measure, Reducer: domain.Mean}}

	if r.Trend, err = domain.Aggregate(filtered, []string{domain.ColYear, domain.ColMonth}, mean); err != nil {
		return nil, err
	}
	r.checkEmpty("trend", r.Trend)

	totals, err := domain.Aggregate(filtered, []string{domain.ColYear}, []domain.Aggregation{{Column: measure, Reducer: domain.Sum}})
	if err != nil {
		return nil, err
	}
	r.Totals = withShare(totals, measure)
	r.checkEmpty("totals", r.Totals)

	if r.MonthlyAverages, err = domain.Aggregate(filtered, []string{domain.ColMonth}, mean); err != nil {
		return nil, err
	}
	r.checkEmpty("monthly averages", r.MonthlyAverages)

	r.Distribution, err = domain.Aggregate(filtered, []string{domain.ColYear}, []domain.Aggregation{
		{Column: measure, Reducer: domain.Min, As: colMin},
		{Column: measure, Reducer: domain.Q1, As: colQ1},
		{Column: measure, Reducer: domain.Median, As: colMedian},
		{Column: measure, Reducer: domain.Q3, As: colQ3},
		{Column: measure, Reducer: domain.Max, As: colMax},
	})
	if err != nil {
		return nil, err
	}
	r.checkEmpty("distribution", r.Distribution)

	if ds.Has(domain.ColLatitude) && ds.Has(domain.ColLongitude) {
		if r.Markers, err = domain.Aggregate(filtered, []string{domain.ColLatitude, domain.ColLongitude}, mean); err != nil {
			return nil, err
		}
		r.checkEmpty("markers", r.Markers)
	}

	var cats []domain.Aggregation
	for _, c := range domain.DayCategories {
		if ds.Has(c) {
			cats = append(cats, domain.Aggregation{Column: c, Reducer: domain.Sum})
		}
	}
	if len(cats) > 0 {
		if r.DayCategories, err = domain.Aggregate(filtered, []string{domain.ColYear}, cats); err != nil {
			return nil, err
		}
		r.checkEmpty("day categories", r.DayCategories)
	}

	return r, nil
}

// withShare appends each row's fraction of the column total. Rows with a
// missing total, or a zero grand total, get a missing share.
func withShare(t *domain.Table, col string) *domain.Table {
	j := t.ColumnIndex(col)
	var total float64
	for _, row := range t.Rows {
		if f, ok := row[j].Float(); ok {
			total += f
		}
	}

	out := &domain.Table{
		Name:       t.Name,
		KeyColumns: t.KeyColumns,
		Columns:    append(append([]string{}, t.Columns...), colShare),
		Rows:       make([][]domain.Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		share := domain.Missing()
		if f, ok := row[j].Float(); ok && total != 0 {
			share = domain.Float(f / total)
		}
		out.Rows[i] = append(append([]domain.Value{}, row...), share)
	}
	return out
}

// yearSpan returns the smallest and largest integral value of col.
func yearSpan(ds *domain.Dataset, col string) (YearRange, error) {
	years, err := domain.Distinct(ds, col)
	if err != nil {
		return YearRange{}, err
	}
	var r YearRange
	first := true
	for _, v := range years {
		y, ok := v.Int()
		if !ok {
			continue
		}
		if first || int(y) < r.From {
			r.From = int(y)
		}
		if first || int(y) > r.To {
			r.To = int(y)
		}
		first = false
	}
	return r, nil
}
