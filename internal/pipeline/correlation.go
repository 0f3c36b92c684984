package pipeline

import (
	"context"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

func (p *Pipeline) correlation(ctx context.Context, q CorrelationQuery) (*CorrelationReport, error) {
	years := YearRange{From: q.YearFrom, To: q.YearTo}
	if err := years.validate(); err != nil {
		return nil, err
	}

	snow, err := p.yearlyMean(ctx, domain.KindSnow, domain.ColWaterYear, domain.ColSnowDepth, years)
	if err != nil {
		return nil, err
	}
	gw, err := p.yearlyMean(ctx, domain.KindGroundwater, domain.ColWaterYear, domain.ColStaticWL, years)
	if err != nil {
		return nil, err
	}
	aqi, err := p.yearlyMean(ctx, domain.KindAQI, domain.ColYear, domain.ColAQIMedian, years)
	if err != nil {
		return nil, err
	}
	if aqi, err = aqi.Rename(domain.ColYear, domain.ColWaterYear); err != nil {
		return nil, err
	}

	r := &CorrelationReport{
		ReportMeta: newMeta(DashboardCorrelation),
		Query:      q,
		Scatter:    []ScatterSeries{},
	}
	r.checkEmpty("snow", snow)
	r.checkEmpty("groundwater", gw)
	r.checkEmpty("aqi", aqi)

	if r.Joined, err = domain.Join([]*domain.Table{snow, gw, aqi}, domain.ColWaterYear); err != nil {
		return nil, err
	}
	r.checkEmpty("joined", r.Joined)

	if r.Matrix, err = domain.Correlate(r.Joined, domain.ColWaterYear); err != nil {
		return nil, err
	}
	cols := r.Matrix.Columns
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			s, err := scatter(r.Joined, cols[i], cols[j])
			if err != nil {
				return nil, err
			}
			r.Scatter = append(r.Scatter, s)
		}
	}
	return r, nil
}

// yearlyMean loads kind, keeps the years in span and averages value per year.
func (p *Pipeline) yearlyMean(ctx context.Context, kind, yearCol, value string, span YearRange) (*domain.Table, error) {
	ds, err := p.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	if err := ds.Require(yearCol, value); err != nil {
		return nil, err
	}
	filtered, err := domain.Filter(ds, domain.Predicate{span.condition(yearCol)})
	if err != nil {
		return nil, err
	}
	t, err := domain.Aggregate(filtered, []string{yearCol}, []domain.Aggregation{{Column: value, Reducer: domain.Mean}})
	if err != nil {
		return nil, err
	}
	return t.WithName(kind), nil
}
