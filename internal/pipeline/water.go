package pipeline

import (
	"context"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

func (p *Pipeline) water(ctx context.Context, q WaterQuery) (*WaterReport, error) {
	snow, err := p.load(ctx, domain.KindSnow)
	if err != nil {
		return nil, err
	}
	if err := snow.Require(domain.ColSnowType, domain.ColSnowValue); err != nil {
		return nil, err
	}
	gw, err := p.load(ctx, domain.KindGroundwater)
	if err != nil {
		return nil, err
	}

	opts, err := waterOptions(snow, gw)
	if err != nil {
		return nil, err
	}
	if q.Site == "" && len(opts.Sites) > 0 {
		q.Site = opts.Sites[0]
	}
	if q.WaterYear == 0 && len(opts.Years) > 0 {
		q.WaterYear = opts.Years[0]
	}
	if q.SystemName == "" && len(opts.Systems) > 0 {
		q.SystemName = opts.Systems[0]
	}

	r := &WaterReport{
		ReportMeta: newMeta(DashboardWater),
		Query:      q,
		Options:    opts,
	}

	site, err := domain.Filter(snow, domain.Predicate{
		domain.Eq(domain.ColSite, domain.String(q.Site)),
		domain.Eq(domain.ColWaterYear, domain.Int(int64(q.WaterYear))),
	})
	if err != nil {
		return nil, err
	}
	r.SnowMetrics, err = domain.Aggregate(site,
		[]string{domain.ColSnowType, domain.ColMonth},
		[]domain.Aggregation{{Column: domain.ColSnowValue, Reducer: domain.Mean}},
		domain.InFirstSeenOrder(),
	)
	if err != nil {
		return nil, err
	}
	r.checkEmpty("snow metrics", r.SnowMetrics)

	wells, err := domain.Filter(gw, domain.Predicate{domain.Eq(domain.ColSystemName, domain.String(q.SystemName))})
	if err != nil {
		return nil, err
	}
	r.Wells, err = domain.Project(wells, domain.ColSystemName, domain.ColWaterYear, domain.ColWellDepth, domain.ColStaticWL)
	if err != nil {
		return nil, err
	}
	r.checkEmpty("wells", r.Wells)

	return r, nil
}

func waterOptions(snow, gw *domain.Dataset) (WaterOptions, error) {
	sites, err := distinctText(snow, domain.ColSite)
	if err != nil {
		return WaterOptions{}, err
	}
	years, err := distinctInts(snow, domain.ColWaterYear)
	if err != nil {
		return WaterOptions{}, err
	}
	systems, err := distinctText(gw, domain.ColSystemName)
	if err != nil {
		return WaterOptions{}, err
	}
	return WaterOptions{Sites: sites, Years: years, Systems: systems}, nil
}

func distinctText(ds *domain.Dataset, col string) ([]string, error) {
	vals, err := domain.Distinct(ds, col)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.String())
	}
	return out, nil
}

func distinctInts(ds *domain.Dataset, col string) ([]int, error) {
	vals, err := domain.Distinct(ds, col)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		if i, ok := v.Int(); ok {
			out = append(out, int(i))
		}
	}
	return out, nil
}
