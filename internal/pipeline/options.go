package pipeline

import (
	"context"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

func (p *Pipeline) options(ctx context.Context) (*OptionsReport, error) {
	aqi, err := p.load(ctx, domain.KindAQI)
	if err != nil {
		return nil, err
	}
	snow, err := p.load(ctx, domain.KindSnow)
	if err != nil {
		return nil, err
	}
	gw, err := p.load(ctx, domain.KindGroundwater)
	if err != nil {
		return nil, err
	}

	years, err := yearSpan(aqi, domain.ColYear)
	if err != nil {
		return nil, err
	}
	water, err := waterOptions(snow, gw)
	if err != nil {
		return nil, err
	}

	var pollutants []string
	for _, c := range domain.Pollutants {
		if aqi.Has(c) {
			pollutants = append(pollutants, c)
		}
	}
	dataTypes := []DataType{DataMeasurement}
	if aqi.Has(domain.ColAQI) {
		dataTypes = append(dataTypes, DataAQI)
	}

	return &OptionsReport{
		ReportMeta: newMeta(DashboardOptions),
		Pollutants: append([]string{}, pollutants...),
		DataTypes:  dataTypes,
		AQIYears:   years,
		Water:      water,
	}, nil
}
