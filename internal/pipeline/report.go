package pipeline

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

// Dashboard names, also used as metric labels and publish keys.
const (
	DashboardAirQuality  = "air-quality"
	DashboardWater       = "water"
	DashboardCorrelation = "correlation"
	DashboardOptions     = "options"
)

// ErrInvalidQuery marks a query the dashboards cannot answer.
var ErrInvalidQuery = errors.New("invalid query")

// DataType selects what the air-quality dashboard aggregates.
type DataType string

const (
	// DataMeasurement aggregates the selected pollutant's measurements.
	DataMeasurement DataType = "measurement"
	// DataAQI aggregates the composite AQI.
	DataAQI DataType = "aqi"
)

// ReportMeta is carried by every dashboard report.
type ReportMeta struct {
	Dashboard   string                      `json:"dashboard"`
	GeneratedAt time.Time                   `json:"generatedAt"`
	Warnings    []domain.EmptyResultWarning `json:"warnings"`
}

func newMeta(dashboard string) ReportMeta {
	return ReportMeta{
		Dashboard:   dashboard,
		GeneratedAt: now().UTC(),
		Warnings:    []domain.EmptyResultWarning{},
	}
}

// checkEmpty records a warning when stage produced no rows.
func (m *ReportMeta) checkEmpty(stage string, t *domain.Table) {
	if t == nil || t.IsEmpty() {
		m.Warnings = append(m.Warnings, domain.EmptyResultWarning{Dashboard: m.Dashboard, Stage: stage})
	}
}

func (m *ReportMeta) reportMeta() *ReportMeta { return m }

// Report is implemented by every dashboard report.
type Report interface {
	reportMeta() *ReportMeta
}

// YearRange is an inclusive span of years. Zero bounds are open.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r YearRange) validate() error {
	if r.From != 0 && r.To != 0 && r.From > r.To {
		return fmt.Errorf("%w: year range %d-%d is reversed", ErrInvalidQuery, r.From, r.To)
	}
	return nil
}

func (r YearRange) condition(col string) domain.Condition {
	lo, hi := domain.Missing(), domain.Missing()
	if r.From != 0 {
		lo = domain.Int(int64(r.From))
	}
	if r.To != 0 {
		hi = domain.Int(int64(r.To))
	}
	return domain.Between(col, lo, hi)
}

// AirQualityQuery selects the air-quality view.
type AirQualityQuery struct {
	Pollutant string   `json:"pollutant"`
	DataType  DataType `json:"dataType"`
	YearFrom  int      `json:"yearFrom,omitempty"`
	YearTo    int      `json:"yearTo,omitempty"`
}

func (q AirQualityQuery) normalize() (AirQualityQuery, error) {
	if q.Pollutant == "" {
		q.Pollutant = domain.Pollutants[0]
	}
	if !slices.Contains(domain.Pollutants, q.Pollutant) {
		return q, fmt.Errorf("%w: unknown pollutant %q", ErrInvalidQuery, q.Pollutant)
	}
	switch q.DataType {
	case "":
		q.DataType = DataMeasurement
	case DataMeasurement, DataAQI:
	default:
		return q, fmt.Errorf("%w: unknown data type %q", ErrInvalidQuery, q.DataType)
	}
	return q, YearRange{From: q.YearFrom, To: q.YearTo}.validate()
}

// Measure is the column the query aggregates.
func (q AirQualityQuery) Measure() string {
	if q.DataType == DataAQI {
		return domain.ColAQI
	}
	return q.Pollutant
}

// AirQualityReport backs the air-quality viewer.
type AirQualityReport struct {
	ReportMeta
	Query     AirQualityQuery `json:"query"`
	Measure   string          `json:"measure"`
	Available YearRange       `json:"availableYears"`

	Trend           *domain.Table `json:"trend"`
	Totals          *domain.Table `json:"totals"`
	MonthlyAverages *domain.Table `json:"monthlyAverages"`
	Distribution    *domain.Table `json:"distribution"`
	Markers         *domain.Table `json:"markers,omitempty"`
	DayCategories   *domain.Table `json:"dayCategories,omitempty"`
}

// WaterQuery selects the water-resource view. Empty fields pick the first
// available value.
type WaterQuery struct {
	Site       string `json:"site,omitempty"`
	WaterYear  int    `json:"waterYear,omitempty"`
	SystemName string `json:"systemName,omitempty"`
}

// WaterOptions lists the selectable values of the water dashboard.
type WaterOptions struct {
	Sites   []string `json:"sites"`
	Years   []int    `json:"years"`
	Systems []string `json:"systems"`
}

// WaterReport backs the water-resource dashboard.
type WaterReport struct {
	ReportMeta
	Query   WaterQuery   `json:"query"`
	Options WaterOptions `json:"options"`

	SnowMetrics *domain.Table `json:"snowMetrics"`
	Wells       *domain.Table `json:"wells"`
}

// CorrelationQuery bounds the water years fed into the correlation.
type CorrelationQuery struct {
	YearFrom int `json:"yearFrom,omitempty"`
	YearTo   int `json:"yearTo,omitempty"`
}

// ScatterSeries pairs two joined columns for a scatter plot. Only rows
// where both values are present appear.
type ScatterSeries struct {
	X      string       `json:"x"`
	Y      string       `json:"y"`
	Points [][2]float64 `json:"points"`
}

// CorrelationReport backs the correlation dashboard.
type CorrelationReport struct {
	ReportMeta
	Query   CorrelationQuery          `json:"query"`
	Joined  *domain.Table             `json:"joined"`
	Matrix  *domain.CorrelationMatrix `json:"matrix"`
	Scatter []ScatterSeries           `json:"scatter"`
}

// OptionsReport lists selector values across every dashboard.
type OptionsReport struct {
	ReportMeta
	Pollutants []string     `json:"pollutants"`
	DataTypes  []DataType   `json:"dataTypes"`
	AQIYears   YearRange    `json:"aqiYears"`
	Water      WaterOptions `json:"water"`
}

func scatter(t *domain.Table, x, y string) (ScatterSeries, error) {
	xs, err := t.Floats(x)
	if err != nil {
		return ScatterSeries{}, err
	}
	ys, err := t.Floats(y)
	if err != nil {
		return ScatterSeries{}, err
	}
	s := ScatterSeries{X: x, Y: y, Points: [][2]float64{}}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		s.Points = append(s.Points, [2]float64{xs[i], ys[i]})
	}
	return s, nil
}
