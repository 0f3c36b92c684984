package domain

import "time"

// Dataset kind names.
const (
	KindSnow        = "snow"
	KindGroundwater = "groundwater"
	KindAQI         = "aqi"
)

// Column names shared by the dashboards.
const (
	ColSite       = "Site"
	ColWaterYear  = "Water Year"
	ColMonth      = "Month"
	ColSnowDepth  = "Snow Depth (in)"
	ColSnowType   = "Type"
	ColSnowValue  = "Value"
	ColSystemName = "System Name"
	ColWellDepth  = "Depth of Well (ft)"
	ColStaticWL   = "Static Water Level (ft)"
	ColCollected  = "Collection Date"
	ColDate       = "Date"
	ColYear       = "Year"
	ColAQI        = "AQI"
	ColAQIMedian  = "AQI_Median"
	ColLatitude   = "Latitude"
	ColLongitude  = "Longitude"
	ColCBSA       = "CBSA"
)

// Pollutants are the measurement columns of the AQI dataset.
var Pollutants = []string{"PM2.5", "PM10", "NO2", "CO", "O3"}

// DayCategories are the AQI day-count columns, mildest first.
var DayCategories = []string{
	"Good",
	"Moderate",
	"Unhealthy for Sensitive Groups",
	"Unhealthy",
	"Very Unhealthy",
	"Hazardous",
}

// WaterYear returns the hydrologic water year containing t. A water year
// runs October 1 through September 30 and is named for the calendar year in
// which it ends.
func WaterYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year() + 1
	}
	return t.Year()
}

func deriveWaterYear(v Value) Value {
	t, ok := v.Time()
	if !ok {
		return Missing()
	}
	return Int(int64(WaterYear(t)))
}

// SnowSchema declares the snow-course dataset.
func SnowSchema() Schema {
	return Schema{Kind: KindSnow, Columns: []ColumnSpec{
		{Name: ColSite, Type: TypeString, Required: true},
		{Name: ColWaterYear, Type: TypeInt, Required: true},
		{Name: ColMonth, Type: TypeAuto, Required: true},
		{Name: ColSnowDepth, Type: TypeFloat, Required: true},
		{Name: ColSnowType, Type: TypeString},
		{Name: ColSnowValue, Type: TypeFloat},
	}}
}

// GroundwaterSchema declares the well-measurement dataset. Water Year is
// derived from the collection date when the file does not carry it.
func GroundwaterSchema() Schema {
	return Schema{Kind: KindGroundwater, Columns: []ColumnSpec{
		{Name: ColSystemName, Type: TypeString, Required: true},
		{
			Name:        ColWaterYear,
			Type:        TypeInt,
			Required:    true,
			DerivedFrom: []string{ColCollected, ColDate},
			Derive:      deriveWaterYear,
		},
		{Name: ColWellDepth, Type: TypeFloat, Required: true},
		{Name: ColStaticWL, Type: TypeFloat, Required: true},
		{Name: ColCollected, Type: TypeDate},
		{Name: ColDate, Type: TypeDate},
	}}
}

// AQISchema declares the air-quality dataset. Only Year is required up
// front; dashboards require the measurement columns they use.
func AQISchema() Schema {
	cols := []ColumnSpec{
		{Name: ColYear, Type: TypeInt, Required: true},
		{Name: ColMonth, Type: TypeAuto},
		{Name: ColDate, Type: TypeDate},
		{Name: ColAQI, Type: TypeFloat},
		{Name: ColAQIMedian, Type: TypeFloat},
		{Name: ColLatitude, Type: TypeFloat},
		{Name: ColLongitude, Type: TypeFloat},
		{Name: ColCBSA, Type: TypeString},
	}
	for _, p := range Pollutants {
		cols = append(cols, ColumnSpec{Name: p, Type: TypeFloat})
	}
	for _, c := range DayCategories {
		cols = append(cols, ColumnSpec{Name: c, Type: TypeFloat})
	}
	return Schema{Kind: KindAQI, Columns: cols}
}

// SchemaFor returns the declared schema of a dataset kind.
func SchemaFor(kind string) (Schema, bool) {
	switch kind {
	case KindSnow:
		return SnowSchema(), true
	case KindGroundwater:
		return GroundwaterSchema(), true
	case KindAQI:
		return AQISchema(), true
	}
	return Schema{}, false
}
