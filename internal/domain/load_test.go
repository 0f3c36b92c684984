package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snowCSV = `Site,Water Year,Month,Snow Depth (in),Type
A,2000,Jan,10,depth
A,2001,Jan,20,depth
B,2000.0,Feb,5,depth
`

func TestReadCSV(t *testing.T) {
	t.Run("typed columns", func(t *testing.T) {
		ds, err := ReadCSV("snow.csv", strings.NewReader(snowCSV), SnowSchema())
		require.NoError(t, err)

		assert.Equal(t, 3, ds.Len())
		assert.Equal(t, "snow.csv", ds.Name())
		assert.Equal(t, []string{ColSite, ColWaterYear, ColMonth, ColSnowDepth, ColSnowType}, ds.Columns())
		assert.Equal(t, Int(2000), ds.Value(0, ColWaterYear))
		assert.Equal(t, Int(2000), ds.Value(2, ColWaterYear), "whole float year parses as int")
		assert.Equal(t, Float(20), ds.Value(1, ColSnowDepth))
		assert.Equal(t, String("B"), ds.Value(2, ColSite))
	})

	t.Run("byte order mark and padded header", func(t *testing.T) {
		data := "\xEF\xBB\xBF Site ,Water Year,Month,Snow Depth (in)\nA,2000,1,3\n"
		ds, err := ReadCSV("bom.csv", strings.NewReader(data), SnowSchema())
		require.NoError(t, err)
		assert.True(t, ds.Has(ColSite))
		assert.Equal(t, Int(1), ds.Value(0, ColMonth))
	})

	t.Run("missing tokens and unparsable cells", func(t *testing.T) {
		data := "Site,Water Year,Month,Snow Depth (in)\nA,2000,1,NA\nA,2001,1,trace\nA,2002,1,\n"
		ds, err := ReadCSV("snow.csv", strings.NewReader(data), SnowSchema())
		require.NoError(t, err)
		assert.True(t, ds.Value(0, ColSnowDepth).IsMissing())
		assert.Equal(t, String("trace"), ds.Value(1, ColSnowDepth))
		assert.True(t, ds.Value(2, ColSnowDepth).IsMissing())
	})

	t.Run("missing required column", func(t *testing.T) {
		data := "Site,Water Year,Month\nA,2000,1\n"
		_, err := ReadCSV("snow.csv", strings.NewReader(data), SnowSchema())

		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "snow.csv", se.Source)
		assert.Equal(t, []string{ColSnowDepth}, se.Missing)
	})

	t.Run("ragged rows", func(t *testing.T) {
		data := "Site,Water Year,Month,Snow Depth (in)\nA,2000,1\n"
		_, err := ReadCSV("snow.csv", strings.NewReader(data), SnowSchema())

		var le *DataLoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "snow.csv", le.Source)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		data := "Site,Water Year,Month,Snow Depth (in)\n\xff\xfe,2000,1,3\n"
		_, err := ReadCSV("snow.csv", strings.NewReader(data), SnowSchema())

		var le *DataLoadError
		require.ErrorAs(t, err, &le)
		assert.Contains(t, err.Error(), "UTF-8")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := ReadCSV("empty.csv", strings.NewReader("  \n"), SnowSchema())
		var le *DataLoadError
		assert.ErrorAs(t, err, &le)
	})

	t.Run("header without rows", func(t *testing.T) {
		data := "Site, Water Year ,Month,Snow Depth (in)\n"
		ds, err := ReadCSV("snow.csv", strings.NewReader(data), SnowSchema())
		require.NoError(t, err)
		assert.True(t, ds.IsEmpty())
		assert.Equal(t, []string{ColSite, ColWaterYear, ColMonth, ColSnowDepth}, ds.Columns())
	})

	t.Run("header without rows still checks required columns", func(t *testing.T) {
		_, err := ReadCSV("snow.csv", strings.NewReader("Site,Water Year\n"), SnowSchema())
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{ColMonth, ColSnowDepth}, se.Missing)
	})

	t.Run("header without rows derives columns", func(t *testing.T) {
		data := "System Name,Collection Date,Depth of Well (ft),Static Water Level (ft)\n"
		ds, err := ReadCSV("gw.csv", strings.NewReader(data), GroundwaterSchema())
		require.NoError(t, err)
		assert.True(t, ds.IsEmpty())
		assert.True(t, ds.Has(ColWaterYear))
	})

	t.Run("read failure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		_, err := ReadCSV("snow.csv", failingReader{boom}, SnowSchema())
		assert.ErrorIs(t, err, boom)
	})
}

func TestReadCSV_DerivesWaterYear(t *testing.T) {
	data := `System Name,Collection Date,Depth of Well (ft),Static Water Level (ft)
Well 1,2019-09-30,100,20
Well 1,2019-10-01,100,22
Well 2,not a date,80,12
`
	ds, err := ReadCSV("gw.csv", strings.NewReader(data), GroundwaterSchema())
	require.NoError(t, err)

	year, err := ds.Column(ColWaterYear)
	require.NoError(t, err)
	assert.Equal(t, Int(2019), year[0])
	assert.Equal(t, Int(2020), year[1])
	assert.True(t, year[2].IsMissing())
}

func TestReadCSV_GroundwaterWithoutDate(t *testing.T) {
	data := "System Name,Depth of Well (ft),Static Water Level (ft)\nWell 1,100,20\n"
	_, err := ReadCSV("gw.csv", strings.NewReader(data), GroundwaterSchema())

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{ColWaterYear}, se.Missing)
}

func TestWaterYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2019-01-15", 2019},
		{"2019-09-30", 2019},
		{"2019-10-01", 2020},
		{"2019-12-31", 2020},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, ok := parseDate(tt.date)
			require.True(t, ok)
			assert.Equal(t, tt.want, WaterYear(d))
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  ColumnType
		want Value
	}{
		{"auto int", "42", TypeAuto, Int(42)},
		{"auto float", "4.5", TypeAuto, Float(4.5)},
		{"auto text", "Jan", TypeAuto, String("Jan")},
		{"float", " 3 ", TypeFloat, Float(3)},
		{"int from whole float", "2000.0", TypeInt, Int(2000)},
		{"int keeps fraction as text", "2000.5", TypeInt, String("2000.5")},
		{"string keeps digits", "007", TypeString, String("007")},
		{"missing NA", "NA", TypeFloat, Missing()},
		{"missing nil token", "<nil>", TypeString, Missing()},
		{"missing NaN", "NaN", TypeFloat, Missing()},
		{"float infinity stays text", "inf", TypeFloat, String("inf")},
		{"auto infinity stays text", "+Infinity", TypeAuto, String("+Infinity")},
		{"int infinity stays text", "Inf", TypeInt, String("Inf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.raw, tt.typ))
		})
	}

	t.Run("date layouts", func(t *testing.T) {
		a := ParseCell("2020-03-04", TypeDate)
		b := ParseCell("03/04/2020", TypeDate)
		assert.Equal(t, KindDate, a.Kind())
		assert.True(t, a.Equal(b))
	})
}

func TestSchemaRequire(t *testing.T) {
	base := AQISchema()
	s := base.Require(ColAQIMedian, "Extra")

	assert.Contains(t, s.RequiredColumns(), ColAQIMedian)
	assert.Contains(t, s.RequiredColumns(), "Extra")
	assert.NotContains(t, base.RequiredColumns(), ColAQIMedian, "original schema is untouched")
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }
