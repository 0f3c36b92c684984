package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snowFixture() *Dataset {
	return NewDataset("snow", []string{ColSite, ColWaterYear, ColSnowDepth}, [][]Value{
		{String("A"), Int(2000), Float(10)},
		{String("A"), Int(2001), Float(20)},
		{String("B"), Int(2000), Float(5)},
	})
}

func TestAggregate_MeanBySite(t *testing.T) {
	site, err := Filter(snowFixture(), Predicate{Eq(ColSite, String("A"))})
	require.NoError(t, err)

	got, err := Aggregate(site, []string{ColWaterYear}, []Aggregation{{Column: ColSnowDepth, Reducer: Mean}})
	require.NoError(t, err)

	assert.Equal(t, []string{ColWaterYear}, got.KeyColumns)
	assert.Equal(t, []string{ColWaterYear, ColSnowDepth}, got.Columns)
	assert.Equal(t, [][]Value{
		{Int(2000), Float(10)},
		{Int(2001), Float(20)},
	}, got.Rows)
}

func TestAggregate_SkipsNonNumericCells(t *testing.T) {
	ds := NewDataset("d", []string{"k", "v"}, [][]Value{
		{String("g"), String("x")},
		{String("g"), Int(5)},
		{String("g"), Int(7)},
	})
	got, err := Aggregate(ds, []string{"k"}, []Aggregation{
		{Column: "v", Reducer: Mean},
		{Reducer: Count},
	})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)

	mean, ok := got.Rows[0][1].Float()
	require.True(t, ok)
	assert.Equal(t, 6.0, mean)
	assert.Equal(t, Int(3), got.Rows[0][2], "count includes the non-numeric record")
}

func TestAggregate_InfiniteCellsAreNonNumeric(t *testing.T) {
	data := "System Name,Collection Date,Depth of Well (ft),Static Water Level (ft)\n" +
		"Well 1,2000-03-01,100,inf\nWell 1,2000-04-01,100,5\nWell 1,2000-05-01,100,7\n"
	ds, err := ReadCSV("gw.csv", strings.NewReader(data), GroundwaterSchema())
	require.NoError(t, err)

	got, err := Aggregate(ds, []string{ColWaterYear}, []Aggregation{{Column: ColStaticWL, Reducer: Mean}})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)

	mean, ok := got.Rows[0][1].Float()
	require.True(t, ok)
	assert.Equal(t, 6.0, mean)
}

func TestAggregate_AllMissingGroupIsMissing(t *testing.T) {
	ds := NewDataset("d", []string{"k", "v"}, [][]Value{
		{Int(1), Missing()},
		{Int(1), String("n/d")},
		{Int(2), Float(4)},
	})
	got, err := Aggregate(ds, []string{"k"}, []Aggregation{{Column: "v", Reducer: Sum}})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.True(t, got.Rows[0][1].IsMissing())
	assert.Equal(t, Float(4), got.Rows[1][1])
}

func TestAggregate_Reducers(t *testing.T) {
	ds := NewDataset("d", []string{"k", "v"}, [][]Value{
		{Int(1), Float(4)},
		{Int(1), Float(1)},
		{Int(1), Missing()},
		{Int(1), Float(3)},
		{Int(1), Float(2)},
	})
	reducers := []struct {
		r    Reducer
		want Value
	}{
		{Sum, Float(10)},
		{Min, Float(1)},
		{Max, Float(4)},
		{Mean, Float(2.5)},
		{Median, Float(2.5)},
		{Q1, Float(1.75)},
		{Q3, Float(3.25)},
		{First, Float(4)},
		{Last, Float(2)},
	}
	for _, tt := range reducers {
		t.Run(string(tt.r), func(t *testing.T) {
			got, err := Aggregate(ds, []string{"k"}, []Aggregation{{Column: "v", Reducer: tt.r}})
			require.NoError(t, err)
			require.Len(t, got.Rows, 1)
			assert.Equal(t, tt.want, got.Rows[0][1])
		})
	}
}

func TestAggregate_Ordering(t *testing.T) {
	ds := NewDataset("d", []string{"k"}, [][]Value{
		{Int(2003)}, {Int(2001)}, {Int(2003)}, {Int(2002)},
	})
	count := []Aggregation{{Reducer: Count, As: "n"}}

	t.Run("sorted by key", func(t *testing.T) {
		got, err := Aggregate(ds, []string{"k"}, count)
		require.NoError(t, err)
		assert.Equal(t, [][]Value{{Int(2001), Int(1)}, {Int(2002), Int(1)}, {Int(2003), Int(2)}}, got.Rows)
	})

	t.Run("first seen", func(t *testing.T) {
		got, err := Aggregate(ds, []string{"k"}, count, InFirstSeenOrder())
		require.NoError(t, err)
		assert.Equal(t, [][]Value{{Int(2003), Int(2)}, {Int(2001), Int(1)}, {Int(2002), Int(1)}}, got.Rows)
	})
}

func TestAggregate_CompositeKeyAndMissingKey(t *testing.T) {
	ds := NewDataset("aqi", []string{ColYear, ColMonth, ColAQI}, [][]Value{
		{Int(2020), Int(2), Float(30)},
		{Int(2020), Int(1), Float(10)},
		{Int(2020), Int(1), Float(20)},
		{Missing(), Int(1), Float(99)},
	})
	got, err := Aggregate(ds, []string{ColYear, ColMonth}, []Aggregation{{Column: ColAQI, Reducer: Mean}})
	require.NoError(t, err)

	assert.Equal(t, [][]Value{
		{Int(2020), Int(1), Float(15)},
		{Int(2020), Int(2), Float(30)},
	}, got.Rows)
}

func TestAggregate_EmptyKeyAndEmptyInput(t *testing.T) {
	ds := snowFixture()

	whole, err := Aggregate(ds, nil, []Aggregation{{Column: ColSnowDepth, Reducer: Max}})
	require.NoError(t, err)
	assert.Equal(t, [][]Value{{Float(20)}}, whole.Rows)
	assert.NotNil(t, whole.KeyColumns)

	none, err := Filter(ds, Predicate{Eq(ColSite, String("Z"))})
	require.NoError(t, err)
	empty, err := Aggregate(none, []string{ColWaterYear}, []Aggregation{{Column: ColSnowDepth, Reducer: Mean}})
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, []string{ColWaterYear, ColSnowDepth}, empty.Columns)
}

func TestAggregate_Errors(t *testing.T) {
	ds := snowFixture()

	t.Run("unknown key column", func(t *testing.T) {
		_, err := Aggregate(ds, []string{"Nope"}, nil)
		var se *SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{"Nope"}, se.Missing)
	})

	t.Run("unknown value column", func(t *testing.T) {
		_, err := Aggregate(ds, []string{ColSite}, []Aggregation{{Column: "Nope", Reducer: Mean}})
		var se *SchemaError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("unknown reducer", func(t *testing.T) {
		_, err := Aggregate(ds, []string{ColSite}, []Aggregation{{Column: ColSnowDepth, Reducer: "mode"}})
		assert.ErrorContains(t, err, "unknown reducer")
	})

	t.Run("duplicate output", func(t *testing.T) {
		_, err := Aggregate(ds, []string{ColSite}, []Aggregation{
			{Column: ColSnowDepth, Reducer: Mean},
			{Column: ColSnowDepth, Reducer: Max},
		})
		assert.ErrorContains(t, err, "duplicate output column")
	})

	t.Run("reducer without column", func(t *testing.T) {
		_, err := Aggregate(ds, []string{ColSite}, []Aggregation{{Reducer: Sum}})
		assert.ErrorContains(t, err, "needs a column")
	})
}

func TestAggregate_Idempotent(t *testing.T) {
	ds := snowFixture()
	pred := Predicate{Between(ColWaterYear, Int(2000), Int(2001))}
	aggs := []Aggregation{{Column: ColSnowDepth, Reducer: Mean}, {Reducer: Count}}

	run := func() *AggregatedTable {
		f, err := Filter(ds, pred)
		require.NoError(t, err)
		out, err := Aggregate(f, []string{ColSite}, aggs)
		require.NoError(t, err)
		return out
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("repeat aggregation differs (-first +second):\n%s", diff)
	}
}

func TestQuantile(t *testing.T) {
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
	assert.Equal(t, 2.0, quantile([]float64{3, 1, 2}, 0.5))
	assert.InDelta(t, 1.5, quantile([]float64{1, 2, 3}, 0.25), 1e-12)
}
