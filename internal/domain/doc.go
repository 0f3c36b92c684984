// Package domain implements the tabular aggregation pipeline shared by the
// environmental dashboards: load, filter, aggregate, join, correlate.
//
// # Data Sources
//
// Three CSV dataset kinds feed the dashboards:
//
//	snow         Site, Water Year, Month, Snow Depth (in), Type
//	groundwater  System Name, Water Year, Depth of Well (ft), Static Water Level (ft)
//	aqi          Year, pollutant columns (PM2.5, PM10, NO2, CO, O3), AQI / AQI_Median,
//	             optional Latitude/Longitude and day-count columns (Good, Moderate, ...)
//
// Each kind declares its columns in a [Schema]. Required columns are checked
// once when the source is read; a dashboard that needs more calls
// [Dataset.Require] before touching the data.
//
// # Water Year
//
// Snow and groundwater records are keyed by hydrologic water year, which
// runs October through September and takes the number of the calendar year
// in which it ends:
//
//	2019-09-30 → 2019
//	2019-10-01 → 2020
//
// Groundwater files that only carry a collection date get a derived
// Water Year column. See [WaterYear].
//
// # Missing Values
//
// Empty cells and the tokens NA, N/A, NaN, null and <nil> load as the
// missing marker (the zero [Value]). Cells that do not parse as their
// declared type are kept as strings. Numeric reductions skip both, per
// column; Count does not. A group with no usable cell reduces to missing,
// never to zero.
//
// # Joins and Correlation
//
// [Join] is always an inner join: only keys present in every input table
// survive, so correlation inputs are aligned and never padded. [Correlate]
// uses pairwise-complete observations; a pair with fewer than two, or a
// constant column, yields NaN for that cell only.
package domain
