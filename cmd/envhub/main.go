// Command envhub serves the environmental data dashboards over HTTP and
// offers terminal views of the same aggregations.
//
// Usage:
//
//	envhub serve
//	envhub correlate --from 2000 --to 2020
//	envhub aggregate --dataset aqi --by Year --column AQI --reducer mean
//
// All commands read dataset locations and logging settings from the
// environment (DATA_DIR, SNOW_CSV, GROUNDWATER_CSV, AQI_CSV, LOG_LEVEL).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
