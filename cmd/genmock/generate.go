package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

const (
	snowFile        = "reshaped_snow_depth.csv"
	groundwaterFile = "fixed_ground_water_cleaned.csv"
	aqiFile         = "aqi_combined_1980_2024.csv"
)

var (
	sites = []string{"Berthoud Summit", "Loveland Basin", "Hoosier Pass"}

	// systems and their well depths in feet.
	systems = []struct {
		name  string
		depth float64
	}{
		{"Town of Nederland", 220},
		{"Eldora Mountain", 180},
		{"Gold Hill", 140},
	}

	// snowMonths runs through the accumulation season of a water year.
	snowMonths = []string{"Nov", "Dec", "Jan", "Feb", "Mar", "Apr", "May"}

	// seasonal shape of the snow pack, peaking in March.
	snowShape = []float64{0.2, 0.45, 0.7, 0.9, 1.0, 0.8, 0.35}
)

type genConfig struct {
	From, To int
	Seed     uint64
}

func (c genConfig) validate() error {
	if c.From <= 0 || c.To < c.From {
		return fmt.Errorf("invalid year range %d..%d", c.From, c.To)
	}
	return nil
}

// generate returns the CSV records (header first) of each dataset file.
// Snow pack, groundwater and air quality all follow one shared yearly
// signal, so the correlation dashboard has something to find.
func generate(cfg genConfig) map[string][][]string {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	signal := make(map[int]float64, cfg.To-cfg.From+1)
	for y := cfg.From; y <= cfg.To; y++ {
		signal[y] = rng.NormFloat64()
	}

	return map[string][][]string{
		snowFile:        snowRecords(cfg, rng, signal),
		groundwaterFile: groundwaterRecords(cfg, rng, signal),
		aqiFile:         aqiRecords(cfg, rng, signal),
	}
}

func snowRecords(cfg genConfig, rng *rand.Rand, signal map[int]float64) [][]string {
	records := [][]string{{
		domain.ColSite, domain.ColWaterYear, domain.ColMonth, domain.ColSnowDepth, domain.ColSnowType, domain.ColSnowValue,
	}}
	for si, site := range sites {
		peak := 60 + 10*float64(si)
		for y := cfg.From; y <= cfg.To; y++ {
			for mi, month := range snowMonths {
				depth := math.Max(0, peak*snowShape[mi]*(1+0.2*signal[y])+rng.NormFloat64()*2)
				swe := depth * (0.25 + 0.02*float64(mi))
				year := strconv.Itoa(y)
				records = append(records,
					[]string{site, year, month, ff(depth), "Snow Depth", ff(depth)},
					[]string{site, year, month, ff(depth), "SWE", ff(swe)},
				)
			}
		}
	}
	return records
}

func groundwaterRecords(cfg genConfig, rng *rand.Rand, signal map[int]float64) [][]string {
	records := [][]string{{domain.ColSystemName, domain.ColCollected, domain.ColWellDepth, domain.ColStaticWL}}
	for _, sys := range systems {
		base := sys.depth * 0.35
		for y := cfg.From; y <= cfg.To; y++ {
			// The autumn sample falls in water year y, the spring one too.
			samples := []time.Time{
				time.Date(y-1, time.October, 20, 0, 0, 0, 0, time.UTC),
				time.Date(y, time.April, 15, 0, 0, 0, 0, time.UTC),
			}
			for _, at := range samples {
				// A deep snow year raises the table (smaller depth to water).
				level := math.Min(sys.depth, math.Max(0, base*(1-0.15*signal[y])+rng.NormFloat64()))
				records = append(records, []string{sys.name, at.Format("2006-01-02"), ff(sys.depth), ff(level)})
			}
		}
	}
	return records
}

func aqiRecords(cfg genConfig, rng *rand.Rand, signal map[int]float64) [][]string {
	header := []string{domain.ColYear, domain.ColMonth, domain.ColAQI, domain.ColAQIMedian}
	header = append(header, domain.Pollutants...)
	header = append(header, domain.ColLatitude, domain.ColLongitude, domain.ColCBSA)
	header = append(header, domain.DayCategories...)
	records := [][]string{header}

	for y := cfg.From; y <= cfg.To; y++ {
		for m := 1; m <= 12; m++ {
			// Summer ozone and wildfire smoke push the index up.
			season := 1 + 0.3*math.Sin(float64(m-4)*math.Pi/6)
			aqi := math.Max(5, 45*season*(1-0.1*signal[y])+rng.NormFloat64()*4)
			row := []string{strconv.Itoa(y), strconv.Itoa(m), ff(aqi), ff(aqi * 0.9)}
			for i := range domain.Pollutants {
				row = append(row, ff(math.Max(0, aqi*(0.1+0.05*float64(i))+rng.NormFloat64())))
			}
			row = append(row, "39.7392", "-104.9903", "Denver-Aurora-Lakewood, CO")
			row = append(row, dayCounts(rng, aqi, daysIn(y, m))...)
			records = append(records, row)
		}
	}
	return records
}

// dayCounts splits days across the AQI categories, mostly into the one
// matching the monthly index.
func dayCounts(rng *rand.Rand, aqi float64, days int) []string {
	counts := make([]int, len(domain.DayCategories))
	band := min(int(aqi/50), len(counts)-1)
	for range days {
		c := band
		if rng.Float64() < 0.2 && band+1 < len(counts) {
			c = band + 1
		}
		counts[c]++
	}
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = strconv.Itoa(c)
	}
	return out
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ff(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
