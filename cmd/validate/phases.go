package main

import (
	"os"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

var kinds = []string{domain.KindSnow, domain.KindGroundwater, domain.KindAQI}

// maxAQI is the top of the EPA index scale.
const maxAQI = 500

// keyColumns must be populated on every row of each dataset.
var keyColumns = map[string][]string{
	domain.KindSnow:        {domain.ColSite, domain.ColWaterYear},
	domain.KindGroundwater: {domain.ColSystemName, domain.ColWaterYear},
	domain.KindAQI:         {domain.ColYear},
}

// ── Schema load ──

func validateLoad(paths map[string]string) (*phase, map[string]*domain.Dataset) {
	p := &phase{name: "Schema load"}
	sets := make(map[string]*domain.Dataset, len(kinds))
	for _, kind := range kinds {
		path, ok := paths[kind]
		if !ok {
			p.errorf("%s: no path configured", kind)
			continue
		}
		ds, err := loadDataset(kind, path)
		if err != nil {
			p.errorf("%s: %v", kind, err)
			continue
		}
		if ds.IsEmpty() {
			p.errorf("%s: no data rows in %s", kind, path)
			continue
		}
		sets[kind] = ds
	}
	return p, sets
}

func loadDataset(kind, path string) (*domain.Dataset, error) {
	schema, _ := domain.SchemaFor(kind)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return domain.ReadCSV(path, f, schema)
}

// ── Value ranges ──

func validateRanges(sets map[string]*domain.Dataset) *phase {
	p := &phase{name: "Value ranges"}

	if ds := sets[domain.KindSnow]; ds != nil {
		checkFloats(p, ds, domain.ColSnowDepth, 0, -1)
		checkYears(p, ds, domain.ColWaterYear)
	}
	if ds := sets[domain.KindGroundwater]; ds != nil {
		checkFloats(p, ds, domain.ColWellDepth, 0, -1)
		checkFloats(p, ds, domain.ColStaticWL, 0, -1)
		checkStaticLevels(p, ds)
		checkYears(p, ds, domain.ColWaterYear)
	}
	if ds := sets[domain.KindAQI]; ds != nil {
		checkYears(p, ds, domain.ColYear)
		if ds.Has(domain.ColAQI) {
			checkFloats(p, ds, domain.ColAQI, 0, maxAQI)
		}
		if ds.Has(domain.ColMonth) {
			checkMonths(p, ds)
		}
		for _, c := range domain.Pollutants {
			if ds.Has(c) {
				checkFloats(p, ds, c, 0, -1)
			}
		}
	}
	return p
}

// checkFloats reports present values of col outside [lo, hi]. A negative hi
// leaves the range open above.
func checkFloats(p *phase, ds *domain.Dataset, col string, lo, hi float64) {
	for i := range ds.Len() {
		v := ds.Value(i, col)
		if v.IsMissing() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			p.errorf("%s row %d: %s %q is not numeric", ds.Name(), i+1, col, v)
			continue
		}
		if f < lo || (hi >= 0 && f > hi) {
			p.errorf("%s row %d: %s %g out of range", ds.Name(), i+1, col, f)
		}
	}
}

func checkYears(p *phase, ds *domain.Dataset, col string) {
	for i := range ds.Len() {
		v := ds.Value(i, col)
		if v.IsMissing() {
			continue
		}
		y, ok := v.Int()
		if !ok || y < 1800 || y > 2200 {
			p.errorf("%s row %d: implausible %s %q", ds.Name(), i+1, col, v)
		}
	}
}

func checkMonths(p *phase, ds *domain.Dataset) {
	for i := range ds.Len() {
		v := ds.Value(i, domain.ColMonth)
		if m, ok := v.Int(); ok && (m < 1 || m > 12) {
			p.errorf("%s row %d: month %d out of range", ds.Name(), i+1, m)
		}
	}
}

// checkStaticLevels flags a static water level deeper than its well.
func checkStaticLevels(p *phase, ds *domain.Dataset) {
	for i := range ds.Len() {
		level, ok1 := ds.Value(i, domain.ColStaticWL).Float()
		depth, ok2 := ds.Value(i, domain.ColWellDepth).Float()
		if ok1 && ok2 && level > depth {
			p.errorf("%s row %d: static level %g deeper than well depth %g", ds.Name(), i+1, level, depth)
		}
	}
}

// ── Key columns ──

func validateKeys(sets map[string]*domain.Dataset) *phase {
	p := &phase{name: "Key columns populated"}
	for _, kind := range kinds {
		ds := sets[kind]
		if ds == nil {
			continue
		}
		for _, col := range keyColumns[kind] {
			missing := 0
			for i := range ds.Len() {
				if ds.Value(i, col).IsMissing() {
					missing++
				}
			}
			if missing > 0 {
				p.errorf("%s: %d of %d rows missing %s", kind, missing, ds.Len(), col)
			}
		}
	}
	return p
}

// ── Join coverage ──

// validateJoinCoverage checks the three datasets share at least two water
// years, the fewest a correlation can use.
func validateJoinCoverage(sets map[string]*domain.Dataset) *phase {
	p := &phase{name: "Water year overlap"}
	if len(sets) != len(kinds) {
		p.errorf("skipped: not every dataset loaded")
		return p
	}

	means := []struct {
		kind, year, value string
	}{
		{domain.KindSnow, domain.ColWaterYear, domain.ColSnowDepth},
		{domain.KindGroundwater, domain.ColWaterYear, domain.ColStaticWL},
		{domain.KindAQI, domain.ColYear, domain.ColAQIMedian},
	}
	tables := make([]*domain.Table, 0, len(means))
	for _, m := range means {
		ds := sets[m.kind]
		if !ds.Has(m.value) {
			p.errorf("%s: no %s column", m.kind, m.value)
			return p
		}
		t, err := domain.Aggregate(ds, []string{m.year}, []domain.Aggregation{{Column: m.value, Reducer: domain.Mean}})
		if err != nil {
			p.errorf("%s: %v", m.kind, err)
			return p
		}
		if m.year != domain.ColWaterYear {
			if t, err = t.Rename(m.year, domain.ColWaterYear); err != nil {
				p.errorf("%s: %v", m.kind, err)
				return p
			}
		}
		p.notef("%s covers %d years", m.kind, t.Len())
		tables = append(tables, t.WithName(m.kind))
	}

	joined, err := domain.Join(tables, domain.ColWaterYear)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if joined.Len() < 2 {
		p.errorf("datasets share %d water years, need at least 2", joined.Len())
		return p
	}
	p.notef("datasets share %d water years", joined.Len())
	return p
}
