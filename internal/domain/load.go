package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a CSV source into a Dataset typed by schema.
//
// A source that cannot be read, is not valid UTF-8, or has rows with the
// wrong number of fields fails with a DataLoadError. Columns derivable per
// the schema are synthesised when absent. Required columns still absent
// after derivation fail with a SchemaError. A header without data rows
// loads as an empty Dataset.
func ReadCSV(name string, r io.Reader, schema Schema) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataLoadError{Source: name, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, &DataLoadError{Source: name, Err: errors.New("invalid UTF-8 encoding")}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DataLoadError{Source: name, Err: errors.New("empty source")}
	}

	if header, ok := headerOnly(data); ok {
		return typed(NewDataset(name, header, nil), schema)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, &DataLoadError{Source: name, Err: fmt.Errorf("parse csv: %w", df.Err)}
	}

	names := df.Names()
	columns := make([]string, len(names))
	for i, n := range names {
		columns[i] = strings.TrimSpace(n)
	}

	nrows := df.Nrow()
	cells := make([][]Value, nrows)
	for i := range cells {
		cells[i] = make([]Value, len(columns))
	}
	for j, n := range names {
		typ := TypeAuto
		if spec, ok := schema.lookup(columns[j]); ok {
			typ = spec.Type
		}
		col := df.Col(n)
		raw := col.Records()
		nan := col.IsNaN()
		for i := 0; i < nrows; i++ {
			if nan[i] {
				continue
			}
			cells[i][j] = ParseCell(raw[i], typ)
		}
	}

	return typed(NewDataset(name, columns, cells), schema)
}

// typed derives the schema's columns onto ds and checks the required ones.
func typed(ds *Dataset, schema Schema) (*Dataset, error) {
	ds = deriveColumns(ds, schema)
	if err := ds.Require(schema.RequiredColumns()...); err != nil {
		return nil, err
	}
	return ds, nil
}

// headerOnly returns the trimmed header of a source that has no data rows.
// gota rejects such a source as an empty DataFrame.
func headerOnly(data []byte) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, false
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	return header, true
}

// deriveColumns appends schema columns that are absent from ds but can be
// computed from a column it does carry.
func deriveColumns(ds *Dataset, schema Schema) *Dataset {
	for _, spec := range schema.Columns {
		if ds.Has(spec.Name) || spec.Derive == nil {
			continue
		}
		for _, from := range spec.DerivedFrom {
			src, err := ds.Column(from)
			if err != nil {
				continue
			}
			ds = appendColumn(ds, spec.Name, func(i int) Value { return spec.Derive(src[i]) })
			break
		}
	}
	return ds
}

func appendColumn(ds *Dataset, name string, fn func(i int) Value) *Dataset {
	columns := append(ds.Columns(), name)
	rows := make([][]Value, ds.Len())
	for i := range rows {
		row := make([]Value, len(columns))
		copy(row, ds.frame.cells[ds.rowIndex(i)])
		row[len(columns)-1] = fn(i)
		rows[i] = row
	}
	return NewDataset(ds.name, columns, rows)
}
