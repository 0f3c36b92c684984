package domain

import (
	"fmt"
	"strings"
)

// DataLoadError reports a dataset source that is missing, unreadable, or
// malformed (ragged rows, invalid encoding).
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaError reports columns a caller depends on that the dataset lacks.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// JoinKeyError reports an input table that cannot take part in a join on Key.
type JoinKeyError struct {
	Key    string
	Table  string
	Index  int
	Reason string
}

func (e *JoinKeyError) Error() string {
	name := e.Table
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("join on %q: table %s %s", e.Key, name, e.Reason)
}

// EmptyResultWarning marks a stage that produced zero rows. It is not an
// error: the presentation layer renders it as "no data".
type EmptyResultWarning struct {
	Dashboard string `json:"dashboard"`
	Stage     string `json:"stage"`
}

func (w EmptyResultWarning) String() string {
	return fmt.Sprintf("%s: no data for %s", w.Dashboard, w.Stage)
}
