// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

// Package records models the timestamped geolocated rows fed to the
// clustering engine and loads them from tabular sources.
package records

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/geotempo/spatial"
	"github.com/jcodagnone/geotempo/utils/textutils"
)

var (
	// ErrColumnNotFound is returned when a schema field has no matching column.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidValue is returned when a cell can't be coerced to the expected type.
	ErrInvalidValue = errors.New("invalid value")
)

// Record is one input row.
type Record struct {
	ID         string         `json:"id"`
	Point      spatial.Point  `json:"point"`
	Time       time.Time      `json:"time"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Schema names the columns holding each record field. ID is optional: when
// empty, or absent from the source, records are identified by row number.
type Schema struct {
	ID        string `json:"id"        yaml:"id"`
	Latitude  string `json:"latitude"  yaml:"latitude"`
	Longitude string `json:"longitude" yaml:"longitude"`
	Time      string `json:"time"      yaml:"time"`
}

// DefaultSchema is used when the caller doesn't name the columns.
func DefaultSchema() Schema {
	return Schema{
		ID:        "id",
		Latitude:  "latitude",
		Longitude: "longitude",
		Time:      "time",
	}
}

// Columns holds the resolved column positions of a Schema. ID is -1 when the
// source has no ID column.
type Columns struct {
	ID        int
	Latitude  int
	Longitude int
	Time      int
}

// Resolve maps the schema to column positions. Exact names win; otherwise
// names are compared case and accent insensitive.
func (s Schema) Resolve(columns []string) (Columns, error) {
	find := func(field, name string, required bool) (int, error) {
		if name == "" && !required {
			return -1, nil
		}

		if i := slices.Index(columns, name); i >= 0 {
			return i, nil
		}

		key := textutils.ColumnKey(name)
		for i, c := range columns {
			if textutils.ColumnKey(c) == key {
				return i, nil
			}
		}

		if !required {
			return -1, nil
		}

		return -1, fmt.Errorf("%w: %s column %q (available: %s)",
			ErrColumnNotFound, field, name, strings.Join(columns, ", "))
	}

	var (
		res Columns
		err error
	)

	if res.ID, err = find("id", s.ID, false); err != nil {
		return Columns{}, err
	}

	if res.Latitude, err = find("latitude", s.Latitude, true); err != nil {
		return Columns{}, err
	}

	if res.Longitude, err = find("longitude", s.Longitude, true); err != nil {
		return Columns{}, err
	}

	if res.Time, err = find("time", s.Time, true); err != nil {
		return Columns{}, err
	}

	return res, nil
}

// Dataset is the result of ingesting a source.
type Dataset struct {
	Columns []string
	Records []Record
	// Skipped counts rows dropped because a coordinate or the time was null.
	Skipped int
}

// Attributes returns the names of the pass-through columns.
func (d *Dataset) Attributes(schema Schema) []string {
	cols, err := schema.Resolve(d.Columns)
	if err != nil {
		return nil
	}

	var names []string

	for i, c := range d.Columns {
		if i == cols.ID || i == cols.Latitude || i == cols.Longitude || i == cols.Time {
			continue
		}

		names = append(names, c)
	}

	return names
}

// Points returns the coordinates of the records, in order.
func Points(recs []Record) []spatial.Point {
	points := make([]spatial.Point, len(recs))
	for i, r := range recs {
		points[i] = r.Point
	}

	return points
}

// Times returns the timestamps of the records, in order.
func Times(recs []Record) []time.Time {
	times := make([]time.Time, len(recs))
	for i, r := range recs {
		times[i] = r.Time
	}

	return times
}

// Build converts raw rows into records sorted by time. Rows with a null
// coordinate or time are skipped; values that can't be coerced, or
// coordinates out of range, are errors.
func Build(columns []string, rows [][]any, schema Schema) (*Dataset, error) {
	cols, err := schema.Resolve(columns)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Columns: columns,
		Records: make([]Record, 0, len(rows)),
	}

	for n, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d: expected %d values, got %d", n, len(columns), len(row))
		}

		if row[cols.Latitude] == nil || row[cols.Longitude] == nil || row[cols.Time] == nil {
			ds.Skipped++

			continue
		}

		rec, err := buildRecord(n, columns, row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}

		ds.Records = append(ds.Records, rec)
	}

	slices.SortStableFunc(ds.Records, func(a, b Record) int {
		return a.Time.Compare(b.Time)
	})

	return ds, nil
}

func buildRecord(n int, columns []string, row []any, cols Columns) (Record, error) {
	lat, err := ToFloat(row[cols.Latitude])
	if err != nil {
		return Record{}, fmt.Errorf("latitude: %w", err)
	}

	lng, err := ToFloat(row[cols.Longitude])
	if err != nil {
		return Record{}, fmt.Errorf("longitude: %w", err)
	}

	t, err := ToTime(row[cols.Time])
	if err != nil {
		return Record{}, fmt.Errorf("time: %w", err)
	}

	rec := Record{
		ID:    strconv.Itoa(n),
		Point: spatial.Point{Lat: lat, Lng: lng},
		Time:  t,
	}

	if err := rec.Point.Validate(); err != nil {
		return Record{}, err
	}

	if cols.ID >= 0 && row[cols.ID] != nil {
		rec.ID = fmt.Sprint(normalize(row[cols.ID]))
	}

	for i, c := range columns {
		if i == cols.ID || i == cols.Latitude || i == cols.Longitude || i == cols.Time {
			continue
		}

		if rec.Attributes == nil {
			rec.Attributes = make(map[string]any)
		}

		rec.Attributes[c] = normalize(row[i])
	}

	return rec, nil
}

// normalize turns driver specific values into plain Go values.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}

		return x.String()
	case interface{ Float64() float64 }:
		return x.Float64()
	default:
		return v
	}
}

// ToFloat coerces a scanned value to float64.
func ToFloat(v any) (float64, error) {
	switch x := normalize(v).(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
		}

		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T is not a number", ErrInvalidValue, v)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ToTime coerces a scanned value to a timestamp. Numbers are seconds since
// the unix epoch.
func ToTime(v any) (time.Time, error) {
	switch x := normalize(v).(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}

		return time.Time{}, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidValue, x)
	default:
		secs, err := ToFloat(x)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return time.Time{}, fmt.Errorf("%w: %T is not a timestamp", ErrInvalidValue, v)
		}

		whole, frac := math.Modf(secs)

		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	}
}

