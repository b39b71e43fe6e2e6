// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jcodagnone/geotempo/units"
)

// sameCluster builds the mask of records sharing a cluster with record i,
// i included. Unassigned records only share with themselves.
func sameCluster(mask []bool, labels []Label, i int) {
	for j := range mask {
		mask[j] = j == i || (labels[i].Assigned() && labels[j] == labels[i])
	}
}

// reduce applies fn to each row with masked cells replaced by fill. Rows
// with nothing left after masking are Null. The matrix is only read.
func reduce(m *Matrix, labels []Label, keepSame bool, fill float64, fn func([]float64) float64) ([]Measure, error) {
	n := m.Len()
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d records", ErrShapeMismatch, len(labels), n)
	}

	out := make([]Measure, n)
	row := make([]float64, n)
	mask := make([]bool, n)

	for i := range n {
		row = m.Row(row, i)
		sameCluster(mask, labels, i)

		kept := 0

		for j := range n {
			if j == i || mask[j] != keepSame {
				row[j] = fill

				continue
			}

			kept++
		}

		if kept == 0 {
			out[i] = Null()

			continue
		}

		out[i] = Measure(fn(row))
	}

	return out, nil
}

// Nearest returns, for each record, the smallest metric to a record outside
// its cluster. Values are in the native unit of m.
func Nearest(m *Matrix, labels []Label) ([]Measure, error) {
	return reduce(m, labels, false, math.Inf(1), floats.Min)
}

// Length returns, for each record, the largest metric to another record of
// its cluster. Unassigned records have a Null length.
func Length(m *Matrix, labels []Label) ([]Measure, error) {
	return reduce(m, labels, true, math.Inf(-1), floats.Max)
}

// ConvertDistance converts radians to unit. Null values stay Null.
func ConvertDistance(values []Measure, unit units.Distance) ([]Measure, error) {
	if _, err := units.ParseDistance(string(unit)); err != nil {
		return nil, unitError(err)
	}

	out := make([]Measure, len(values))

	for i, v := range values {
		if !v.Valid() {
			out[i] = Null()

			continue
		}

		d, err := units.RadiansToDistance(float64(v), unit)
		if err != nil {
			return nil, unitError(err)
		}

		out[i] = Measure(d)
	}

	return out, nil
}

// ConvertDuration converts seconds to unit. Null values stay Null.
func ConvertDuration(values []Measure, unit units.Time) ([]Measure, error) {
	if _, err := units.ParseTime(string(unit)); err != nil {
		return nil, unitError(err)
	}

	out := make([]Measure, len(values))

	for i, v := range values {
		if !v.Valid() {
			out[i] = Null()

			continue
		}

		d, err := units.SecondsToTime(float64(v), unit)
		if err != nil {
			return nil, unitError(err)
		}

		out[i] = Measure(d)
	}

	return out, nil
}
