// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"

	"github.com/jcodagnone/geotempo/units"
)

// Adjacency is a boolean same-group relation over an ordered record set.
// It is symmetric and every record is adjacent to itself.
type Adjacency struct {
	n     int
	cells []bool
}

// Len is the number of records covered.
func (a *Adjacency) Len() int {
	return a.n
}

// At reports whether records i and j are adjacent.
func (a *Adjacency) At(i, j int) bool {
	return a.cells[i*a.n+j]
}

// Threshold marks the pairs whose metric is at most limit. limit is in the
// native unit of the matrix.
func Threshold(m *Matrix, limit float64) *Adjacency {
	n := m.Len()
	adj := &Adjacency{n: n, cells: make([]bool, n*n)}

	for i := range n {
		adj.cells[i*n+i] = true

		for j := i + 1; j < n; j++ {
			if m.At(i, j) <= limit {
				adj.cells[i*n+j] = true
				adj.cells[j*n+i] = true
			}
		}
	}

	return adj
}

func validateThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return &ParameterError{
			Type:    ErrorTypeThreshold,
			Message: fmt.Sprintf("%s threshold must be a non-negative number (got %v)", name, v),
		}
	}

	return nil
}

// CompareDistance builds the adjacency of records at most threshold apart,
// threshold being expressed in unit.
func CompareDistance(m *Matrix, unit units.Distance, threshold float64) (*Adjacency, error) {
	if err := validateThreshold("distance", threshold); err != nil {
		return nil, err
	}

	rads, err := units.DistanceToRadians(threshold, unit)
	if err != nil {
		return nil, unitError(err)
	}

	return Threshold(m, rads), nil
}

// CompareDuration builds the adjacency of records at most threshold apart in
// time, threshold being expressed in unit.
func CompareDuration(m *Matrix, unit units.Time, threshold float64) (*Adjacency, error) {
	if err := validateThreshold("duration", threshold); err != nil {
		return nil, err
	}

	secs, err := units.TimeToSeconds(threshold, unit)
	if err != nil {
		return nil, unitError(err)
	}

	return Threshold(m, secs), nil
}

// Conjunction is the elementwise AND of the given adjacencies.
func Conjunction(adjs ...*Adjacency) (*Adjacency, error) {
	if len(adjs) == 0 {
		return nil, fmt.Errorf("%w: conjunction of no adjacencies", ErrShapeMismatch)
	}

	n := adjs[0].n
	out := &Adjacency{n: n, cells: make([]bool, n*n)}

	for i := range out.cells {
		out.cells[i] = true
	}

	for k, a := range adjs {
		if a.n != n {
			return nil, fmt.Errorf("%w: adjacency %d covers %d records, expected %d", ErrShapeMismatch, k, a.n, n)
		}

		for i, v := range a.cells {
			out.cells[i] = out.cells[i] && v
		}
	}

	return out, nil
}
