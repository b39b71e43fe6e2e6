// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/jcodagnone/geotempo/spatial"
)

// Matrix is a dense symmetric pairwise metric over an ordered record set.
// Distances are stored in radians of great-circle separation and durations
// in seconds. A Matrix is never modified after construction.
type Matrix struct {
	sym *mat.SymDense // nil for an empty record set
}

func newMatrix(n int, metric func(i, j int) float64) *Matrix {
	if n == 0 {
		return &Matrix{}
	}

	sym := mat.NewSymDense(n, nil)

	for i := range n {
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, metric(i, j))
		}
	}

	return &Matrix{sym: sym}
}

// NewDistanceMatrix computes the haversine separation of every pair of points.
func NewDistanceMatrix(points []spatial.Point) *Matrix {
	return newMatrix(len(points), func(i, j int) float64 {
		return points[i].AngularDistance(points[j])
	})
}

// NewDurationMatrix computes the absolute difference, in seconds, of every
// pair of timestamps.
func NewDurationMatrix(times []time.Time) *Matrix {
	return newMatrix(len(times), func(i, j int) float64 {
		return math.Abs(times[i].Sub(times[j]).Seconds())
	})
}

// Len is the number of records covered.
func (m *Matrix) Len() int {
	if m == nil || m.sym == nil {
		return 0
	}

	return m.sym.SymmetricDim()
}

// At returns the metric between records i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// Row copies the metrics of record i into dst. dst is allocated when its
// length doesn't match.
func (m *Matrix) Row(dst []float64, i int) []float64 {
	if len(dst) != m.Len() {
		dst = nil
	}

	return mat.Row(dst, i, m.sym)
}
