// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
)

// ZoomWindow calculates a square bound centered on the median of the points,
// large enough to contain all of them.
func ZoomWindow(points []orb.Point) (orb.Bound, bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))

	for i, p := range points {
		xs[i], ys[i] = p.X(), p.Y()
	}

	center := orb.Point{median(xs), median(ys)}
	extent := orb.MultiPoint(points).Bound()

	offset := math.Max(
		math.Max(math.Abs(center.X()-extent.Left()), math.Abs(center.X()-extent.Right())),
		math.Max(math.Abs(center.Y()-extent.Bottom()), math.Abs(center.Y()-extent.Top())),
	)

	return orb.Bound{
		Min: orb.Point{center.X() - offset, center.Y() - offset},
		Max: orb.Point{center.X() + offset, center.Y() + offset},
	}, true
}

// median averages the two middle values for even lengths. values must not be
// empty.
func median(values []float64) float64 {
	s := slices.Clone(values)
	slices.Sort(s)

	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}

	return (s[n/2-1] + s[n/2]) / 2
}
