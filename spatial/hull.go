// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"cmp"
	"slices"

	"github.com/paulmach/orb"
)

// cross is the z component of (a-o) x (b-o). Positive for a counter-clockwise turn.
func cross(o, a, b orb.Point) float64 {
	return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
}

// ConvexHull returns the vertices of the convex hull of points in
// counter-clockwise order, starting at the lowest-leftmost point. Collinear
// points on the hull edges are dropped, as are duplicates. Fewer than three
// distinct points are returned as they are, sorted.
func ConvexHull(points []orb.Point) orb.MultiPoint {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b orb.Point) int {
		if c := cmp.Compare(a.X(), b.X()); c != 0 {
			return c
		}

		return cmp.Compare(a.Y(), b.Y())
	})
	pts = slices.Compact(pts)

	if len(pts) < 3 {
		return pts
	}

	hull := make(orb.MultiPoint, 0, 2*len(pts))

	// lower chain
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}

		hull = append(hull, p)
	}

	// upper chain
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}

		hull = append(hull, p)
	}

	// the last point is the first one again
	return hull[:len(hull)-1]
}

// Boundary returns the outline enclosing points. Up to two points are
// returned unchanged, as an open line. Otherwise the convex hull vertices are
// returned in hull order with the first vertex appended again to close the
// outline.
func Boundary(points []orb.Point) orb.LineString {
	if len(points) == 0 {
		return nil
	}

	if len(points) <= 2 {
		return orb.LineString(slices.Clone(points))
	}

	hull := ConvexHull(points)

	return orb.LineString(append(hull, hull[0]))
}

// Closed reports whether a boundary outline is a polygon, that is, it has more
// than two coordinates and ends where it starts.
func Closed(ls orb.LineString) bool {
	return len(ls) > 2 && ls[0] == ls[len(ls)-1]
}
