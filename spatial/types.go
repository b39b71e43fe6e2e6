// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
	"github.com/uber/h3-go/v4"
)

// MaxMercatorLatitude is the latitude at which web mercator is cut off.
// Points beyond it are projected onto the edge of the map.
const MaxMercatorLatitude = 85.05112878

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Orb returns the point as longitude, latitude.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Validate checks that the point lies within the valid latitude and
// longitude ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("spatial: latitude must be between -90 and 90 (got %f)", p.Lat)
	}

	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("spatial: longitude must be between -180 and 180 (got %f)", p.Lng)
	}

	return nil
}

// AngularDistance returns the great-circle separation between two points in
// radians, using the haversine formula.
func (p Point) AngularDistance(other Point) float64 {
	return geo.DistanceHaversine(p.Orb(), other.Orb()) / orb.EarthRadius
}

// Mercator projects the point to web mercator coordinates, in meters.
// Latitudes are clamped to MaxMercatorLatitude so the poles stay finite.
func (p Point) Mercator() orb.Point {
	lat := math.Max(-MaxMercatorLatitude, math.Min(MaxMercatorLatitude, p.Lat))

	return project.WGS84.ToMercator(orb.Point{p.Lng, lat})
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("spatial: converting %s to h3 cell at res %d: %w", p, res, err)
	}

	return cell, nil
}

// Centroid returns the planar mean of the points. It is only meaningful for
// points close to each other, which is what clusters are.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Orb()
	}

	c, _ := planar.CentroidArea(mp)

	return Point{Lat: c.Lat(), Lng: c.Lon()}
}
