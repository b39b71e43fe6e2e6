// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"strconv"
	"time"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/spatial"
)

// fixtureRecords are five tight pairs of points along one avenue and a few
// scattered ones, all within the same afternoon.
func fixtureRecords() []records.Record {
	t0 := time.Date(2010, 1, 27, 15, 0, 0, 0, time.UTC)
	rows := []struct {
		lat, lng float64
		minutes  int
		kind     string
	}{
		{40.7500, -73.9800, 0, "taxi"},
		{40.7510, -73.9800, 2, "taxi"},
		{40.7300, -73.9500, 20, "bus"},
		{40.7900, -74.0000, 30, "taxi"},
		{40.7520, -73.9800, 32, "bus"},
		{40.7530, -73.9800, 34, ""},
		{40.7200, -74.0100, 36, "taxi"},
		{40.7540, -73.9800, 4, "bus"},
		{40.7700, -73.9600, 6, "taxi"},
		{40.7710, -73.9600, 8, "taxi"},
	}

	recs := make([]records.Record, len(rows))
	for i, r := range rows {
		recs[i] = records.Record{
			ID:         strconv.Itoa(i),
			Point:      spatial.Point{Lat: r.lat, Lng: r.lng},
			Time:       t0.Add(time.Duration(r.minutes) * time.Minute),
			Attributes: map[string]any{"kind": r.kind, "fare": float64(i)},
		}
	}

	return recs
}

func fixtureParams() Params {
	return Params{
		DistanceUnit: "miles",
		Distance:     0.25,
		TimeUnit:     "minutes",
		Duration:     5,
	}
}

func labelsOf(v ...int) []Label {
	out := make([]Label, len(v))
	for i, l := range v {
		out[i] = Label(l)
	}

	return out
}
