// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/spatial"
)

func TestRunFixture(t *testing.T) {
	m := NewMetrics(fixtureRecords())

	var stages []string

	res, err := m.Run(fixtureParams(), func(stage string) { stages = append(stages, stage) })
	require.NoError(t, err)
	assert.Equal(t, Stages, stages)

	var location, timeLabels, clusters []Label
	for _, d := range res.Details {
		location = append(location, d.Location)
		timeLabels = append(timeLabels, d.Assignment.Time)
		clusters = append(clusters, d.Cluster)
	}

	assert.Equal(t, labelsOf(0, 0, -1, -1, 0, 0, -1, 0, 1, 1), location)
	assert.Equal(t, labelsOf(0, 0, -1, 1, 1, 1, 1, 0, 0, 0), timeLabels)
	assert.Equal(t, labelsOf(0, 0, -1, -1, 1, 1, -1, 0, 2, 2), clusters)

	require.Len(t, res.Clusters, 3)

	c0 := res.Clusters[0]
	t0 := time.Date(2010, 1, 27, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, Label(0), c0.ID)
	assert.Equal(t, 3, c0.Points)
	assert.Equal(t, Label(0), c0.LocationID)
	assert.Equal(t, Label(0), c0.TimeID)
	assert.Equal(t, t0, c0.FirstSeen)
	assert.Equal(t, t0.Add(4*time.Minute), c0.LastSeen)
	assert.InDelta(t, 0.069094, float64(c0.NearestDistance), 1e-5)
	assert.InDelta(t, 0.276376, float64(c0.LengthDistance), 1e-5)
	assert.InDelta(t, 2.0, float64(c0.NearestDuration), 1e-9)
	assert.InDelta(t, 4.0, float64(c0.LengthDuration), 1e-9)
	assert.False(t, c0.PreviousDuration.Valid())

	c1 := res.Clusters[1]
	assert.Equal(t, 2, c1.Points)
	assert.Equal(t, Label(0), c1.LocationID)
	assert.Equal(t, Label(1), c1.TimeID)
	assert.InDelta(t, 30.0, float64(c1.PreviousDuration), 1e-9)

	c2 := res.Clusters[2]
	assert.Equal(t, Label(1), c2.LocationID)
	assert.InDelta(t, 1.522391, float64(c2.NearestDistance), 1e-5)
	assert.False(t, c2.PreviousDuration.Valid())

	wantLocations := []AxisSummary{
		{ID: 0, Points: 5, Clusters: 2, Unassigned: 0},
		{ID: 1, Points: 2, Clusters: 1, Unassigned: 0},
	}
	if diff := cmp.Diff(wantLocations, res.Locations); diff != "" {
		t.Errorf("Locations mismatch (-expected +got):\n%s", diff)
	}

	wantTimes := []AxisSummary{
		{ID: 0, Points: 5, Clusters: 2, Unassigned: 0},
		{ID: 1, Points: 4, Clusters: 1, Unassigned: 2},
	}
	if diff := cmp.Diff(wantTimes, res.Times); diff != "" {
		t.Errorf("Times mismatch (-expected +got):\n%s", diff)
	}

	require.Len(t, res.Boundaries, 3)
	// collinear members close into a degenerate ring
	assert.Len(t, res.Boundaries[0].Ring, 3)
	assert.True(t, spatial.Closed(res.Boundaries[0].Ring))
	// two members stay a line
	assert.Len(t, res.Boundaries[1].Ring, 2)
	assert.False(t, spatial.Closed(res.Boundaries[1].Ring))
}

func TestRunIsDeterministic(t *testing.T) {
	m := NewMetrics(fixtureRecords())
	p := fixtureParams()
	p.CellResolution = 9
	p.Additional = map[string]Aggregation{"kind": AggregationUnique, "fare": AggregationMax}

	first, err := m.Run(p, nil)
	require.NoError(t, err)

	second, err := m.Run(p, nil)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)

	b, err := json.Marshal(second)
	require.NoError(t, err)

	assert.JSONEq(t, string(a), string(b))
	assert.NotEmpty(t, first.Details[0].Cell)
	assert.NotEmpty(t, first.Clusters[0].Cell)
	assert.Equal(t, "taxi, bus", first.Clusters[0].Additional["kind"])
	assert.Equal(t, "7", first.Clusters[0].Additional["fare"])
	assert.Equal(t, "bus", first.Clusters[1].Additional["kind"])
}

func TestRunPolarRecordsEncode(t *testing.T) {
	t0 := time.Date(2010, 1, 27, 15, 0, 0, 0, time.UTC)
	recs := []records.Record{
		{ID: "a", Point: spatial.Point{Lat: -90, Lng: 0}, Time: t0},
		{ID: "b", Point: spatial.Point{Lat: -90, Lng: 0}, Time: t0},
	}

	p := fixtureParams()
	p.CellResolution = 8

	res, err := NewMetrics(recs).Run(p, nil)
	require.NoError(t, err)
	require.Len(t, res.Clusters, 1)

	for _, d := range res.Details {
		assert.False(t, math.IsInf(d.Projected.Y(), 0))
		assert.InDelta(t, -20037508.34, d.Projected.Y(), 1)
	}

	_, err = json.Marshal(res)
	require.NoError(t, err)
}

func TestRunEmpty(t *testing.T) {
	res, err := NewMetrics(nil).Run(fixtureParams(), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Details)
	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Locations)
	assert.Empty(t, res.Times)
	assert.Empty(t, res.Boundaries)
}

func TestRunAllSingletons(t *testing.T) {
	p := fixtureParams()
	p.Distance = 0

	res, err := NewMetrics(fixtureRecords()).Run(p, nil)
	require.NoError(t, err)

	for _, d := range res.Details {
		assert.Equal(t, Unassigned, d.Cluster)
		assert.False(t, d.LengthDistance.Valid())
		assert.True(t, d.NearestDistance.Valid())
	}

	assert.Empty(t, res.Clusters)
}

func TestRunParameterErrors(t *testing.T) {
	m := NewMetrics(fixtureRecords())

	tests := []struct {
		name  string
		apply func(*Params)
		check func(error) bool
	}{
		{"distance unit", func(p *Params) { p.DistanceUnit = "yards" }, IsUnitError},
		{"time unit", func(p *Params) { p.TimeUnit = "" }, IsUnitError},
		{"negative distance", func(p *Params) { p.Distance = -0.1 }, IsThresholdError},
		{"aggregation", func(p *Params) { p.Additional = map[string]Aggregation{"kind": "mean"} }, IsAggregationError},
		{"attribute", func(p *Params) { p.Additional = map[string]Aggregation{"color": "min"} }, IsAggregationError},
		{"resolution", func(p *Params) { p.CellResolution = 16 }, IsParameterError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := fixtureParams()
			tc.apply(&p)

			_, err := m.Run(p, nil)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %v", err)
		})
	}
}

func TestDetailJSON(t *testing.T) {
	res, err := NewMetrics(fixtureRecords()).Run(fixtureParams(), nil)
	require.NoError(t, err)

	data, err := json.Marshal(res.Details[2])
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "2", got["id"])
	assert.Nil(t, got["cluster_id"])
	assert.Nil(t, got["location_id"])
	assert.Nil(t, got["length_distance"])
	assert.NotNil(t, got["nearest_distance"])
	assert.Contains(t, got, "time")
	assert.Contains(t, got, "time_id")
}
