// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/spatial"
	"github.com/jcodagnone/geotempo/units"
)

func TestThreshold(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m := NewDurationMatrix([]time.Time{t0, t0.Add(time.Minute), t0.Add(3 * time.Minute)})

	adj := Threshold(m, 60)
	assert.True(t, adj.At(0, 1))
	assert.True(t, adj.At(1, 0))
	assert.False(t, adj.At(1, 2))
	assert.False(t, adj.At(0, 2))

	for i := range adj.Len() {
		assert.True(t, adj.At(i, i))
	}
}

func TestThresholdZero(t *testing.T) {
	m := NewDistanceMatrix([]spatial.Point{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 1.0001}})

	adj := Threshold(m, 0)
	assert.True(t, adj.At(0, 1))
	assert.False(t, adj.At(0, 2))
	assert.True(t, adj.At(2, 2))
}

func TestCompareDistance(t *testing.T) {
	m := NewDistanceMatrix(records.Points(fixtureRecords()))

	adj, err := CompareDistance(m, units.Miles, 0.25)
	require.NoError(t, err)
	assert.True(t, adj.At(1, 7))  // ~0.207 mi
	assert.False(t, adj.At(0, 7)) // ~0.276 mi

	_, err = CompareDistance(m, "leagues", 1)
	require.Error(t, err)
	assert.True(t, IsUnitError(err))

	_, err = CompareDistance(m, units.Miles, -1)
	assert.True(t, IsThresholdError(err))

	_, err = CompareDistance(m, units.Miles, math.NaN())
	assert.True(t, IsThresholdError(err))
}

func TestCompareDuration(t *testing.T) {
	m := NewDurationMatrix(records.Times(fixtureRecords()))

	adj, err := CompareDuration(m, units.Minutes, 5)
	require.NoError(t, err)
	assert.True(t, adj.At(0, 7))
	assert.False(t, adj.At(0, 8))

	_, err = CompareDuration(m, "seconds", 5)
	require.ErrorIs(t, err, units.ErrUnsupportedUnit)
}

func TestConjunction(t *testing.T) {
	recs := fixtureRecords()
	byDistance, err := CompareDistance(NewDistanceMatrix(records.Points(recs)), units.Miles, 0.25)
	require.NoError(t, err)

	byDuration, err := CompareDuration(NewDurationMatrix(records.Times(recs)), units.Minutes, 5)
	require.NoError(t, err)

	both, err := Conjunction(byDistance, byDuration)
	require.NoError(t, err)

	for i := range both.Len() {
		for j := range both.Len() {
			assert.Equal(t, byDistance.At(i, j) && byDuration.At(i, j), both.At(i, j))
		}
	}

	_, err = Conjunction()
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Conjunction(byDistance, Threshold(NewDistanceMatrix(nil), 1))
	require.ErrorIs(t, err, ErrShapeMismatch)
}
