// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDistance(t *testing.T) {
	tests := []struct {
		input string
		want  Distance
		ok    bool
	}{
		{"miles", Miles, true},
		{"feet", Feet, true},
		{"kilometers", Kilometers, true},
		{"Miles", "", false},
		{"km", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDistance(tc.input)
			if !tc.ok {
				require.ErrorIs(t, err, ErrUnsupportedUnit)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  Time
		ok    bool
	}{
		{"days", Days, true},
		{"hours", Hours, true},
		{"minutes", Minutes, true},
		{"seconds", "", false},
		{"HOURS", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseTime(tc.input)
			if !tc.ok {
				require.ErrorIs(t, err, ErrUnsupportedUnit)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDistanceConversion(t *testing.T) {
	rads, err := DistanceToRadians(3958.8, Miles)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rads, 1e-12)

	rads, err = DistanceToRadians(6371, Kilometers)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rads, 1e-12)

	feet, err := RadiansToDistance(1, Feet)
	require.NoError(t, err)
	assert.InDelta(t, 3958.8*5280, feet, 1e-6)
}

func TestTimeConversion(t *testing.T) {
	secs, err := TimeToSeconds(5, Minutes)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, secs, 1e-12)

	hours, err := SecondsToTime(5400, Hours)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, hours, 1e-12)

	days, err := SecondsToTime(86400*2, Days)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, days, 1e-12)
}

func TestRoundTrip(t *testing.T) {
	values := []float64{0, 0.25, 1, 17.5, 12345.678}

	for _, u := range DistanceUnits {
		for _, v := range values {
			rads, err := DistanceToRadians(v, u)
			require.NoError(t, err)

			back, err := RadiansToDistance(rads, u)
			require.NoError(t, err)
			assert.InDelta(t, v, back, 1e-9, "unit %s", u)
		}
	}

	for _, u := range TimeUnits {
		for _, v := range values {
			secs, err := TimeToSeconds(v, u)
			require.NoError(t, err)

			back, err := SecondsToTime(secs, u)
			require.NoError(t, err)
			assert.InDelta(t, v, back, 1e-9, "unit %s", u)
		}
	}
}

func TestUnsupportedUnitIsHardFailure(t *testing.T) {
	_, err := DistanceToRadians(1, Distance("leagues"))
	require.ErrorIs(t, err, ErrUnsupportedUnit)
	assert.Contains(t, err.Error(), "leagues")

	_, err = RadiansToDistance(1, Distance(""))
	require.ErrorIs(t, err, ErrUnsupportedUnit)

	_, err = TimeToSeconds(1, Time("weeks"))
	require.ErrorIs(t, err, ErrUnsupportedUnit)

	_, err = SecondsToTime(1, Time("seconds"))
	require.ErrorIs(t, err, ErrUnsupportedUnit)
}
