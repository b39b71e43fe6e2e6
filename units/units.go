// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

// Package units converts user facing distance and time units to the native
// units of the metric matrices (radians of great-circle separation and
// seconds) and back.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedUnit is returned for any unit string that isn't recognized.
var ErrUnsupportedUnit = errors.New("unsupported unit")

// Distance is a unit of length on the earth surface.
type Distance string

// Time is a unit of duration.
type Time string

// Distance units.
const (
	Miles      Distance = "miles"
	Feet       Distance = "feet"
	Kilometers Distance = "kilometers"
)

// Time units.
const (
	Days    Time = "days"
	Hours   Time = "hours"
	Minutes Time = "minutes"
)

const (
	earthRadiusMiles      = 3958.8
	earthRadiusKilometers = 6371.0
	feetPerMile           = 5280.0

	secondsPerMinute = 60.0
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// DistanceUnits lists the supported distance units in display order.
var DistanceUnits = []Distance{Miles, Feet, Kilometers}

// TimeUnits lists the supported time units in display order.
var TimeUnits = []Time{Days, Hours, Minutes}

// ParseDistance validates a distance unit name. Matching is exact, "Miles" is
// not a valid unit.
func ParseDistance(s string) (Distance, error) {
	for _, u := range DistanceUnits {
		if string(u) == s {
			return u, nil
		}
	}

	return "", fmt.Errorf("%w: distance %q (valid: %s)", ErrUnsupportedUnit, s, validDistanceUnits())
}

// ParseTime validates a time unit name.
func ParseTime(s string) (Time, error) {
	for _, u := range TimeUnits {
		if string(u) == s {
			return u, nil
		}
	}

	return "", fmt.Errorf("%w: time %q (valid: %s)", ErrUnsupportedUnit, s, validTimeUnits())
}

func validDistanceUnits() string {
	names := make([]string, 0, len(DistanceUnits))
	for _, u := range DistanceUnits {
		names = append(names, string(u))
	}

	return strings.Join(names, ", ")
}

func validTimeUnits() string {
	names := make([]string, 0, len(TimeUnits))
	for _, u := range TimeUnits {
		names = append(names, string(u))
	}

	return strings.Join(names, ", ")
}

func radiansPer(u Distance) (float64, error) {
	switch u {
	case Miles:
		return earthRadiusMiles, nil
	case Feet:
		return earthRadiusMiles * feetPerMile, nil
	case Kilometers:
		return earthRadiusKilometers, nil
	default:
		return 0, fmt.Errorf("%w: distance %q (valid: %s)", ErrUnsupportedUnit, u, validDistanceUnits())
	}
}

func secondsPer(u Time) (float64, error) {
	switch u {
	case Days:
		return secondsPerDay, nil
	case Hours:
		return secondsPerHour, nil
	case Minutes:
		return secondsPerMinute, nil
	default:
		return 0, fmt.Errorf("%w: time %q (valid: %s)", ErrUnsupportedUnit, u, validTimeUnits())
	}
}

// DistanceToRadians converts a distance expressed in u to an angular distance.
func DistanceToRadians(v float64, u Distance) (float64, error) {
	f, err := radiansPer(u)
	if err != nil {
		return 0, err
	}

	return v / f, nil
}

// RadiansToDistance converts an angular distance to u.
func RadiansToDistance(rads float64, u Distance) (float64, error) {
	f, err := radiansPer(u)
	if err != nil {
		return 0, err
	}

	return rads * f, nil
}

// TimeToSeconds converts a duration expressed in u to seconds.
func TimeToSeconds(v float64, u Time) (float64, error) {
	f, err := secondsPer(u)
	if err != nil {
		return 0, err
	}

	return v * f, nil
}

// SecondsToTime converts seconds to u.
func SecondsToTime(secs float64, u Time) (float64, error) {
	f, err := secondsPer(u)
	if err != nil {
		return 0, err
	}

	return secs / f, nil
}
