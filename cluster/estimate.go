// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jcodagnone/geotempo/units"
)

// Estimate is the sorted nearest neighbor metric of every record, used to
// pick a threshold.
type Estimate struct {
	Unit     string    `json:"unit"`
	Values   []float64 `json:"values"`
	Outliers int       `json:"outliers"`
	Note     string    `json:"note"`
}

// FilterOutliers drops NaN values and values above mean + 3 standard
// deviations. The note describes what was excluded.
func FilterOutliers(values []float64) (kept []float64, excluded int, note string) {
	clean := make([]float64, 0, len(values))

	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}

	if len(clean) == 0 {
		return clean, 0, "no data"
	}

	mean, std := stat.MeanStdDev(clean, nil)
	limit := mean + 3*std

	kept = make([]float64, 0, len(clean))

	for _, v := range clean {
		if v > limit {
			excluded++

			continue
		}

		kept = append(kept, v)
	}

	return kept, excluded, fmt.Sprintf("excluding %d points > %.3f", excluded, floats.Max(kept))
}

func estimate(unit string, values []Measure) Estimate {
	raw := make([]float64, len(values))
	for i, v := range values {
		raw[i] = float64(v)
	}

	kept, excluded, note := FilterOutliers(raw)
	slices.Sort(kept)

	return Estimate{Unit: unit, Values: kept, Outliers: excluded, Note: note}
}

// EstimateDistance reports the distance from each record to its nearest
// neighbor, in unit.
func EstimateDistance(m *Matrix, unit units.Distance) (Estimate, error) {
	nearest, err := Nearest(m, unassigned(m.Len()))
	if err != nil {
		return Estimate{}, err
	}

	converted, err := ConvertDistance(nearest, unit)
	if err != nil {
		return Estimate{}, err
	}

	return estimate(string(unit), converted), nil
}

// EstimateDuration reports the time from each record to its nearest neighbor
// in time, in unit.
func EstimateDuration(m *Matrix, unit units.Time) (Estimate, error) {
	nearest, err := Nearest(m, unassigned(m.Len()))
	if err != nil {
		return Estimate{}, err
	}

	converted, err := ConvertDuration(nearest, unit)
	if err != nil {
		return Estimate{}, err
	}

	return estimate(string(unit), converted), nil
}

func unassigned(n int) []Label {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Unassigned
	}

	return labels
}
