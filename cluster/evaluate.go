// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts values in contiguous bins. Bin i covers Edges[i] to
// Edges[i+1]; the last bin includes its upper edge.
type Histogram struct {
	Column string    `json:"column"`
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
	Note   string    `json:"note"`
}

// FreedmanDiaconis bins values with width 2*IQR/cbrt(n), using at most one
// bin per value. A zero IQR yields a single bin. Empty input yields no bins.
func FreedmanDiaconis(values []float64) (edges, counts []float64) {
	x := slices.Clone(values)
	slices.Sort(x)

	n := len(x)
	if n == 0 {
		return nil, nil
	}

	lo, hi := x[0], x[n-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	iqr := stat.Quantile(0.75, stat.LinInterp, x, nil) - stat.Quantile(0.25, stat.LinInterp, x, nil)
	width := 2 * iqr / math.Cbrt(float64(n))

	// a tiny IQR beside a wide range asks for more bins than values
	bins := 1
	if width > 0 {
		bins = int(min(math.Ceil((hi-lo)/width), float64(n)))
		bins = max(1, bins)
	}

	edges = floats.Span(make([]float64, bins+1), lo, hi)

	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return edges, stat.Histogram(nil, dividers, x, nil)
}

// Evaluation column names.
const (
	ColumnNearestDistance = "nearest_distance"
	ColumnLengthDistance  = "length_distance"
	ColumnNearestDuration = "nearest_duration"
	ColumnLengthDuration  = "length_duration"
)

// Evaluate builds histograms of the cluster nearest and length statistics,
// after dropping nulls and outliers.
func Evaluate(clusters []ClusterSummary) []Histogram {
	columns := []struct {
		name string
		get  func(ClusterSummary) Measure
	}{
		{ColumnNearestDistance, func(c ClusterSummary) Measure { return c.NearestDistance }},
		{ColumnLengthDistance, func(c ClusterSummary) Measure { return c.LengthDistance }},
		{ColumnNearestDuration, func(c ClusterSummary) Measure { return c.NearestDuration }},
		{ColumnLengthDuration, func(c ClusterSummary) Measure { return c.LengthDuration }},
	}

	out := make([]Histogram, 0, len(columns))

	for _, col := range columns {
		values := make([]Measure, len(clusters))
		for i, c := range clusters {
			values[i] = col.get(c)
		}

		kept, _, note := FilterOutliers(validFloats(values))
		edges, counts := FreedmanDiaconis(kept)

		out = append(out, Histogram{Column: col.name, Edges: edges, Counts: counts, Note: note})
	}

	return out
}
