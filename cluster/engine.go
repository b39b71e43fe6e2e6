// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster groups timestamped geolocated records by spatial proximity,
// temporal proximity and both, and derives the statistics, boundaries and
// summaries used to explore the groups.
package cluster

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/paulmach/orb"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/spatial"
	"github.com/jcodagnone/geotempo/units"
)

// Pipeline stages, in execution order.
const (
	StageAdjacency  = "adjacency"
	StageLabels     = "labels"
	StageStatistics = "statistics"
	StageBoundaries = "boundaries"
	StageSummaries  = "summaries"
)

// Stages lists the pipeline stages reported to a Progress callback.
var Stages = []string{StageAdjacency, StageLabels, StageStatistics, StageBoundaries, StageSummaries}

// Progress is called when a pipeline stage completes.
type Progress func(stage string)

// Params are the user selected clustering parameters.
type Params struct {
	DistanceUnit units.Distance `json:"distance_unit"`
	Distance     float64        `json:"distance"`
	TimeUnit     units.Time     `json:"time_unit"`
	Duration     float64        `json:"duration"`
	// Additional maps pass-through attributes to the aggregation used to roll
	// them up per cluster.
	Additional map[string]Aggregation `json:"additional,omitempty"`
	// CellResolution is the H3 resolution of record and centroid cells.
	// Zero disables cells.
	CellResolution int `json:"cell_resolution,omitempty"`
}

// Validate checks units, thresholds and aggregations.
func (p Params) Validate() error {
	if _, err := units.ParseDistance(string(p.DistanceUnit)); err != nil {
		return unitError(err)
	}

	if _, err := units.ParseTime(string(p.TimeUnit)); err != nil {
		return unitError(err)
	}

	if err := validateThreshold("distance", p.Distance); err != nil {
		return err
	}

	if err := validateThreshold("duration", p.Duration); err != nil {
		return err
	}

	for _, attr := range slices.Sorted(maps.Keys(p.Additional)) {
		if _, err := ParseAggregation(string(p.Additional[attr])); err != nil {
			return fmt.Errorf("attribute %q: %w", attr, err)
		}
	}

	if p.CellResolution < 0 || p.CellResolution > 15 {
		return &ParameterError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("cell resolution must be between 0 and 15 (got %d)", p.CellResolution),
		}
	}

	return nil
}

// Metrics holds a record set with its pairwise matrices. It is immutable and
// safe for concurrent use; every Run is an independent recomputation.
type Metrics struct {
	records    []records.Record
	attributes []string
	distance   *Matrix
	duration   *Matrix
	projected  []orb.Point
}

// NewMetrics computes the distance and duration matrices of recs. This is
// quadratic in time and memory.
func NewMetrics(recs []records.Record) *Metrics {
	m := &Metrics{
		records:   slices.Clone(recs),
		distance:  NewDistanceMatrix(records.Points(recs)),
		duration:  NewDurationMatrix(records.Times(recs)),
		projected: make([]orb.Point, len(recs)),
	}

	for i, r := range recs {
		m.projected[i] = r.Point.Mercator()

		for k := range r.Attributes {
			if !slices.Contains(m.attributes, k) {
				m.attributes = append(m.attributes, k)
			}
		}
	}

	slices.Sort(m.attributes)

	return m
}

// Records returns the record set, in matrix order.
func (m *Metrics) Records() []records.Record {
	return m.records
}

// Attributes returns the names of the pass-through attributes.
func (m *Metrics) Attributes() []string {
	return m.attributes
}

// Distance returns the distance matrix, in radians.
func (m *Metrics) Distance() *Matrix {
	return m.distance
}

// Duration returns the duration matrix, in seconds.
func (m *Metrics) Duration() *Matrix {
	return m.duration
}

// Result is the outcome of one clustering pass.
type Result struct {
	Params     Params           `json:"params"`
	Details    []Detail         `json:"details"`
	Clusters   []ClusterSummary `json:"clusters"`
	Locations  []AxisSummary    `json:"locations"`
	Times      []AxisSummary    `json:"times"`
	Boundaries []Boundary       `json:"boundaries"`
}

// Run clusters the records with p. progress may be nil.
func (m *Metrics) Run(p Params, progress Progress) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if len(m.records) > 0 {
		for attr := range p.Additional {
			if !slices.Contains(m.attributes, attr) {
				return nil, &ParameterError{
					Type:    ErrorTypeAggregation,
					Message: fmt.Sprintf("unknown attribute %q", attr),
				}
			}
		}
	}

	if progress == nil {
		progress = func(string) {}
	}

	byDistance, err := CompareDistance(m.distance, p.DistanceUnit, p.Distance)
	if err != nil {
		return nil, err
	}

	byDuration, err := CompareDuration(m.duration, p.TimeUnit, p.Duration)
	if err != nil {
		return nil, err
	}

	progress(StageAdjacency)

	location, err := Labels(byDistance)
	if err != nil {
		return nil, fmt.Errorf("labeling locations: %w", err)
	}

	timeLabels, err := Labels(byDuration)
	if err != nil {
		return nil, fmt.Errorf("labeling times: %w", err)
	}

	clusters, err := Labels(byDistance, byDuration)
	if err != nil {
		return nil, fmt.Errorf("labeling clusters: %w", err)
	}

	progress(StageLabels)

	stats, err := m.stats(clusters, p)
	if err != nil {
		return nil, err
	}

	progress(StageStatistics)

	boundaries, err := Boundaries(m.projected, clusters)
	if err != nil {
		return nil, err
	}

	progress(StageBoundaries)

	details := make([]Detail, len(m.records))
	for i, r := range m.records {
		details[i] = Detail{
			Index:  i,
			Record: r,
			Assignment: Assignment{
				Location: location[i],
				Time:     timeLabels[i],
				Cluster:  clusters[i],
			},
			Stats:     stats[i],
			Projected: m.projected[i],
		}

		if p.CellResolution > 0 {
			details[i].Cell = cellString(r.Point, p.CellResolution)
		}
	}

	summaries, err := SummarizeClusters(details, p.TimeUnit, p.Additional)
	if err != nil {
		return nil, err
	}

	if p.CellResolution > 0 {
		for i := range summaries {
			summaries[i].Cell = cellString(summaries[i].Centroid, p.CellResolution)
		}
	}

	res := &Result{
		Params:     p,
		Details:    details,
		Clusters:   summaries,
		Locations:  SummarizeAxis(details, AxisLocation),
		Times:      SummarizeAxis(details, AxisTime),
		Boundaries: boundaries,
	}

	progress(StageSummaries)

	return res, nil
}

// stats evaluates both metrics against the cluster labels.
func (m *Metrics) stats(labels []Label, p Params) ([]Stats, error) {
	columns := make([][]Measure, 4)

	for k, step := range []struct {
		matrix *Matrix
		reduce func(*Matrix, []Label) ([]Measure, error)
	}{
		{m.distance, Nearest},
		{m.distance, Length},
		{m.duration, Nearest},
		{m.duration, Length},
	} {
		values, err := step.reduce(step.matrix, labels)
		if err != nil {
			return nil, err
		}

		if k < 2 {
			values, err = ConvertDistance(values, p.DistanceUnit)
		} else {
			values, err = ConvertDuration(values, p.TimeUnit)
		}

		if err != nil {
			return nil, err
		}

		columns[k] = values
	}

	out := make([]Stats, len(labels))
	for i := range out {
		out[i] = Stats{
			NearestDistance: columns[0][i],
			LengthDistance:  columns[1][i],
			NearestDuration: columns[2][i],
			LengthDuration:  columns[3][i],
		}
	}

	return out, nil
}

func cellString(p spatial.Point, res int) string {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return ""
	}

	cell, err := p.Cell(res)
	if err != nil {
		return ""
	}

	return cell.String()
}
