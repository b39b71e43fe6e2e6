// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/paulmach/orb"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/spatial"
	"github.com/jcodagnone/geotempo/units"
)

// Axis is one grouping criterion.
type Axis int

const (
	// AxisLocation groups by distance only.
	AxisLocation Axis = iota
	// AxisTime groups by duration only.
	AxisTime
	// AxisCluster groups by distance and duration together.
	AxisCluster
)

func (a Axis) String() string {
	switch a {
	case AxisLocation:
		return "location"
	case AxisTime:
		return "time"
	case AxisCluster:
		return "cluster"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Assignment holds the labels of one record along every axis.
type Assignment struct {
	Location Label `json:"location_id"`
	Time     Label `json:"time_id"`
	Cluster  Label `json:"cluster_id"`
}

// Of returns the label along axis a.
func (as Assignment) Of(a Axis) Label {
	switch a {
	case AxisLocation:
		return as.Location
	case AxisTime:
		return as.Time
	default:
		return as.Cluster
	}
}

// Stats holds the neighbor statistics of one record, in the caller's units.
type Stats struct {
	NearestDistance Measure `json:"nearest_distance"`
	LengthDistance  Measure `json:"length_distance"`
	NearestDuration Measure `json:"nearest_duration"`
	LengthDuration  Measure `json:"length_duration"`
}

// Detail is a record with everything computed for it.
type Detail struct {
	Index int `json:"index"`
	records.Record
	Assignment
	Stats
	Projected orb.Point `json:"projected"`
	Cell      string    `json:"h3_cell,omitempty"`
}

// ClusterSummary is the rollup of one cluster.
type ClusterSummary struct {
	ID         Label     `json:"cluster_id"`
	Points     int       `json:"points"`
	LocationID Label     `json:"location_id"`
	TimeID     Label     `json:"time_id"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`

	NearestDistance Measure `json:"nearest_distance"`
	LengthDistance  Measure `json:"length_distance"`
	NearestDuration Measure `json:"nearest_duration"`
	LengthDuration  Measure `json:"length_duration"`
	// PreviousDuration is the time since the previous cluster at the same
	// location ended.
	PreviousDuration Measure `json:"previous_duration"`

	Centroid   spatial.Point     `json:"centroid"`
	Cell       string            `json:"h3_cell,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// AxisSummary is the rollup of one location or time group.
type AxisSummary struct {
	ID         Label `json:"id"`
	Points     int   `json:"points"`
	Clusters   int   `json:"clusters"`
	Unassigned int   `json:"unassigned"`
}

// SummarizeClusters builds one row per assigned cluster label, ordered by
// label. additional maps attribute names to their aggregation.
func SummarizeClusters(details []Detail, unit units.Time, additional map[string]Aggregation) ([]ClusterSummary, error) {
	labels := make([]Label, len(details))
	for i, d := range details {
		labels[i] = d.Cluster
	}

	groups := Groups(labels)
	out := make([]ClusterSummary, 0, len(groups))

	for id, members := range groups {
		if len(members) == 0 {
			continue
		}

		first := details[members[0]]
		s := ClusterSummary{
			ID:         Label(id),
			Points:     len(members),
			LocationID: first.Location,
			TimeID:     first.Assignment.Time,
			FirstSeen:  first.Record.Time,
			LastSeen:   first.Record.Time,
		}

		var (
			nearestDist, lengthDist, nearestDur, lengthDur []Measure
			points                                         []spatial.Point
		)

		for _, i := range members {
			d := details[i]
			if d.Record.Time.Before(s.FirstSeen) {
				s.FirstSeen = d.Record.Time
			}

			if d.Record.Time.After(s.LastSeen) {
				s.LastSeen = d.Record.Time
			}

			nearestDist = append(nearestDist, d.NearestDistance)
			lengthDist = append(lengthDist, d.LengthDistance)
			nearestDur = append(nearestDur, d.NearestDuration)
			lengthDur = append(lengthDur, d.LengthDuration)
			points = append(points, d.Point)
		}

		s.NearestDistance = minMeasure(nearestDist)
		s.LengthDistance = maxMeasure(lengthDist)
		s.NearestDuration = minMeasure(nearestDur)
		s.LengthDuration = maxMeasure(lengthDur)
		s.PreviousDuration = Null()
		s.Centroid = spatial.Centroid(points)

		if len(additional) > 0 {
			s.Additional = make(map[string]string, len(additional))

			for attr, agg := range additional {
				values := make([]any, 0, len(members))
				for _, i := range members {
					values = append(values, details[i].Attributes[attr])
				}

				s.Additional[attr] = agg.Apply(values)
			}
		}

		out = append(out, s)
	}

	if err := previousDurations(out, unit); err != nil {
		return nil, err
	}

	return out, nil
}

// previousDurations fills the gap between the end of each cluster and the
// end of the previous one at the same location. Clusters ending at the same
// time are ordered by label.
func previousDurations(clusters []ClusterSummary, unit units.Time) error {
	byLocation := make(map[Label][]int)

	for i, c := range clusters {
		if c.LocationID.Assigned() {
			byLocation[c.LocationID] = append(byLocation[c.LocationID], i)
		}
	}

	for _, idx := range byLocation {
		slices.SortFunc(idx, func(a, b int) int {
			if c := clusters[a].LastSeen.Compare(clusters[b].LastSeen); c != 0 {
				return c
			}

			return cmp.Compare(clusters[a].ID, clusters[b].ID)
		})

		for k := 1; k < len(idx); k++ {
			gap := clusters[idx[k]].LastSeen.Sub(clusters[idx[k-1]].LastSeen).Seconds()

			v, err := units.SecondsToTime(gap, unit)
			if err != nil {
				return unitError(err)
			}

			clusters[idx[k]].PreviousDuration = Measure(v)
		}
	}

	return nil
}

// SummarizeAxis builds one row per assigned label of axis, counting the
// distinct clusters its records belong to and those left unassigned.
func SummarizeAxis(details []Detail, axis Axis) []AxisSummary {
	rows := make(map[Label]*AxisSummary)
	seen := make(map[Label]map[Label]bool)

	for _, d := range details {
		id := d.Assignment.Of(axis)
		if !id.Assigned() {
			continue
		}

		row, ok := rows[id]
		if !ok {
			row = &AxisSummary{ID: id}
			rows[id] = row
			seen[id] = make(map[Label]bool)
		}

		row.Points++

		if !d.Cluster.Assigned() {
			row.Unassigned++

			continue
		}

		if !seen[id][d.Cluster] {
			seen[id][d.Cluster] = true
			row.Clusters++
		}
	}

	out := make([]AxisSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}

	slices.SortFunc(out, func(a, b AxisSummary) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return out
}
