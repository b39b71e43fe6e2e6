// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"slices"
)

// Related returns the clusters sharing a location (AxisLocation) or a time
// (AxisTime) label with any of the selected clusters, selected included.
// AxisCluster returns the selection itself.
func Related(details []Detail, selected []Label, by Axis) []Label {
	groups := make(map[Label]bool)

	for _, d := range details {
		if d.Cluster.Assigned() && slices.Contains(selected, d.Cluster) {
			if g := d.Assignment.Of(by); g.Assigned() {
				groups[g] = true
			}
		}
	}

	var out []Label

	for _, d := range details {
		if !d.Cluster.Assigned() || slices.Contains(out, d.Cluster) {
			continue
		}

		if groups[d.Assignment.Of(by)] {
			out = append(out, d.Cluster)
		}
	}

	slices.Sort(out)

	return out
}

// Select returns the details of records in the given clusters.
func Select(details []Detail, clusters []Label) []Detail {
	var out []Detail

	for _, d := range details {
		if d.Cluster.Assigned() && slices.Contains(clusters, d.Cluster) {
			out = append(out, d)
		}
	}

	return out
}
