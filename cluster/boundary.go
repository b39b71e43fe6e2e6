// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/jcodagnone/geotempo/spatial"
)

// Boundary is the outline of one cluster in projected coordinates. Clusters
// with more than two members have a closed outline.
type Boundary struct {
	ID   Label          `json:"cluster_id"`
	Ring orb.LineString `json:"ring"`
}

// Boundaries outlines every assigned cluster, ordered by label.
func Boundaries(projected []orb.Point, labels []Label) ([]Boundary, error) {
	if len(projected) != len(labels) {
		return nil, fmt.Errorf("%w: %d coordinates for %d labels", ErrShapeMismatch, len(projected), len(labels))
	}

	groups := Groups(labels)
	out := make([]Boundary, 0, len(groups))

	for id, members := range groups {
		if len(members) == 0 {
			continue
		}

		points := make([]orb.Point, len(members))
		for k, i := range members {
			points[k] = projected[i]
		}

		out = append(out, Boundary{ID: Label(id), Ring: spatial.Boundary(points)})
	}

	return out, nil
}
