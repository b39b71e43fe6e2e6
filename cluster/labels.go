// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Label identifies the cluster of a record along one axis. Clusters are
// numbered from 0, largest first.
type Label int

// Unassigned is the label of records that share a cluster with nobody.
const Unassigned Label = -1

// Assigned reports whether l names a cluster.
func (l Label) Assigned() bool {
	return l >= 0
}

func (l Label) String() string {
	if !l.Assigned() {
		return "-"
	}

	return strconv.Itoa(int(l))
}

// MarshalJSON encodes unassigned labels as null.
func (l Label) MarshalJSON() ([]byte, error) {
	if !l.Assigned() {
		return []byte("null"), nil
	}

	return []byte(strconv.Itoa(int(l))), nil
}

// UnmarshalJSON decodes null as Unassigned.
func (l *Label) UnmarshalJSON(data []byte) error {
	var v *int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v == nil || *v < 0 {
		*l = Unassigned

		return nil
	}

	*l = Label(*v)

	return nil
}

// Components returns the connected components of adj as sorted record
// indices. Components are ordered by their lowest member.
func Components(adj *Adjacency) [][]int {
	g := simple.NewUndirectedGraph()

	for i := range adj.Len() {
		g.AddNode(simple.Node(i))
	}

	for i := range adj.Len() {
		for j := i + 1; j < adj.Len(); j++ {
			if adj.At(i, j) || adj.At(j, i) {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	var comps [][]int

	for _, nodes := range topo.ConnectedComponents(g) {
		members := make([]int, len(nodes))
		for k, node := range nodes {
			members[k] = int(node.ID())
		}

		slices.Sort(members)
		comps = append(comps, members)
	}

	slices.SortFunc(comps, func(a, b []int) int {
		return cmp.Compare(a[0], b[0])
	})

	return comps
}

// AssignLabels numbers components by descending size. Components of equal
// size are ordered by their lowest member index. Singletons are left
// unassigned.
func AssignLabels(n int, comps [][]int) []Label {
	ranked := slices.Clone(comps)
	slices.SortStableFunc(ranked, func(a, b []int) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}

		return cmp.Compare(slices.Min(a), slices.Min(b))
	})

	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Unassigned
	}

	next := Label(0)

	for _, members := range ranked {
		if len(members) < 2 {
			continue
		}

		for _, i := range members {
			labels[i] = next
		}

		next++
	}

	return labels
}

// Labels clusters the records connected under every given adjacency.
func Labels(adjs ...*Adjacency) ([]Label, error) {
	adj, err := Conjunction(adjs...)
	if err != nil {
		return nil, err
	}

	return AssignLabels(adj.Len(), Components(adj)), nil
}

// Groups returns the members of each assigned label, indexed by label.
func Groups(labels []Label) [][]int {
	var groups [][]int

	for i, l := range labels {
		if !l.Assigned() {
			continue
		}

		for int(l) >= len(groups) {
			groups = append(groups, nil)
		}

		groups[l] = append(groups[l], i)
	}

	return groups
}
