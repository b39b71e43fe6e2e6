// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/units"
)

// adjacencyOf builds an adjacency from undirected edges.
func adjacencyOf(n int, edges ...[2]int) *Adjacency {
	adj := &Adjacency{n: n, cells: make([]bool, n*n)}
	for i := range n {
		adj.cells[i*n+i] = true
	}

	for _, e := range edges {
		adj.cells[e[0]*n+e[1]] = true
		adj.cells[e[1]*n+e[0]] = true
	}

	return adj
}

func TestComponents(t *testing.T) {
	adj := adjacencyOf(6, [2]int{0, 3}, [2]int{3, 5}, [2]int{1, 4})

	want := [][]int{{0, 3, 5}, {1, 4}, {2}}
	if diff := cmp.Diff(want, Components(adj)); diff != "" {
		t.Errorf("Components() mismatch (-expected +got):\n%s", diff)
	}
}

func TestAssignLabels(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		comps [][]int
		want  []Label
	}{
		{
			name: "empty",
			want: []Label{},
		},
		{
			name:  "all singletons",
			n:     3,
			comps: [][]int{{0}, {1}, {2}},
			want:  labelsOf(-1, -1, -1),
		},
		{
			name:  "largest first",
			n:     6,
			comps: [][]int{{0, 5}, {1, 2, 3}, {4}},
			want:  labelsOf(1, 0, 0, 0, -1, 1),
		},
		{
			name:  "equal sizes by lowest member",
			n:     6,
			comps: [][]int{{3, 5}, {1, 4}, {0}, {2}},
			want:  labelsOf(-1, 0, -1, 1, 0, 1),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssignLabels(tc.n, tc.comps)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("AssignLabels() mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestLabelsFixture(t *testing.T) {
	recs := fixtureRecords()

	byDistance, err := CompareDistance(NewDistanceMatrix(records.Points(recs)), units.Miles, 0.25)
	require.NoError(t, err)

	byDuration, err := CompareDuration(NewDurationMatrix(records.Times(recs)), units.Minutes, 5)
	require.NoError(t, err)

	location, err := Labels(byDistance)
	require.NoError(t, err)
	assert.Equal(t, labelsOf(0, 0, -1, -1, 0, 0, -1, 0, 1, 1), location)

	timeLabels, err := Labels(byDuration)
	require.NoError(t, err)
	assert.Equal(t, labelsOf(0, 0, -1, 1, 1, 1, 1, 0, 0, 0), timeLabels)

	clusters, err := Labels(byDistance, byDuration)
	require.NoError(t, err)
	assert.Equal(t, labelsOf(0, 0, -1, -1, 1, 1, -1, 0, 2, 2), clusters)
}

func TestLabelsInvariants(t *testing.T) {
	adj := adjacencyOf(9, [2]int{0, 1}, [2]int{1, 2}, [2]int{3, 4}, [2]int{6, 7}, [2]int{7, 8}, [2]int{8, 6})

	labels, err := Labels(adj)
	require.NoError(t, err)

	sizes := make(map[Label]int)
	for _, l := range labels {
		if l.Assigned() {
			sizes[l]++
		}
	}

	// partition: singletons unassigned, every label has at least two members
	assert.Equal(t, Unassigned, labels[5])
	for _, size := range sizes {
		assert.GreaterOrEqual(t, size, 2)
	}

	// strictly larger clusters get smaller IDs
	for a, sa := range sizes {
		for b, sb := range sizes {
			if sa > sb {
				assert.Less(t, a, b)
			}
		}
	}

	again, err := Labels(adj)
	require.NoError(t, err)
	assert.Equal(t, labels, again)
	assert.Len(t, Groups(labels), 3)
}

func TestLabelJSON(t *testing.T) {
	data, err := json.Marshal([]Label{0, Unassigned, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `[0, null, 3]`, string(data))

	var got []Label
	require.NoError(t, json.Unmarshal([]byte(`[2, null]`), &got))
	assert.Equal(t, []Label{2, Unassigned}, got)

	assert.Equal(t, "-", Unassigned.String())
	assert.Equal(t, "4", Label(4).String())
}

func TestGroups(t *testing.T) {
	want := [][]int{{0, 1, 7}, {4, 5}, {8, 9}}
	if diff := cmp.Diff(want, Groups(labelsOf(0, 0, -1, -1, 1, 1, -1, 0, 2, 2))); diff != "" {
		t.Errorf("Groups() mismatch (-expected +got):\n%s", diff)
	}
}
