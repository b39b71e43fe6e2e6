// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/units"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "geotempo.yaml", `
source: trips.csv
schema:
  id: trip_id
  latitude: pickup_lat
  longitude: pickup_lng
  time: pickup_time
clustering:
  distance_unit: feet
  distance: 500
  time_unit: minutes
  duration: 5
  additional:
    driver: unique
    fare: max
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "trips.csv", cfg.Source)
	assert.Equal(t, records.Schema{ID: "trip_id", Latitude: "pickup_lat", Longitude: "pickup_lng", Time: "pickup_time"}, cfg.Schema)
	// defaults survive
	assert.Equal(t, "localhost:8080", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Clustering.CellResolution)

	p, err := cfg.Clustering.Params()
	require.NoError(t, err)

	want := cluster.Params{
		DistanceUnit:   units.Feet,
		Distance:       500,
		TimeUnit:       units.Minutes,
		Duration:       5,
		CellResolution: 8,
		Additional: map[string]cluster.Aggregation{
			"driver": cluster.AggregationUnique,
			"fare":   cluster.AggregationMax,
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Params() mismatch (-expected +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "geotempo.json", `{"clustering": {"distance_unit": "kilometers", "distance": 0.5, "time_unit": "days", "duration": 1}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kilometers", cfg.Clustering.DistanceUnit)
	assert.Equal(t, records.DefaultSchema(), cfg.Schema)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(error) bool
	}{
		{"unit", "a.yaml", "clustering:\n  distance_unit: leagues\n", cluster.IsUnitError},
		{"aggregation", "b.yaml", "clustering:\n  additional:\n    fare: mean\n", cluster.IsAggregationError},
		{"threshold", "c.yml", "clustering:\n  duration: -2\n", cluster.IsThresholdError},
		{"schema", "d.yaml", "schema:\n  latitude: \"\"\n", cluster.IsColumnError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.content))
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error: %v", err)
		})
	}

	_, err := Load(writeFile(t, "config.toml", ""))
	require.ErrorContains(t, err, "unsupported config file format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "reading config file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEOTEMPO_ADDR", ":9090")
	t.Setenv("GEOTEMPO_SOURCE", "points.parquet")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "points.parquet", cfg.Source)
	assert.Equal(t, "db", cfg.DBPath)
	require.NoError(t, cfg.Validate())
}
