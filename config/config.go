// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the clustering configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/units"
)

// Config is the contents of a configuration file.
type Config struct {
	// Source is a CSV, Parquet or JSON file, or a table of the database.
	Source     string         `json:"source"     yaml:"source"`
	DBPath     string         `json:"db_path"    yaml:"db_path"`
	Schema     records.Schema `json:"schema"     yaml:"schema"`
	Clustering Clustering     `json:"clustering" yaml:"clustering"`
	Server     Server         `json:"server"     yaml:"server"`
}

// Clustering holds the initial clustering parameters.
type Clustering struct {
	DistanceUnit   string            `json:"distance_unit"   yaml:"distance_unit"`
	Distance       float64           `json:"distance"        yaml:"distance"`
	TimeUnit       string            `json:"time_unit"       yaml:"time_unit"`
	Duration       float64           `json:"duration"        yaml:"duration"`
	Additional     map[string]string `json:"additional"      yaml:"additional"`
	CellResolution int               `json:"cell_resolution" yaml:"cell_resolution"`
}

// Server configures the dashboard API.
type Server struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DBPath: "db",
		Schema: records.DefaultSchema(),
		Clustering: Clustering{
			DistanceUnit:   string(units.Miles),
			Distance:       0.25,
			TimeUnit:       string(units.Hours),
			Duration:       1,
			CellResolution: 8,
		},
		Server: Server{
			Addr: "localhost:8080",
		},
	}
}

// Load reads a YAML or JSON file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from GEOTEMPO_* environment variables.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv("GEOTEMPO_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	if dbPath := os.Getenv("GEOTEMPO_DB_PATH"); dbPath != "" {
		c.DBPath = dbPath
	}

	if source := os.Getenv("GEOTEMPO_SOURCE"); source != "" {
		c.Source = source
	}
}

// Validate checks the schema and clustering parameters.
func (c *Config) Validate() error {
	if c.Schema.Latitude == "" || c.Schema.Longitude == "" || c.Schema.Time == "" {
		return &cluster.ParameterError{
			Type:    cluster.ErrorTypeColumn,
			Message: "schema must name the latitude, longitude and time columns",
		}
	}

	if _, err := c.Clustering.Params(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server address is empty")
	}

	return nil
}

// Params converts the clustering section to engine parameters.
func (c Clustering) Params() (cluster.Params, error) {
	p := cluster.Params{
		DistanceUnit:   units.Distance(c.DistanceUnit),
		Distance:       c.Distance,
		TimeUnit:       units.Time(c.TimeUnit),
		Duration:       c.Duration,
		CellResolution: c.CellResolution,
	}

	if len(c.Additional) > 0 {
		p.Additional = make(map[string]cluster.Aggregation, len(c.Additional))

		for _, attr := range slices.Sorted(maps.Keys(c.Additional)) {
			agg, err := cluster.ParseAggregation(c.Additional[attr])
			if err != nil {
				return cluster.Params{}, fmt.Errorf("attribute %q: %w", attr, err)
			}

			p.Additional[attr] = agg
		}
	}

	if err := p.Validate(); err != nil {
		return cluster.Params{}, err
	}

	return p, nil
}
