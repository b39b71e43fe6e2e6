// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/geotempo/config"
	"github.com/jcodagnone/geotempo/records"
	"github.com/jcodagnone/geotempo/utils/textutils"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "geotempo",
	Short: "spatial and temporal clustering of point events",
	Long: `
geotempo groups records that are close both in space and in time. Two records
are linked when they are within a distance threshold and within a time
threshold of each other; clusters are the connected groups of linked records.
`,
	SilenceUsage: true,
}

// rootOptions are the flags shared by every command. They override the
// configuration file when set.
var rootOptions struct {
	ConfigPath     string
	Source         string
	DBPath         string
	DistanceUnit   string
	Distance       float64
	TimeUnit       string
	Duration       float64
	Additional     map[string]string
	CellResolution int
	IDColumn       string
	LatColumn      string
	LngColumn      string
	TimeColumn     string
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOptions.ConfigPath, "config", "", "YAML or JSON configuration file")
	flags.StringVar(&rootOptions.Source, "source", "", "CSV, Parquet or JSON file, or a table of the database")
	flags.StringVar(&rootOptions.DBPath, "db-path", "db", "Base directory of the database")
	flags.StringVar(&rootOptions.DistanceUnit, "distance-unit", "miles", "Distance unit (miles, feet, kilometers)")
	flags.Float64Var(&rootOptions.Distance, "distance", 0.25, "Distance threshold")
	flags.StringVar(&rootOptions.TimeUnit, "time-unit", "hours", "Time unit (days, hours, minutes)")
	flags.Float64Var(&rootOptions.Duration, "duration", 1, "Time threshold")
	flags.StringToStringVar(&rootOptions.Additional, "additional", nil, "Attributes to aggregate per cluster, as name=min|max|unique")
	flags.IntVar(&rootOptions.CellResolution, "cell-resolution", 8, "H3 resolution of record and cluster cells, 0 disables them")
	flags.StringVar(&rootOptions.IDColumn, "id-column", "id", "Column holding the record identifier")
	flags.StringVar(&rootOptions.LatColumn, "lat-column", "latitude", "Column holding the latitude")
	flags.StringVar(&rootOptions.LngColumn, "lng-column", "longitude", "Column holding the longitude")
	flags.StringVar(&rootOptions.TimeColumn, "time-column", "time", "Column holding the timestamp")
}

// loadConfig reads the configuration file, then the environment, then the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if rootOptions.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(rootOptions.ConfigPath); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"source", func() { cfg.Source = rootOptions.Source }},
		{"db-path", func() { cfg.DBPath = rootOptions.DBPath }},
		{"distance-unit", func() { cfg.Clustering.DistanceUnit = rootOptions.DistanceUnit }},
		{"distance", func() { cfg.Clustering.Distance = rootOptions.Distance }},
		{"time-unit", func() { cfg.Clustering.TimeUnit = rootOptions.TimeUnit }},
		{"duration", func() { cfg.Clustering.Duration = rootOptions.Duration }},
		{"additional", func() { cfg.Clustering.Additional = rootOptions.Additional }},
		{"cell-resolution", func() { cfg.Clustering.CellResolution = rootOptions.CellResolution }},
		{"id-column", func() { cfg.Schema.ID = rootOptions.IDColumn }},
		{"lat-column", func() { cfg.Schema.Latitude = rootOptions.LatColumn }},
		{"lng-column", func() { cfg.Schema.Longitude = rootOptions.LngColumn }},
		{"time-column", func() { cfg.Schema.Time = rootOptions.TimeColumn }},
	}

	for _, o := range overrides {
		if flags.Changed(o.flag) {
			o.apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func dbFile(cfg *config.Config) string {
	return filepath.Join(cfg.DBPath, "geotempo.duckdb")
}

// loadDataset reads the configured source. Files are read through an
// in-memory database; anything else names a table of the database.
func loadDataset(ctx context.Context, cfg *config.Config) (*records.Dataset, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("no source given: use --source or the config file")
	}

	dsn := ""
	if _, err := os.Stat(cfg.Source); err != nil {
		dsn = dbFile(cfg)
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ds, err := records.NewSQLRepository(db).Load(ctx, cfg.Source, cfg.Schema)
	if err != nil {
		return nil, err
	}

	log.Printf("📥 Loaded %s records from %s (%s skipped)",
		textutils.FormatInt(int64(len(ds.Records))), cfg.Source, textutils.FormatInt(int64(ds.Skipped)))

	return ds, nil
}
