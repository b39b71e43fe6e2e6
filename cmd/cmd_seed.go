// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/geotempo/records"
)

// seedTable is the table the seed command writes.
const seedTable = "records"

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seeds the database with data from cmd/testdata/seed.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.DBPath, 0o750); err != nil {
				return fmt.Errorf("creating db directory: %w", err)
			}

			n, err := seedDatabase(cmd.Context(), dbFile(cfg), "cmd/testdata/seed.json")
			if err != nil {
				return err
			}

			fmt.Printf("✅ Database seeded with %d records. Use --source %s\n", n, seedTable)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}

func seedDatabase(ctx context.Context, dbPath, seedPath string) (int, error) {
	// remove old db if it exists
	_ = os.Remove(dbPath)
	_ = os.Remove(dbPath + ".wal")

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", seedPath, err)
	}

	var recs []records.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return 0, fmt.Errorf("failed to unmarshal %s: %w", seedPath, err)
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := records.NewSQLRepository(db).Save(ctx, seedTable, recs); err != nil {
		return 0, fmt.Errorf("failed to save records: %w", err)
	}

	return len(recs), nil
}
