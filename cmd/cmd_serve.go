// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/dashboard"
)

var serveOptions struct {
	Addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the clustering API for the exploration dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveOptions.Addr
		}

		params, err := cfg.Clustering.Params()
		if err != nil {
			return err
		}

		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		server := dashboard.NewServer(cluster.NewMetrics(ds.Records))
		server.NewProgress = func() cluster.Progress {
			return newStageProgress("Clustering")
		}

		if _, _, err := server.Recompute(params); err != nil {
			return fmt.Errorf("initial clustering: %w", err)
		}

		fmt.Println("🗺️  Clustering server starting...")
		fmt.Printf("📍 Listening on http://%s/api/clusters\n", cfg.Server.Addr)

		if err := server.Run(cfg.Server.Addr); err != nil {
			log.Printf("server stopped: %s", err)

			return err
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveOptions.Addr, "addr", "localhost:8080", "Address to listen on")
}
