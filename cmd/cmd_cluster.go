// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/utils/textutils"
)

var clusterOptions struct {
	JSON     bool
	Details  bool
	Evaluate bool
}

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Clusters the records of the source and prints the cluster summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		params, err := cfg.Clustering.Params()
		if err != nil {
			return err
		}

		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		metrics := cluster.NewMetrics(ds.Records)

		res, err := metrics.Run(params, newStageProgress("Clustering"))
		if err != nil {
			return fmt.Errorf("clustering: %w", err)
		}

		if clusterOptions.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(res)
		}

		printClusters(os.Stdout, res.Clusters)

		if clusterOptions.Details {
			fmt.Println()
			printDetails(os.Stdout, res.Details)
		}

		if clusterOptions.Evaluate {
			fmt.Println()
			printHistograms(os.Stdout, cluster.Evaluate(res.Clusters))
		}

		fmt.Printf("✅ %s clusters from %s records (%s distance, %s time)\n",
			textutils.FormatInt(int64(len(res.Clusters))),
			textutils.FormatInt(int64(len(res.Details))),
			params.DistanceUnit, params.TimeUnit)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().BoolVar(&clusterOptions.JSON, "json", false, "Print the full result as JSON")
	clusterCmd.Flags().BoolVar(&clusterOptions.Details, "details", false, "Also print the per record assignments")
	clusterCmd.Flags().BoolVar(&clusterOptions.Evaluate, "evaluate", false, "Also print histograms of the cluster statistics")
}

func printClusters(w io.Writer, clusters []cluster.ClusterSummary) {
	fmt.Fprintf(w, "%7s %6s %8s %8s %-19s %-19s %10s %10s %10s %10s %10s %-15s %s\n",
		"cluster", "points", "location", "time", "first_seen", "last_seen",
		"nearest_d", "length_d", "nearest_t", "length_t", "previous_t", "h3_cell", "additional")

	for _, c := range clusters {
		fmt.Fprintf(w, "%7s %6d %8s %8s %-19s %-19s %10s %10s %10s %10s %10s %-15s %s\n",
			c.ID, c.Points, c.LocationID, c.TimeID,
			c.FirstSeen.Format("2006-01-02 15:04:05"), c.LastSeen.Format("2006-01-02 15:04:05"),
			textutils.FormatFloat(float64(c.NearestDistance), 3),
			textutils.FormatFloat(float64(c.LengthDistance), 3),
			textutils.FormatFloat(float64(c.NearestDuration), 1),
			textutils.FormatFloat(float64(c.LengthDuration), 1),
			textutils.FormatFloat(float64(c.PreviousDuration), 1),
			orDash(c.Cell), formatAdditional(c.Additional))
	}
}

func printDetails(w io.Writer, details []cluster.Detail) {
	fmt.Fprintf(w, "%-12s %10s %11s %-19s %8s %8s %7s\n", "id", "lat", "lng", "time", "location", "time_id", "cluster")

	for _, d := range details {
		fmt.Fprintf(w, "%-12s %10.6f %11.6f %-19s %8s %8s %7s\n",
			d.ID, d.Point.Lat, d.Point.Lng, d.Record.Time.Format("2006-01-02 15:04:05"),
			d.Location, d.Assignment.Time, d.Cluster)
	}
}

func printHistograms(w io.Writer, histograms []cluster.Histogram) {
	for _, h := range histograms {
		fmt.Fprintf(w, "# %s (%s)\n", h.Column, h.Note)

		for i, c := range h.Counts {
			fmt.Fprintf(w, "[%10s, %10s) %s\n",
				textutils.FormatFloat(h.Edges[i], 3), textutils.FormatFloat(h.Edges[i+1], 3),
				strings.Repeat("#", int(c)))
		}
	}
}

func formatAdditional(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, k+"="+m[k])
	}

	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
