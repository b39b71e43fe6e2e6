// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/jcodagnone/geotempo/cluster"
	"github.com/jcodagnone/geotempo/units"
	"github.com/jcodagnone/geotempo/utils/textutils"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Prints the nearest neighbor distribution to help pick thresholds",
	Long: `
For every record, computes the distance and the time to its nearest neighbor,
ignoring any clustering, and prints the deciles of both distributions.
Outliers beyond three standard deviations are excluded.
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ds, err := loadDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		metrics := cluster.NewMetrics(ds.Records)

		distance, err := cluster.EstimateDistance(metrics.Distance(), units.Distance(cfg.Clustering.DistanceUnit))
		if err != nil {
			return err
		}

		duration, err := cluster.EstimateDuration(metrics.Duration(), units.Time(cfg.Clustering.TimeUnit))
		if err != nil {
			return err
		}

		printEstimate(os.Stdout, "Distance to nearest neighbor", distance)
		printEstimate(os.Stdout, "Time to nearest neighbor", duration)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}

func printEstimate(w io.Writer, title string, e cluster.Estimate) {
	fmt.Fprintf(w, "# %s, in %s (%s)\n", title, e.Unit, e.Note)

	if len(e.Values) == 0 {
		return
	}

	for _, p := range []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		fmt.Fprintf(w, "p%-4.0f %s\n", p*100, textutils.FormatFloat(stat.Quantile(p, stat.Empirical, e.Values, nil), 3))
	}
}
