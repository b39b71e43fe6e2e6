// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jcodagnone/geotempo/units"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugUnitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Converts thresholds to the internal radians and seconds",
	Long: `Reads a value and a unit per line, and prints the value in the unit the
distance and duration matrices use.

$ echo 0.25 miles | geotempo debug units
0.25 miles	6.315e-05 radians
`,
	RunE: func(_ *cobra.Command, _ []string) error {
		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter a value and a unit per line…")
		}

		return convertUnits(input, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugUnitsCmd)
}

func convertUnits(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		out, err := convertUnit(line)
		if err != nil {
			fmt.Fprintf(w, "%s\t%q\n", line, err.Error())
		} else {
			fmt.Fprintf(w, "%s\t%s\n", line, out)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

func convertUnit(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", fmt.Errorf("expected a value and a unit")
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "", fmt.Errorf("parsing value: %w", err)
	}

	if d, err := units.ParseDistance(fields[1]); err == nil {
		rad, err := units.DistanceToRadians(value, d)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%.4g radians", rad), nil
	}

	t, err := units.ParseTime(fields[1])
	if err != nil {
		return "", err
	}

	secs, err := units.TimeToSeconds(value, t)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%.4g seconds", secs), nil
}
