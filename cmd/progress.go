// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/jcodagnone/geotempo/cluster"
)

// newStageProgress reports clustering stages on a progress bar when stderr is
// a terminal, and on the log otherwise.
func newStageProgress(description string) cluster.Progress {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return func(stage string) {
			log.Printf("%s: %s done", description, stage)
		}
	}

	bar := progressbar.NewOptions(len(cluster.Stages),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return func(stage string) {
		bar.Describe(description + " " + stage)

		if err := bar.Add(1); err != nil {
			log.Printf("updating progress bar for %s: %s", stage, err)
		}
	}
}
