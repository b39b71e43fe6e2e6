// Copyright 2025 The Geotempo Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/geotempo/cmd"
)

var Version = "dev"

func main() {
	cmd.Execute(Version)
}
