// SPDX-License-Identifier: Apache-2.0
//
// crsflink - CRSF Telemetry Link Analyzer
//
// A CLI tool for monitoring, decoding and injecting CRSF protocol frames
// on the serial link between a flight controller and a radio receiver.

package main

import (
	"os"

	"github.com/fpvlab/crsflink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
