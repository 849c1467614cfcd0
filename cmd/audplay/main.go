// SPDX-License-Identifier: EPL-2.0

// Command audplay plays local files and HTTP(S) streams in the terminal,
// with a spectrum analyzer and a 10 band equalizer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
