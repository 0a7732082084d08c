// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
