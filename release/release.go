// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package release implements release specific constants and methods.
package release

import (
	"fmt"

	"github.com/urfave/cli"
)

// Number is the current version number of the ECM factorization tools.
const Number = "1.0.0"

// Commit and Date identify the build. The teacher generated these at
// build time via go:generate; without that tool they are fixed here.
const (
	Commit = "unknown"
	Date   = "unknown"
)

// PrintVersion prints version information.
func PrintVersion(c *cli.Context) {
	fmt.Fprintf(c.App.Writer, "%v version %v\n", c.App.Name, c.App.Version)
	fmt.Fprintf(c.App.Writer, "commit %s\n", Commit)
	fmt.Fprintf(c.App.Writer, "Date:   %s\n", Date)
}
