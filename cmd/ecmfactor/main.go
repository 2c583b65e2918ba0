// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ecmfactor factors a composite number using Lenstra's elliptic curve
// method, sequentially or with a goroutine-based parallel driver.
package main

import (
	"os"

	"github.com/ecm-go/lenstra/ecmengine"
	"github.com/ecm-go/lenstra/release"
	"github.com/ecm-go/lenstra/util"
	"github.com/urfave/cli"
)

func init() {
	cli.VersionPrinter = release.PrintVersion
}

func ecmfactorMain() error {
	e := ecmengine.New()
	return e.Run(os.Args)
}

func main() {
	err := ecmfactorMain()
	if err == nil {
		return
	}
	// Exit codes 1-3 are part of the documented interface (see
	// ecmengine's flag table); respect whatever code cli.NewExitError
	// attached instead of util.Fatal's fixed exit(1).
	if exitErr, ok := err.(cli.ExitCoder); ok {
		cli.HandleExitCoder(exitErr)
		return
	}
	util.Fatal(err)
}
