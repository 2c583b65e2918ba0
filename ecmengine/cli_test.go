// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestEngineRunFindsFactor(t *testing.T) {
	bigint.Seed(3)
	e := New()
	var out bytes.Buffer
	e.app.Writer = &out

	err := e.Run([]string{"ecmfactor", "--composite-number", "8051"})
	require.NoError(t, err)
	output := out.String()
	assert.True(t, strings.Contains(output, "Factorizing number: 8051"))
	assert.True(t, strings.Contains(output, "Using model: Weierstrass"))
	assert.True(t, strings.Contains(output, "Factor = 83") || strings.Contains(output, "Factor = 97"))
}

func TestEngineRunRejectsMissingComposite(t *testing.T) {
	e := New()
	var out bytes.Buffer
	e.app.Writer = &out

	err := e.Run([]string{"ecmfactor"})
	require.Error(t, err)
}

func TestEngineRunRejectsBothModels(t *testing.T) {
	e := New()
	var out bytes.Buffer
	e.app.Writer = &out

	err := e.Run([]string{"ecmfactor", "-n", "35", "-w", "-e"})
	require.Error(t, err)
}

func TestEngineRunRejectsSmallComposite(t *testing.T) {
	e := New()
	var out bytes.Buffer
	e.app.Writer = &out

	err := e.Run([]string{"ecmfactor", "-n", "1"})
	require.Error(t, err)
}

func TestEngineRunHelpExitsOne(t *testing.T) {
	e := New()
	var out bytes.Buffer
	e.app.Writer = &out

	err := e.Run([]string{"ecmfactor", "--help"})
	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "expected a cli.ExitCoder")
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.True(t, strings.Contains(out.String(), "USAGE"))
}
