// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"context"
	"testing"
	"time"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParallelDriverFindsFactor is scenario 5 of spec.md §8: four
// workers race to factor N = 1 000 730 021, exactly one of them reports
// the winning factor, and CurvesGenerated reflects real work done by
// the shared generator.
func TestParallelDriverFindsFactor(t *testing.T) {
	bigint.Seed(29)
	n := bigint.FromInt64(1000730021)
	rc, err := NewRunContext(n, bigint.Zero, Weierstrass, true)
	require.NoError(t, err)

	d := NewParallelDriver(rc, 4, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := d.Run(ctx, rc.NewModel)
	require.NoError(t, err)
	assert.Contains(t, []string{"100003", "10007"}, res.Factor.String())
	assert.True(t, res.Rank >= 0 && res.Rank < 4)
	assert.True(t, res.CurvesGenerated > 0)
}

// TestParallelDriverCancellation makes sure every rank and the
// generator unwind when the context is cancelled before any factor is
// found, rather than leaking goroutines or hanging the run.
func TestParallelDriverCancellation(t *testing.T) {
	bigint.Seed(31)
	// A huge bound on a large prime-ish N means no rank finds a factor
	// before cancellation fires.
	n := bigint.FromInt64(1000730021)
	rc, err := NewRunContext(n, bigint.Zero, Weierstrass, true)
	require.NoError(t, err)

	d := NewParallelDriver(rc, 3, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = d.Run(ctx, rc.NewModel)
	assert.Error(t, err)
}

func TestNewParallelDriverDefaults(t *testing.T) {
	rc, err := NewRunContext(bigint.FromInt64(35), bigint.Zero, Weierstrass, true)
	require.NoError(t, err)
	d := NewParallelDriver(rc, 0, 0)
	assert.True(t, d.workers > 0)
	assert.Equal(t, defaultLanes, d.lanes)
}

func TestTerminationPublishesOnlyOnce(t *testing.T) {
	term := &termination{}
	ok1 := term.tryPublish(0, bigint.FromInt64(7))
	ok2 := term.tryPublish(1, bigint.FromInt64(11))
	assert.True(t, ok1)
	assert.False(t, ok2)
	factor, rank := term.snapshot()
	assert.Equal(t, "7", factor.String())
	assert.Equal(t, 0, rank)
}
