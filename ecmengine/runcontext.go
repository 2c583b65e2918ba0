// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecmengine wires the curve models to the sequential and
// parallel ECM drivers and exposes them behind a single
// github.com/urfave/cli application, the way protoengine does for
// muteproto.
package ecmengine

import (
	"errors"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
)

// ModelKind selects which curve family a run uses.
type ModelKind int

// The two supported curve families.
const (
	Weierstrass ModelKind = iota
	Edwards
)

func (k ModelKind) String() string {
	if k == Edwards {
		return "Edwards"
	}
	return "Weierstrass"
}

// ErrCompositeTooSmall is returned when N < 2.
var ErrCompositeTooSmall = errors.New("ecmengine: composite number must be >= 2")

// RunContext is the immutable configuration shared read-only by every
// worker of a factorization run (spec.md §3).
type RunContext struct {
	N         bigint.Int
	Bound     bigint.Int
	Model     ModelKind
	Parallel  bool
	TestAfter bigint.Int
}

// NewRunContext builds the RunContext for factorizing n. userBound is
// the user-supplied --bound value; pass bigint.Zero if none was given.
// Per spec.md §3/§6, a userBound <= 2 is ignored and the bound defaults
// to floor(sqrt(n)), clamped to that same ceiling otherwise.
func NewRunContext(n, userBound bigint.Int, model ModelKind, parallel bool) (RunContext, error) {
	if n.Cmp(bigint.Two) < 0 {
		return RunContext{}, ErrCompositeTooSmall
	}
	sqrtN := n.Sqrt()
	bound := sqrtN
	if userBound.Cmp(bigint.Two) > 0 && userBound.Cmp(sqrtN) < 0 {
		bound = userBound
	}
	return RunContext{
		N:         n,
		Bound:     bound,
		Model:     model,
		Parallel:  parallel,
		TestAfter: testAfter(bound),
	}, nil
}

// testAfter implements spec.md §4.5's heuristic: probe roughly every
// bound/1_000_000 iterations, with a floor of 100. GCD is expensive
// enough that probing on every scalar multiplication would dominate
// runtime on a large bound.
func testAfter(bound bigint.Int) bigint.Int {
	hundred := bigint.FromInt64(100)
	divided := bound.Div(bigint.FromInt64(1000000))
	if divided.Cmp(hundred) < 0 {
		return hundred
	}
	return divided
}

// NewModel constructs a fresh curve.Model of the RunContext's selected
// family over N, with its own empty duplicate set.
func (rc RunContext) NewModel() curve.Model {
	if rc.Model == Edwards {
		return curve.NewEdwardsModel(rc.N)
	}
	return curve.NewWeierstrassModel(rc.N)
}
