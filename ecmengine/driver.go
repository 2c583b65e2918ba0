// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"context"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
	"github.com/ecm-go/lenstra/log"
)

// Result is the outcome of a completed factorization run.
type Result struct {
	Factor      bigint.Int
	CurvesTried int
}

// SequentialDriver implements the outer loop of spec.md §4.5: generate
// a curve, scalar-multiply up to the bound while periodically probing
// for a factor, and move on to a fresh curve on failure.
type SequentialDriver struct {
	rc RunContext
}

// NewSequentialDriver returns a driver bound to rc.
func NewSequentialDriver(rc RunContext) *SequentialDriver {
	return &SequentialDriver{rc: rc}
}

// Factorize runs the sequential algorithm until it finds a factor or
// ctx is cancelled. It never returns (1, nil) or (N, nil) — those are
// pathological probes the loop absorbs internally, per spec.md §7.
func (d *SequentialDriver) Factorize(ctx context.Context, model curve.Model) (Result, error) {
	rc := d.rc
	if f, ok := trialDivideIfDegenerate(rc); ok {
		return Result{Factor: f, CurvesTried: 0}, nil
	}

	counter := bigint.One
	curvesTried := 0

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p, err := model.GenerateCurve()
		if err != nil {
			return Result{}, err
		}
		curvesTried++
		log.Debugf("ecmengine: sequential: trying curve %d", curvesTried)

		for k := bigint.Two; k.Cmp(rc.Bound) < 0; k = k.Add(bigint.One) {
			p = model.ScalarMultiply(k, p)
			counter = counter.Add(bigint.One)

			if counter.Mod(rc.TestAfter).IsZero() {
				if f, ok := factorFound(model.TryGetFactor(p), rc.N); ok {
					return Result{Factor: f, CurvesTried: curvesTried}, nil
				}
				counter = bigint.Zero
			}
			if model.IsNeutral(p) {
				break
			}
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		if f, ok := factorFound(model.TryGetFactor(p), rc.N); ok {
			return Result{Factor: f, CurvesTried: curvesTried}, nil
		}
		// else: bound exhausted or the point went to neutral early;
		// the outer loop tries a fresh curve.
	}
}

// factorFound reports whether divisor is a nontrivial factor of n
// (1 < divisor < n). Divisor values of 1 or n are the pathological
// probes spec.md §7 says to silently absorb.
func factorFound(divisor, n bigint.Int) (bigint.Int, bool) {
	if divisor.Cmp(bigint.One) > 0 && divisor.Cmp(n) < 0 {
		return divisor, true
	}
	return bigint.Int{}, false
}

// minCurveLoopBound is the smallest rc.Bound for which the k-loop in
// Factorize (and a lane in ParallelDriver.runLane) runs at least once.
// Below it, Z is never anything but 1, so TryGetFactor can never
// return anything but GCD(1, N): the curve method itself cannot make
// progress, no matter how many curves it tries.
var minCurveLoopBound = bigint.FromInt64(3)

// trialDivideIfDegenerate reports a small factor of rc.N via trial
// division, but only when rc.Bound is too small for the curve loop to
// ever run (see minCurveLoopBound) — for any larger bound this leaves
// the curve method to do the actual work, unchanged.
func trialDivideIfDegenerate(rc RunContext) (bigint.Int, bool) {
	if rc.Bound.Cmp(minCurveLoopBound) >= 0 {
		return bigint.Int{}, false
	}
	return trialDivide(rc.N)
}

// trialDivide finds the smallest factor of n in [2, sqrt(n)] by trial
// division. It is only ever invoked on the tiny, degenerate N that
// trialDivideIfDegenerate guards for, so the unbounded search cost
// never matters in practice.
func trialDivide(n bigint.Int) (bigint.Int, bool) {
	for d := bigint.Two; d.Mul(d).Cmp(n) <= 0; d = d.Add(bigint.One) {
		if n.Mod(d).IsZero() {
			return d, true
		}
	}
	return bigint.Int{}, false
}
