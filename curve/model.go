// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve

import (
	"errors"

	"github.com/ecm-go/lenstra/bigint"
)

// maxGenerateCurveAttempts bounds the resampling loop in GenerateCurve.
// It is large enough that no realistic composite modulus ever exhausts
// it; it exists only so a modulus with no valid curve at all (or too
// few to find one by chance) returns ErrNoCurve instead of spinning.
const maxGenerateCurveAttempts = 1 << 20

// ErrNoCurve is returned by GenerateCurve when no valid, not-yet-seen
// curve turned up within maxGenerateCurveAttempts tries.
var ErrNoCurve = errors.New("curve: no curve found for this modulus")

// Model is the polymorphic interface both curve families implement.
// A tagged variant (WeierstrassModel, EdwardsModel) plays the role the
// original C++ AbstractModel hierarchy filled with virtual dispatch;
// here the driver holds a Model by interface value and never needs to
// know which concrete curve family it is talking to.
type Model interface {
	// Add implements the group law. If either operand is the neutral
	// element it returns the other; if P == Q it delegates to Double.
	Add(p, q Point) Point

	// Double implements point doubling.
	Double(p Point) Point

	// ScalarMultiply computes k*P via right-to-left double-and-add,
	// exiting early the moment an intermediate doubling lands on the
	// neutral element (spec.md §4.2: this early exit is the fast path
	// that surfaces a factor implicit in an intermediate doubling).
	ScalarMultiply(k bigint.Int, p Point) Point

	// GenerateCurve samples a random curve of this family, rejecting
	// duplicates (and, for Weierstrass, singular curves), installs it as
	// the model's active curve, and returns a starting point that lies on
	// it. The curve parameters are not returned; the concrete models
	// expose them through Curve(). It returns ErrNoCurve if no valid
	// curve turns up within a generous attempt budget.
	GenerateCurve() (Point, error)

	// IsNeutral reports whether p is this curve family's neutral
	// element ("infinity point").
	IsNeutral(p Point) bool

	// Neutral returns this curve family's neutral element.
	Neutral() Point

	// TryGetFactor returns GCD(p.Z, N). The caller interprets 1 as "no
	// factor yet", N as pathological (retry), and anything strictly
	// between as a win.
	TryGetFactor(p Point) bigint.Int
}

// scalarMultiply is the double-and-add driver shared by both curve
// families: the loop itself is generic over Add/Double/IsNeutral, so
// each model wires it to its own formulas rather than reimplementing
// the loop.
func scalarMultiply(m Model, k bigint.Int, p Point) Point {
	q := m.Neutral()
	n := p
	for !k.IsZero() {
		if k.Bit0() {
			q = m.Add(q, n)
		}
		n = m.Double(n)
		if m.IsNeutral(n) {
			break
		}
		k = k.Rsh1()
	}
	return q
}
