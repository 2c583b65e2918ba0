// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve

import "github.com/ecm-go/lenstra/bigint"

// EdwardsCurve is the identity of a curve x^2 + y^2 = 1 + d*x^2*y^2
// (mod N). Immutable once returned from EdwardsModel.GenerateCurve.
type EdwardsCurve struct {
	D bigint.Int
}

// EdwardsModel implements Model for curves in twisted Edwards form.
// Its neutral element is (0 : 1 : 1).
type EdwardsModel struct {
	n    bigint.Int
	ecc  EdwardsCurve
	seen map[string]struct{}
}

// NewEdwardsModel returns an EdwardsModel over Z/NZ with an empty
// duplicate set. n must be the composite number to factorize.
func NewEdwardsModel(n bigint.Int) *EdwardsModel {
	return &EdwardsModel{
		n:    n,
		seen: make(map[string]struct{}),
	}
}

// Neutral returns the Edwards infinity point (0 : 1 : 1).
func (m *EdwardsModel) Neutral() Point {
	return Point{X: bigint.Zero, Y: bigint.One, Z: bigint.One}
}

// IsNeutral reports whether p equals the Edwards infinity point.
func (m *EdwardsModel) IsNeutral(p Point) bool {
	return p.Equal(m.Neutral())
}

// Curve returns the curve currently in use, for the parallel driver's
// wire hand-off.
func (m *EdwardsModel) Curve() EdwardsCurve {
	return m.ecc
}

// SetCurve installs curve as the model's active curve, as a worker does
// on receiving a NEW_ECC message from the master (see the note on
// WeierstrassModel.SetCurve: the duplicate set stays with the
// generator, never the receiver).
func (m *EdwardsModel) SetCurve(c EdwardsCurve) {
	m.ecc = c
}

// Add implements the group law for two distinct, non-neutral points
// using the formulas of spec.md §4.4.
func (m *EdwardsModel) Add(p, q Point) Point {
	if m.IsNeutral(p) {
		return q
	}
	if m.IsNeutral(q) {
		return p
	}
	if p.Equal(q) {
		return m.Double(p)
	}

	n := m.n
	a := p.Z.Mul(q.Z).Mod(n)
	b := a.Square().Mod(n)
	c := p.X.Mul(q.X).Mod(n)
	d := p.Y.Mul(q.Y).Mod(n)
	e := c.Mul(d).Mod(n)
	f := b.Sub(e).Mod(n)
	g := b.Add(e).Mod(n)

	return Point{
		X: a.Mul(f).Mul(p.X.Add(p.Y).Mul(q.X.Add(q.Y)).Sub(c).Sub(d)).Mod(n),
		Y: a.Mul(g).Mul(d.Sub(c)).Mod(n),
		Z: f.Mul(g).Mod(n),
	}
}

// Double implements point doubling using the formulas of spec.md §4.4.
func (m *EdwardsModel) Double(p Point) Point {
	if m.IsNeutral(p) {
		return p
	}

	n := m.n
	b := p.X.Add(p.Y).Square().Mod(n)
	c := p.X.Square().Mod(n)
	d := p.Y.Square().Mod(n)
	f := c.Add(d).Mod(n)
	h := p.Z.Square().Mod(n)
	j := f.Sub(h.Lsh(1)).Mod(n)

	return Point{
		X: b.Sub(c).Sub(d).Mul(j).Mod(n),
		Y: f.Mul(c.Sub(d)).Mod(n),
		Z: f.Mul(j).Mod(n),
	}
}

// ScalarMultiply computes k*P via the shared right-to-left
// double-and-add driver.
func (m *EdwardsModel) ScalarMultiply(k bigint.Int, p Point) Point {
	return scalarMultiply(m, k, p)
}

// GenerateCurve samples x, y and derives d until it finds a
// not-yet-seen curve with d >= 2, per spec.md §4.4. d == 1 is the
// sentinel meaning "keep sampling"; it is never returned as a real
// curve parameter.
func (m *EdwardsModel) GenerateCurve() (Point, error) {
	n := m.n
	d := bigint.One
	var x, y bigint.Int
	for attempt := 0; d.Cmp(bigint.Two) < 0; attempt++ {
		if attempt >= maxGenerateCurveAttempts {
			return Point{}, ErrNoCurve
		}
		x = bigint.RandomBelow(n)
		y = bigint.RandomBelow(n)
		sqX := x.PowMod(bigint.Two, n)
		sqY := y.PowMod(bigint.Two, n)
		mult := sqX.Mul(sqY).Mod(n)
		if mult.GCD(n).Cmp(bigint.One) == 0 {
			inv, ok := mult.ModInverse(n)
			if !ok {
				// GCD just confirmed invertibility; this would only
				// happen if n changed underneath us, which it never
				// does for the lifetime of a model.
				continue
			}
			d = sqX.Add(sqY).Sub(bigint.One).Mul(inv).Mod(n)
		}
		if _, dup := m.seen[d.String()]; dup {
			d = bigint.One
		}
	}

	m.seen[d.String()] = struct{}{}
	m.ecc = EdwardsCurve{D: d}
	return Point{X: x, Y: y, Z: bigint.One}, nil
}

// TryGetFactor returns GCD(p.Z, N).
func (m *EdwardsModel) TryGetFactor(p Point) bigint.Int {
	return p.Z.GCD(m.n)
}
