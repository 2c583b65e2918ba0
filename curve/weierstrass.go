// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve

import "github.com/ecm-go/lenstra/bigint"

// WeierstrassCurve is the identity of a curve y^2 = x^3 + a*x + b
// (mod N). Immutable once returned from WeierstrassModel.GenerateCurve.
type WeierstrassCurve struct {
	A, B bigint.Int
}

// WeierstrassModel implements Model for curves in short Weierstrass
// form. Its neutral element is (0 : 1 : 0).
type WeierstrassModel struct {
	n    bigint.Int
	ecc  WeierstrassCurve
	seen map[string]struct{}
}

// NewWeierstrassModel returns a WeierstrassModel over Z/NZ with an
// empty duplicate set. n must be the composite number to factorize.
func NewWeierstrassModel(n bigint.Int) *WeierstrassModel {
	return &WeierstrassModel{
		n:    n,
		seen: make(map[string]struct{}),
	}
}

// Neutral returns the Weierstrass infinity point (0 : 1 : 0).
func (m *WeierstrassModel) Neutral() Point {
	return Point{X: bigint.Zero, Y: bigint.One, Z: bigint.Zero}
}

// IsNeutral reports whether p equals the Weierstrass infinity point.
func (m *WeierstrassModel) IsNeutral(p Point) bool {
	return p.Equal(m.Neutral())
}

// Curve returns the curve currently in use, for the parallel driver's
// wire hand-off (§6 of the spec: a, b are sent; the modulus is implicit
// from RunContext on both ends).
func (m *WeierstrassModel) Curve() WeierstrassCurve {
	return m.ecc
}

// SetCurve installs curve as the model's active curve, as a worker does
// on receiving a NEW_ECC message from the master. It does not touch the
// duplicate set: that set is owned exclusively by whichever model
// instance is doing the generating (spec.md §9), and a worker receiving
// a curve over the wire never generates one itself.
func (m *WeierstrassModel) SetCurve(c WeierstrassCurve) {
	m.ecc = c
}

// Add implements the group law for two distinct, non-neutral points
// using the formulas of spec.md §4.3.
func (m *WeierstrassModel) Add(p, q Point) Point {
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
	a := q.Y.Mul(p.Z).Mod(n)
	b := p.Y.Mul(q.Z).Mod(n)
	c := q.X.Mul(p.Z).Mod(n)
	d := p.X.Mul(q.Z).Mod(n)
	e := a.Sub(b).Mod(n)
	f := c.Sub(d).Mod(n)
	g := f.Square().Mod(n)
	h := g.Mul(f).Mod(n)
	i := p.Z.Mul(q.Z).Mod(n)
	j := e.Square().Mul(i).Sub(h).Sub(g.Lsh(1).Mul(d)).Mod(n)

	return Point{
		X: f.Mul(j).Mod(n),
		Y: e.Mul(g.Mul(d).Sub(j)).Sub(h.Mul(b)).Mod(n),
		Z: h.Mul(i).Mod(n),
	}
}

// Double implements point doubling using the formulas of spec.md §4.3.
func (m *WeierstrassModel) Double(p Point) Point {
	if m.IsNeutral(p) {
		return p
	}

	n := m.n
	a := m.ecc.A.Mul(p.Z.Square()).Add(p.X.Square().Mul(bigint.FromInt64(3))).Mod(n)
	b := p.Y.Mul(p.Z).Mod(n)
	c := p.X.Mul(p.Y).Mul(b).Mod(n)
	d := a.Square().Sub(c.Lsh(3)).Mod(n)

	return Point{
		X: b.Mul(d).Lsh(1).Mod(n),
		Y: a.Mul(c.Lsh(2).Sub(d)).Sub(p.Y.Square().Mul(b.Lsh(3)).Mul(b)).Mod(n),
		Z: b.Mul(b).Mul(b).Lsh(3).Mod(n),
	}
}

// ScalarMultiply computes k*P via the shared right-to-left
// double-and-add driver.
func (m *WeierstrassModel) ScalarMultiply(k bigint.Int, p Point) Point {
	return scalarMultiply(m, k, p)
}

// GenerateCurve samples a, b, x, y until it finds a non-singular,
// not-yet-seen curve, per spec.md §4.3.
func (m *WeierstrassModel) GenerateCurve() (Point, error) {
	n := m.n
	for attempt := 0; attempt < maxGenerateCurveAttempts; attempt++ {
		x := bigint.RandomBelow(n)
		y := bigint.RandomBelow(n)
		a := bigint.RandomBelow(n)
		// b is fixed so that (x, y) lies on the curve by construction.
		b := y.Square().Sub(x.Square().Mul(x)).Sub(a.Mul(x)).Mod(n)

		key := a.String() + "," + b.String()
		if _, dup := m.seen[key]; dup {
			continue
		}
		if !isNonSingular(a, b, n) {
			continue
		}

		m.seen[key] = struct{}{}
		m.ecc = WeierstrassCurve{A: a, B: b}
		return Point{X: x, Y: y, Z: bigint.One}, nil
	}
	return Point{}, ErrNoCurve
}

// isNonSingular reports GCD(4a^3 + 27b^2, N) == 1, the non-singularity
// condition of spec.md §3 and §4.3. When the GCD lands strictly between
// 1 and N it is, in principle, itself a factor of N — spec.md §4.3's
// Remark and §9's open question both say the reference design
// conservatively resamples rather than harvesting it, and this
// implementation preserves that behavior (see DESIGN.md).
func isNonSingular(a, b, n bigint.Int) bool {
	disc := a.Square().Mul(a).Lsh(2).Add(b.Square().Mul(bigint.FromInt64(27))).Mod(n)
	return disc.GCD(n).Cmp(bigint.One) == 0
}

// TryGetFactor returns GCD(p.Z, N).
func (m *WeierstrassModel) TryGetFactor(p Point) bigint.Int {
	return p.Z.GCD(m.n)
}
