// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package curve implements the elliptic-curve arithmetic that drives
// Lenstra's ECM: projective points over Z/NZ and the two curve models
// (short Weierstrass and twisted Edwards) that generate and operate on
// them.
package curve

import "github.com/ecm-go/lenstra/bigint"

// Point is a point in projective coordinates P = (X : Y : Z) on some
// curve over Z/NZ. Two points are equal iff their three coordinates are
// componentwise equal; this package never reduces across the (λX : λY :
// λZ) equivalence class, matching spec.md's invariant that every point
// produced by curve arithmetic has its coordinates already reduced
// modulo N.
type Point struct {
	X, Y, Z bigint.Int
}

// Equal reports whether p and q have componentwise-equal coordinates.
func (p Point) Equal(q Point) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0 && p.Z.Cmp(q.Z) == 0
}

// String renders p as "(X, Y, Z)", mirroring the original
// ProjectivePoint::get_str debugging helper.
func (p Point) String() string {
	return "(" + p.X.String() + ", " + p.Y.String() + ", " + p.Z.String() + ")"
}
