// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bigint is a thin, immutable adapter over math/big.Int.
//
// It exists so the curve and ecmengine packages never touch *big.Int
// pointers directly: every BigInt value here is copied on every
// operation, which keeps projective points and curve parameters safe to
// share across goroutines without a lock.
package bigint

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"
)

// Int is an immutable arbitrary-precision nonnegative integer.
type Int struct {
	v *big.Int
}

// Zero, One and Two are commonly used constants.
var (
	Zero = FromInt64(0)
	One  = FromInt64(1)
	Two  = FromInt64(2)
)

// FromInt64 builds an Int from an int64.
func FromInt64(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// FromString parses a base-10 string into an Int. ok is false if s is
// not a valid decimal representation of a nonnegative integer.
func FromString(s string) (Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, false
	}
	return Int{v: v}, true
}

// String returns the base-10 representation of a.
func (a Int) String() string {
	if a.v == nil {
		return "0"
	}
	return a.v.String()
}

// BigInt returns a copy of the underlying *big.Int, for interop with
// code outside this package (CLI flag parsing, printf, tests).
func (a Int) BigInt() *big.Int {
	return new(big.Int).Set(a.norm())
}

func (a Int) norm() *big.Int {
	if a.v == nil {
		return big.NewInt(0)
	}
	return a.v
}

// Cmp compares a and b, returning -1, 0 or 1 as math/big.Int.Cmp does.
func (a Int) Cmp(b Int) int {
	return a.norm().Cmp(b.norm())
}

// Add returns a+b.
func (a Int) Add(b Int) Int {
	return Int{v: new(big.Int).Add(a.norm(), b.norm())}
}

// Sub returns a-b. The result may be negative; callers that need a
// value reduced modulo N should follow with Mod.
func (a Int) Sub(b Int) Int {
	return Int{v: new(big.Int).Sub(a.norm(), b.norm())}
}

// Mul returns a*b.
func (a Int) Mul(b Int) Int {
	return Int{v: new(big.Int).Mul(a.norm(), b.norm())}
}

// Square returns a*a.
func (a Int) Square() Int {
	return a.Mul(a)
}

// Div returns the truncated quotient a/b.
func (a Int) Div(b Int) Int {
	return Int{v: new(big.Int).Div(a.norm(), b.norm())}
}

// Lsh returns a left-shifted by n bits (a * 2^n).
func (a Int) Lsh(n uint) Int {
	return Int{v: new(big.Int).Lsh(a.norm(), n)}
}

// Rsh1 returns a right-shifted by one bit (a / 2, rounded down).
func (a Int) Rsh1() Int {
	return Int{v: new(big.Int).Rsh(a.norm(), 1)}
}

// Bit0 reports whether the least-significant bit of a is set.
func (a Int) Bit0() bool {
	return a.norm().Bit(0) == 1
}

// IsZero reports whether a is zero.
func (a Int) IsZero() bool {
	return a.norm().Sign() == 0
}

// Mod returns a mod m, the nonnegative remainder (m must be positive).
func (a Int) Mod(m Int) Int {
	return Int{v: new(big.Int).Mod(a.norm(), m.norm())}
}

// PowMod returns a^e mod m.
func (a Int) PowMod(e, m Int) Int {
	return Int{v: new(big.Int).Exp(a.norm(), e.norm(), m.norm())}
}

// GCD returns the greatest common divisor of a and b. Both must be
// nonnegative; the result is always nonnegative.
func (a Int) GCD(b Int) Int {
	return Int{v: new(big.Int).GCD(nil, nil, a.norm(), b.norm())}
}

// ModInverse returns the modular multiplicative inverse of a modulo m.
// ok is false when GCD(a, m) != 1 — the caller must already have
// established that via GCD and routed the non-invertible case as a
// candidate-factor event; this method never panics on that input, it
// just reports failure.
func (a Int) ModInverse(m Int) (Int, bool) {
	v := new(big.Int).ModInverse(a.norm(), m.norm())
	if v == nil {
		return Int{}, false
	}
	return Int{v: v}, true
}

// Sqrt returns the integer square root of a (floor(sqrt(a))).
func (a Int) Sqrt() Int {
	return Int{v: new(big.Int).Sqrt(a.norm())}
}

// source is the shared uniform generator behind RandomBelow. It is
// seeded from crypto/rand once at process start, the same role
// cipher.RandReader plays for Mute's symmetric/asymmetric key material —
// here the Non-goals explicitly say cryptographic-quality randomness
// isn't required, so a mutex-guarded math/rand.Rand is enough, and it
// lets tests reseed it for the deterministic scenarios in spec.md §8.
var source = newSource()

var sourceMu sync.Mutex

func newSource() *mathrand.Rand {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing means the OS entropy source is broken;
		// fall back to a fixed seed rather than crash a probabilistic
		// factorizer over an RNG seeding failure.
		return mathrand.New(mathrand.NewSource(1))
	}
	var s int64
	for _, b := range seed {
		s = s<<8 | int64(b)
	}
	return mathrand.New(mathrand.NewSource(s))
}

// Seed reseeds the shared random source deterministically. Used by
// tests that need reproducible curve generation.
func Seed(seed int64) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	source = mathrand.New(mathrand.NewSource(seed))
}

// RandomBelow returns a uniform random Int in [0, m). m must be
// positive.
func RandomBelow(m Int) Int {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	return Int{v: new(big.Int).Rand(source, m.norm())}
}
