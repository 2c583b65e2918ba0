// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigint

import "testing"

func TestAddSubMul(t *testing.T) {
	a := FromInt64(7)
	b := FromInt64(3)
	if got := a.Add(b); got.Cmp(FromInt64(10)) != 0 {
		t.Errorf("Add: got %s, want 10", got)
	}
	if got := a.Sub(b); got.Cmp(FromInt64(4)) != 0 {
		t.Errorf("Sub: got %s, want 4", got)
	}
	if got := a.Mul(b); got.Cmp(FromInt64(21)) != 0 {
		t.Errorf("Mul: got %s, want 21", got)
	}
}

func TestModInverse(t *testing.T) {
	n := FromInt64(1000730021) // 100003 * 10007
	a := FromInt64(7)
	if g := a.GCD(n); g.Cmp(One) != 0 {
		t.Fatalf("expected GCD(7, n) == 1, got %s", g)
	}
	inv, ok := a.ModInverse(n)
	if !ok {
		t.Fatal("expected ModInverse to succeed")
	}
	if got := a.Mul(inv).Mod(n); got.Cmp(One) != 0 {
		t.Errorf("a * a^-1 mod n = %s, want 1", got)
	}

	// 100003 divides n, so it cannot be inverted mod n.
	factor := FromInt64(100003)
	if g := factor.GCD(n); g.Cmp(One) == 0 {
		t.Fatalf("expected GCD(100003, n) != 1, got %s", g)
	}
	if _, ok := factor.ModInverse(n); ok {
		t.Error("expected ModInverse to fail for a non-unit")
	}
}

func TestSqrt(t *testing.T) {
	cases := []struct {
		n, want int64
	}{
		{0, 0}, {1, 1}, {3, 1}, {4, 2}, {8051, 89}, {10403, 101},
	}
	for _, c := range cases {
		got := FromInt64(c.n).Sqrt()
		if got.Cmp(FromInt64(c.want)) != 0 {
			t.Errorf("Sqrt(%d) = %s, want %d", c.n, got, c.want)
		}
	}
}

func TestBit0AndRsh1(t *testing.T) {
	odd := FromInt64(13)
	even := FromInt64(14)
	if !odd.Bit0() {
		t.Error("expected 13 to have bit0 set")
	}
	if even.Bit0() {
		t.Error("expected 14 to have bit0 clear")
	}
	if got := odd.Rsh1(); got.Cmp(FromInt64(6)) != 0 {
		t.Errorf("Rsh1(13) = %s, want 6", got)
	}
}

func TestRandomBelowIsInRange(t *testing.T) {
	Seed(42)
	m := FromInt64(1000730021)
	for i := 0; i < 100; i++ {
		r := RandomBelow(m)
		if r.Cmp(Zero) < 0 || r.Cmp(m) >= 0 {
			t.Fatalf("RandomBelow(%s) produced %s, out of range", m, r)
		}
	}
}

func TestFromStringRoundTrip(t *testing.T) {
	a, ok := FromString("123456789012345678901234567890")
	if !ok {
		t.Fatal("expected FromString to parse a valid decimal string")
	}
	if a.String() != "123456789012345678901234567890" {
		t.Errorf("round trip mismatch: got %s", a.String())
	}
	if _, ok := FromString("not-a-number"); ok {
		t.Error("expected FromString to reject invalid input")
	}
}
