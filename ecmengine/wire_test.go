// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
)

func TestWeierstrassWireRoundTrip(t *testing.T) {
	bigint.Seed(100)
	n := bigint.FromInt64(1000730021)
	m := curve.NewWeierstrassModel(n)
	p, err := m.GenerateCurve()
	if err != nil {
		t.Fatal(err)
	}
	// Z should always round-trip as 1, regardless of what the sender's Z
	// happened to be, per spec.md §6.
	p.Z = bigint.FromInt64(77)

	encoded := EncodeWeierstrass(m.Curve(), p)
	gotCurve, gotPoint, err := DecodeWeierstrass(encoded)
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}
	wantPoint := curve.Point{X: p.X, Y: p.Y, Z: bigint.One}
	if !gotPoint.Equal(wantPoint) {
		t.Errorf("point mismatch\ngot:  %s\nwant: %s\ndump got:  %s\ndump want: %s",
			gotPoint, wantPoint, spew.Sdump(gotPoint), spew.Sdump(wantPoint))
	}
	if gotCurve.A.Cmp(m.Curve().A) != 0 || gotCurve.B.Cmp(m.Curve().B) != 0 {
		t.Errorf("curve mismatch: got %+v, want %+v", gotCurve, m.Curve())
	}
}

func TestEdwardsWireRoundTrip(t *testing.T) {
	bigint.Seed(101)
	n := bigint.FromInt64(1000730021)
	m := curve.NewEdwardsModel(n)
	p, err := m.GenerateCurve()
	if err != nil {
		t.Fatal(err)
	}
	p.Z = bigint.FromInt64(55)

	encoded := EncodeEdwards(m.Curve(), p)
	gotCurve, gotPoint, err := DecodeEdwards(encoded)
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}
	wantPoint := curve.Point{X: p.X, Y: p.Y, Z: bigint.One}
	if !gotPoint.Equal(wantPoint) {
		t.Errorf("point mismatch\ngot:  %s\nwant: %s\ndump got:  %s\ndump want: %s",
			gotPoint, wantPoint, spew.Sdump(gotPoint), spew.Sdump(wantPoint))
	}
	if gotCurve.D.Cmp(m.Curve().D) != 0 {
		t.Errorf("curve mismatch: got %+v, want %+v", gotCurve, m.Curve())
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	if _, _, err := DecodeWeierstrass("1,2,3"); err == nil {
		t.Error("expected error for too few fields")
	}
	if _, _, err := DecodeWeierstrass("1,2,x,4"); err == nil {
		t.Error("expected error for non-decimal field")
	}
	if _, _, err := DecodeEdwards("1,2"); err == nil {
		t.Error("expected error for too few fields")
	}
}
