// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"testing"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunContextRejectsTooSmall(t *testing.T) {
	_, err := NewRunContext(bigint.One, bigint.Zero, Weierstrass, false)
	assert.Equal(t, ErrCompositeTooSmall, err)
}

func TestNewRunContextDefaultBoundIsSqrt(t *testing.T) {
	n := bigint.FromInt64(1000730021)
	rc, err := NewRunContext(n, bigint.Zero, Weierstrass, false)
	require.NoError(t, err)
	assert.Equal(t, n.Sqrt().String(), rc.Bound.String())
}

func TestNewRunContextIgnoresBoundAtOrBelowTwo(t *testing.T) {
	n := bigint.FromInt64(1000730021)
	rc, err := NewRunContext(n, bigint.Two, Weierstrass, false)
	require.NoError(t, err)
	assert.Equal(t, n.Sqrt().String(), rc.Bound.String())
}

func TestNewRunContextClampsOversizedBound(t *testing.T) {
	n := bigint.FromInt64(1000730021)
	huge := n // bound == N is well above floor(sqrt(N))
	rc, err := NewRunContext(n, huge, Weierstrass, false)
	require.NoError(t, err)
	assert.Equal(t, n.Sqrt().String(), rc.Bound.String())
}

func TestNewRunContextAcceptsInRangeBound(t *testing.T) {
	n := bigint.FromInt64(1000730021)
	b := bigint.FromInt64(1000)
	rc, err := NewRunContext(n, b, Weierstrass, false)
	require.NoError(t, err)
	assert.Equal(t, b.String(), rc.Bound.String())
}

func TestTestAfterHasFloorOfOneHundred(t *testing.T) {
	rc, err := NewRunContext(bigint.FromInt64(8051), bigint.Zero, Weierstrass, false)
	require.NoError(t, err)
	assert.True(t, rc.TestAfter.Cmp(bigint.FromInt64(100)) >= 0)
}

func TestModelKindString(t *testing.T) {
	assert.Equal(t, "Weierstrass", Weierstrass.String())
	assert.Equal(t, "Edwards", Edwards.String())
}

func TestNewModelMatchesRunContextKind(t *testing.T) {
	rc, err := NewRunContext(bigint.FromInt64(35), bigint.Zero, Edwards, false)
	require.NoError(t, err)
	_, ok := rc.NewModel().(*curve.EdwardsModel)
	assert.True(t, ok, "NewModel should return an EdwardsModel when ModelKind is Edwards")

	rc, err = NewRunContext(bigint.FromInt64(35), bigint.Zero, Weierstrass, false)
	require.NoError(t, err)
	_, ok = rc.NewModel().(*curve.WeierstrassModel)
	assert.True(t, ok, "NewModel should return a WeierstrassModel when ModelKind is Weierstrass")
}
