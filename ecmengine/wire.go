// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"fmt"
	"strings"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
)

// Message tags for the master/worker protocol of spec.md §6. Workers
// send an empty NEW_ECC to request a curve; the master replies with a
// NEW_ECC carrying a wire-encoded (curve, point); STOP carries no
// payload.
const (
	TagNewECC = 0x1000
	TagStop   = 0x0100
)

// wireSeparator joins the decimal fields of an encoded (curve, point).
const wireSeparator = ","

// EncodeWeierstrass serializes a Weierstrass (curve, point) to the
// textual wire format of spec.md §6: point coordinates (X, Y) then
// curve parameters (a, b). Z is never sent — it is always reset to 1 on
// decode.
func EncodeWeierstrass(c curve.WeierstrassCurve, p curve.Point) string {
	return strings.Join([]string{
		p.X.String(), p.Y.String(), c.A.String(), c.B.String(),
	}, wireSeparator)
}

// DecodeWeierstrass parses the wire format produced by
// EncodeWeierstrass. The returned point always has Z == 1.
func DecodeWeierstrass(s string) (curve.WeierstrassCurve, curve.Point, error) {
	fields, err := splitFields(s, 4)
	if err != nil {
		return curve.WeierstrassCurve{}, curve.Point{}, err
	}
	return curve.WeierstrassCurve{A: fields[2], B: fields[3]},
		curve.Point{X: fields[0], Y: fields[1], Z: bigint.One},
		nil
}

// EncodeEdwards serializes an Edwards (curve, point) to the textual
// wire format of spec.md §6: point coordinates (X, Y) then the curve
// parameter d.
func EncodeEdwards(c curve.EdwardsCurve, p curve.Point) string {
	return strings.Join([]string{
		p.X.String(), p.Y.String(), c.D.String(),
	}, wireSeparator)
}

// DecodeEdwards parses the wire format produced by EncodeEdwards. The
// returned point always has Z == 1.
func DecodeEdwards(s string) (curve.EdwardsCurve, curve.Point, error) {
	fields, err := splitFields(s, 3)
	if err != nil {
		return curve.EdwardsCurve{}, curve.Point{}, err
	}
	return curve.EdwardsCurve{D: fields[2]},
		curve.Point{X: fields[0], Y: fields[1], Z: bigint.One},
		nil
}

func splitFields(s string, want int) ([]bigint.Int, error) {
	parts := strings.Split(s, wireSeparator)
	if len(parts) != want {
		return nil, fmt.Errorf("ecmengine: wire: expected %d fields, got %d in %q", want, len(parts), s)
	}
	out := make([]bigint.Int, want)
	for i, part := range parts {
		v, ok := bigint.FromString(part)
		if !ok {
			return nil, fmt.Errorf("ecmengine: wire: invalid decimal field %q in %q", part, s)
		}
		out[i] = v
	}
	return out, nil
}
