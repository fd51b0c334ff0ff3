package ecmult

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// CurveOps is the operation context for one short-Weierstrass curve
// y^2 = x^3 + ax + b over a prime field. It bundles the field and order
// moduli with the curve constants and generator, everything already mapped
// into the Montgomery domain. A context is immutable after construction and
// shared read-only by any number of goroutines.
type CurveOps struct {
	name string

	q *modulus // field prime
	n *modulus // group order

	aMont FieldElement
	bMont FieldElement

	gx, gy FieldElement // generator, affine, Montgomery domain
}

// curveParams is the compiled-in description of one curve: big-endian hex,
// all strings exactly 2*8*numLimbs characters.
type curveParams struct {
	name     string
	numLimbs int
	p        string
	a        string
	b        string
	gx       string
	gy       string
	n        string
}

func newCurveOps(params *curveParams) (*CurveOps, error) {
	ops := &CurveOps{name: params.name}

	pb, err := decodeParam(params.p, params.numLimbs)
	if err != nil {
		return nil, err
	}
	if ops.q, err = newModulus(pb, params.numLimbs); err != nil {
		return nil, err
	}
	nb, err := decodeParam(params.n, params.numLimbs)
	if err != nil {
		return nil, err
	}
	if ops.n, err = newModulus(nb, params.numLimbs); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst *FieldElement
		hex string
	}{
		{&ops.aMont, params.a},
		{&ops.bMont, params.b},
		{&ops.gx, params.gx},
		{&ops.gy, params.gy},
	} {
		b, err := decodeParam(f.hex, params.numLimbs)
		if err != nil {
			return nil, err
		}
		if err = ops.q.setBytes(f.dst, b); err != nil {
			return nil, err
		}
	}

	if !ops.isOnCurve(&ops.gx, &ops.gy) {
		return nil, fmt.Errorf("curve %s: generator is not on the curve", params.name)
	}
	return ops, nil
}

func decodeParam(s string, numLimbs int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != numLimbs*8 {
		return nil, errors.New("curve parameter has wrong length")
	}
	return b, nil
}

func mustCurveOps(params *curveParams) *CurveOps {
	ops, err := newCurveOps(params)
	if err != nil {
		panic(err)
	}
	return ops
}

// Name returns the curve's conventional name.
func (ops *CurveOps) Name() string { return ops.name }

// Size returns the byte width of field elements and scalars.
func (ops *CurveOps) Size() int { return ops.q.numLimbs * 8 }

// OrderBits returns the bit length of the group order.
func (ops *CurveOps) OrderBits() int { return ops.n.bits }

// isOnCurve reports whether (x, y) in the Montgomery domain satisfies
// y^2 = x^3 + ax + b.
func (ops *CurveOps) isOnCurve(x, y *FieldElement) bool {
	q := ops.q
	var lhs, rhs, t FieldElement
	q.sqr(&lhs, y)
	q.sqr(&rhs, x)
	q.mul(&rhs, &rhs, x)
	q.mul(&t, &ops.aMont, x)
	q.add(&rhs, &rhs, &t)
	q.add(&rhs, &rhs, &ops.bMont)
	return lhs.equal(&rhs, q.numLimbs)
}

// ScalarFromBytes parses a big-endian scalar of exactly Size() bytes,
// rejecting values not reduced modulo the group order.
func (ops *CurveOps) ScalarFromBytes(b []byte) (*Scalar, error) {
	var s Scalar
	if err := s.setBytes(b, ops.n); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	p256Ops      = mustCurveOps(&p256Params)
	p384Ops      = mustCurveOps(&p384Params)
	secp256k1Ops = mustCurveOps(&secp256k1Params)
)

// P256 returns the operation context for NIST P-256.
func P256() *CurveOps { return p256Ops }

// P384 returns the operation context for NIST P-384.
func P384() *CurveOps { return p384Ops }

// Secp256k1 returns the operation context for secp256k1.
func Secp256k1() *CurveOps { return secp256k1Ops }
