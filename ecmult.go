// Package ecmult implements variable-time scalar multiplication on
// short-Weierstrass prime-order curves (NIST P-256, NIST P-384 and
// secp256k1), and the ECDSA verification routine built on it.
//
// Every multiplication here runs in time that depends on its operands.
// That is acceptable only when both scalars are public, as they are during
// signature verification; nothing in this package is suitable for secret
// keys or nonces.
package ecmult

// ScalarMultVartime returns k*P in variable time.
func (ops *CurveOps) ScalarMultVartime(k *Scalar, p *Point) Point {
	if p.infinity {
		return Point{infinity: true}
	}
	x, y := ops.affineMont(p)
	acc := pointMulVartime(ops, k, &x, &y)
	return ops.finishPoint(&acc)
}

// ScalarBaseMultVartime returns k*G in variable time, G the curve's
// generator.
func (ops *CurveOps) ScalarBaseMultVartime(k *Scalar) Point {
	acc := pointMulVartime(ops, k, &ops.gx, &ops.gy)
	return ops.finishPoint(&acc)
}

// DoubleScalarBaseMultVartime returns gScalar*G + pScalar*P in variable
// time. This is the shape signature verification needs: both scalars are
// derived from the signature and message, both public.
func (ops *CurveOps) DoubleScalarBaseMultVartime(gScalar, pScalar *Scalar, p *Point) Point {
	if p.infinity {
		return ops.ScalarBaseMultVartime(gScalar)
	}
	px, py := ops.affineMont(p)
	return pointsMulVartime(ops, gScalar, pScalar, &px, &py)
}
