package ecmult

import "errors"

// jacobianPoint is a curve point in Jacobian projective coordinates
// (X, Y, Z) with affine coordinates (X/Z^2, Y/Z^3), all three entries in
// the field's Montgomery domain. The all-zero triple stands in for the
// point at infinity; the group-law routines below treat any zero Z that
// way.
type jacobianPoint struct {
	x, y, z FieldElement
}

// Point is an affine curve point in the library's public representation:
// plain (non-Montgomery) coordinates plus an explicit infinity flag.
type Point struct {
	x, y     FieldElement
	infinity bool
}

// IsInfinity reports whether the point is the group identity.
func (p *Point) IsInfinity() bool { return p.infinity }

// Bytes returns the uncompressed SEC1 encoding 0x04 || X || Y, or the
// single byte 0x00 for the point at infinity.
func (ops *CurveOps) Bytes(p *Point) []byte {
	if p.infinity {
		return []byte{0}
	}
	size := ops.Size()
	out := make([]byte, 1+2*size)
	out[0] = 4
	px := p.x
	for i := 0; i < ops.q.numLimbs; i++ {
		writeBE64(out[1+size-8*(i+1):1+size], px.n[i])
	}
	py := p.y
	for i := 0; i < ops.q.numLimbs; i++ {
		writeBE64(out[1+2*size-8*(i+1):1+2*size], py.n[i])
	}
	return out
}

// ParsePoint parses an uncompressed SEC1 point and checks that it lies on
// the curve. The single byte 0x00 parses as the point at infinity.
func (ops *CurveOps) ParsePoint(b []byte) (*Point, error) {
	if len(b) == 1 && b[0] == 0 {
		return &Point{infinity: true}, nil
	}
	size := ops.Size()
	if len(b) != 1+2*size || b[0] != 4 {
		return nil, errors.New("point is not in uncompressed form")
	}
	var x, y FieldElement
	if err := ops.q.setBytes(&x, b[1:1+size]); err != nil {
		return nil, err
	}
	if err := ops.q.setBytes(&y, b[1+size:]); err != nil {
		return nil, err
	}
	if !ops.isOnCurve(&x, &y) {
		return nil, errors.New("point is not on the curve")
	}
	var p Point
	ops.q.fromMont(&p.x, &x)
	ops.q.fromMont(&p.y, &y)
	return &p, nil
}

// affineMont returns the point's coordinates mapped into the Montgomery
// domain, the form the multiplication core works in.
func (ops *CurveOps) affineMont(p *Point) (x, y FieldElement) {
	ops.q.toMont(&x, &p.x)
	ops.q.toMont(&y, &p.y)
	return
}

// pointDouble computes r = 2*a using the dbl-2007-bl formulas with a
// generic curve a term, so the same code serves a = -3 and a = 0 curves.
// r may alias a. Doubling the all-zero triple yields the all-zero triple.
func (ops *CurveOps) pointDouble(r, a *jacobianPoint) {
	q := ops.q
	var xx, yy, yyyy, zz, s, m, t FieldElement

	q.sqr(&xx, &a.x)
	q.sqr(&yy, &a.y)
	q.sqr(&yyyy, &yy)
	q.sqr(&zz, &a.z)

	// S = 2*((X+YY)^2 - XX - YYYY)
	q.add(&s, &a.x, &yy)
	q.sqr(&s, &s)
	q.sub(&s, &s, &xx)
	q.sub(&s, &s, &yyyy)
	q.double(&s, &s)

	// M = 3*XX + a*ZZ^2
	q.add(&m, &xx, &xx)
	q.add(&m, &m, &xx)
	q.sqr(&t, &zz)
	q.mul(&t, &t, &ops.aMont)
	q.add(&m, &m, &t)

	// Z3 = (Y+Z)^2 - YY - ZZ, computed before X and Y are clobbered.
	var z3 FieldElement
	q.add(&z3, &a.y, &a.z)
	q.sqr(&z3, &z3)
	q.sub(&z3, &z3, &yy)
	q.sub(&z3, &z3, &zz)

	// X3 = M^2 - 2*S
	var x3 FieldElement
	q.sqr(&x3, &m)
	q.sub(&x3, &x3, &s)
	q.sub(&x3, &x3, &s)

	// Y3 = M*(S - X3) - 8*YYYY
	var y3 FieldElement
	q.sub(&y3, &s, &x3)
	q.mul(&y3, &y3, &m)
	q.double(&yyyy, &yyyy)
	q.double(&yyyy, &yyyy)
	q.double(&yyyy, &yyyy)
	q.sub(&y3, &y3, &yyyy)

	r.x = x3
	r.y = y3
	r.z = z3
}

// pointAddVartime adds the Jacobian triple (x2, y2, z2) to a, storing the
// sum into r. r may alias a; the triple must not alias r. Variable time:
// a zero-Z operand passes the other operand through, equal inputs degrade
// to a doubling, and opposite inputs produce the all-zero triple.
func (ops *CurveOps) pointAddVartime(r, a *jacobianPoint, x2, y2, z2 *FieldElement) {
	q := ops.q
	nl := q.numLimbs

	if a.z.isZero(nl) {
		r.x = *x2
		r.y = *y2
		r.z = *z2
		return
	}
	if z2.isZero(nl) {
		*r = *a
		return
	}

	var z1z1, z2z2, u1, u2, s1, s2, h, rr FieldElement
	q.sqr(&z1z1, &a.z)
	q.sqr(&z2z2, z2)
	q.mul(&u1, &a.x, &z2z2)
	q.mul(&u2, x2, &z1z1)
	q.mul(&s1, &a.y, z2)
	q.mul(&s1, &s1, &z2z2)
	q.mul(&s2, y2, &a.z)
	q.mul(&s2, &s2, &z1z1)

	q.sub(&h, &u2, &u1)
	q.sub(&rr, &s2, &s1)
	q.double(&rr, &rr)

	if h.isZero(nl) {
		if rr.isZero(nl) {
			// Same point: the chord formulas degenerate, double instead.
			dbl := jacobianPoint{x: *x2, y: *y2, z: *z2}
			ops.pointDouble(r, &dbl)
			return
		}
		// Opposite points sum to the identity.
		*r = jacobianPoint{}
		return
	}

	// I = (2H)^2, J = H*I, V = U1*I
	var i, j, v FieldElement
	q.double(&i, &h)
	q.sqr(&i, &i)
	q.mul(&j, &h, &i)
	q.mul(&v, &u1, &i)

	// X3 = r^2 - J - 2V
	var x3 FieldElement
	q.sqr(&x3, &rr)
	q.sub(&x3, &x3, &j)
	q.sub(&x3, &x3, &v)
	q.sub(&x3, &x3, &v)

	// Y3 = r*(V - X3) - 2*S1*J
	var y3 FieldElement
	q.sub(&y3, &v, &x3)
	q.mul(&y3, &y3, &rr)
	q.mul(&s1, &s1, &j)
	q.double(&s1, &s1)
	q.sub(&y3, &y3, &s1)

	// Z3 = ((Z1+Z2)^2 - Z1Z1 - Z2Z2)*H
	var z3 FieldElement
	q.add(&z3, &a.z, z2)
	q.sqr(&z3, &z3)
	q.sub(&z3, &z3, &z1z1)
	q.sub(&z3, &z3, &z2z2)
	q.mul(&z3, &z3, &h)

	r.x = x3
	r.y = y3
	r.z = z3
}

// finishPoint normalizes a Montgomery-domain Jacobian triple into the
// public affine Point. A zero Z, the all-zero triple included, normalizes
// to the point at infinity rather than being read as affine coordinates.
func (ops *CurveOps) finishPoint(p *jacobianPoint) Point {
	q := ops.q
	if p.z.isZero(q.numLimbs) {
		return Point{infinity: true}
	}
	var zi, zi2, x, y FieldElement
	q.invVar(&zi, &p.z)
	q.sqr(&zi2, &zi)
	q.mul(&x, &p.x, &zi2)
	q.mul(&zi2, &zi2, &zi)
	q.mul(&y, &p.y, &zi2)
	var out Point
	q.fromMont(&out.x, &x)
	q.fromMont(&out.y, &y)
	return out
}
