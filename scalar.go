package ecmult

import "errors"

// Scalar represents an integer reduced modulo a curve's group order, stored
// as plain (non-Montgomery) limbs, least-significant first. Unlike field
// elements, scalars are only ever read bit-by-bit by the recoder or pushed
// through the order's Montgomery domain by the verification layer.
type Scalar struct {
	d [maxLimbs]uint64
}

// setBytes parses a big-endian byte string of exactly the order's width and
// rejects values >= the order.
func (r *Scalar) setBytes(b []byte, order *modulus) error {
	if len(b) != order.numLimbs*8 {
		return errors.New("scalar has wrong byte length")
	}
	var v Scalar
	for i := 0; i < order.numLimbs; i++ {
		v.d[i] = readBE64(b[len(b)-8*(i+1):])
	}
	fe := FieldElement{n: v.d}
	if !order.lessThanM(&fe) {
		return errors.New("scalar out of range")
	}
	*r = v
	return nil
}

func (r *Scalar) getBytes(b []byte, numLimbs int) {
	for i := 0; i < numLimbs; i++ {
		writeBE64(b[len(b)-8*(i+1):], r.d[i])
	}
}

func (r *Scalar) setUint64(v uint64) {
	*r = Scalar{}
	r.d[0] = v
}

func (r *Scalar) isZero(numLimbs int) bool {
	for i := 0; i < numLimbs; i++ {
		if r.d[i] != 0 {
			return false
		}
	}
	return true
}

// bit returns bit i of the scalar, with bits past the limb array reading
// as zero so the recoder's lookahead never indexes out of range.
func (r *Scalar) bit(i int) uint64 {
	if i < 0 || i >= maxBits {
		return 0
	}
	return r.d[i/64] >> (uint(i) % 64) & 1
}

// Order-domain arithmetic for the verification layer. These ride on the
// same Montgomery machinery as the field: operands are mapped in, combined,
// and mapped back out, so the Scalar representation stays plain.

func scalarMulMod(order *modulus, r, a, b *Scalar) {
	af := FieldElement{n: a.d}
	bf := FieldElement{n: b.d}
	order.toMont(&af, &af)
	order.toMont(&bf, &bf)
	order.mul(&af, &af, &bf)
	order.fromMont(&af, &af)
	r.d = af.n
}

func scalarAddMod(order *modulus, r, a, b *Scalar) {
	// Plain residues add the same way Montgomery ones do.
	af := FieldElement{n: a.d}
	bf := FieldElement{n: b.d}
	order.add(&af, &af, &bf)
	r.d = af.n
}

// scalarInvVar computes r = a^-1 mod order in variable time. The order is
// prime, so Fermat applies; a must be nonzero.
func scalarInvVar(order *modulus, r, a *Scalar) {
	af := FieldElement{n: a.d}
	order.toMont(&af, &af)
	order.invVar(&af, &af)
	order.fromMont(&af, &af)
	r.d = af.n
}
