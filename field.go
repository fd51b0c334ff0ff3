package ecmult

import (
	"errors"
	"math/bits"
)

// Limb capacity is sized for the largest supported modulus (384 bits).
const (
	maxLimbs = 6
	maxBits  = maxLimbs * 64
)

// FieldElement represents an unsigned fixed-width integer held in the
// Montgomery domain of some modulus: the stored limbs are value*R mod m,
// R = 2^(64*numLimbs). Elements are plain values, copied by assignment;
// all interpretation of the limbs goes through a *modulus.
type FieldElement struct {
	// n is the limb array, least-significant limb first. Limbs beyond the
	// owning modulus's limb count are always zero.
	n [maxLimbs]uint64
}

func (r *FieldElement) isZero(numLimbs int) bool {
	for i := 0; i < numLimbs; i++ {
		if r.n[i] != 0 {
			return false
		}
	}
	return true
}

func (r *FieldElement) equal(a *FieldElement, numLimbs int) bool {
	for i := 0; i < numLimbs; i++ {
		if r.n[i] != a.n[i] {
			return false
		}
	}
	return true
}

// modulus holds an odd modulus together with the constants needed for
// Montgomery arithmetic on its residues. One instance exists per curve for
// the field prime and another for the group order; both are immutable after
// construction and safe for concurrent use.
type modulus struct {
	limbs    [maxLimbs]uint64 // the modulus m, little-endian
	rr       [maxLimbs]uint64 // R^2 mod m
	one      FieldElement     // 1 in the Montgomery domain (R mod m)
	n0       uint64           // -m^-1 mod 2^64
	numLimbs int
	bits     int
}

// newModulus builds a modulus from big-endian bytes. The limb count is
// fixed by the caller (the curve context), not inferred, so short moduli
// still occupy the full limb width of their curve.
func newModulus(b []byte, numLimbs int) (*modulus, error) {
	if len(b) != numLimbs*8 {
		return nil, errors.New("modulus byte length does not match limb count")
	}
	m := &modulus{numLimbs: numLimbs}
	for i := 0; i < numLimbs; i++ {
		m.limbs[i] = readBE64(b[len(b)-8*(i+1):])
	}
	if m.limbs[0]&1 == 0 {
		return nil, errors.New("modulus must be odd")
	}
	m.bits = limbsBitLen(&m.limbs, numLimbs)
	m.n0 = negInv64(m.limbs[0])
	m.computeRR()
	var plainOne FieldElement
	plainOne.n[0] = 1
	var rrElem FieldElement
	copy(rrElem.n[:], m.rr[:])
	m.mul(&m.one, &plainOne, &rrElem)
	return m, nil
}

// negInv64 computes -m0^-1 mod 2^64 for odd m0 by Newton iteration.
// The seed is correct modulo 8 and each step doubles the precision.
func negInv64(m0 uint64) uint64 {
	inv := m0
	for i := 0; i < 5; i++ {
		inv *= 2 - m0*inv
	}
	return -inv
}

// computeRR derives R^2 mod m by doubling 1 modulo m 2*64*numLimbs times.
// Slow, but it runs once per curve at startup and cannot disagree with the
// modulus the way a transcribed constant could.
func (m *modulus) computeRR() {
	var r [maxLimbs]uint64
	r[0] = 1
	for i := 0; i < 2*64*m.numLimbs; i++ {
		var carry uint64
		for j := 0; j < m.numLimbs; j++ {
			r[j], carry = bits.Add64(r[j], r[j], carry)
		}
		var d [maxLimbs]uint64
		var borrow uint64
		for j := 0; j < m.numLimbs; j++ {
			d[j], borrow = bits.Sub64(r[j], m.limbs[j], borrow)
		}
		if carry != 0 || borrow == 0 {
			r = d
		}
	}
	m.rr = r
}

// mul computes r = a*b/R mod m (Montgomery product) using word-serial CIOS.
// Safe to call with r aliasing a or b.
func (m *modulus) mul(r, a, b *FieldElement) {
	n := m.numLimbs
	var t [maxLimbs + 2]uint64
	for i := 0; i < n; i++ {
		bi := b.n[i]
		var c uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a.n[j], bi)
			var cc uint64
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j], cc = bits.Add64(t[j], lo, 0)
			c = hi + cc
		}
		var cc uint64
		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		red := t[0] * m.n0
		hi, lo := bits.Mul64(red, m.limbs[0])
		_, cc = bits.Add64(t[0], lo, 0)
		c = hi + cc
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(red, m.limbs[j])
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1], cc = bits.Add64(t[j], lo, 0)
			c = hi + cc
		}
		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
		t[n+1] = 0
	}

	var d [maxLimbs]uint64
	var borrow uint64
	for j := 0; j < n; j++ {
		d[j], borrow = bits.Sub64(t[j], m.limbs[j], borrow)
	}
	if t[n] != 0 || borrow == 0 {
		copy(r.n[:n], d[:n])
	} else {
		copy(r.n[:n], t[:n])
	}
	for j := n; j < maxLimbs; j++ {
		r.n[j] = 0
	}
}

func (m *modulus) sqr(r, a *FieldElement) {
	m.mul(r, a, a)
}

// add computes r = a + b mod m. Inputs must be reduced.
func (m *modulus) add(r, a, b *FieldElement) {
	n := m.numLimbs
	var s [maxLimbs]uint64
	var carry uint64
	for j := 0; j < n; j++ {
		s[j], carry = bits.Add64(a.n[j], b.n[j], carry)
	}
	var d [maxLimbs]uint64
	var borrow uint64
	for j := 0; j < n; j++ {
		d[j], borrow = bits.Sub64(s[j], m.limbs[j], borrow)
	}
	if carry != 0 || borrow == 0 {
		copy(r.n[:n], d[:n])
	} else {
		copy(r.n[:n], s[:n])
	}
}

// sub computes r = a - b mod m. Inputs must be reduced.
func (m *modulus) sub(r, a, b *FieldElement) {
	n := m.numLimbs
	var d [maxLimbs]uint64
	var borrow uint64
	for j := 0; j < n; j++ {
		d[j], borrow = bits.Sub64(a.n[j], b.n[j], borrow)
	}
	if borrow != 0 {
		var carry uint64
		for j := 0; j < n; j++ {
			d[j], carry = bits.Add64(d[j], m.limbs[j], carry)
		}
	}
	copy(r.n[:n], d[:n])
}

func (m *modulus) double(r, a *FieldElement) {
	m.add(r, a, a)
}

// negVar computes r = -a mod m in variable time.
func (m *modulus) negVar(r, a *FieldElement) {
	if a.isZero(m.numLimbs) {
		*r = FieldElement{}
		return
	}
	var borrow uint64
	for j := 0; j < m.numLimbs; j++ {
		r.n[j], borrow = bits.Sub64(m.limbs[j], a.n[j], borrow)
	}
	for j := m.numLimbs; j < maxLimbs; j++ {
		r.n[j] = 0
	}
}

// toMont maps a plain residue into the Montgomery domain.
func (m *modulus) toMont(r, a *FieldElement) {
	var rrElem FieldElement
	copy(rrElem.n[:], m.rr[:])
	m.mul(r, a, &rrElem)
}

// fromMont maps a Montgomery-domain element back to its plain residue.
func (m *modulus) fromMont(r, a *FieldElement) {
	var plainOne FieldElement
	plainOne.n[0] = 1
	m.mul(r, a, &plainOne)
}

// powVar computes r = base^exp mod m by square-and-multiply, scanning the
// exponent most-significant bit first. Variable time in the exponent.
func (m *modulus) powVar(r, base *FieldElement, exp *[maxLimbs]uint64) {
	top := limbsBitLen(exp, m.numLimbs)
	if top == 0 {
		*r = m.one
		return
	}
	acc := *base
	for i := top - 2; i >= 0; i-- {
		m.sqr(&acc, &acc)
		if exp[i/64]>>(uint(i)%64)&1 != 0 {
			m.mul(&acc, &acc, base)
		}
	}
	*r = acc
}

// invVar computes r = a^-1 mod m via Fermat's little theorem (m prime).
func (m *modulus) invVar(r, a *FieldElement) {
	var exp [maxLimbs]uint64
	copy(exp[:], m.limbs[:])
	var borrow uint64
	exp[0], borrow = bits.Sub64(exp[0], 2, 0)
	for j := 1; j < m.numLimbs && borrow != 0; j++ {
		exp[j], borrow = bits.Sub64(exp[j], 0, borrow)
	}
	m.powVar(r, a, &exp)
}

// setBytes parses a big-endian byte string of exactly the modulus width,
// rejects values >= m, and returns the element in the Montgomery domain.
func (m *modulus) setBytes(r *FieldElement, b []byte) error {
	if len(b) != m.numLimbs*8 {
		return errors.New("field element has wrong byte length")
	}
	var plain FieldElement
	for i := 0; i < m.numLimbs; i++ {
		plain.n[i] = readBE64(b[len(b)-8*(i+1):])
	}
	if !m.lessThanM(&plain) {
		return errors.New("field element out of range")
	}
	m.toMont(r, &plain)
	return nil
}

// getBytes writes the plain (non-Montgomery) residue big-endian into b,
// which must be exactly the modulus width.
func (m *modulus) getBytes(b []byte, a *FieldElement) {
	var plain FieldElement
	m.fromMont(&plain, a)
	for i := 0; i < m.numLimbs; i++ {
		writeBE64(b[len(b)-8*(i+1):], plain.n[i])
	}
}

func (m *modulus) lessThanM(a *FieldElement) bool {
	var borrow uint64
	for j := 0; j < m.numLimbs; j++ {
		_, borrow = bits.Sub64(a.n[j], m.limbs[j], borrow)
	}
	return borrow != 0
}

func limbsBitLen(a *[maxLimbs]uint64, numLimbs int) int {
	for i := numLimbs - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i*64 + bits.Len64(a[i])
		}
	}
	return 0
}

func readBE64(p []byte) uint64 {
	return uint64(p[0])<<56 | uint64(p[1])<<48 | uint64(p[2])<<40 |
		uint64(p[3])<<32 | uint64(p[4])<<24 | uint64(p[5])<<16 |
		uint64(p[6])<<8 | uint64(p[7])
}

func writeBE64(p []byte, x uint64) {
	p[0] = byte(x >> 56)
	p[1] = byte(x >> 48)
	p[2] = byte(x >> 40)
	p[3] = byte(x >> 32)
	p[4] = byte(x >> 24)
	p[5] = byte(x >> 16)
	p[6] = byte(x >> 8)
	p[7] = byte(x)
}
