package ecmult

import (
	"crypto/sha512"
	"errors"

	sha256simd "github.com/minio/sha256-simd"
)

var (
	// ErrInvalidPubkey is returned for a public key that is the point at
	// infinity or does not lie on the curve.
	ErrInvalidPubkey = errors.New("ecmult: invalid public key")

	// ErrInvalidSignature is returned when a signature fails to parse or
	// to verify. The two cases are deliberately indistinguishable.
	ErrInvalidSignature = errors.New("ecmult: invalid signature")
)

// digestToScalar converts a message digest into a scalar per FIPS 186-4:
// the leftmost orderBits bits of the digest, reduced modulo the order.
func (ops *CurveOps) digestToScalar(digest []byte) Scalar {
	n := ops.n
	byteLen := (ops.OrderBits() + 7) / 8
	if len(digest) > byteLen {
		digest = digest[:byteLen]
	}
	var buf [maxLimbs * 8]byte
	width := n.numLimbs * 8
	copy(buf[width-len(digest):width], digest)

	var e Scalar
	for i := 0; i < n.numLimbs; i++ {
		e.d[i] = readBE64(buf[width-8*(i+1) : width])
	}
	if excess := len(digest)*8 - n.bits; excess > 0 {
		for i := 0; i < n.numLimbs; i++ {
			e.d[i] >>= uint(excess)
			if i+1 < n.numLimbs {
				e.d[i] |= e.d[i+1] << (64 - uint(excess))
			}
		}
	}

	// The truncated digest is below 2^orderBits < 2n, so a single
	// conditional subtraction reduces it.
	fe := FieldElement{n: e.d}
	if !n.lessThanM(&fe) {
		n.sub(&fe, &fe, &FieldElement{n: n.limbs})
		e.d = fe.n
	}
	return e
}

// VerifyHashed checks an ECDSA signature (r, s) over a prehashed digest.
// r and s are big-endian and must be exactly Size() bytes each. It returns
// nil for a valid signature and ErrInvalidSignature otherwise.
func (ops *CurveOps) VerifyHashed(pub *Point, digest, r, s []byte) error {
	if pub.infinity {
		return ErrInvalidPubkey
	}
	px, py := ops.affineMont(pub)
	if !ops.isOnCurve(&px, &py) {
		return ErrInvalidPubkey
	}

	var sigR, sigS Scalar
	if err := sigR.setBytes(r, ops.n); err != nil || sigR.isZero(ops.n.numLimbs) {
		return ErrInvalidSignature
	}
	if err := sigS.setBytes(s, ops.n); err != nil || sigS.isZero(ops.n.numLimbs) {
		return ErrInvalidSignature
	}

	// u1 = e/s, u2 = r/s; accept iff x(u1*G + u2*Q) = r (mod n).
	e := ops.digestToScalar(digest)
	var w, u1, u2 Scalar
	scalarInvVar(ops.n, &w, &sigS)
	scalarMulMod(ops.n, &u1, &e, &w)
	scalarMulMod(ops.n, &u2, &sigR, &w)

	res := pointsMulVartime(ops, &u1, &u2, &px, &py)
	if res.infinity {
		return ErrInvalidSignature
	}

	// res.x is a plain residue below q < 2n for every supported curve,
	// so one conditional subtraction computes x mod n.
	x := res.x
	if !ops.n.lessThanM(&x) {
		ops.n.sub(&x, &x, &FieldElement{n: ops.n.limbs})
	}
	if !x.equal(&FieldElement{n: sigR.d}, ops.n.numLimbs) {
		return ErrInvalidSignature
	}
	return nil
}

// Verify checks an ECDSA signature over a raw message, hashing it with
// SHA-256 for the 256-bit curves and SHA-384 for P-384.
func (ops *CurveOps) Verify(pub *Point, msg, r, s []byte) error {
	var digest []byte
	if ops.OrderBits() <= 256 {
		sum := sha256simd.Sum256(msg)
		digest = sum[:]
	} else {
		sum := sha512.Sum384(msg)
		digest = sum[:]
	}
	return ops.VerifyHashed(pub, digest, r, s)
}
