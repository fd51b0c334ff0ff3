package ecmult

// Variable-time scalar multiplication. Nothing here is safe for secret
// scalars: table lookups, the digit scan, and the group-law shortcuts all
// branch on the operands. Callers guarantee both scalars are public, which
// holds for the verification paths this package serves.

const (
	windowBits = 4
	// precomp holds the odd multiples P, 3P, ..., (2*precompSize-1)P.
	precompSize = 1 << (windowBits - 1)
)

// pointVartime accumulates the running sum of the wNAF fold. present
// distinguishes the point at infinity from every concrete triple, so the
// group-law formulas never see an identity operand: the first addition
// just installs its argument, and doubling an empty accumulator is a
// no-op. The state moves from empty to concrete exactly once.
type pointVartime struct {
	ops     *CurveOps
	value   jacobianPoint
	present bool
}

func newPointVartime(ops *CurveOps) pointVartime {
	return pointVartime{ops: ops}
}

func (p *pointVartime) doubleAssign() {
	if p.present {
		p.ops.pointDouble(&p.value, &p.value)
	}
}

func (p *pointVartime) addAssign(x, y, z *FieldElement) {
	if p.present {
		p.ops.pointAddVartime(&p.value, &p.value, x, y, z)
	} else {
		p.value = jacobianPoint{x: *x, y: *y, z: *z}
		p.present = true
	}
}

// buildOddMultiples fills a table whose entry i is (2i+1)*P: the point
// itself, then each next entry the finalized previous one plus 2P. Every
// entry is written into fresh storage, never over the entry it reads.
func buildOddMultiples(ops *CurveOps, x, y *FieldElement) [precompSize]jacobianPoint {
	var precomp [precompSize]jacobianPoint
	precomp[0].x = *x
	precomp[0].y = *y
	// Z of entry 0 is 1 carried into the Montgomery domain: the plain
	// integer 1 times the context's R^2 constant. The representation of
	// one depends on the modulus, so it cannot be a fixed literal.
	var plainOne, rrElem FieldElement
	plainOne.n[0] = 1
	copy(rrElem.n[:], ops.q.rr[:])
	ops.q.mul(&precomp[0].z, &plainOne, &rrElem)

	var p2 jacobianPoint
	ops.pointDouble(&p2, &precomp[0])
	for i := 1; i < precompSize; i++ {
		prev := &precomp[i-1]
		ops.pointAddVartime(&precomp[i], &p2, &prev.x, &prev.y, &prev.z)
	}
	return precomp
}

// pointMulVartime computes k*P for the affine Montgomery-domain point
// (x, y), returning a Jacobian triple. A scalar congruent to zero yields
// the all-zero triple. k must already be reduced modulo the group order;
// that is the caller's contract, not checked here.
func pointMulVartime(ops *CurveOps, k *Scalar, x, y *FieldElement) jacobianPoint {
	precomp := buildOddMultiples(ops, x, y)

	var wnaf [maxBits + 1]int8
	digits := wnaf[:ops.n.bits+1]
	recodeWNAF(digits, k, ops.n.bits, windowBits)

	acc := newPointVartime(ops)
	for i := len(digits) - 1; i >= 0; i-- {
		if digit := int(digits[i]); digit != 0 {
			if digit&1 == 0 {
				panic("ecmult: recoded digit is even")
			}
			neg := digit < 0
			if neg {
				digit = -digit
			}
			entry := &precomp[digit>>1]
			entryY := entry.y
			if neg {
				ops.q.negVar(&entryY, &entryY)
			}
			acc.addAssign(&entry.x, &entryY, &entry.z)
		}
		if i != 0 {
			acc.doubleAssign()
		}
	}
	if !acc.present {
		return jacobianPoint{}
	}
	return acc.value
}

// pointsMulVartime computes gScalar*G + pScalar*(px, py) and normalizes the
// result into the public point representation. The two multiplications are
// independent and merged with a single addition; interleaving their digit
// scans over a shared doubling chain would be observably identical, just
// faster, and is left undone for simplicity.
func pointsMulVartime(ops *CurveOps, gScalar, pScalar *Scalar, px, py *FieldElement) Point {
	acc := pointMulVartime(ops, gScalar, &ops.gx, &ops.gy)
	right := pointMulVartime(ops, pScalar, px, py)
	ops.pointAddVartime(&acc, &acc, &right.x, &right.y, &right.z)
	return ops.finishPoint(&acc)
}
