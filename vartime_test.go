package ecmult

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func pointsEqual(ops *CurveOps, a, b *Point) bool {
	if a.infinity || b.infinity {
		return a.infinity == b.infinity
	}
	return a.x.equal(&b.x, ops.q.numLimbs) && a.y.equal(&b.y, ops.q.numLimbs)
}

// addPoints combines two finished points through the Jacobian group law,
// giving the tests an addition that is independent of the scalar code path
// under test.
func addPoints(t *testing.T, ops *CurveOps, a, b *Point) Point {
	t.Helper()
	if a.infinity {
		return *b
	}
	if b.infinity {
		return *a
	}
	ax, ay := ops.affineMont(a)
	bx, by := ops.affineMont(b)
	acc := jacobianPoint{x: ax, y: ay, z: ops.q.one}
	bj := jacobianPoint{x: bx, y: by, z: ops.q.one}
	ops.pointAddVartime(&acc, &acc, &bj.x, &bj.y, &bj.z)
	return ops.finishPoint(&acc)
}

func TestScalarMultZeroIsInfinity(t *testing.T) {
	for _, ops := range testCurves {
		var zero Scalar
		if got := ops.ScalarBaseMultVartime(&zero); !got.IsInfinity() {
			t.Errorf("%s: 0*G != infinity", ops.Name())
		}
	}
}

func TestScalarMultOne(t *testing.T) {
	for _, ops := range testCurves {
		one := scalarFromBig(t, ops, big.NewInt(1))
		got := ops.ScalarBaseMultVartime(one)
		g := jacobianPoint{x: ops.gx, y: ops.gy, z: ops.q.one}
		want := ops.finishPoint(&g)
		if !pointsEqual(ops, &got, &want) {
			t.Errorf("%s: 1*G != G", ops.Name())
		}
	}
}

func TestScalarMultTwoMatchesDouble(t *testing.T) {
	for _, ops := range testCurves {
		two := scalarFromBig(t, ops, big.NewInt(2))
		got := ops.ScalarBaseMultVartime(two)
		g := jacobianPoint{x: ops.gx, y: ops.gy, z: ops.q.one}
		ops.pointDouble(&g, &g)
		want := ops.finishPoint(&g)
		if !pointsEqual(ops, &got, &want) {
			t.Errorf("%s: 2*G != double(G)", ops.Name())
		}
	}
}

func TestOddMultiplesTable(t *testing.T) {
	for _, ops := range testCurves {
		table := buildOddMultiples(ops, &ops.gx, &ops.gy)
		for i := range table {
			entry := table[i]
			got := ops.finishPoint(&entry)
			k := scalarFromBig(t, ops, big.NewInt(int64(2*i+1)))
			want := ops.ScalarBaseMultVartime(k)
			if !pointsEqual(ops, &got, &want) {
				t.Errorf("%s: table[%d] != %d*G", ops.Name(), i, 2*i+1)
			}
		}
	}
}

func TestScalarMultMatchesNIST(t *testing.T) {
	for _, ops := range testCurves {
		curve := nistCurve(ops)
		if curve == nil {
			continue
		}
		order := bigModulus(ops.n)
		for i := 0; i < 8; i++ {
			k := randBelow(t, order)
			got := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, k))
			wantX, wantY := curve.ScalarBaseMult(k.Bytes())
			gotX, gotY := affineBig(ops, &got)
			if gotX.Cmp(wantX) != 0 || gotY.Cmp(wantY) != 0 {
				t.Fatalf("%s: k*G mismatch for k=%v", ops.Name(), k)
			}

			// An arbitrary base point, not just the generator.
			px, py := randRefPoint(t, curve)
			j := randBelow(t, order)
			p := Point{x: feFromBigPlain(t, ops, px), y: feFromBigPlain(t, ops, py)}
			got = ops.ScalarMultVartime(scalarFromBig(t, ops, j), &p)
			wantX, wantY = curve.ScalarMult(px, py, j.Bytes())
			gotX, gotY = affineBig(ops, &got)
			if gotX.Cmp(wantX) != 0 || gotY.Cmp(wantY) != 0 {
				t.Fatalf("%s: k*P mismatch", ops.Name())
			}
		}
	}
}

// feFromBigPlain stores a plain residue without the Montgomery mapping,
// the form the public Point type carries.
func feFromBigPlain(t *testing.T, ops *CurveOps, v *big.Int) FieldElement {
	t.Helper()
	fe := feFromBig(t, ops.q, v)
	ops.q.fromMont(&fe, &fe)
	return fe
}

func TestScalarMultMatchesDecred(t *testing.T) {
	ops := Secp256k1()
	order := bigModulus(ops.n)
	for i := 0; i < 8; i++ {
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			t.Fatal(err)
		}
		k, err := ops.ScalarFromBytes(priv.Serialize())
		if err != nil {
			t.Fatal(err)
		}
		got := ops.ScalarBaseMultVartime(k)
		if !bytes.Equal(ops.Bytes(&got), priv.PubKey().SerializeUncompressed()) {
			t.Fatal("k*G disagrees with decred secp256k1")
		}

		// k2 * (k1*G) must equal (k1*k2 mod n) * G.
		k1 := new(big.Int).SetBytes(priv.Serialize())
		k2 := randBelow(t, order)
		base, err := ops.ParsePoint(priv.PubKey().SerializeUncompressed())
		if err != nil {
			t.Fatal(err)
		}
		gotProd := ops.ScalarMultVartime(scalarFromBig(t, ops, k2), base)
		k12 := new(big.Int).Mod(new(big.Int).Mul(k1, k2), order)
		refPriv := secp256k1.PrivKeyFromBytes(padBytes(k12, 32))
		if !bytes.Equal(ops.Bytes(&gotProd), refPriv.PubKey().SerializeUncompressed()) {
			t.Fatal("k2*(k1*G) disagrees with decred secp256k1")
		}
	}
}

func padBytes(v *big.Int, size int) []byte {
	b := make([]byte, size)
	v.FillBytes(b)
	return b
}

func TestAdditivity(t *testing.T) {
	for _, ops := range testCurves {
		order := bigModulus(ops.n)
		for i := 0; i < 8; i++ {
			a := randBelow(t, order)
			b := randBelow(t, order)
			sum := new(big.Int).Mod(new(big.Int).Add(a, b), order)

			lhs := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, sum))
			aG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, a))
			bG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, b))
			rhs := addPoints(t, ops, &aG, &bG)
			if !pointsEqual(ops, &lhs, &rhs) {
				t.Fatalf("%s: (a+b)*G != a*G + b*G", ops.Name())
			}
		}
	}
}

func TestAdditivityOppositeScalars(t *testing.T) {
	ops := P256()
	order := bigModulus(ops.n)
	a := randBelow(t, order)
	b := new(big.Int).Sub(order, a)
	aG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, a))
	bG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, b))
	sum := addPoints(t, ops, &aG, &bG)
	if !sum.IsInfinity() {
		t.Fatal("a*G + (n-a)*G != infinity")
	}
}

func TestDualMultiplierDecomposition(t *testing.T) {
	for _, ops := range testCurves {
		order := bigModulus(ops.n)
		for i := 0; i < 8; i++ {
			g := randBelow(t, order)
			p := randBelow(t, order)
			base := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, randBelow(t, order)))

			got := ops.DoubleScalarBaseMultVartime(
				scalarFromBig(t, ops, g), scalarFromBig(t, ops, p), &base)

			gG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, g))
			pP := ops.ScalarMultVartime(scalarFromBig(t, ops, p), &base)
			want := addPoints(t, ops, &gG, &pP)
			if !pointsEqual(ops, &got, &want) {
				t.Fatalf("%s: dual multiplier disagrees with its decomposition", ops.Name())
			}
		}
	}
}

func TestDualMultiplierZeroScalars(t *testing.T) {
	ops := P384()
	order := bigModulus(ops.n)
	k := randBelow(t, order)
	base := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, randBelow(t, order)))
	var zero Scalar

	got := ops.DoubleScalarBaseMultVartime(&zero, scalarFromBig(t, ops, k), &base)
	want := ops.ScalarMultVartime(scalarFromBig(t, ops, k), &base)
	if !pointsEqual(ops, &got, &want) {
		t.Fatal("0*G + k*P != k*P")
	}

	got = ops.DoubleScalarBaseMultVartime(scalarFromBig(t, ops, k), &zero, &base)
	want = ops.ScalarBaseMultVartime(scalarFromBig(t, ops, k))
	if !pointsEqual(ops, &got, &want) {
		t.Fatal("k*G + 0*P != k*G")
	}

	if got := ops.DoubleScalarBaseMultVartime(&zero, &zero, &base); !got.IsInfinity() {
		t.Fatal("0*G + 0*P != infinity")
	}
}

// Small concrete scenario: 5*G by repeated addition, and 3*G + 4*(2G) = 11*G.
func TestSmallScalarScenario(t *testing.T) {
	ops := Secp256k1()
	one := scalarFromBig(t, ops, big.NewInt(1))
	g := ops.ScalarBaseMultVartime(one)

	sum := g
	for i := 0; i < 4; i++ {
		sum = addPoints(t, ops, &sum, &g)
	}
	five := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, big.NewInt(5)))
	if !pointsEqual(ops, &five, &sum) {
		t.Fatal("5*G != G+G+G+G+G")
	}

	twoG := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, big.NewInt(2)))
	got := ops.DoubleScalarBaseMultVartime(
		scalarFromBig(t, ops, big.NewInt(3)),
		scalarFromBig(t, ops, big.NewInt(4)), &twoG)
	want := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, big.NewInt(11)))
	if !pointsEqual(ops, &got, &want) {
		t.Fatal("3*G + 4*(2G) != 11*G")
	}
}

func scalarFromWords(t *testing.T, ops *CurveOps, words []uint64, order *big.Int) *Scalar {
	t.Helper()
	v := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(words[i]))
	}
	v.Mod(v, order)
	return scalarFromBig(t, ops, v)
}

func TestScalarMultProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 20
	properties := gopter.NewProperties(params)

	ops := P256()
	order := bigModulus(ops.n)
	wordGen := gen.SliceOfN(4, gen.UInt64())

	properties.Property("(a+b)*G = a*G + b*G", prop.ForAll(
		func(aw, bw []uint64) bool {
			a := scalarFromWords(t, ops, aw, order)
			b := scalarFromWords(t, ops, bw, order)
			sum := new(big.Int).Add(bigFromScalar(a, ops.n.numLimbs), bigFromScalar(b, ops.n.numLimbs))
			sum.Mod(sum, order)
			lhs := ops.ScalarBaseMultVartime(scalarFromBig(t, ops, sum))
			aG := ops.ScalarBaseMultVartime(a)
			bG := ops.ScalarBaseMultVartime(b)
			rhs := addPoints(t, ops, &aG, &bG)
			return pointsEqual(ops, &lhs, &rhs)
		},
		wordGen, wordGen,
	))

	properties.Property("g*G + p*Q decomposes", prop.ForAll(
		func(gw, pw, qw []uint64) bool {
			g := scalarFromWords(t, ops, gw, order)
			p := scalarFromWords(t, ops, pw, order)
			base := ops.ScalarBaseMultVartime(scalarFromWords(t, ops, qw, order))
			got := ops.DoubleScalarBaseMultVartime(g, p, &base)
			gG := ops.ScalarBaseMultVartime(g)
			pQ := ops.ScalarMultVartime(p, &base)
			want := addPoints(t, ops, &gG, &pQ)
			return pointsEqual(ops, &got, &want)
		},
		wordGen, wordGen, wordGen,
	))

	properties.TestingRun(t)
}
