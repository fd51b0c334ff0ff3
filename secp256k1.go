package ecmult

// secp256k1 (SEC 2). a = 0, b = 7.
var secp256k1Params = curveParams{
	name:     "secp256k1",
	numLimbs: 4,
	p:        "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
	a:        "0000000000000000000000000000000000000000000000000000000000000000",
	b:        "0000000000000000000000000000000000000000000000000000000000000007",
	gx:       "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
	gy:       "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
	n:        "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
}
