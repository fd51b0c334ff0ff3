package ecmult

// NIST P-256 (FIPS 186-4, also secp256r1). a = p - 3.
var p256Params = curveParams{
	name:     "P-256",
	numLimbs: 4,
	p:        "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
	a:        "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
	b:        "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
	gx:       "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
	gy:       "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	n:        "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
}
