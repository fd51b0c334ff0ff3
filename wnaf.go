package ecmult

// recodeWNAF writes the windowed non-adjacent form of k into out, which
// must hold orderBits+1 digits. Digit j carries weight 2^j; every nonzero
// digit is odd with absolute value below 2^w, and any
// two nonzero digits are at least w+1 positions apart, so a scan touches
// the precomputed odd-multiples table at most once per window.
//
// The recoding slides a (w+1)-bit window across the scalar: whenever the
// window is odd, the signed residue in (-2^w, 2^w) is emitted and
// subtracted, which clears the low w+1 bits and lets the window advance.
// The subtraction can carry one position past the top bit, hence the
// orderBits+1 length.
func recodeWNAF(out []int8, k *Scalar, orderBits int, w uint) {
	bit := 1 << w
	next := bit << 1
	mask := uint64(next - 1)

	windowVal := int(k.d[0] & mask)
	for j := 0; j < orderBits+1; j++ {
		digit := 0
		if windowVal&1 != 0 {
			if windowVal&bit != 0 {
				digit = windowVal - next
			} else {
				digit = windowVal
			}
			windowVal -= digit
		}
		out[j] = int8(digit)
		windowVal >>= 1
		windowVal += bit * int(k.bit(j+int(w)+1))
	}
}
