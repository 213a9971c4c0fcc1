package seed

import "github.com/zeebo/wyhash"

// byteMix is a per-byte wyhash-style mix table: each byte's
// contribution to the rolling hash is a fixed wyhash digest of that
// single byte, computed once at package init.
var byteMix = func() [256]uint64 {
	var t [256]uint64
	for i := 0; i < 256; i++ {
		t[i] = wyhash.Hash([]byte{byte(i)}, 0)
	}
	return t
}()

func rotl(x uint64, n uint) uint64 {
	n &= 63
	if n == 0 {
		return x
	}
	return (x << n) | (x >> (64 - n))
}

// windowHash computes the rolling hash of the first len(window) bytes
// from scratch.
func windowHash(window []byte) uint64 {
	var h uint64
	for _, b := range window {
		h = rotl(h, 1) ^ byteMix[b]
	}
	return h
}

// rollHash advances a window hash by one position: outByte leaves the
// k-wide window, inByte enters it. This is spec §4.3's
// "rotl(1) ^ in ^ rotl(k) old" recurrence: XOR is its own inverse, and
// rotating the whole accumulated hash left by one each step means the
// byte that entered k steps ago now needs an extra rotl(.., k) to
// cancel out.
func rollHash(h uint64, outByte, inByte byte, k int) uint64 {
	return rotl(h, 1) ^ byteMix[inByte] ^ rotl(byteMix[outByte], uint(k))
}
