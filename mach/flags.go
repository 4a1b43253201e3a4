package mach

import "math/bits"

// Flag computation is centralized here, one function per opcode class, so
// that x86-quirk rules (i64::MIN in subtraction, shift-by-1 overflow)
// have exactly one place they can be gotten wrong.

func signResultFlags(r int64) (sf, zf bool) {
	return r < 0, r == 0
}

// addFlags computes flags for Addq/Incq: dest += src, r = dest + src.
func addFlags(a, b, r int64) Flags {
	sf, zf := signResultFlags(r)
	of := sameSign(a, b) && !sameSign(a, r)
	return Flags{OF: of, SF: sf, ZF: zf}
}

// subFlags computes flags for Subq/Decq/Cmpq: r = dest - src.
func subFlags(dest, src, r int64) Flags {
	sf, zf := signResultFlags(r)
	of := (!sameSign(dest, src) && !sameSign(r, dest)) || src == minInt64
	return Flags{OF: of, SF: sf, ZF: zf}
}

// imulFlags computes flags for Imulq: dest *= src. SF/ZF are unaffected,
// per the table; only OF changes, based on whether the full-width signed
// product fits in 64 bits.
func imulFlags(old Flags, a, b int64) Flags {
	return Flags{OF: signedMulOverflows(a, b), SF: old.SF, ZF: old.ZF}
}

// logicFlags computes flags for Andq/Orq/Xorq: OF is always cleared, SF
// and ZF come from the result.
func logicFlags(r int64) Flags {
	sf, zf := signResultFlags(r)
	return Flags{OF: false, SF: sf, ZF: zf}
}

// notFlags computes flags for Notq: same rule as logicFlags.
func notFlags(r int64) Flags {
	return logicFlags(r)
}

// negFlags computes flags for Negq: dest = -dest. OF is set iff the
// original dest was i64::MIN (the one value whose negation overflows).
func negFlags(origDest, r int64) Flags {
	sf, zf := signResultFlags(r)
	return Flags{OF: origDest == minInt64, SF: sf, ZF: zf}
}

// shlFlags computes flags for Shlq. Flags are left untouched entirely
// when amt == 0. When amt == 1, OF is set iff the top two bits of the
// original dest differ; for amt > 1, OF is left unaffected (carried over
// from old).
func shlFlags(old Flags, origDest int64, amt uint64, r int64) Flags {
	if amt == 0 {
		return old
	}
	sf, zf := signResultFlags(r)
	of := old.OF
	if amt == 1 {
		top1 := (origDest >> 63) & 1
		top2 := (origDest >> 62) & 1
		of = top1 != top2
	}
	return Flags{OF: of, SF: sf, ZF: zf}
}

// shrFlags computes flags for Shrq (logical right shift). When amt == 1,
// OF is set to the MSB of the original dest; otherwise unaffected.
func shrFlags(old Flags, origDest int64, amt uint64, r int64) Flags {
	if amt == 0 {
		return old
	}
	sf, zf := signResultFlags(r)
	of := old.OF
	if amt == 1 {
		of = origDest < 0
	}
	return Flags{OF: of, SF: sf, ZF: zf}
}

// sarFlags computes flags for Sarq (arithmetic right shift). When amt ==
// 1, OF is always cleared; otherwise unaffected.
func sarFlags(old Flags, amt uint64, r int64) Flags {
	if amt == 0 {
		return old
	}
	sf, zf := signResultFlags(r)
	of := old.OF
	if amt == 1 {
		of = false
	}
	return Flags{OF: of, SF: sf, ZF: zf}
}

const minInt64 = -1 << 63

func sameSign(a, b int64) bool {
	return (a < 0) == (b < 0)
}

// signedMulOverflows reports whether the true mathematical product of a
// and b, computed at full width, does not fit in a signed 64-bit value.
// It derives the signed high word of the 128-bit product from the
// unsigned product via bits.Mul64 plus a sign correction, then checks
// that the high word is the sign-extension of the low word.
func signedMulOverflows(a, b int64) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	signedHi := int64(hi)
	if a < 0 {
		signedHi -= b
	}
	if b < 0 {
		signedHi -= a
	}
	if signedHi == 0 && int64(lo) >= 0 {
		return false
	}
	if signedHi == -1 && int64(lo) < 0 {
		return false
	}
	return true
}
