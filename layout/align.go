package layout

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// alignUp rounds addr up to a multiple of align, which must be a power of
// two. ok is false if the result does not fit in 64 bits.
func alignUp(addr, align uint64) (v uint64, ok bool) {
	v = (addr + align - 1) &^ (align - 1)
	return v, v >= addr
}

func alignDown(addr, align uint64) uint64 {
	return addr &^ (align - 1)
}
