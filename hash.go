package dnload

// SdbmHash is the 32-bit multiplicative string hash symbols are
// identified by. The constant 65599 and the zero seed must never
// change: every hash baked into a resolution table was produced by
// this exact formula, and a deviation breaks all resolution silently.
func SdbmHash(name string) uint32 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*65599 + uint32(name[i])
	}
	return h
}

// hashAt computes SdbmHash over the NUL-terminated string at addr.
func hashAt(mem Memory, addr uintptr) uint32 {
	var h uint32
	for {
		c := mem.Byte(addr)
		if c == 0 {
			return h
		}
		h = h*65599 + uint32(c)
		addr++
	}
}
