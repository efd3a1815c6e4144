package dnload

// Program header and dynamic section tags, per the ELF ABI. Identical
// across the supported targets.
const (
	ptDynamic = 2

	dtHash    = 4
	dtStrtab  = 5
	dtSymtab  = 6
	dtDebug   = 21
	dtGnuHash = 0x6ffffef5
)

// Layout describes the in-memory dynamic-linking ABI of one target:
// where the process image starts, how wide a word is, where the fields
// of the ELF header, program headers, dynamic entries, symbol entries,
// r_debug and link_map live, and the target's traversal quirks.
type Layout struct {
	// Base is the fixed virtual address the executable is linked at,
	// where its ELF header is guaranteed to reside.
	Base     uintptr
	WordSize uintptr

	EhdrPhoff uintptr // e_phoff

	PhdrSize  uintptr
	PhdrType  uintptr // p_type, uint32
	PhdrVaddr uintptr // p_vaddr, word

	DynSize uintptr // one (tag, value) entry

	SymSize  uintptr
	SymName  uintptr // st_name, uint32
	SymValue uintptr // st_value, word

	MapAddr uintptr // link_map.l_addr
	MapDyn  uintptr // link_map.l_ld
	MapNext uintptr // link_map.l_next

	RDebugMap uintptr // r_debug.r_map

	// LeadingSkip is the number of unusable descriptors after the
	// chain head, before the normal advance-then-scan loop starts.
	LeadingSkip int
	// NullTagStops makes the dynamic-entry scan stop at the null tag
	// and report absence; without it the scan is unbounded and an
	// absent tag runs into whatever memory follows.
	NullTagStops bool
	// GnuHashFallback enables the GNU hash table as symbol-count
	// source for libraries that carry no plain hash table.
	GnuHashFallback bool
}

func elf64(base uintptr) Layout {
	return Layout{
		Base:      base,
		WordSize:  8,
		EhdrPhoff: 0x20,
		PhdrSize:  56,
		PhdrType:  0,
		PhdrVaddr: 16,
		DynSize:   16,
		SymSize:   24,
		SymName:   0,
		SymValue:  8,
		MapAddr:   0,
		MapDyn:    16,
		MapNext:   24,
		RDebugMap: 8,
	}
}

func elf32(base uintptr) Layout {
	return Layout{
		Base:      base,
		WordSize:  4,
		EhdrPhoff: 0x1c,
		PhdrSize:  32,
		PhdrType:  0,
		PhdrVaddr: 8,
		DynSize:   8,
		SymSize:   16,
		SymName:   0,
		SymValue:  4,
		MapAddr:   0,
		MapDyn:    8,
		MapNext:   12,
		RDebugMap: 4,
	}
}

// Linux64 layout. The second chain entry is not usable on 64-bit
// Linux, and glibc terminates dynamic sections with a null tag but may
// omit the plain hash table, so the GNU fallback applies.
func Linux64() Layout {
	l := elf64(0x400000)
	l.LeadingSkip = 1
	l.NullTagStops = true
	l.GnuHashFallback = true
	return l
}

// Linux32 layout.
func Linux32() Layout {
	l := elf32(0x2000000)
	l.NullTagStops = true
	l.GnuHashFallback = true
	return l
}

// FreeBSD64 layout. rtld always provides the plain hash table, so the
// dynamic scan stays unbounded and no fallback exists.
func FreeBSD64() Layout {
	return elf64(0x400000)
}

// FreeBSD32 layout.
func FreeBSD32() Layout {
	return elf32(0x2000000)
}
