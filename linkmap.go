package dnload

// linkMapHead walks from the fixed-address ELF header to the head of
// the dynamic linker's descriptor chain: header, program headers,
// the dynamic segment, its debug entry, r_debug.r_map.
func linkMapHead(mem Memory, lay Layout) uintptr {
	ehdr := lay.Base
	phdr := ehdr + mem.Word(ehdr+lay.EhdrPhoff)
	for mem.Uint32(phdr+lay.PhdrType) != ptDynamic {
		phdr += lay.PhdrSize
	}
	dyn := mem.Word(phdr + lay.PhdrVaddr)
	debug := dynamicValueByTag(mem, lay, dyn, dtDebug)
	return mem.Word(debug + lay.RDebugMap)
}

// dynamicValueByTag scans a dynamic section for tag and returns its
// raw value. The first entry is never the one sought and gets skipped
// outright. On null-terminating layouts an absent tag yields 0; on the
// others the scan runs on past the section end.
func dynamicValueByTag(mem Memory, lay Layout, dyn uintptr, tag uintptr) uintptr {
	for {
		dyn += lay.DynSize
		t := mem.Word(dyn)
		if lay.NullTagStops && t == 0 {
			return 0
		}
		if t == tag {
			return mem.Word(dyn + lay.WordSize)
		}
	}
}

// transform applies the base-address policy: a non-zero value below
// the library's load base is an offset and gets relocated, anything at
// or above base is already absolute.
func transform(base, ptr uintptr) uintptr {
	if ptr != 0 && ptr < base {
		return ptr + base
	}
	return ptr
}

// librarySection resolves one dynamic-section value of the library
// described by lmap, base-corrected.
func librarySection(mem Memory, lay Layout, lmap uintptr, tag uintptr) uintptr {
	base := mem.Word(lmap + lay.MapAddr)
	return transform(base, dynamicValueByTag(mem, lay, mem.Word(lmap+lay.MapDyn), tag))
}

// gnuSymbolCount derives the dynamic symbol count from a GNU hash
// table, which does not store it directly: every non-empty bucket's
// chain is walked to its end marker. The arithmetic follows the
// FreeBSD rtld-elf counter.
func gnuSymbolCount(mem Memory, lay Layout, table uintptr) uint32 {
	nbuckets := mem.Uint32(table)
	symndx := mem.Uint32(table + 4)
	maskwords := mem.Uint32(table + 8)
	buckets := table + 16 + lay.WordSize*uintptr(maskwords)
	chainZero := buckets + 4*uintptr(nbuckets) + 4*uintptr(symndx)
	var count uint32
	for i := uint32(0); i < nbuckets; i++ {
		bkt := mem.Uint32(buckets + 4*uintptr(i))
		if bkt == 0 {
			continue
		}
		hashval := chainZero + 4*uintptr(bkt)
		for {
			count++
			h := mem.Uint32(hashval)
			hashval += 4
			if h&1 != 0 {
				break
			}
		}
	}
	return count
}
