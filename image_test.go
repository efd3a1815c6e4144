package dnload

import "encoding/binary"

// Synthetic process images for exercising the walker and resolver
// under Arena. One fixture lays out, per the chosen Layout: the
// executable header and program headers at the fixed base, the dynamic
// segment with its debug entry, r_debug, the descriptor chain, and per
// library a string table, symbol table, both hash table formats and a
// dynamic section.

type (
	imageSym struct {
		name  string
		value uintptr
	}
	imageLib struct {
		base    uintptr // l_addr as the dynamic linker records it
		at      uintptr // where the library's metadata region is mapped
		syms    []imageSym
		gnu     bool    // carry DT_GNU_HASH instead of DT_HASH
		offsets bool    // store section values base-relative (requires base == at)
		next    uintptr // l_next override; 0 keeps the natural chain
	}
	fixture struct {
		arena *Arena
		lay   Layout
	}
	slab struct {
		lay Layout
		b   []byte
	}
)

// Region plan per library, generous enough for every fixture in this
// package.
const (
	libStrtab = 0x040 // nonzero so offset-stored values survive the null guard
	libSymtab = 0x100
	libHash   = 0x400
	libDyn    = 0x600
	libMap    = 0x700
	libSize   = 0x800

	procPhdrs = 0x40
	procDyn   = 0x100
	procDebug = 0x180
	procHead  = 0x1c0
	procSkip  = 0x200
	procSize  = 0x280
)

func newSlab(lay Layout, size int) *slab {
	return &slab{lay: lay, b: make([]byte, size)}
}

func (s *slab) u32(off uintptr, v uint32) {
	binary.LittleEndian.PutUint32(s.b[off:], v)
}

func (s *slab) word(off uintptr, v uintptr) {
	if s.lay.WordSize == 4 {
		binary.LittleEndian.PutUint32(s.b[off:], uint32(v))
		return
	}
	binary.LittleEndian.PutUint64(s.b[off:], uint64(v))
}

func (s *slab) str(off uintptr, v string) {
	copy(s.b[off:], v)
}

// dyn writes one (tag, value) entry at index i of a dynamic section
// starting at off.
func (s *slab) dyn(off uintptr, i int, tag, value uintptr) {
	e := off + uintptr(i)*s.lay.DynSize
	s.word(e, tag)
	s.word(e+s.lay.WordSize, value)
}

// linkMap writes a descriptor at off: l_addr, l_name, l_ld, l_next.
func (s *slab) linkMap(off, addr, ld, next uintptr) {
	s.word(off+s.lay.MapAddr, addr)
	s.word(off+s.lay.WordSize, 0) // l_name
	s.word(off+s.lay.MapDyn, ld)
	s.word(off+s.lay.MapNext, next)
}

// buildLib renders one library's metadata region and returns its slab;
// the caller maps it at lib.at.
func buildLib(lay Layout, lib imageLib, next uintptr) *slab {
	s := newSlab(lay, libSize)
	nsyms := 1 + len(lib.syms) // entry 0 is the null symbol

	// String table: offset 0 is the empty name.
	strOff := make([]uint32, len(lib.syms))
	cur := uintptr(1)
	for i, sym := range lib.syms {
		strOff[i] = uint32(cur)
		s.str(libStrtab+cur, sym.name)
		cur += uintptr(len(sym.name)) + 1
	}

	// Symbol table: null entry then the exports, in declaration order.
	for i, sym := range lib.syms {
		e := libSymtab + uintptr(i+1)*lay.SymSize
		s.u32(e+lay.SymName, strOff[i])
		s.word(e+lay.SymValue, sym.value)
	}

	// Hash table. The resolver only derives the symbol count from it:
	// the chain count word for the plain format, the bucket/chain walk
	// for the GNU format.
	if lib.gnu {
		s.u32(libHash+0, 1)            // nbuckets
		s.u32(libHash+4, 0)            // symndx
		s.u32(libHash+8, 1)            // maskwords
		s.u32(libHash+12, 0)           // shift
		bloom := uintptr(libHash + 16) // one mask word, contents unread
		buckets := bloom + lay.WordSize
		s.u32(buckets, 1) // chain walk starts at symbol index 1
		chains := buckets + 4
		for i := 1; i < nsyms; i++ {
			s.u32(chains+4*uintptr(i), 0)
		}
		s.u32(chains+4*uintptr(nsyms), 1) // end marker
	} else {
		s.u32(libHash+0, 1)             // nbucket
		s.u32(libHash+4, uint32(nsyms)) // nchain == symbol count
	}

	// Dynamic section. First entry is skipped by the scan, so it holds
	// an uninteresting tag.
	sec := func(off uintptr) uintptr {
		if lib.offsets {
			return off
		}
		return lib.at + off
	}
	hashTag := uintptr(dtHash)
	if lib.gnu {
		hashTag = dtGnuHash
	}
	s.dyn(libDyn, 0, 1, 0) // DT_NEEDED, irrelevant
	s.dyn(libDyn, 1, dtStrtab, sec(libStrtab))
	s.dyn(libDyn, 2, dtSymtab, sec(libSymtab))
	s.dyn(libDyn, 3, hashTag, sec(libHash))
	s.dyn(libDyn, 4, 0, 0) // DT_NULL

	s.linkMap(libMap, lib.base, lib.at+libDyn, next)
	return s
}

// buildFixture maps a full process image: executable metadata at the
// layout's fixed base and each library's region at its own address.
func buildFixture(lay Layout, libs ...imageLib) *fixture {
	a := NewArena(int(lay.WordSize))

	// Descriptor chain: head (the process itself), the unusable
	// leading entries the layout demands, then the libraries.
	first := uintptr(0)
	if len(libs) > 0 {
		first = libs[0].at + libMap
	}
	p := newSlab(lay, procSize)
	p.word(lay.EhdrPhoff, procPhdrs)
	p.u32(procPhdrs+lay.PhdrType, 1) // PT_LOAD, skipped
	p.u32(procPhdrs+lay.PhdrSize+lay.PhdrType, ptDynamic)
	p.word(procPhdrs+lay.PhdrSize+lay.PhdrVaddr, lay.Base+procDyn)
	p.dyn(procDyn, 0, 1, 0)
	p.dyn(procDyn, 1, dtDebug, lay.Base+procDebug)
	p.dyn(procDyn, 2, 0, 0)
	p.word(procDebug+lay.RDebugMap, lay.Base+procHead)
	headNext := first
	if lay.LeadingSkip > 0 {
		headNext = lay.Base + procSkip
		p.linkMap(procSkip, 0, 0, first)
	}
	p.linkMap(procHead, lay.Base, lay.Base+procDyn, headNext)
	a.Map(lay.Base, p.b)

	for i, lib := range libs {
		next := lib.next
		if next == 0 && i+1 < len(libs) {
			next = libs[i+1].at + libMap
		}
		a.Map(lib.at, buildLib(lay, lib, next).b)
	}
	return &fixture{arena: a, lay: lay}
}

func (f *fixture) resolver() Resolver {
	return New(f.arena, f.lay)
}
