package dnload

import "fmt"

type (
	// Resolver turns a 32-bit name hash into a runtime address.
	//
	// Resolve never reports failure: a hash no loaded library exports
	// walks off the end of the descriptor chain and faults (a crash on
	// RawMemory, a Fault panic under Arena). First match in chain
	// order then symbol-table order wins; duplicate hashes across
	// different names are not detected.
	Resolver interface {
		Resolve(hash uint32) uintptr
	}
	linkResolver struct {
		mem Memory
		lay Layout
	}
)

// New create a Resolver over the given process image view.
func New(mem Memory, lay Layout) Resolver {
	return &linkResolver{mem: mem, lay: lay}
}

func (r *linkResolver) Resolve(hash uint32) uintptr {
	mem, lay := r.mem, r.lay
	lmap := linkMapHead(mem, lay)
	for i := 0; i < lay.LeadingSkip; i++ {
		lmap = mem.Word(lmap + lay.MapNext)
	}
	for {
		// Chain head is this process itself, safe to advance first.
		lmap = mem.Word(lmap + lay.MapNext)
		base := mem.Word(lmap + lay.MapAddr)
		strtab := librarySection(mem, lay, lmap, dtStrtab)
		symtab := librarySection(mem, lay, lmap, dtSymtab)
		hashtab := librarySection(mem, lay, lmap, dtHash)
		var count uint32
		if hashtab == 0 && lay.GnuHashFallback {
			hashtab = librarySection(mem, lay, lmap, dtGnuHash)
			count = gnuSymbolCount(mem, lay, hashtab)
		} else {
			// Second word of the plain hash table is the chain count,
			// which equals the symbol count.
			count = mem.Uint32(hashtab + 4)
		}
		for i := uint32(0); i < count; i++ {
			sym := symtab + uintptr(i)*lay.SymSize
			name := strtab + uintptr(mem.Uint32(sym+lay.SymName))
			if hashAt(mem, name) == hash {
				return transform(base, mem.Word(sym+lay.SymValue))
			}
		}
	}
}

// ResolveChecked resolves hash and converts a Fault into
// ErrUnresolved. Hardening for host builds and tooling; the production
// contract remains Resolve.
func ResolveChecked(r Resolver, hash uint32) (addr uintptr, err error) {
	defer func() {
		switch v := recover().(type) {
		case nil:
		case Fault:
			err = fmt.Errorf("%w: hash 0x%08x (%v)", ErrUnresolved, hash, v)
		default:
			panic(v)
		}
	}()
	addr = r.Resolve(hash)
	return
}
