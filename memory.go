package dnload

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

type (
	// Memory is a read-only view of a process image. Word reads are
	// the image's pointer width, not necessarily the host's.
	Memory interface {
		Byte(addr uintptr) byte
		Uint16(addr uintptr) uint16
		Uint32(addr uintptr) uint32
		Word(addr uintptr) uintptr
	}
	// RawMemory reads the live process image directly. No access is
	// checked; a bad address faults the process. This is the
	// production view.
	RawMemory struct{}
	// Arena is a bounded view over synthetic byte ranges mapped at
	// chosen addresses. Any access outside a mapped range panics with
	// a Fault, which is what makes out-of-contract resolution
	// detectable on a host build.
	Arena struct {
		wordSize int
		ranges   []arenaRange
	}
	arenaRange struct {
		base uintptr
		data []byte
	}
	// Fault reports an Arena access outside every mapped range.
	Fault struct {
		Addr uintptr
	}
)

func (f Fault) Error() string {
	return fmt.Sprintf("fault: access at %#x outside mapped ranges", f.Addr)
}

func (RawMemory) Byte(addr uintptr) byte     { return *(*byte)(unsafe.Pointer(addr)) }
func (RawMemory) Uint16(addr uintptr) uint16 { return *(*uint16)(unsafe.Pointer(addr)) }
func (RawMemory) Uint32(addr uintptr) uint32 { return *(*uint32)(unsafe.Pointer(addr)) }
func (RawMemory) Word(addr uintptr) uintptr  { return *(*uintptr)(unsafe.Pointer(addr)) }

// NewArena create an empty arena whose word reads decode wordSize
// little-endian bytes (4 or 8).
func NewArena(wordSize int) *Arena {
	return &Arena{wordSize: wordSize}
}

// Map place data at base. Ranges must not be read across; an access
// spanning past the end of one range faults even if another range
// follows it.
func (a *Arena) Map(base uintptr, data []byte) {
	a.ranges = append(a.ranges, arenaRange{base: base, data: data})
}

func (a *Arena) slice(addr uintptr, n int) []byte {
	for _, r := range a.ranges {
		if addr >= r.base && addr+uintptr(n) <= r.base+uintptr(len(r.data)) {
			off := addr - r.base
			return r.data[off : off+uintptr(n)]
		}
	}
	panic(Fault{Addr: addr})
}

func (a *Arena) Byte(addr uintptr) byte {
	return a.slice(addr, 1)[0]
}

func (a *Arena) Uint16(addr uintptr) uint16 {
	return binary.LittleEndian.Uint16(a.slice(addr, 2))
}

func (a *Arena) Uint32(addr uintptr) uint32 {
	return binary.LittleEndian.Uint32(a.slice(addr, 4))
}

func (a *Arena) Word(addr uintptr) uintptr {
	if a.wordSize == 4 {
		return uintptr(binary.LittleEndian.Uint32(a.slice(addr, 4)))
	}
	return uintptr(binary.LittleEndian.Uint64(a.slice(addr, 8)))
}
