package dnload

type (
	// Request pairs a precomputed name hash with the slot its resolved
	// address is written to.
	Request struct {
		Hash uint32
		Slot *uintptr
	}
	// Table is the resolution request list of one program: fixed at
	// compile time, resolved exactly once at startup, read-only
	// afterwards. The slots normally point into a single struct owned
	// by the embedding program (see the gen tool's table command).
	Table []Request
)

// ResolveAll resolve every request in list order into its slot. This
// is the one entry point a demo calls, synchronously, before anything
// else initializes; every library call afterwards goes through the
// filled slots.
func (t Table) ResolveAll(r Resolver) {
	for _, q := range t {
		*q.Slot = r.Resolve(q.Hash)
	}
}

// ResolveAllChecked is ResolveAll with per-request fault conversion,
// for harnesses that validate a table against a synthetic image. Slots
// before the failing request keep their resolved values.
func (t Table) ResolveAllChecked(r Resolver) error {
	for _, q := range t {
		addr, err := ResolveChecked(r, q.Hash)
		if err != nil {
			return err
		}
		*q.Slot = addr
	}
	return nil
}

// Hashes dump the request hashes in list order.
func (t Table) Hashes() []uint32 {
	v := make([]uint32, len(t))
	for i, q := range t {
		v[i] = q.Hash
	}
	return v
}
