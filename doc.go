/*
Package dnload resolves dynamic symbols by name hash, the way
size-constrained demo executables do it: instead of letting the linker
build import tables, the process walks its own loaded-library metadata
at startup and wires the few functions it needs into a local table,
each identified only by a 32-bit hash of its name.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. The dynamic linker keeps a chain of link-map descriptors for every
    mapped library. The chain head is found through the process's own
    ELF header, which sits at a fixed address when the executable is
    linked at a fixed base.
 2. Each descriptor points at that library's dynamic section, which in
    turn locates its symbol table, string table and hash table. Symbols
    are matched by recomputing the same 32-bit hash over each exported
    name.
 3. The production walk performs raw memory reads with no bounds checks
    and no missing-symbol detection. A request for a hash no library
    exports runs off the end of the chain and faults. This is the
    size/robustness trade-off the technique exists for; it is a
    documented property, not a bug.

# Notes

 1. Hash lists are a build-time contract. Validate them against the
    real target libraries with `gen verify` before shipping; the
    runtime will not.
 2. Supported targets are Linux and FreeBSD on amd64 and 386, with the
    executable linked at the conventional fixed base per bitness.
 3. Hardened variants (Arena, ResolveChecked) exist for host-side tests
    and tooling only. They are not part of the production contract.

# Gen tool

The gen tool is the build-time companion: it prints name hashes, lists
a library's exports with their hashes, verifies a hash list against
real libraries, and emits the Go source for a resolution table.
It can be installed by:

	go install github.com/faemiyah/dnload/gen@latest

For more details see the cli help:

	gen -h

# Samples

See tests.
*/
package dnload
