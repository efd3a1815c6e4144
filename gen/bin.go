package main

import (
	"bytes"
	"debug/elf"
	"fmt"
	"log"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/ZenLiuCN/fn"
	. "github.com/faemiyah/dnload"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Usage = "symbol hash toolbox"
	app.Name = "Gen"
	app.Description = "build-time companion of the dnload resolver: hash names, inspect library exports, verify hash lists and emit resolution tables"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
		},
	}
	app.Args = true
	app.Commands = []*cli.Command{
		{
			Name:   "hash",
			Action: hash,
			Usage:  "print the 32-bit hash of each symbol name",
			Args:   true,
		},
		{
			Name:   "exports",
			Action: exports,
			Usage:  "list the exported dynamic symbols of shared objects with their hashes",
			Args:   true,
		},
		{
			Name:   "verify",
			Action: verify,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "library", Aliases: []string{"l"}, Usage: "shared object to check against, repeatable"},
			},
			Usage: "check every named symbol is exported by exactly one given library and its hash collides with nothing",
			Args:  true,
		},
		{
			Name:   "table",
			Action: table,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "package name of the generated file", Value: "main"},
				&cli.StringFlag{Name: "var", Aliases: []string{"v"}, Usage: "name of the generated slot struct variable", Value: "Funcs"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
			},
			Usage: "emit Go source declaring the slot struct and resolution table for the named symbols",
			Args:  true,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func hash(ctx *cli.Context) error {
	names := ctx.Args().Slice()
	if err := checkNames(names); err != nil {
		return err
	}
	for _, n := range names {
		fmt.Printf("%s\t%s\n", hashHex(SdbmHash(n)), n)
	}
	return nil
}

func exports(ctx *cli.Context) (err error) {
	d := ctx.Bool("debug")
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing shared object paths")
	}
	for _, p := range ctx.Args().Slice() {
		var ex map[string]uint64
		if ex, err = libraryExports(p, d); err != nil {
			return
		}
		names := fn.MapKeys(ex)
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("%s\t0x%010x\t%s\n", hashHex(SdbmHash(n)), ex[n], n)
		}
	}
	return
}

func verify(ctx *cli.Context) (err error) {
	d := ctx.Bool("debug")
	libs := ctx.StringSlice("library")
	names := ctx.Args().Slice()
	if len(libs) == 0 {
		return fmt.Errorf("missing -l|--library")
	}
	if err = checkNames(names); err != nil {
		return
	}
	// Exported names per hash, across all given libraries, in the
	// order the runtime would consult them.
	byHash := make(map[uint32][]string)
	for _, p := range libs {
		var ex map[string]uint64
		if ex, err = libraryExports(p, d); err != nil {
			return
		}
		for n := range ex {
			h := SdbmHash(n)
			if !slices.Contains(byHash[h], n) {
				byHash[h] = append(byHash[h], n)
			}
		}
	}
	var bad int
	for _, n := range names {
		h := SdbmHash(n)
		owners := byHash[h]
		switch {
		case len(owners) == 0:
			log.Printf("MISSING 0x%08x %s: no given library exports it", h, n)
			bad++
		case len(owners) > 1:
			log.Printf("COLLISION 0x%08x %s: also hashed by %s", h, n, strings.Join(owners, ", "))
			bad++
		case owners[0] != n:
			log.Printf("COLLISION 0x%08x %s: resolves to %s instead", h, n, owners[0])
			bad++
		case d:
			log.Printf("ok 0x%08x %s", h, n)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d symbols failed verification", bad, len(names))
	}
	return nil
}

func table(ctx *cli.Context) (err error) {
	names := ctx.Args().Slice()
	if err = checkNames(names); err != nil {
		return
	}
	src := tableSource(ctx.String("pkg"), ctx.String("var"), names)
	if out := ctx.String("out"); out != "" {
		var f *os.File
		if f, err = os.Create(out); err != nil {
			return
		}
		defer fn.IgnoreClose(f)
		_, err = f.Write(src)
		return
	}
	_, err = os.Stdout.Write(src)
	return
}

// libraryExports reads the defined dynamic symbols of one shared
// object, name to value.
func libraryExports(path string, debug bool) (ex map[string]uint64, err error) {
	var f *elf.File
	if f, err = elf.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	var syms []elf.Symbol
	if syms, err = f.DynamicSymbols(); err != nil {
		return
	}
	ex = make(map[string]uint64, len(syms))
	for _, s := range syms {
		if s.Section == elf.SHN_UNDEF || s.Name == "" {
			continue
		}
		ex[s.Name] = s.Value
	}
	if debug {
		log.Printf("%s: %d exported symbols", path, len(ex))
	}
	return
}

// tableSource renders the generated file: one uintptr slot per symbol
// plus the Table binding each precomputed hash to its slot, in
// argument order.
func tableSource(pkg, varName string, names []string) []byte {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "// Code generated by gen table. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(b, "import \"github.com/faemiyah/dnload\"\n\n")
	fmt.Fprintf(b, "// %s holds the resolved entry points, one slot per symbol.\n", varName)
	fmt.Fprintf(b, "var %s struct {\n", varName)
	for _, n := range names {
		fmt.Fprintf(b, "\t%s uintptr\n", slotName(n))
	}
	fmt.Fprintf(b, "}\n\n")
	fmt.Fprintf(b, "// %sTable resolves every slot of %s, in declaration order.\n", varName, varName)
	fmt.Fprintf(b, "var %sTable = dnload.Table{\n", varName)
	for _, n := range names {
		fmt.Fprintf(b, "\t{Hash: 0x%08x, Slot: &%s.%s}, // %s\n", SdbmHash(n), varName, slotName(n), n)
	}
	fmt.Fprintf(b, "}\n")
	return b.Bytes()
}

func slotName(sym string) string {
	return strings.ToUpper(sym[:1]) + sym[1:]
}

// hashHex prints a hash the way the generated tables spell it.
func hashHex(h uint32) string {
	return fmt.Sprintf("0x%08x", h)
}

// checkNames rejects argument lists that cannot name symbols.
func checkNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("missing symbol names")
	}
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("empty symbol name")
		}
	}
	return nil
}
