// Command asm assembles a single source file into the toolchain's .cod/.dat
// artifacts, optionally dumping intermediate tokens, instructions or the
// label map along the way.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/encoder"
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		dumpLabels  = flag.Bool("labels", false, "Dump the resolved label map")
		dumpRodata  = flag.Bool("rodata", false, "Emit .bin and .dat data-image artifacts")
		dumpTokens  = flag.Bool("tokens", false, "Dump the lexed token stream")
		dumpInsns   = flag.Bool("instructions", false, "Dump decoded instructions with PC")
		noEncode    = flag.Bool("no-encode", false, "Skip emitting the .cod file")
	)
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("asm version %s (commit %s, built %s)\n", Version, Commit, Date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		printHelp()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *dumpLabels, *dumpRodata, *dumpTokens, *dumpInsns, *noEncode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, labels, rodata, tokens, insns, noEncode bool) error {
	source, err := os.ReadFile(path) // #nosec G304 -- user-specified source file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if tokens {
		if err := dumpTokenStream(path, string(source)); err != nil {
			return err
		}
	}

	prog, err := parser.Assemble(path, string(source))
	if err != nil {
		return err
	}

	if labels {
		dumpLabelMap(prog)
	}
	if insns {
		dumpInstructions(prog)
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))

	if !noEncode {
		if err := writeCodeFile(stem+".cod", prog); err != nil {
			return err
		}
	}
	if rodata {
		if err := writeDataFiles(stem, prog); err != nil {
			return err
		}
	}

	return nil
}

func dumpTokenStream(path, source string) error {
	lexer := parser.NewLexer(path, source)
	toks, err := lexer.TokenizeAll()
	if err != nil {
		return err
	}
	for _, tok := range toks {
		fmt.Printf("%-18s %-12s %q\n", tok.Pos, tok.Type, tok.Literal)
	}
	return nil
}

func dumpLabelMap(prog *parser.Program) {
	names := prog.Labels.Names()
	sort.Strings(names)
	for _, name := range names {
		addr, _ := prog.Labels.Lookup(name)
		fmt.Printf("%08X %s\n", addr, name)
	}
}

func dumpInstructions(prog *parser.Program) {
	for _, inst := range prog.Instructions {
		fmt.Printf("%08X %s\n", inst.PC, disassemble(inst))
	}
}

func disassemble(inst *parser.Instruction) string {
	var b strings.Builder
	b.WriteString(inst.Info.Name)
	for i := 0; i < inst.Info.ArgCount; i++ {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		arg := inst.Args[i]
		switch arg.Type {
		case isa.ArgImmWReg:
			fmt.Fprintf(&b, "%d(%s)", arg.Imm.Int, arg.Base)
		case isa.ArgReg, isa.ArgFreg:
			fmt.Fprintf(&b, "%s", arg.Reg)
		case isa.ArgImm:
			if arg.Imm.Kind == parser.ImmFloat {
				fmt.Fprintf(&b, "%g", arg.Imm.Float)
			} else {
				fmt.Fprintf(&b, "%d", arg.Imm.Int)
			}
		}
	}
	return b.String()
}

func writeCodeFile(path string, prog *parser.Program) error {
	var b strings.Builder
	for _, inst := range prog.Instructions {
		word, err := encoder.Encode(inst)
		if err != nil {
			return fmt.Errorf("encoding instruction at %08X: %w", inst.PC, err)
		}
		fmt.Fprintf(&b, "%08X\n", word)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeDataFiles(stem string, prog *parser.Program) error {
	binPath := stem + ".bin"
	if err := os.WriteFile(binPath, prog.DataImage[:prog.DataLen], 0644); err != nil {
		return fmt.Errorf("writing %s: %w", binPath, err)
	}

	var b strings.Builder
	for off := int64(0); off+8 <= int64(len(prog.DataImage)); off += 8 {
		word := uint64(0)
		for i := 0; i < 8; i++ {
			word |= uint64(prog.DataImage[off+int64(i)]) << (8 * i)
		}
		fmt.Fprintf(&b, "%016X\n", word)
	}
	datPath := stem + ".dat"
	if err := os.WriteFile(datPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", datPath, err)
	}
	return nil
}

func printHelp() {
	fmt.Println(`asm - assembles MIPS-toolchain source files

Usage:
  asm [options] <file>.s

Options:
  --labels         Dump the resolved label map
  --rodata         Emit .bin and .dat data-image artifacts
  --tokens         Dump the lexed token stream
  --instructions   Dump decoded instructions with PC
  --no-encode      Skip emitting the .cod file
  --version        Show version information`)
}
