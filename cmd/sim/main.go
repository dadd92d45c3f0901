// Command sim runs a previously assembled .cod/.dat artifact pair,
// optionally under the TUI debugger or alongside the desktop viewer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/api"
	"github.com/lookbusy1344/mips-toolchain/config"
	"github.com/lookbusy1344/mips-toolchain/debugger"
	"github.com/lookbusy1344/mips-toolchain/gui"
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/vm"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		codePath    = flag.String("code", "", "Path to the .cod instruction file")
		rodataPath  = flag.String("rodata", "", "Path to the .dat data-image file")
		printInsn   = flag.Bool("insn", false, "Print each instruction as it executes")
		configPath  = flag.String("config", "", "Override the config file search path")
		maxCycles   = flag.Uint64("max-cycles", 0, "Abort after N clock ticks (0 = unlimited)")
		debugMode   = flag.Bool("debug", false, "Launch the TUI debugger instead of free-running")
		guiMode     = flag.Bool("gui", false, "Launch the desktop register/memory viewer")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("sim version %s (commit %s, built %s)\n", Version, Commit, Date)
		os.Exit(0)
	}

	if *codePath == "" || *rodataPath == "" {
		printHelp()
		os.Exit(1)
	}

	if err := run(*codePath, *rodataPath, *printInsn, *configPath, *maxCycles, *debugMode, *guiMode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(codePath, rodataPath string, printInsn bool, configPath string, maxCycles uint64, debugMode, guiMode bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	words, err := readCodeFile(codePath)
	if err != nil {
		return err
	}
	image, err := readDataFile(rodataPath)
	if err != nil {
		return err
	}

	mem := vm.NewMemory()
	mem.Load(image)
	machine := vm.NewVM(vm.NewCodeImage(words), mem)

	if maxCycles != 0 {
		machine.MaxCycles = maxCycles
	} else {
		machine.MaxCycles = cfg.Simulator.MaxCycles
	}

	var traceFile *os.File
	if cfg.Simulator.WriteTrace {
		traceFile, err = os.Create(cfg.Simulator.TraceFile) // #nosec G304 -- configured trace output path
		if err != nil {
			return fmt.Errorf("creating %s: %w", cfg.Simulator.TraceFile, err)
		}
		defer traceFile.Close()
		machine.Trace = bufio.NewWriter(traceFile)
	}

	if guiMode {
		raw := make(chan vm.StepEvent, 64)
		machine.Events = raw

		broadcaster := api.NewBroadcaster()
		defer broadcaster.Close()
		go func() {
			for evt := range raw {
				broadcaster.Broadcast(evt)
			}
		}()

		sub := broadcaster.Subscribe()
		go gui.Launch(machine, sub.Channel)
	}

	runErr := runMachine(machine, debugMode, printInsn)

	if bw, ok := machine.Trace.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			return err
		}
	}

	if cfg.Simulator.WriteMemDump {
		if err := writeMemDump(machine, cfg.Simulator.MemDumpFile); err != nil {
			return err
		}
	}

	return runErr
}

func runMachine(machine *vm.VM, debugMode, printInsn bool) error {
	if debugMode {
		return debugger.Run(machine)
	}
	if printInsn {
		return runWithInsnPrinting(machine)
	}
	return machine.Run()
}

func runWithInsnPrinting(machine *vm.VM) error {
	for !machine.CPU.Halted {
		pc := machine.CPU.PC
		word, err := machine.Code.FetchAt(pc)
		if err != nil {
			return err
		}
		d, err := vm.Decode(word)
		if err != nil {
			return err
		}
		fmt.Printf("%08X %s\n", pc, describeInsn(d))
		if err := machine.Step(); err != nil {
			return err
		}
		if machine.MaxCycles != 0 && machine.CPU.Clock >= machine.MaxCycles {
			return vm.ErrCycleLimit
		}
	}
	return nil
}

func describeInsn(d *vm.Decoded) string {
	var b strings.Builder
	b.WriteString(d.Info.Name)
	regs := []isa.Register{d.Reg0, d.Reg1, d.Reg2}
	count := d.Info.ArgCount
	for i := 0; i < count; i++ {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		switch d.Info.ArgTypes[i] {
		case isa.ArgImmWReg:
			fmt.Fprintf(&b, "%d(%s)", d.Imm, regs[i])
		case isa.ArgImm:
			fmt.Fprintf(&b, "%d", d.Imm)
		default:
			fmt.Fprintf(&b, "%s", regs[i])
		}
	}
	return b.String()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func readCodeFile(path string) ([]uint32, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified artifact path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var words []uint32
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %q is not a hex instruction word: %w", path, line, err)
		}
		words = append(words, uint32(v))
	}
	return words, nil
}

func readDataFile(path string) ([isa.ImageSize]byte, error) {
	var image [isa.ImageSize]byte
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified artifact path
	if err != nil {
		return image, fmt.Errorf("reading %s: %w", path, err)
	}
	offset := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			return image, fmt.Errorf("parsing %s: %q is not a hex data word: %w", path, line, err)
		}
		if offset+8 > len(image) {
			return image, fmt.Errorf("parsing %s: data image overflow past %d bytes", path, len(image))
		}
		for i := 0; i < 8; i++ {
			image[offset+i] = byte(v >> (8 * i))
		}
		offset += 8
	}
	return image, nil
}

func writeMemDump(machine *vm.VM, path string) error {
	f, err := os.Create(path) // #nosec G304 -- configured memdump output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return machine.WriteMemoryDump(f)
}

func printHelp() {
	fmt.Println(`sim - runs assembled MIPS-toolchain artifacts

Usage:
  sim --code <file>.cod --rodata <file>.dat [options]

Options:
  --insn            Print each instruction as it executes
  --config <file>   Override the config file search path
  --max-cycles N    Abort after N clock ticks (0 = unlimited)
  --debug           Launch the TUI debugger instead of free-running
  --gui             Launch the desktop register/memory viewer
  --version         Show version information`)
}
