package debugger

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Debugger holds the interactive state layered on top of a running VM:
// breakpoints, watchpoints, command history and the label table used to
// resolve symbolic addresses in expressions.
type Debugger struct {
	VM *vm.VM

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory
	Evaluator   *ExpressionEvaluator

	Running  bool
	StepOnce bool // when true, ShouldBreak reports one "single step" stop and clears it; no command sets it

	Symbols map[string]int64

	LastCommand string

	Output strings.Builder
}

func NewDebugger(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Evaluator:   NewExpressionEvaluator(),
		Symbols:     make(map[string]int64),
	}
}

// LoadSymbols loads the label table used to resolve symbolic addresses.
func (d *Debugger) LoadSymbols(symbols map[string]int64) {
	d.Symbols = symbols
}

// ResolveAddress resolves a label to an address, or parses a numeric one.
func (d *Debugger) ResolveAddress(addrStr string) (uint64, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return uint64(addr), nil
	}

	var addr uint64
	var err error
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		_, err = fmt.Sscanf(addrStr, "0x%x", &addr)
	} else {
		_, err = fmt.Sscanf(addrStr, "%d", &addr)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return addr, nil
}

// ExecuteCommand parses and dispatches a single debugger command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "watch", "w":
		return d.cmdWatch(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "regs":
		return d.cmdRegs(args)
	case "mem":
		return d.cmdMem(args)
	case "quit", "q", "exit":
		d.Running = false
		return nil
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause at the current PC,
// checking step mode, breakpoints, and watchpoints in that order.
func (d *Debugger) ShouldBreak() (bool, string) {
	if d.StepOnce {
		d.StepOnce = false
		return true, "single step"
	}

	pc := d.VM.CPU.PC
	for _, bp := range d.Breakpoints.GetAllBreakpoints() {
		if !bp.Enabled {
			continue
		}
		if bp.HasAddress && bp.Address != pc {
			continue
		}
		if bp.Condition != "" {
			result, err := d.Evaluator.Evaluate(bp.Condition, d.VM, d.Symbols)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				continue
			}
		}

		hit := d.Breakpoints.ProcessHit(bp.ID)
		return true, fmt.Sprintf("breakpoint %d", hit.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.VM, d.Evaluator, d.Symbols); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}
