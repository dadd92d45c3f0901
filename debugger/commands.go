package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// cmdStep executes n instructions (default 1), stepping the underlying VM
// directly rather than going through the run loop so the TUI can refresh
// between each one.
func (d *Debugger) cmdStep(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("usage: step [n]")
		}
		n = v
	}

	for i := 0; i < n && !d.VM.CPU.Halted; i++ {
		if err := d.VM.Step(); err != nil {
			return err
		}
	}
	if d.VM.CPU.Halted {
		d.Println("program halted")
	}
	return nil
}

// cmdContinue runs until a breakpoint, watchpoint, or halt.
func (d *Debugger) cmdContinue(args []string) error {
	d.Running = true
	for d.Running && !d.VM.CPU.Halted {
		if shouldBreak, reason := d.ShouldBreak(); shouldBreak {
			d.Running = false
			d.Printf("Stopped: %s at PC=0x%X\n", reason, d.VM.CPU.PC)
			return nil
		}
		if err := d.VM.Step(); err != nil {
			d.Running = false
			return err
		}
	}
	d.Running = false
	if d.VM.CPU.Halted {
		d.Println("program halted")
	}
	return nil
}

// cmdBreak handles "break <address-or-label> [if <condition>]" and
// "break <expr>", where the whole argument list forms the expression.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address-or-expr> [if <condition>]")
	}

	var condition string
	target := args[0]
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	if address, err := d.ResolveAddress(target); err == nil {
		bp := d.Breakpoints.AddAddressBreakpoint(address, false, condition)
		d.Printf("Breakpoint %d at 0x%X\n", bp.ID, address)
		return nil
	}

	expression := strings.Join(args, " ")
	bp := d.Breakpoints.AddConditionBreakpoint(expression, false)
	d.Printf("Breakpoint %d: %s\n", bp.ID, expression)
	return nil
}

// cmdDelete deletes a breakpoint or watchpoint by id, or all of both if no
// id is given.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Watchpoints.Clear()
		d.Println("all breakpoints and watchpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err == nil {
		d.Printf("breakpoint %d deleted\n", id)
		return nil
	}
	if err := d.Watchpoints.DeleteWatchpoint(id); err == nil {
		d.Printf("watchpoint %d deleted\n", id)
		return nil
	}
	return fmt.Errorf("no breakpoint or watchpoint %d", id)
}

// cmdWatch sets a watchpoint that fires when expr's value changes.
func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <expr>")
	}

	expression := strings.Join(args, " ")
	wp := d.Watchpoints.AddWatchpoint(expression)
	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.VM, d.Evaluator, d.Symbols); err != nil {
		_ = d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// cmdPrint evaluates and displays an expression.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <reg-or-expr>")
	}

	expression := strings.Join(args, " ")
	result, err := d.Evaluator.EvaluateExpression(expression, d.VM, d.Symbols)
	if err != nil {
		return err
	}

	d.Printf("$%d = 0x%X (%d)\n", d.Evaluator.GetValueNumber(), uint64(result), result)
	return nil
}

// cmdRegs dumps every integer and floating-point register, plus PC and the
// FP condition flag, without stepping.
func (d *Debugger) cmdRegs(args []string) error {
	cpu := d.VM.CPU
	d.Printf("pc = 0x%016X   fp_flag = %v   halted = %v\n", cpu.PC, cpu.FPFlag, cpu.Halted)
	for i := 0; i < 32; i++ {
		d.Printf("r%-2d = %016X    f%-2d = %016.8f\n", i, cpu.Reg(isa.IntReg(i)), i, cpu.FReg(isa.FloatReg(i)))
	}
	return nil
}

// cmdMem dumps len bytes of memory starting at addr without stepping.
func (d *Debugger) cmdMem(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mem <addr> <len>")
	}

	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(args[1])
	if err != nil || length < 0 {
		return fmt.Errorf("invalid length: %s", args[1])
	}

	for i := 0; i < length; i += 16 {
		d.Printf("%08X:", addr+uint64(i))
		for j := i; j < i+16 && j < length; j++ {
			b, err := d.VM.Memory.ReadByte(int64(addr) + int64(j))
			if err != nil {
				return err
			}
			d.Printf(" %02X", b)
		}
		d.Println()
	}
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println(`Commands:
  step [n]              execute n instructions (default 1)
  continue               run until a breakpoint, watchpoint, or halt
  break <addr-or-expr>   set a breakpoint, optionally "if <condition>"
  delete [id]             delete a breakpoint/watchpoint, or all of them
  watch <expr>            break when expr's value changes
  print <reg-or-expr>     evaluate and display an expression
  regs                    dump all registers
  mem <addr> <len>        dump memory
  quit                    exit the debugger`)
	return nil
}
