package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Run launches the full-screen TUI debugger for machine and blocks until
// the user quits. This is the entry point "sim --debug" calls.
func Run(machine *vm.VM) error {
	dbg := NewDebugger(machine)
	t := NewTUI(dbg)
	return t.Run()
}

// RunCLI runs the line-oriented debugger REPL on stdin/stdout.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(sim) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())
		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("exiting debugger")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("error: %v\n", err)
		}

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		if dbg.VM.CPU.Halted {
			fmt.Println("program halted")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}
