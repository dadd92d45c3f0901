// Package gui implements the desktop register/memory viewer launched by
// "sim --gui": a read-mostly window driven by the simulator's StepEvent
// stream, with Step/Run/Pause controls of its own.
package gui

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Viewer is the fyne application backing the desktop debugger window.
type Viewer struct {
	Machine *vm.VM
	Events  <-chan vm.StepEvent

	App    fyne.App
	Window fyne.Window

	RegisterView *widget.TextGrid
	MemoryView   *widget.TextGrid
	StatusLabel  *widget.Label

	memoryAddr uint64
	running    bool
	mu         sync.Mutex
}

// Launch opens the viewer window and blocks until it is closed, refreshing
// its panels each time a StepEvent arrives on events. Intended to run in
// its own goroutine alongside the simulator's own run loop.
func Launch(machine *vm.VM, events <-chan vm.StepEvent) {
	v := &Viewer{Machine: machine, Events: events}
	v.build()

	go v.pump()

	v.Window.ShowAndRun()
}

func (v *Viewer) build() {
	v.App = app.New()
	v.Window = v.App.NewWindow("mips-toolchain viewer")

	v.RegisterView = widget.NewTextGrid()
	v.MemoryView = widget.NewTextGrid()
	v.StatusLabel = widget.NewLabel("ready")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() { v.step() }),
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() { v.run() }),
		widget.NewToolbarAction(theme.MediaPauseIcon(), func() { v.pause() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { v.refresh() }),
	)

	registerPanel := container.NewBorder(widget.NewLabel("registers"), nil, nil, nil,
		container.NewScroll(v.RegisterView))
	memoryPanel := container.NewBorder(widget.NewLabel("memory"), nil, nil, nil,
		container.NewScroll(v.MemoryView))

	split := container.NewHSplit(registerPanel, memoryPanel)
	split.SetOffset(0.5)

	content := container.NewBorder(toolbar, v.StatusLabel, nil, nil, split)

	v.Window.SetContent(content)
	v.Window.Resize(fyne.NewSize(1000, 700))

	v.refresh()
}

// pump refreshes the panels every time the simulator reports a step, so
// the viewer tracks a "sim --debug --gui" session without polling.
func (v *Viewer) pump() {
	for evt := range v.Events {
		v.StatusLabel.SetText(fmt.Sprintf("clock=%d pc=0x%X halted=%v", evt.Clock, evt.PC, evt.Halted))
		v.refresh()
	}
}

func (v *Viewer) refresh() {
	v.updateRegisters()
	v.updateMemory()
}

func (v *Viewer) updateRegisters() {
	cpu := v.Machine.CPU

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("pc = 0x%016X   fp_flag = %v   halted = %v   clock = %d\n\n",
		cpu.PC, cpu.FPFlag, cpu.Halted, cpu.Clock))

	for i := 0; i < 32; i += 2 {
		sb.WriteString(fmt.Sprintf("r%-2d: %016X  r%-2d: %016X\n", i, cpu.Regs[i], i+1, cpu.Regs[i+1]))
	}
	sb.WriteString("\n")
	for i := 0; i < 32; i += 2 {
		sb.WriteString(fmt.Sprintf("f%-2d: %014.6f  f%-2d: %014.6f\n", i, cpu.FRegs[i], i+1, cpu.FRegs[i+1]))
	}

	v.RegisterView.SetText(sb.String())
}

func (v *Viewer) updateMemory() {
	addr := v.memoryAddr

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("memory at 0x%X\n\n", addr))

	for row := 0; row < 16; row++ {
		lineAddr := addr + uint64(row*16)
		sb.WriteString(fmt.Sprintf("%08X: ", lineAddr))

		var ascii strings.Builder
		for col := 0; col < 16; col++ {
			b, err := v.Machine.Memory.ReadByte(int64(lineAddr) + int64(col))
			if err != nil {
				sb.WriteString("?? ")
				ascii.WriteByte('.')
				continue
			}
			sb.WriteString(fmt.Sprintf("%02X ", b))
			if b >= 32 && b < 127 {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		sb.WriteString(" " + ascii.String() + "\n")
	}

	v.MemoryView.SetText(sb.String())
}

func (v *Viewer) step() {
	if v.Machine.CPU.Halted {
		v.StatusLabel.SetText("program halted")
		return
	}
	if err := v.Machine.Step(); err != nil {
		v.StatusLabel.SetText(fmt.Sprintf("error: %v", err))
		return
	}
	v.refresh()
}

func (v *Viewer) run() {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return
	}
	v.running = true
	v.mu.Unlock()

	go func() {
		defer func() {
			v.mu.Lock()
			v.running = false
			v.mu.Unlock()
		}()

		for !v.Machine.CPU.Halted {
			v.mu.Lock()
			running := v.running
			v.mu.Unlock()
			if !running {
				return
			}
			if err := v.Machine.Step(); err != nil {
				v.StatusLabel.SetText(fmt.Sprintf("error: %v", err))
				return
			}
			if v.Machine.MaxCycles != 0 && v.Machine.CPU.Clock >= v.Machine.MaxCycles {
				return
			}
		}
		v.refresh()
	}()
}

func (v *Viewer) pause() {
	v.mu.Lock()
	v.running = false
	v.mu.Unlock()
	v.StatusLabel.SetText("paused")
}
