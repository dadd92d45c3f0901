package gui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/widget"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/vm"
)

func TestViewerUpdateRegisters(t *testing.T) {
	mem := vm.NewMemory()
	machine := vm.NewVM(vm.NewCodeImage(nil), mem)
	machine.CPU.SetReg(isa.IntReg(3), 42)

	v := &Viewer{
		Machine:      machine,
		RegisterView: widget.NewTextGrid(),
		MemoryView:   widget.NewTextGrid(),
	}

	v.updateRegisters()

	text := v.RegisterView.Text()
	if !strings.Contains(text, "2A") {
		t.Errorf("expected register dump to contain written value 0x2A, got: %s", text)
	}
}

func TestViewerUpdateMemory(t *testing.T) {
	mem := vm.NewMemory()
	machine := vm.NewVM(vm.NewCodeImage(nil), mem)

	v := &Viewer{
		Machine:    machine,
		MemoryView: widget.NewTextGrid(),
	}

	v.updateMemory()

	if !strings.Contains(v.MemoryView.Text(), "memory at 0x0") {
		t.Errorf("expected memory header, got: %s", v.MemoryView.Text())
	}
}
