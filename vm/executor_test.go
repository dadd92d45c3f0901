package vm

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/mips-toolchain/encoder"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// assembleProgram assembles src and returns a ready-to-run VM with the
// resulting code and data images loaded.
func assembleProgram(t *testing.T, src string) *VM {
	t.Helper()
	prog, err := parser.Assemble("t.s", src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	words := make([]uint32, len(prog.Instructions))
	for i, inst := range prog.Instructions {
		w, err := encoder.Encode(inst)
		if err != nil {
			t.Fatalf("Encode instruction %d: %v", i, err)
		}
		words[i] = w
	}
	mem := NewMemory()
	mem.Load(prog.DataImage)
	return NewVM(NewCodeImage(words), mem)
}

func runToHalt(t *testing.T, v *VM) {
	t.Helper()
	if err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !v.CPU.Halted {
		t.Fatal("program did not halt")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	v := assembleProgram(t, ".data\n.word 0x1122334455667788\n.text\nld r2, 0(r0)\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(2); got != 0x1122334455667788 {
		t.Fatalf("r2 = 0x%X, want 0x1122334455667788", got)
	}
	var sb strings.Builder
	if err := v.WriteMemoryDump(&sb); err != nil {
		t.Fatalf("WriteMemoryDump: %v", err)
	}
	firstLine := strings.SplitN(sb.String(), "\n", 2)[0]
	if firstLine != "0000 1122334455667788" {
		t.Fatalf("memdump first line = %q, want %q", firstLine, "0000 1122334455667788")
	}
}

func TestBackwardBranchLoop(t *testing.T) {
	// r1 counts from 0 up to 3 via a backward-branching loop.
	v := assembleProgram(t, ".text\nloop:\ndaddi r1, r1, 1\nslti r2, r1, 3\nbnez r2, loop\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(1); got != 3 {
		t.Fatalf("r1 = %d, want 3", got)
	}
}

func TestFloatingPointCompareAndBranch(t *testing.T) {
	v := assembleProgram(t, `.data
.double 1.5
.double 2.5
.text
l.d f1, 0(r0)
l.d f2, 8(r0)
c.lt.d f1, f2
bc1f skip
daddi r3, r0, 1
skip:
halt
`)
	runToHalt(t, v)
	if got := v.CPU.Reg(3); got != 1 {
		t.Fatalf("r3 = %d, want 1 (branch not taken since f1 < f2)", got)
	}
}

func TestDivideByZeroYieldsZeroNotTrap(t *testing.T) {
	v := assembleProgram(t, ".text\nddiv r3, r1, r2\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(3); got != 0 {
		t.Fatalf("r3 = %d, want 0 on divide by zero", got)
	}
}

func TestStepWritesTrace(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 1\nhalt\n")
	var sb strings.Builder
	v.Trace = &sb
	runToHalt(t, v)
	out := sb.String()
	if !strings.Contains(out, "At clock count = 1, pc = 4") {
		t.Fatalf("trace missing first step header, got:\n%s", out)
	}
	if !strings.Contains(out, "r1  = 0000000000000001") {
		t.Fatalf("trace missing updated r1, got:\n%s", out)
	}
}

func TestCycleLimitStopsRunawayLoop(t *testing.T) {
	v := assembleProgram(t, ".text\nloop:\nbeqz r0, loop\nhalt\n")
	v.MaxCycles = 5
	err := v.Run()
	if err != ErrCycleLimit {
		t.Fatalf("got err %v, want ErrCycleLimit", err)
	}
}

func TestLoadUpperImmediatePreservesLowBits(t *testing.T) {
	// lui ORs into the destination register rather than overwriting it, so a
	// prior nonzero low half must survive.
	v := assembleProgram(t, ".text\ndaddi r1, r0, 5\nlui r1, 1\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(1), uint64(1)<<32|5; got != want {
		t.Fatalf("r1 = 0x%X, want 0x%X", got, want)
	}
}

func TestShiftRightArithmeticPreservesOnlySignBit(t *testing.T) {
	// Build r1 = 0x8000000000000000 via a variable-amount shift (imm-shift
	// shamt fields only carry 5 bits), then check dsra preserves bit 63
	// without sign-extending the vacated bits beneath it.
	v := assembleProgram(t, ".text\ndaddi r1, r0, 1\ndaddi r2, r0, 63\ndsllv r1, r1, r2\ndsra r3, r1, 4\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(1), uint64(0x8000000000000000); got != want {
		t.Fatalf("r1 = 0x%X, want 0x%X", got, want)
	}
	if got, want := v.CPU.Reg(3), uint64(0x8800000000000000); got != want {
		t.Fatalf("r3 = 0x%X, want 0x%X", got, want)
	}
}

func TestShiftRightArithByVarPreservesOnlySignBit(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 1\ndaddi r2, r0, 63\ndsllv r1, r1, r2\ndaddi r4, r0, 4\ndsrav r5, r1, r4\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(5), uint64(0x8800000000000000); got != want {
		t.Fatalf("r5 = 0x%X, want 0x%X", got, want)
	}
}

func TestShiftLeftAndRightLogical(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 1\ndsll r2, r1, 4\ndsrl r3, r2, 2\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(2), uint64(0x10); got != want {
		t.Fatalf("r2 = 0x%X, want 0x%X", got, want)
	}
	if got, want := v.CPU.Reg(3), uint64(0x4); got != want {
		t.Fatalf("r3 = 0x%X, want 0x%X", got, want)
	}
}

func TestShiftLeftAndRightByVar(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 1\ndaddi r2, r0, 4\ndsllv r3, r1, r2\ndsrlv r4, r3, r2\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(3), uint64(0x10); got != want {
		t.Fatalf("r3 = 0x%X, want 0x%X", got, want)
	}
	if got, want := v.CPU.Reg(4), uint64(1); got != want {
		t.Fatalf("r4 = 0x%X, want 0x%X", got, want)
	}
}

func TestConditionalMove(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 42\ndaddi r2, r0, 0\nmovz r3, r1, r2\ndaddi r4, r0, 1\nmovn r5, r1, r4\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(3); got != 42 {
		t.Fatalf("r3 = %d, want 42 (movz fires when r2 == 0)", got)
	}
	if got := v.CPU.Reg(5); got != 42 {
		t.Fatalf("r5 = %d, want 42 (movn fires when r4 != 0)", got)
	}
}

func TestImmediateLogicalOps(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 0xF0\nandi r2, r1, 0x3C\nori r3, r1, 0x0F\nxori r4, r1, 0xFF\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(2), uint64(0x30); got != want {
		t.Fatalf("r2 (andi) = 0x%X, want 0x%X", got, want)
	}
	if got, want := v.CPU.Reg(3), uint64(0xFF); got != want {
		t.Fatalf("r3 (ori) = 0x%X, want 0x%X", got, want)
	}
	if got, want := v.CPU.Reg(4), uint64(0x0F); got != want {
		t.Fatalf("r4 (xori) = 0x%X, want 0x%X", got, want)
	}
}

func TestSetLessThanImmediate(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 5\nslti r2, r1, 10\nsltiu r3, r1, 10\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(2); got != 1 {
		t.Fatalf("r2 (slti) = %d, want 1", got)
	}
	if got := v.CPU.Reg(3); got != 1 {
		t.Fatalf("r3 (sltiu) = %d, want 1", got)
	}
}

func TestRegisterLogicalAndCompareOps(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 12\ndaddi r2, r0, 10\nand r3, r1, r2\nor r4, r1, r2\nxor r5, r1, r2\nslt r6, r2, r1\nsltu r7, r2, r1\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.Reg(3), uint64(8); got != want {
		t.Fatalf("r3 (and) = %d, want %d", got, want)
	}
	if got, want := v.CPU.Reg(4), uint64(14); got != want {
		t.Fatalf("r4 (or) = %d, want %d", got, want)
	}
	if got, want := v.CPU.Reg(5), uint64(6); got != want {
		t.Fatalf("r5 (xor) = %d, want %d", got, want)
	}
	if got := v.CPU.Reg(6); got != 1 {
		t.Fatalf("r6 (slt) = %d, want 1", got)
	}
	if got := v.CPU.Reg(7); got != 1 {
		t.Fatalf("r7 (sltu) = %d, want 1", got)
	}
}

func TestMoveBetweenIntegerAndFpRegisters(t *testing.T) {
	v := assembleProgram(t, ".text\ndaddi r1, r0, 7\nmtc1 r1, f1\nmfc1 r2, f1\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(2); got != 7 {
		t.Fatalf("r2 = %d, want 7 (mtc1/mfc1 convert the value numerically both ways)", got)
	}
}

func TestConvertIntegerToReal(t *testing.T) {
	// cvt.d.l numerically converts the source bit pattern read as a u64:
	// mtc1 leaves 7.0 in f1, whose bits 0x401C000000000000 become that
	// integer's value as a double, not a bit-for-bit reinterpretation.
	v := assembleProgram(t, ".text\ndaddi r1, r0, 7\nmtc1 r1, f1\ncvt.d.l f2, f1\nhalt\n")
	runToHalt(t, v)
	if got, want := v.CPU.FReg(2), float64(0x401C000000000000); got != want {
		t.Fatalf("f2 = %v, want %v", got, want)
	}
}

func TestConvertRealToInteger(t *testing.T) {
	// cvt.l.d truncates the source double to a u64 then reinterprets that
	// u64's bits as a double; reading the result's bits back through memory
	// with s.d/ld recovers the truncated integer exactly, unlike a naive
	// identity copy.
	v := assembleProgram(t, ".data\n.double 5.0\n.text\nl.d f1, 0(r0)\ncvt.l.d f2, f1\ns.d f2, 8(r0)\nld r2, 8(r0)\nhalt\n")
	runToHalt(t, v)
	if got := v.CPU.Reg(2); got != 5 {
		t.Fatalf("r2 = %d, want 5", got)
	}
}
