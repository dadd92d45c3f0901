package vm

import (
	"testing"

	"github.com/lookbusy1344/mips-toolchain/encoder"
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

func assembleOne(t *testing.T, src string) uint32 {
	t.Helper()
	prog, err := parser.Assemble("t.s", src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(prog.Instructions) == 0 {
		t.Fatal("no instructions parsed")
	}
	word, err := encoder.Encode(prog.Instructions[0])
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return word
}

func TestDecodeAddImmediate(t *testing.T) {
	word := assembleOne(t, ".text\ndaddi r1, r0, 5\n")
	if word != 0x60010005 {
		t.Fatalf("got 0x%08X, want 0x60010005", word)
	}
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Info.Op != isa.AddImmediate {
		t.Fatalf("got mnemonic %s, want daddi", d.Info.Name)
	}
	if d.Reg0 != isa.IntReg(1) || d.Reg1 != isa.IntReg(0) || d.Imm != 5 {
		t.Fatalf("got reg0=%v reg1=%v imm=%d", d.Reg0, d.Reg1, d.Imm)
	}
}

func TestDecodeRejectsUnknownWord(t *testing.T) {
	// Primary opcode 0x3E is not assigned to any instruction.
	if _, err := Decode(0xF8000000); err == nil {
		t.Fatal("expected decode error for an unassigned opcode")
	}
}

func TestDecodeRoundTripsFloatingPointRegShape(t *testing.T) {
	word := assembleOne(t, ".text\nadd.d f2, f3, f4\n")
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Info.Op != isa.AddReal {
		t.Fatalf("got mnemonic %s, want add.d", d.Info.Name)
	}
	if !d.Reg0.IsFloat() || d.Reg0.Index() != 2 {
		t.Fatalf("got reg0=%v, want f2", d.Reg0)
	}
	if d.Reg1.Index() != 3 || d.Reg2.Index() != 4 {
		t.Fatalf("got reg1=%v reg2=%v", d.Reg1, d.Reg2)
	}
}
