package isa

import "testing"

func TestLookupKnownMnemonic(t *testing.T) {
	info, ok := Lookup("daddi")
	if !ok {
		t.Fatal("expected daddi to be a known mnemonic")
	}
	if info.Op != AddImmediate {
		t.Errorf("Op = %v, want AddImmediate", info.Op)
	}
	if info.ArgCount != 3 {
		t.Errorf("ArgCount = %d, want 3", info.ArgCount)
	}
	if info.ArgTypes != [3]ArgumentType{ArgReg, ArgReg, ArgImm} {
		t.Errorf("ArgTypes = %v, want [reg, reg, imm]", info.ArgTypes)
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("frobnicate"); ok {
		t.Error("expected frobnicate to be unknown")
	}
}

func TestLookupDottedMnemonic(t *testing.T) {
	info, ok := Lookup("add.d")
	if !ok {
		t.Fatal("expected add.d to be a known mnemonic")
	}
	if info.Shape != ShapeF {
		t.Errorf("Shape = %v, want ShapeF", info.Shape)
	}
}

func TestInfoRoundTripsByMnemonic(t *testing.T) {
	info, _ := Lookup("beq")
	if got := Info(info.Op).Name; got != "beq" {
		t.Errorf("Info(beq.Op).Name = %q, want beq", got)
	}
}

func TestRegisterBanksAndNames(t *testing.T) {
	r := IntReg(3)
	if r.IsFloat() {
		t.Error("IntReg(3) should not be float")
	}
	if r.Index() != 3 {
		t.Errorf("Index() = %d, want 3", r.Index())
	}
	if r.String() != "r3" {
		t.Errorf("String() = %q, want r3", r.String())
	}

	f := FloatReg(12)
	if !f.IsFloat() {
		t.Error("FloatReg(12) should be float")
	}
	if f.Index() != 12 {
		t.Errorf("Index() = %d, want 12", f.Index())
	}
	if f.String() != "f12" {
		t.Errorf("String() = %q, want f12", f.String())
	}
}

func TestLookupRegister(t *testing.T) {
	r, ok := LookupRegister("r31")
	if !ok || r != IntReg(31) {
		t.Errorf("LookupRegister(r31) = %v, %v, want IntReg(31), true", r, ok)
	}
	f, ok := LookupRegister("f0")
	if !ok || f != FloatReg(0) {
		t.Errorf("LookupRegister(f0) = %v, %v, want FloatReg(0), true", f, ok)
	}
	if _, ok := LookupRegister("r99"); ok {
		t.Error("expected r99 to be unknown")
	}
}

func TestLookupDirectiveAndListWidth(t *testing.T) {
	d, ok := LookupDirective("word")
	if !ok || d != DirWord {
		t.Fatalf("LookupDirective(word) = %v, %v, want DirWord, true", d, ok)
	}
	width, ok := d.ListWidth()
	if !ok || width != 8 {
		t.Errorf("ListWidth() = %d, %v, want 8, true", width, ok)
	}
	if d.String() != "word" {
		t.Errorf("String() = %q, want word", d.String())
	}

	if _, ok := DirText.ListWidth(); ok {
		t.Error("DirText should not report a list width")
	}
}
