package vm

import "testing"

func TestMemoryByteRoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.WriteByte(10, 0xAB); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v, err := m.ReadByte(10)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if v != 0xAB {
		t.Fatalf("got 0x%X, want 0xAB", v)
	}
}

func TestMemoryDoubleLittleEndian(t *testing.T) {
	m := NewMemory()
	if err := m.WriteDouble(0, 0x1122334455667788); err != nil {
		t.Fatalf("WriteDouble: %v", err)
	}
	b := m.Bytes()
	if b[0] != 0x88 || b[7] != 0x11 {
		t.Fatalf("expected little-endian byte layout, got % X", b[:8])
	}
	v, err := m.ReadDouble(0)
	if err != nil {
		t.Fatalf("ReadDouble: %v", err)
	}
	if v != 0x1122334455667788 {
		t.Fatalf("got 0x%X", v)
	}
}

func TestMemoryBoundsError(t *testing.T) {
	m := NewMemory()
	if _, err := m.ReadWord(isaImageSizeMinus(3)); err == nil {
		t.Fatal("expected bounds error reading past the image")
	}
}

func isaImageSizeMinus(n int64) int64 {
	return 32*1024 - n
}

func TestCodeImageFetch(t *testing.T) {
	code := NewCodeImage([]uint32{0x60010005, 0x01020304})
	w, err := code.FetchAt(4)
	if err != nil {
		t.Fatalf("FetchAt: %v", err)
	}
	if w != 0x01020304 {
		t.Fatalf("got 0x%X", w)
	}
	if _, err := code.FetchAt(8); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
