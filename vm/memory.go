package vm

import (
	"fmt"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// Memory is the simulator's fixed 32 KiB data image, addressed byte-wise
// and packed little-endian, matching the assembler's data image exactly.
type Memory struct {
	data [isa.ImageSize]byte
}

// NewMemory returns a zeroed data image.
func NewMemory() *Memory {
	return &Memory{}
}

// Load copies an assembled data image (e.g. from a .dat artifact) in.
func (m *Memory) Load(image [isa.ImageSize]byte) {
	m.data = image
}

// Bytes exposes the underlying image for dumping.
func (m *Memory) Bytes() *[isa.ImageSize]byte {
	return &m.data
}

func (m *Memory) bounds(addr int64, size int) error {
	if addr < 0 || addr+int64(size) > isa.ImageSize {
		return fmt.Errorf("%w: address 0x%X, size %d", ErrMemoryBounds, addr, size)
	}
	return nil
}

// ReadByte/ReadHalf/ReadWord/ReadDouble read little-endian unsigned values
// of width 1/2/4/8 bytes.

func (m *Memory) ReadByte(addr int64) (uint8, error) {
	if err := m.bounds(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

func (m *Memory) ReadHalf(addr int64) (uint16, error) {
	if err := m.bounds(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr]) | uint16(m.data[addr+1])<<8, nil
}

func (m *Memory) ReadWord(addr int64) (uint32, error) {
	if err := m.bounds(addr, 4); err != nil {
		return 0, err
	}
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(m.data[addr+int64(i)]) << (8 * i)
	}
	return v, nil
}

func (m *Memory) ReadDouble(addr int64) (uint64, error) {
	if err := m.bounds(addr, 8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(m.data[addr+int64(i)]) << (8 * i)
	}
	return v, nil
}

func (m *Memory) WriteByte(addr int64, v uint8) error {
	if err := m.bounds(addr, 1); err != nil {
		return err
	}
	m.data[addr] = v
	return nil
}

func (m *Memory) WriteHalf(addr int64, v uint16) error {
	if err := m.bounds(addr, 2); err != nil {
		return err
	}
	m.data[addr] = byte(v)
	m.data[addr+1] = byte(v >> 8)
	return nil
}

func (m *Memory) WriteWord(addr int64, v uint32) error {
	if err := m.bounds(addr, 4); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		m.data[addr+int64(i)] = byte(v >> (8 * i))
	}
	return nil
}

func (m *Memory) WriteDouble(addr int64, v uint64) error {
	if err := m.bounds(addr, 8); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		m.data[addr+int64(i)] = byte(v >> (8 * i))
	}
	return nil
}

// CodeImage is the fixed 32 KiB image of encoded instruction words the
// assembler produces. Indexing is by word, not by byte: instruction n
// lives at word offset n (byte address n*4).
type CodeImage struct {
	Words []uint32
}

// NewCodeImage wraps an already-encoded instruction stream.
func NewCodeImage(words []uint32) *CodeImage {
	return &CodeImage{Words: words}
}

// FetchAt returns the instruction word at byte address pc.
func (c *CodeImage) FetchAt(pc uint64) (uint32, error) {
	idx := pc / isa.InstructionWidth
	if idx >= uint64(len(c.Words)) {
		return 0, fmt.Errorf("%w: pc 0x%X out of range", ErrProgramCounter, pc)
	}
	return c.Words[idx], nil
}
