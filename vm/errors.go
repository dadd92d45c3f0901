package vm

import "errors"

var (
	// ErrMemoryBounds marks a load/store reaching outside the 32 KiB data
	// image.
	ErrMemoryBounds = errors.New("memory access out of bounds")
	// ErrProgramCounter marks a fetch reaching outside the code image.
	ErrProgramCounter = errors.New("program counter out of range")
	// ErrDecode marks a fetched word that matches no known instruction.
	ErrDecode = errors.New("illegal instruction")
	// ErrCycleLimit marks a run that was stopped by its configured
	// maximum cycle count rather than by HALT.
	ErrCycleLimit = errors.New("cycle limit exceeded")
)
