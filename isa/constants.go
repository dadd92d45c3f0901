package isa

// ImageSize is the fixed capacity, in bytes, of both the data image and the
// code image. Neither grows dynamically; the assembler reports an overrun
// rather than resizing anything.
const ImageSize = 32 * 1024

// InstructionWidth is the fixed width, in bytes, of every encoded instruction.
const InstructionWidth = 4
