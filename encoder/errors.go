package encoder

import "errors"

// ErrEncode marks the encoder's own failures: shapes that don't match any
// known packing, or an InstructionData with an unresolved or
// wrong-kind immediate. Reaching this, per the design, signals a bug
// upstream — the parser should never hand the encoder anything it cannot
// encode.
var ErrEncode = errors.New("encode error")
