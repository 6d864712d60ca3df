package machine

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by a capability when its peer endpoint is gone.
// The machine treats it as an implicit halt.
var ErrClosed = errors.New("channel closed")

// Invalid program conditions.
var (
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrInvalidMode          = errors.New("invalid parameter mode")
	ErrImmediateDestination = errors.New("immediate mode destination")
	ErrNegativeAddress      = errors.New("negative address")
	ErrAddressOutOfRange    = errors.New("address out of range")
	ErrPCOutOfRange         = errors.New("program counter out of range")
)

// ProgramError reports an invalid program. It is returned by Step and Run,
// and leaves the machine faulted: it will not execute further.
type ProgramError struct {
	PC   int64
	Word int64
	Err  error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("invalid program at pc %d (word %d): %v", e.PC, e.Word, e.Err)
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

// fault carries an invalid program condition from deep inside instruction
// execution up to Step, which converts it into a ProgramError.
type fault struct {
	err error
}

func raise(err error) {
	panic(fault{err})
}
