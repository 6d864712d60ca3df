package machine

import (
	"context"
	"errors"
	"fmt"
)

// StopReason tells why a machine is no longer running.
type StopReason uint8

const (
	Running StopReason = iota
	Halted
	IOClosed
	Faulted
)

func (r StopReason) String() string {
	switch r {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case IOClosed:
		return "io-closed"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Machine is one Intcode machine instance: a private memory, a program
// counter, a relative base register and an I/O capability.
//
// A Machine is driven by a single goroutine. Other goroutines interact with it
// only through its capability.
type Machine struct {
	mem     *Memory
	io      IO
	pc      int64
	relBase int64
	halted  bool
	reason  StopReason
	steps   uint64
}

// New returns a machine loaded with a copy of program that performs its I/O
// through io. Machines created from the same program do not share memory.
func New(program Program, io IO) *Machine {
	if io == nil {
		io = NoIO{}
	}
	return &Machine{
		mem: NewMemory(program),
		io:  io,
	}
}

func (m *Machine) Memory() *Memory        { return m.mem }
func (m *Machine) IO() IO                 { return m.io }
func (m *Machine) PC() int64              { return m.pc }
func (m *Machine) RelativeBase() int64    { return m.relBase }
func (m *Machine) Halted() bool           { return m.halted }
func (m *Machine) StopReason() StopReason { return m.reason }

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() uint64 { return m.steps }

// Faulted reports whether the machine stopped on an invalid program.
func (m *Machine) Faulted() bool { return m.reason == Faulted }

func (m *Machine) stop(reason StopReason) {
	m.halted = true
	m.reason = reason
}

// Step executes the instruction at the program counter.
// It returns a *ProgramError if the program is invalid; the machine is then
// halted in the Faulted state. I/O failures are not errors: they halt the
// machine. Stepping a halted machine does nothing.
func (m *Machine) Step() (outErr error) {
	if m.halted {
		return nil
	}
	pc := m.pc
	var word int64
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fault)
			if !ok {
				panic(r)
			}
			m.stop(Faulted)
			outErr = &ProgramError{PC: pc, Word: word, Err: f.err}
		}
	}()

	if pc < 0 || pc >= int64(m.mem.Len()) {
		raise(fmt.Errorf("%w: %d", ErrPCOutOfRange, pc))
	}
	word = m.mem.Read(pc)
	ins, err := Decode(word)
	if err != nil {
		raise(err)
	}
	m.steps++
	m.exec(ins)
	return nil
}

func (m *Machine) exec(ins Instruction) {
	switch ins.Op {
	case OpAdd, OpMultiply:
		a, b, dst := m.operand(ins, 0), m.operand(ins, 1), m.destination(ins, 2)
		if ins.Op == OpAdd {
			m.mem.Write(dst, a+b)
		} else {
			m.mem.Write(dst, a*b)
		}
	case OpLessThan, OpEqual:
		a, b, dst := m.operand(ins, 0), m.operand(ins, 1), m.destination(ins, 2)
		var ok bool
		if ins.Op == OpLessThan {
			ok = a < b
		} else {
			ok = a == b
		}
		m.mem.Write(dst, boolToWord(ok))
	case OpInput:
		dst := m.destination(ins, 0)
		v, err := m.io.Get()
		if err != nil {
			m.stop(IOClosed)
			return
		}
		m.mem.Write(dst, v)
	case OpOutput:
		if err := m.io.Put(m.operand(ins, 0)); err != nil {
			m.stop(IOClosed)
			return
		}
	case OpJumpTrue, OpJumpFalse:
		cond, target := m.operand(ins, 0), m.operand(ins, 1)
		if (cond != 0) == (ins.Op == OpJumpTrue) {
			m.pc = target
			return
		}
	case OpChangeRelative:
		m.relBase += m.operand(ins, 0)
	case OpHalt:
		m.stop(Halted)
		return
	}
	m.pc += ins.Op.Width()
}

func boolToWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) param(i int) int64 {
	return m.mem.Read(m.pc + int64(i) + 1)
}

// operand resolves parameter i to a value.
func (m *Machine) operand(ins Instruction, i int) int64 {
	p := m.param(i)
	switch ins.Modes[i] {
	case Immediate:
		return p
	case Relative:
		return m.mem.Read(p + m.relBase)
	default:
		return m.mem.Read(p)
	}
}

// destination resolves parameter i to the address an instruction writes to.
func (m *Machine) destination(ins Instruction, i int) int64 {
	p := m.param(i)
	var addr int64
	switch ins.Modes[i] {
	case Immediate:
		raise(fmt.Errorf("%w: parameter %d of %s", ErrImmediateDestination, i+1, ins.Op))
	case Relative:
		addr = p + m.relBase
	default:
		addr = p
	}
	if addr < 0 {
		raise(fmt.Errorf("%w: %d", ErrNegativeAddress, addr))
	}
	return addr
}

type closer interface {
	Close() error
}

// Run executes instructions until the machine halts, either on the halt
// instruction or because its capability failed. It returns nil in both cases.
// A *ProgramError is returned for invalid programs, and ctx.Err() if ctx is
// cancelled first.
//
// When Run returns, the capability is closed if it has a Close method, so that
// peers blocked on it observe the shutdown.
func (m *Machine) Run(ctx context.Context) error {
	defer func() {
		if c, ok := m.io.(closer); ok {
			_ = c.Close()
		}
	}()
	for !m.halted {
		// don't check the context on every instruction
		if m.steps%100 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// IsProgramError reports whether err is, or wraps, a *ProgramError.
func IsProgramError(err error) bool {
	var pe *ProgramError
	return errors.As(err, &pe)
}
