package machine

import "fmt"

type Opcode int64

const (
	OpAdd            Opcode = 1
	OpMultiply       Opcode = 2
	OpInput          Opcode = 3
	OpOutput         Opcode = 4
	OpJumpTrue       Opcode = 5
	OpJumpFalse      Opcode = 6
	OpLessThan       Opcode = 7
	OpEqual          Opcode = 8
	OpChangeRelative Opcode = 9
	OpHalt           Opcode = 99
)

var opNames = map[Opcode]string{
	OpAdd:            "ADD",
	OpMultiply:       "MUL",
	OpInput:          "IN",
	OpOutput:         "OUT",
	OpJumpTrue:       "JT",
	OpJumpFalse:      "JF",
	OpLessThan:       "LT",
	OpEqual:          "EQ",
	OpChangeRelative: "ARB",
	OpHalt:           "HALT",
}

var opWidths = map[Opcode]int64{
	OpAdd:            4,
	OpMultiply:       4,
	OpInput:          2,
	OpOutput:         2,
	OpJumpTrue:       3,
	OpJumpFalse:      3,
	OpLessThan:       4,
	OpEqual:          4,
	OpChangeRelative: 2,
	OpHalt:           1,
}

func (op Opcode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int64(op))
}

// Width is the number of words the instruction occupies, opcode included.
func (op Opcode) Width() int64 {
	return opWidths[op]
}

// Mode is a parameter addressing mode.
type Mode int64

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("mode(%d)", int64(m))
	}
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [3]Mode
}

// Decode splits an instruction word into its opcode and parameter modes.
func Decode(word int64) (Instruction, error) {
	ins := Instruction{Op: Opcode(word % 100)}
	if _, ok := opNames[ins.Op]; !ok {
		return ins, fmt.Errorf("%w: %d", ErrUnknownOpcode, word%100)
	}
	div := int64(100)
	for i := range ins.Modes {
		m := Mode((word / div) % 10)
		if m != Position && m != Immediate && m != Relative {
			return ins, fmt.Errorf("%w: %d for parameter %d", ErrInvalidMode, int64(m), i+1)
		}
		ins.Modes[i] = m
		div *= 10
	}
	return ins, nil
}
