package insts

import "fmt"

// Instruction is a decoded (Opcode, operands) pair. It is the payload
// carried inline by an InsHead symbolic byte (package mach); there is no
// separate byte encoding to decode it from.
type Instruction struct {
	Op       Opcode
	Operands []Operand

	// Cond carries the condition code for Jcc and Setcc; zero value for
	// every other opcode.
	Cond Cond
}

// NewInstruction validates arity against Op.Arity() and returns the
// Instruction. An arity mismatch can only come from a misbuilt fixture or
// caller, since this core never builds an Instruction itself, only
// consumes ones an external loader already resolved; validating here
// gives tests and fixture loaders (mach/testdata) an early, precise
// failure instead of a confusing panic deep in the executor.
func NewInstruction(op Opcode, cond Cond, operands ...Operand) (Instruction, error) {
	if want := op.Arity(); want != len(operands) {
		return Instruction{}, fmt.Errorf("insts: %s expects %d operand(s), got %d", op, want, len(operands))
	}
	return Instruction{Op: op, Operands: operands, Cond: cond}, nil
}

// Src returns the lone operand of a one-operand instruction (Pushq, Popq,
// Jmp, Jcc, Setcc, Incq, Decq, Negq, Notq).
func (in Instruction) Src() Operand {
	return in.Operands[0]
}

// SrcDest returns (src, dest) for a two-operand instruction.
func (in Instruction) SrcDest() (src, dest Operand) {
	return in.Operands[0], in.Operands[1]
}

func (in Instruction) String() string {
	switch len(in.Operands) {
	case 0:
		return in.Op.String()
	case 1:
		return fmt.Sprintf("%s %s", in.Op, in.Operands[0])
	default:
		return fmt.Sprintf("%s %s, %s", in.Op, in.Operands[0], in.Operands[1])
	}
}
