package mach

import "github.com/x86lite/x86lite/insts"

// EvalCond evaluates a condition code against the current flags. It is
// shared verbatim by Jcc and Setcc, the only two opcodes that branch on
// flag state rather than recompute it.
func EvalCond(cc insts.Cond, f Flags) bool {
	switch cc {
	case insts.Eq:
		return f.ZF
	case insts.Neq:
		return !f.ZF
	case insts.Lt:
		return f.SF != f.OF
	case insts.Ge:
		return f.SF == f.OF
	case insts.Le:
		return (f.SF != f.OF) || f.ZF
	case insts.Gt:
		return (f.SF == f.OF) && !f.ZF
	default:
		return false
	}
}
