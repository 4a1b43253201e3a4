package mach

import (
	"fmt"

	"github.com/x86lite/x86lite/insts"
)

// StepResult reports the outcome of a single Step, matching the run
// loop's need to distinguish "keep going", "halted", and "faulted"
// without the caller inspecting Rip directly.
type StepResult struct {
	// Halted is true once Rip reaches ExitAddr. Rax is meaningless when
	// Halted is false.
	Halted bool

	// Rax is the accumulator value, valid only when Halted is true.
	Rax int64

	// Err is set on a segfault or malformed-instruction fault. Halted is
	// always false when Err is non-nil.
	Err error
}

// Step executes exactly one instruction: fetch, resolve operands,
// dispatch, then advance Rip by InsSize unless the instruction itself
// set it (any jump, call, or ret).
func (m *Machine) Step() StepResult {
	ip := m.regs.Rip()
	if ip == ExitAddr {
		return StepResult{Halted: true, Rax: m.regs.Rax()}
	}

	cell, err := m.mem.At(ip)
	if err != nil {
		return StepResult{Err: err}
	}
	in, ok := cell.Instruction()
	if !ok {
		return StepResult{Err: &FaultError{Kind: FaultNotInsHead, Addr: ip}}
	}

	jumped, err := m.execute(ip, in)
	if err != nil {
		return StepResult{Err: err}
	}
	if !jumped {
		m.regs.SetRip(ip + InsSize)
	}
	return StepResult{}
}

// execute dispatches a decoded instruction and reports whether it set
// Rip itself (so Step should not also advance it).
func (m *Machine) execute(ip int64, in insts.Instruction) (jumped bool, err error) {
	if want := in.Op.Arity(); want != len(in.Operands) {
		return false, &FaultError{Kind: FaultArity, Addr: ip, Msg: fmt.Sprintf("%s wants %d operand(s), got %d", in.Op, want, len(in.Operands))}
	}

	switch in.Op {
	case insts.Movq:
		src, dest := in.SrcDest()
		v, err := m.valueOf(src)
		if err != nil {
			return false, err
		}
		return false, m.store(dest, v)

	case insts.Leaq:
		src, dest := in.SrcDest()
		addr, err := m.effectiveAddress(src)
		if err != nil {
			return false, err
		}
		return false, m.store(dest, addr)

	case insts.Addq:
		return false, m.binaryArith(in, func(dest, src int64) (int64, Flags) {
			r := dest + src
			return r, addFlags(dest, src, r)
		})
	case insts.Subq:
		return false, m.binaryArith(in, func(dest, src int64) (int64, Flags) {
			r := dest - src
			return r, subFlags(dest, src, r)
		})
	case insts.Imulq:
		return false, m.binaryArithWithOld(in, func(dest, src int64, old Flags) (int64, Flags) {
			r := dest * src
			return r, imulFlags(old, dest, src)
		})
	case insts.Xorq:
		return false, m.binaryArith(in, func(dest, src int64) (int64, Flags) {
			r := dest ^ src
			return r, logicFlags(r)
		})
	case insts.Orq:
		return false, m.binaryArith(in, func(dest, src int64) (int64, Flags) {
			r := dest | src
			return r, logicFlags(r)
		})
	case insts.Andq:
		return false, m.binaryArith(in, func(dest, src int64) (int64, Flags) {
			r := dest & src
			return r, logicFlags(r)
		})

	case insts.Shlq:
		return false, m.shift(in, func(dest int64, amt uint64, old Flags) (int64, Flags) {
			r := dest << amt
			return r, shlFlags(old, dest, amt, r)
		})
	case insts.Shrq:
		return false, m.shift(in, func(dest int64, amt uint64, old Flags) (int64, Flags) {
			r := int64(uint64(dest) >> amt)
			return r, shrFlags(old, dest, amt, r)
		})
	case insts.Sarq:
		return false, m.shift(in, func(dest int64, amt uint64, old Flags) (int64, Flags) {
			r := dest >> amt
			return r, sarFlags(old, amt, r)
		})

	case insts.Incq:
		return false, m.unary(in, func(dest int64) (int64, Flags) {
			r := dest + 1
			return r, addFlags(dest, 1, r)
		})
	case insts.Decq:
		return false, m.unary(in, func(dest int64) (int64, Flags) {
			r := dest - 1
			return r, subFlags(dest, 1, r)
		})
	case insts.Notq:
		return false, m.unary(in, func(dest int64) (int64, Flags) {
			r := ^dest
			return r, notFlags(r)
		})
	case insts.Negq:
		return false, m.unary(in, func(dest int64) (int64, Flags) {
			r := -dest
			return r, negFlags(dest, r)
		})

	case insts.Cmpq:
		src, dest := in.SrcDest()
		d, err := m.valueOf(dest)
		if err != nil {
			return false, err
		}
		s, err := m.valueOf(src)
		if err != nil {
			return false, err
		}
		m.regs.Flags = subFlags(d, s, d-s)
		return false, nil

	case insts.Pushq:
		v, err := m.valueOf(in.Src())
		if err != nil {
			return false, err
		}
		sp := m.regs.Rsp() - 8
		m.regs.SetRsp(sp)
		return false, m.mem.SerializeI64(sp, v)

	case insts.Popq:
		sp := m.regs.Rsp()
		v, err := m.mem.DeserializeI64(sp)
		if err != nil {
			return false, err
		}
		m.regs.SetRsp(sp + 8)
		return false, m.store(in.Src(), v)

	case insts.Callq:
		target, err := m.valueOf(in.Src())
		if err != nil {
			return false, err
		}
		sp := m.regs.Rsp() - 8
		m.regs.SetRsp(sp)
		if err := m.mem.SerializeI64(sp, ip+InsSize); err != nil {
			return false, err
		}
		m.regs.SetRip(target)
		return true, nil

	case insts.Retq:
		sp := m.regs.Rsp()
		target, err := m.mem.DeserializeI64(sp)
		if err != nil {
			return false, err
		}
		m.regs.SetRsp(sp + 8)
		m.regs.SetRip(target)
		return true, nil

	case insts.Jmp:
		target, err := m.valueOf(in.Src())
		if err != nil {
			return false, err
		}
		m.regs.SetRip(target)
		return true, nil

	case insts.Jcc:
		if !EvalCond(in.Cond, m.regs.Flags) {
			return false, nil
		}
		target, err := m.valueOf(in.Src())
		if err != nil {
			return false, err
		}
		m.regs.SetRip(target)
		return true, nil

	case insts.Setcc:
		v := int64(0)
		if EvalCond(in.Cond, m.regs.Flags) {
			v = 1
		}
		return false, m.store(in.Src(), v)

	default:
		return false, &FaultError{Kind: FaultUnknownOpcode, Addr: ip, Msg: in.Op.String()}
	}
}

// binaryArith implements the common two-operand (src, dest) arithmetic
// shape: read dest and src, compute the result and flags, commit both.
func (m *Machine) binaryArith(in insts.Instruction, f func(dest, src int64) (int64, Flags)) error {
	src, dest := in.SrcDest()
	d, err := m.valueOf(dest)
	if err != nil {
		return err
	}
	s, err := m.valueOf(src)
	if err != nil {
		return err
	}
	r, flags := f(d, s)
	m.regs.Flags = flags
	return m.store(dest, r)
}

// binaryArithWithOld is binaryArith for opcodes whose flag rule needs the
// pre-existing flags (Imulq leaves SF/ZF untouched).
func (m *Machine) binaryArithWithOld(in insts.Instruction, f func(dest, src int64, old Flags) (int64, Flags)) error {
	src, dest := in.SrcDest()
	d, err := m.valueOf(dest)
	if err != nil {
		return err
	}
	s, err := m.valueOf(src)
	if err != nil {
		return err
	}
	r, flags := f(d, s, m.regs.Flags)
	m.regs.Flags = flags
	return m.store(dest, r)
}

// unary implements the in-place one-operand shape (Incq/Decq/Notq/Negq).
func (m *Machine) unary(in insts.Instruction, f func(dest int64) (int64, Flags)) error {
	dest := in.Src()
	d, err := m.valueOf(dest)
	if err != nil {
		return err
	}
	r, flags := f(d)
	m.regs.Flags = flags
	return m.store(dest, r)
}

// shift implements Shlq/Shrq/Sarq: the amount must come from an Imm or
// from Rcx, never another register, and is truncated to the low 6 bits
// before use.
func (m *Machine) shift(in insts.Instruction, f func(dest int64, amt uint64, old Flags) (int64, Flags)) error {
	src, dest := in.SrcDest()
	if src.Kind != insts.KindImm && !(src.Kind == insts.KindReg && src.Reg == insts.Rcx) {
		return &FaultError{Kind: FaultBadShiftSource, Msg: "shift amount must be an immediate or Rcx"}
	}
	amtVal, err := m.valueOf(src)
	if err != nil {
		return err
	}
	amt := uint64(amtVal) & 63

	d, err := m.valueOf(dest)
	if err != nil {
		return err
	}
	r, flags := f(d, amt, m.regs.Flags)
	m.regs.Flags = flags
	return m.store(dest, r)
}
