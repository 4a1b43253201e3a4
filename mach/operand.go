package mach

import "github.com/x86lite/x86lite/insts"

// valueOf reads an operand's 64-bit value: the literal for Imm, the
// register contents for Reg, or an 8-byte memory read at the operand's
// effective address for the three indirect forms.
func (m *Machine) valueOf(op insts.Operand) (int64, error) {
	switch op.Kind {
	case insts.KindImm:
		return op.Imm, nil
	case insts.KindReg:
		return m.regs.Get(op.Reg), nil
	case insts.KindInd1, insts.KindInd2, insts.KindInd3:
		addr, err := m.effectiveAddress(op)
		if err != nil {
			return 0, err
		}
		return m.mem.DeserializeI64(addr)
	default:
		return 0, &FaultError{Kind: FaultUnresolvedLabel, Msg: "operand " + op.String() + " carries an unresolved label"}
	}
}

// store writes value to an operand's location: the register for Reg, or
// an 8-byte memory write at the operand's effective address for the
// three indirect forms. Storing to an Imm operand is an invariant
// violation.
func (m *Machine) store(op insts.Operand, value int64) error {
	switch op.Kind {
	case insts.KindReg:
		m.regs.Set(op.Reg, value)
		return nil
	case insts.KindInd1, insts.KindInd2, insts.KindInd3:
		addr, err := m.effectiveAddress(op)
		if err != nil {
			return err
		}
		return m.mem.SerializeI64(addr, value)
	case insts.KindImm:
		return &FaultError{Kind: FaultBadStoreTarget}
	default:
		return &FaultError{Kind: FaultUnresolvedLabel, Msg: "operand " + op.String() + " carries an unresolved label"}
	}
}

// effectiveAddress computes op's effective address against this
// machine's register file: the literal address for Ind1, the value held
// in the base register for Ind2, or base-plus-displacement for Ind3.
func (m *Machine) effectiveAddress(op insts.Operand) (int64, error) {
	switch op.Kind {
	case insts.KindInd1:
		return op.Addr, nil
	case insts.KindInd2:
		return m.regs.Get(op.Reg), nil
	case insts.KindInd3:
		return m.regs.Get(op.Reg) + op.Imm, nil
	default:
		return 0, &FaultError{Kind: FaultBadLeaqSource, Msg: "operand " + op.String() + " is not an indirect form"}
	}
}
