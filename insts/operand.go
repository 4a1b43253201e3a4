package insts

import "fmt"

// RegID indexes the 17-entry register file.
type RegID uint8

// General-purpose and special registers, in fixed enumeration order.
const (
	Rax RegID = iota
	Rbx
	Rcx
	Rdx
	Rsi
	Rdi
	Rbp
	Rsp
	R08
	R09
	R10
	R11
	R12
	R13
	R14
	R15
	Rip
)

// NumRegs is the size of the register file, including Rip.
const NumRegs = 17

func (r RegID) String() string {
	names := [NumRegs]string{
		"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
		"r08", "r09", "r10", "r11", "r12", "r13", "r14", "r15", "rip",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "reg?"
}

// OperandKind discriminates the five operand forms.
type OperandKind uint8

const (
	KindImm  OperandKind = iota // Imm(i64) — literal constant.
	KindReg                     // Reg(r) — a register.
	KindInd1                    // Ind1(i64) — memory at absolute address.
	KindInd2                    // Ind2(r) — memory at address held in register r.
	KindInd3                    // Ind3(i64, r) — memory at address r + displacement.
	// kindLabel marks an operand that still carries an unresolved label.
	// There is no assembler/linker here to resolve it; an Instruction
	// carrying a label-bearing operand at execute time is an invariant
	// violation the executor must reject.
	kindLabel
)

// Operand is one of the five addressing-mode variants. Only the fields
// relevant to Kind are meaningful; this uses a flat struct rather than a
// tagged union of distinct Go types because every consumer (value lookup,
// store, effective-address computation) switches on Kind exactly once and
// wants direct field access afterward.
type Operand struct {
	Kind OperandKind

	Imm  int64 // KindImm: the literal. KindInd3: the displacement.
	Reg  RegID // KindReg, KindInd2, KindInd3: the register.
	Addr int64 // KindInd1: the absolute address.

	Label string // kindLabel: the unresolved symbol name, for fault text.
}

// ImmOperand builds an Imm(n) operand.
func ImmOperand(n int64) Operand { return Operand{Kind: KindImm, Imm: n} }

// RegOperand builds a Reg(r) operand.
func RegOperand(r RegID) Operand { return Operand{Kind: KindReg, Reg: r} }

// Ind1Operand builds an Ind1(a) operand: memory at the absolute address a.
func Ind1Operand(a int64) Operand { return Operand{Kind: KindInd1, Addr: a} }

// Ind2Operand builds an Ind2(r) operand: memory at the address held in r.
func Ind2Operand(r RegID) Operand { return Operand{Kind: KindInd2, Reg: r} }

// Ind3Operand builds an Ind3(d, r) operand: memory at r + d.
func Ind3Operand(d int64, r RegID) Operand { return Operand{Kind: KindInd3, Imm: d, Reg: r} }

// LabelOperand builds an operand still carrying an unresolved label. Only
// an external assembler/linker would ever produce one; it exists so that
// an implementation can reject it with a named, testable fault instead of
// silently misinterpreting garbage bits as an address.
func LabelOperand(name string) Operand { return Operand{Kind: kindLabel, Label: name} }

// Unresolved reports whether the operand still carries an unresolved
// label rather than a concrete value.
func (o Operand) Unresolved() bool { return o.Kind == kindLabel }

func (o Operand) String() string {
	switch o.Kind {
	case KindImm:
		return fmt.Sprintf("$%d", o.Imm)
	case KindReg:
		return "%" + o.Reg.String()
	case KindInd1:
		return fmt.Sprintf("0x%x", o.Addr)
	case KindInd2:
		return fmt.Sprintf("(%%%s)", o.Reg.String())
	case KindInd3:
		return fmt.Sprintf("%d(%%%s)", o.Imm, o.Reg.String())
	case kindLabel:
		return "<unresolved:" + o.Label + ">"
	default:
		return "?"
	}
}
