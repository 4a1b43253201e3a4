package mach

import "fmt"

// FaultKind discriminates the invariant violations the executor can
// surface. All of them terminate simulation; none are recoverable.
type FaultKind uint8

const (
	// FaultNotInsHead means the byte at Rip is not an InsHead.
	FaultNotInsHead FaultKind = iota
	// FaultArity means the decoded instruction's operand count does not
	// match its opcode.
	FaultArity
	// FaultUnresolvedLabel means an operand still carries an unresolved
	// label at execute time.
	FaultUnresolvedLabel
	// FaultBadShiftSource means a shift amount operand was neither an Imm
	// nor the Rcx register.
	FaultBadShiftSource
	// FaultBadStoreTarget means store was called against an Imm operand.
	FaultBadStoreTarget
	// FaultBadLeaqSource means Leaq's source operand was not one of the
	// indirect forms.
	FaultBadLeaqSource
	// FaultUnknownOpcode means the decoded instruction's opcode has no
	// dispatch case.
	FaultUnknownOpcode
)

func (k FaultKind) String() string {
	switch k {
	case FaultNotInsHead:
		return "not an instruction head"
	case FaultArity:
		return "operand arity mismatch"
	case FaultUnresolvedLabel:
		return "unresolved label operand"
	case FaultBadShiftSource:
		return "shift amount not Imm or Rcx"
	case FaultBadStoreTarget:
		return "store to an immediate operand"
	case FaultBadLeaqSource:
		return "leaq source is not an indirect operand"
	case FaultUnknownOpcode:
		return "unknown opcode"
	default:
		return "unknown fault"
	}
}

// FaultError reports a malformed-instruction invariant violation.
type FaultError struct {
	Kind FaultKind
	Addr int64
	Msg  string
}

func (e *FaultError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("mach: fault at 0x%x: %s: %s", e.Addr, e.Kind, e.Msg)
	}
	return fmt.Sprintf("mach: fault at 0x%x: %s", e.Addr, e.Kind)
}
