// Package mach implements the x86lite fetch-decode-execute core: a fixed
// memory window, a 17-register file with condition flags, operand
// resolution across five addressing modes, and the instruction executor
// and run loop that tie them together.
package mach

import (
	"fmt"

	"github.com/x86lite/x86lite/insts"
)

// MemBot and MemTop bound the simulator's byte-addressable window. Any
// address outside [MemBot, MemTop) is invalid.
const (
	MemBot  int64 = 0x400000
	MemTop  int64 = 0x410000
	MemSize       = MemTop - MemBot

	// InsSize is the width of one instruction slot: one InsHead byte
	// followed by seven InsTail bytes.
	InsSize = 8

	// ExitAddr is the halt sentinel. It lies outside [MemBot, MemTop) by
	// construction, so it can never collide with a real address.
	ExitAddr int64 = 0xFDEAD
)

// SymbolicByte is one memory cell. Unlike a real byte array, a cell can
// carry a fully decoded Instruction instead of a raw value; decoding an
// instruction is a type switch on the cell at Rip, not a bit-field
// extraction.
type SymbolicByte struct {
	kind byteKind
	ins  insts.Instruction
	raw  byte
}

type byteKind uint8

const (
	// kindRaw is the zero value so a zero-valued Memory reads as all
	// Raw(0), matching NewMemory's contract.
	kindRaw byteKind = iota
	kindInsHead
	kindInsTail
)

// InsHead wraps in as the first byte of an instruction slot.
func InsHead(in insts.Instruction) SymbolicByte { return SymbolicByte{kind: kindInsHead, ins: in} }

// InsTail returns one of the remaining seven bytes of an instruction slot.
func InsTail() SymbolicByte { return SymbolicByte{kind: kindInsTail} }

// Raw wraps a plain data byte.
func Raw(b byte) SymbolicByte { return SymbolicByte{kind: kindRaw, raw: b} }

// Instruction reports whether the cell is an InsHead and, if so, the
// instruction it carries.
func (b SymbolicByte) Instruction() (insts.Instruction, bool) {
	if b.kind != kindInsHead {
		return insts.Instruction{}, false
	}
	return b.ins, true
}

// IsInsTail reports whether the cell is an instruction-slot continuation
// byte.
func (b SymbolicByte) IsInsTail() bool { return b.kind == kindInsTail }

// RawByte returns the cell's value as a plain byte: the literal value for
// a Raw cell, zero for anything else (InsHead/InsTail carry no byte-level
// value to read). This mirrors deserialize_i64's rule that non-Raw bytes
// read as zero.
func (b SymbolicByte) RawByte() byte {
	if b.kind != kindRaw {
		return 0
	}
	return b.raw
}

// Memory is the fixed-size symbolic byte array backing a Machine.
type Memory struct {
	cells [MemSize]SymbolicByte
}

// NewMemory returns a zero-valued memory window: every cell reads as
// Raw(0).
func NewMemory() *Memory {
	return &Memory{}
}

// AddressToIndex validates addr against [MemBot, MemTop) and returns its
// offset into the backing array.
func AddressToIndex(addr int64) (int, error) {
	if addr < MemBot || addr >= MemTop {
		return 0, &SegfaultError{Addr: addr}
	}
	return int(addr - MemBot), nil
}

// At returns the symbolic byte at addr.
func (m *Memory) At(addr int64) (SymbolicByte, error) {
	idx, err := AddressToIndex(addr)
	if err != nil {
		return SymbolicByte{}, err
	}
	return m.cells[idx], nil
}

// SetAt writes a single symbolic byte at addr.
func (m *Memory) SetAt(addr int64, b SymbolicByte) error {
	idx, err := AddressToIndex(addr)
	if err != nil {
		return err
	}
	m.cells[idx] = b
	return nil
}

// DeserializeI64 reads eight bytes starting at addr, little-endian, and
// reassembles them into a signed 64-bit value. Any byte in the span that
// is not Raw contributes zero, per RawByte's rule; this is always an
// 8-wide read regardless of operand kind.
func (m *Memory) DeserializeI64(addr int64) (int64, error) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		b, err := m.At(addr + int64(i))
		if err != nil {
			return 0, err
		}
		buf[i] = b.RawByte()
	}
	return deserializeI64(buf), nil
}

// SerializeI64 writes v as eight little-endian Raw bytes starting at addr.
func (m *Memory) SerializeI64(addr int64, v int64) error {
	buf := serializeI64(v)
	for i, b := range buf {
		if err := m.SetAt(addr+int64(i), Raw(b)); err != nil {
			return err
		}
	}
	return nil
}

// SerializeString writes s as len(s)+1 Raw bytes starting at addr: the
// string's bytes followed by a zero terminator.
func (m *Memory) SerializeString(addr int64, s string) error {
	for i := 0; i < len(s); i++ {
		if err := m.SetAt(addr+int64(i), Raw(s[i])); err != nil {
			return err
		}
	}
	return m.SetAt(addr+int64(len(s)), Raw(0))
}

// SerializeIns writes in as one InsHead byte followed by seven InsTail
// bytes starting at addr.
func (m *Memory) SerializeIns(addr int64, in insts.Instruction) error {
	if err := m.SetAt(addr, InsHead(in)); err != nil {
		return err
	}
	for i := int64(1); i < InsSize; i++ {
		if err := m.SetAt(addr+i, InsTail()); err != nil {
			return err
		}
	}
	return nil
}

func deserializeI64(b [8]byte) int64 {
	var u uint64
	for i := 7; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return int64(u)
}

func serializeI64(v int64) [8]byte {
	u := uint64(v)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(u)
		u >>= 8
	}
	return b
}

// SegfaultError reports an out-of-range memory access.
type SegfaultError struct {
	Addr int64
}

func (e *SegfaultError) Error() string {
	return fmt.Sprintf("mach: segmentation fault at address 0x%x", e.Addr)
}
