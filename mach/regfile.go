package mach

import "github.com/x86lite/x86lite/insts"

// RegFile holds the 17-entry signed 64-bit register array plus the three
// condition flags.
type RegFile struct {
	regs  [insts.NumRegs]int64
	Flags Flags
}

// Flags holds the three mutable condition-flag booleans.
type Flags struct {
	OF bool
	SF bool
	ZF bool
}

// Get reads register r.
func (f *RegFile) Get(r insts.RegID) int64 {
	return f.regs[r]
}

// Set writes register r.
func (f *RegFile) Set(r insts.RegID, v int64) {
	f.regs[r] = v
}

// Rip returns the instruction pointer.
func (f *RegFile) Rip() int64 { return f.regs[insts.Rip] }

// SetRip sets the instruction pointer.
func (f *RegFile) SetRip(v int64) { f.regs[insts.Rip] = v }

// Rsp returns the stack pointer.
func (f *RegFile) Rsp() int64 { return f.regs[insts.Rsp] }

// SetRsp sets the stack pointer.
func (f *RegFile) SetRsp(v int64) { f.regs[insts.Rsp] = v }

// Rax returns the accumulator register, the run loop's result value.
func (f *RegFile) Rax() int64 { return f.regs[insts.Rax] }
