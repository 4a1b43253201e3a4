package mach

import (
	"fmt"

	"github.com/google/uuid"
)

// Machine is one independent x86lite instance: its own memory, register
// file, and flags, owned exclusively by whichever goroutine calls Step or
// Run. Multiple Machines may run concurrently (see package runner), but a
// single Machine is never shared between goroutines.
type Machine struct {
	id uuid.UUID

	mem  *Memory
	regs RegFile

	maxSteps uint64 // 0 means no limit
	stepsRun uint64
}

// Option is a functional option for configuring a Machine at
// construction time.
type Option func(*machineConfig)

type machineConfig struct {
	maxSteps    uint64
	stackTop    int64
	stackTopSet bool
}

// WithMaxSteps bounds Run/RunN against a non-halting program. A value of
// 0 (the default) means no limit.
func WithMaxSteps(n uint64) Option {
	return func(c *machineConfig) {
		c.maxSteps = n
	}
}

// WithStackTop overrides the default initial Rsp (MemTop-8), for tests
// that want a smaller or differently-placed stack.
func WithStackTop(addr int64) Option {
	return func(c *machineConfig) {
		c.stackTop = addr
		c.stackTopSet = true
	}
}

// NewMachine implements the load contract: it copies img's already-
// resolved text and data segments into memory starting at TextPos and
// DataPos respectively, sets Rip to Entry and Rsp to the top legal
// quadword (or the WithStackTop override), and leaves every other
// register and all flags zeroed.
func NewMachine(img Image, opts ...Option) (*Machine, error) {
	cfg := machineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Machine{
		id:       uuid.New(),
		mem:      NewMemory(),
		maxSteps: cfg.maxSteps,
	}

	if err := m.load(img); err != nil {
		return nil, err
	}

	m.regs.SetRip(img.Entry)
	if cfg.stackTopSet {
		m.regs.SetRsp(cfg.stackTop)
	} else {
		m.regs.SetRsp(MemTop - 8)
	}

	return m, nil
}

func (m *Machine) load(img Image) error {
	for i, b := range img.TextSeg {
		if err := m.mem.SetAt(img.TextPos+int64(i), b); err != nil {
			return fmt.Errorf("mach: loading text segment: %w", err)
		}
	}
	for i, b := range img.DataSeg {
		if err := m.mem.SetAt(img.DataPos+int64(i), b); err != nil {
			return fmt.Errorf("mach: loading data segment: %w", err)
		}
	}
	return nil
}

// ID returns the machine's instance identifier, stable for its lifetime.
func (m *Machine) ID() uuid.UUID { return m.id }

// Memory returns the machine's memory window.
func (m *Machine) Memory() *Memory { return m.mem }

// Regs returns the machine's register file.
func (m *Machine) Regs() *RegFile { return &m.regs }

// Run repeatedly steps the machine until Rip reaches ExitAddr, a fault
// occurs, or maxSteps is exceeded. It returns the accumulator value at
// halt.
func (m *Machine) Run() (int64, error) {
	for {
		if m.maxSteps > 0 && m.stepsRun >= m.maxSteps {
			return 0, fmt.Errorf("mach: exceeded max steps (%d) without halting", m.maxSteps)
		}

		result := m.Step()
		m.stepsRun++

		if result.Err != nil {
			return 0, result.Err
		}
		if result.Halted {
			return result.Rax, nil
		}
	}
}

// RunN steps the machine at most n times, returning early if it halts or
// faults first. It reports whether the machine halted within the budget.
func (m *Machine) RunN(n uint64) (halted bool, rax int64, err error) {
	for i := uint64(0); i < n; i++ {
		if m.maxSteps > 0 && m.stepsRun >= m.maxSteps {
			return false, 0, fmt.Errorf("mach: exceeded max steps (%d) without halting", m.maxSteps)
		}
		result := m.Step()
		m.stepsRun++
		if result.Err != nil {
			return false, 0, result.Err
		}
		if result.Halted {
			return true, result.Rax, nil
		}
	}
	return false, 0, nil
}
