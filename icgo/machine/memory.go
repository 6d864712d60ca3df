package machine

import (
	"fmt"
	"math"
)

// Program is an Intcode program: the initial contents of a machine's memory.
type Program []int64

// Clone returns a copy of the program that shares no storage with p.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	copy(out, p)
	return out
}

// Memory is the unified code and data store of a machine.
// Any access past the current end grows the store, zero-filling the new cells,
// so the address space behaves as if it were unbounded.
// Addresses above MaxAddress are rejected as an invalid program.
type Memory struct {
	cells []int64
}

// MaxAddress is the highest addressable cell, 512 MiB of memory.
const MaxAddress int64 = 1<<26 - 1

func NewMemory(p Program) *Memory {
	return &Memory{cells: p.Clone()}
}

func (m *Memory) Len() int {
	return len(m.cells)
}

func checkAddress(addr int64) error {
	switch {
	case addr < 0:
		return fmt.Errorf("%w: %d", ErrNegativeAddress, addr)
	case addr > MaxAddress:
		return fmt.Errorf("%w: %d", ErrAddressOutOfRange, addr)
	}
	return nil
}

func (m *Memory) grow(addr int64) {
	if err := checkAddress(addr); err != nil {
		raise(err)
	}
	if addr < int64(len(m.cells)) {
		return
	}
	if addr < int64(cap(m.cells)) {
		m.cells = m.cells[:addr+1]
		return
	}
	cells := make([]int64, addr+1, min(growCap(int64(len(m.cells)), addr+1), MaxAddress+1))
	copy(cells, m.cells)
	m.cells = cells
}

// growCap doubles the capacity until it covers need.
func growCap(have, need int64) int64 {
	c := have
	if c < 16 {
		c = 16
	}
	for c < need {
		if c > math.MaxInt64/2 {
			return need
		}
		c *= 2
	}
	return c
}

// Read returns the value at addr, growing the store if addr is past its end.
// It is meant for instruction execution: an addr that is negative or above
// MaxAddress panics, and only Step recovers that panic. Use Load elsewhere.
func (m *Memory) Read(addr int64) int64 {
	m.grow(addr)
	return m.cells[addr]
}

// Write stores v at addr, growing the store if addr is past its end.
// It panics on an invalid addr like Read; use Store elsewhere.
func (m *Memory) Write(addr int64, v int64) {
	m.grow(addr)
	m.cells[addr] = v
}

// Load is Read with an error instead of a panic for an invalid addr.
func (m *Memory) Load(addr int64) (int64, error) {
	if err := checkAddress(addr); err != nil {
		return 0, err
	}
	return m.Read(addr), nil
}

// Store is Write with an error instead of a panic for an invalid addr.
func (m *Memory) Store(addr int64, v int64) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	m.Write(addr, v)
	return nil
}

// Snapshot returns a copy of the current contents.
func (m *Memory) Snapshot() []int64 {
	out := make([]int64, len(m.cells))
	copy(out, m.cells)
	return out
}
