// Package mem provides the sparse, zero-initialized cell memory used by DUP
// programs for string storage and scratch variables.
package mem

import "fmt"

// DefaultPageSize provides a default for Ints.PageSize.
const DefaultPageSize = 256

// LimitError indicates that a memory operation, like load or store, exceeded a limit.
type LimitError struct {
	Addr uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v", lim.Op, lim.Addr)
}

// Cell is a single non-zero memory value and its address.
type Cell struct {
	Addr  uint
	Value int
}

func (m *Ints) checkLimit(addr uint, op string) error {
	if maxSize := m.Limit; maxSize != 0 && addr > maxSize {
		return LimitError{addr, op}
	}
	return nil
}

func (m *Ints) pageSize() uint {
	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}
	return m.PageSize
}
