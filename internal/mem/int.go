package mem

import "sort"

// Ints implements an integer cell memory, allocated lazily in fixed size
// pages keyed by page number. Any address never stored to reads as 0.
type Ints struct {
	// PageSize specifies the length for newly allocated pages; it must not
	// change once a page has been allocated.
	PageSize uint

	// Limit specifies the highest addressable cell, past which any store or
	// load results in a LimitError; 0 means no limit.
	Limit uint

	pages map[uint][]int
}

// Reset drops all pages, returning every cell to 0.
func (m *Ints) Reset() {
	m.pages = nil
}

// Size returns an address one position higher than the last position in the
// highest page allocated so far.
func (m *Ints) Size() uint {
	var size uint
	for id := range m.pages {
		if end := (id + 1) * m.pageSize(); end > size {
			size = end
		}
	}
	return size
}

// Load returns a single value from the given address.
// Returns an error if addr exceeds any Limit.
func (m *Ints) Load(addr uint) (int, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	if len(m.pages) == 0 {
		return 0, nil
	}
	size := m.pageSize()
	if page := m.pages[addr/size]; page != nil {
		return page[addr%size], nil
	}
	return 0, nil
}

// Stor stores any values at addr, allocating pages as necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Ints) Stor(addr uint, values ...int) error {
	if len(values) == 0 {
		return nil
	}
	if err := m.checkLimit(addr+uint(len(values))-1, "stor"); err != nil {
		return err
	}
	size := m.pageSize()
	if m.pages == nil {
		m.pages = make(map[uint][]int)
	}
	for len(values) > 0 {
		id, off := addr/size, addr%size
		page := m.pages[id]
		if page == nil {
			page = make([]int, size)
			m.pages[id] = page
		}
		n := copy(page[off:], values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

// Cells returns every non-zero cell in ascending address order.
func (m *Ints) Cells() []Cell {
	ids := make([]uint, 0, len(m.pages))
	for id := range m.pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var cells []Cell
	size := m.pageSize()
	for _, id := range ids {
		base := id * size
		for i, val := range m.pages[id] {
			if val != 0 {
				cells = append(cells, Cell{base + uint(i), val})
			}
		}
	}
	return cells
}
