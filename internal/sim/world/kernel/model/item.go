package model

// Item is a coin travelling across the grid.
type Item struct {
	ID                uint64
	Pos               Vec2i
	Value             int
	ProcessedThisTick bool
	MergedThisTick    bool
}

// ItemSet keeps items in insertion order. That order is the collection order
// the merge rule relies on.
type ItemSet struct {
	items  []*Item
	nextID uint64
}

func NewItemSet() *ItemSet { return &ItemSet{nextID: 1} }

func (s *ItemSet) Len() int { return len(s.items) }

// All returns the live slice. Callers must not append to it.
func (s *ItemSet) All() []*Item { return s.items }

func (s *ItemSet) At(i int) *Item { return s.items[i] }

func (s *ItemSet) NextID() uint64 { return s.nextID }

func (s *ItemSet) SetNextID(id uint64) {
	if id == 0 {
		id = 1
	}
	s.nextID = id
}

// Spawn appends a new item and returns it.
func (s *ItemSet) Spawn(pos Vec2i, value int) *Item {
	it := &Item{ID: s.nextID, Pos: pos, Value: value}
	s.nextID++
	s.items = append(s.items, it)
	return it
}

// Restore appends an item with its persisted id, keeping the id counter ahead of it.
func (s *ItemSet) Restore(it Item) *Item {
	c := it
	s.items = append(s.items, &c)
	if c.ID >= s.nextID {
		s.nextID = c.ID + 1
	}
	return &c
}

// RemoveAt deletes the i-th item, preserving the order of the rest.
func (s *ItemSet) RemoveAt(i int) {
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
}

// Retain keeps only items for which keep returns true, preserving order.
func (s *ItemSet) Retain(keep func(*Item) bool) int {
	n := 0
	for _, it := range s.items {
		if keep(it) {
			s.items[n] = it
			n++
		}
	}
	removed := len(s.items) - n
	for i := n; i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = s.items[:n]
	return removed
}

// OnCell returns the items at pos in collection order.
func (s *ItemSet) OnCell(pos Vec2i) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.Pos == pos {
			out = append(out, it)
		}
	}
	return out
}

func (s *ItemSet) Reset() {
	s.items = nil
	s.nextID = 1
}
