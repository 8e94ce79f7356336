package util

//*******************************************
// flags
//*******************************************

// Flags is a per-id scratch array that remembers which ids were touched so
// that Reset only rewrites those.
type Flags[T any] struct {
	flags      []T
	touched    []bool
	touched_id List[int32]
	_default   T
}

func NewFlags[T any](size int32, _default T) Flags[T] {
	flags := make([]T, size)
	for i := range flags {
		flags[i] = _default
	}
	return Flags[T]{
		flags:      flags,
		touched:    make([]bool, size),
		touched_id: NewList[int32](100),
		_default:   _default,
	}
}

func (self *Flags[T]) Get(id int32) *T {
	if !self.touched[id] {
		self.touched[id] = true
		self.touched_id.Add(id)
	}
	return &self.flags[id]
}

func (self *Flags[T]) Size() int {
	return len(self.flags)
}

func (self *Flags[T]) Reset() {
	for _, id := range self.touched_id {
		self.flags[id] = self._default
		self.touched[id] = false
	}
	self.touched_id = self.touched_id[:0]
}
