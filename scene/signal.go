package scene

// Connection identifies a slot connected to a Signal.
type Connection uint64

type slot[T any] struct {
	id Connection
	fn func(T)
}

// Signal is a synchronous observer list. Slots run in connection order on the
// emitting goroutine.
type Signal[T any] struct {
	next  Connection
	slots []slot[T]
}

// Connect registers fn and returns a token for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) Connection {
	if s == nil || fn == nil {
		return 0
	}
	s.next++
	s.slots = append(s.slots, slot[T]{id: s.next, fn: fn})
	return s.next
}

// Disconnect removes a slot. Unknown tokens are ignored.
func (s *Signal[T]) Disconnect(c Connection) bool {
	if s == nil || c == 0 {
		return false
	}
	for i, sl := range s.slots {
		if sl.id == c {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every connected slot with v. Slots connected or disconnected
// while emitting take effect on the next Emit.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.slots) == 0 {
		return
	}
	slots := s.slots
	for _, sl := range slots {
		sl.fn(v)
	}
}

// Len reports the number of connected slots.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}
