package physics

import "strconv"

// Handle is a generational reference to a body registered with a World. A
// stale handle never resolves, even after its slot is reused.
type Handle uint64

type handleID uint32
type generation uint32

const handleIDBits = 32

func makeHandle(id handleID, gen generation) Handle {
	return Handle(uint64(gen)<<handleIDBits | uint64(id))
}

func (h Handle) id() handleID {
	return handleID(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> handleIDBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

func (h Handle) Valid() bool {
	return h.id() > 0
}

// registry tracks body slots, their generations and free ids. Slot order is
// registration order until a slot is reused.
type registry struct {
	gen   []generation
	slots []*Body
	free  []handleID
	order []Handle
}

func (r *registry) add(b *Body) Handle {
	var id handleID
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gen = append(r.gen, 0)
		r.slots = append(r.slots, nil)
		id = handleID(len(r.gen))
	}
	r.slots[id-1] = b
	h := makeHandle(id, r.gen[id-1])
	r.order = append(r.order, h)
	return h
}

func (r *registry) remove(h Handle) bool {
	if !r.alive(h) {
		return false
	}
	idx := h.id() - 1
	r.gen[idx]++
	r.slots[idx] = nil
	r.free = append(r.free, h.id())
	for i, o := range r.order {
		if o == h {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry) alive(h Handle) bool {
	id := h.id()
	if id == 0 || int(id) > len(r.gen) {
		return false
	}
	return r.gen[id-1] == h.generation()
}

func (r *registry) get(h Handle) (*Body, bool) {
	if !r.alive(h) {
		return nil, false
	}
	return r.slots[h.id()-1], true
}

// bodies returns live bodies in registration order.
func (r *registry) bodies() []*Body {
	out := make([]*Body, 0, len(r.order))
	for _, h := range r.order {
		if b, ok := r.get(h); ok {
			out = append(out, b)
		}
	}
	return out
}

func (r *registry) len() int {
	return len(r.order)
}
