package scene

// Value is the getter/setter/notification triple every bindable attribute
// exposes.
type Value[T any] interface {
	Get() T
	Set(T)
	Changed() *Signal[T]
}

// Property is a Value backed by a plain field. Set only notifies when the
// stored value actually changes.
type Property[T comparable] struct {
	value   T
	changed Signal[T]
}

// NewProperty returns a property holding v.
func NewProperty[T comparable](v T) *Property[T] {
	return &Property[T]{value: v}
}

func (p *Property[T]) Get() T {
	return p.value
}

func (p *Property[T]) Set(v T) {
	if p.value == v {
		return
	}
	p.value = v
	p.changed.Emit(v)
}

func (p *Property[T]) Changed() *Signal[T] {
	return &p.changed
}

// Bind copies src into dst now and on every later change of src. The returned
// function removes the binding.
func Bind[T any](src Value[T], dst func(T)) func() {
	if src == nil || dst == nil {
		return func() {}
	}
	dst(src.Get())
	c := src.Changed().Connect(dst)
	return func() { src.Changed().Disconnect(c) }
}
