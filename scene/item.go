// Package scene holds the declarative item tree bodies are bound to.
package scene

import "errors"

var ErrItemCycle = errors.New("scene: item cannot be its own ancestor")

// Item is a node of the scene tree. Geometry is in scene units with the origin
// at the item's top-left corner; rotation is in degrees, clockwise in the
// y-down scene.
type Item struct {
	Name string

	x        *Property[float64]
	y        *Property[float64]
	width    *Property[float64]
	height   *Property[float64]
	rotation *Property[float64]

	parent   *Item
	children []*Item

	complete  bool
	Completed Signal[*Item]
}

// NewItem creates an item with zero geometry.
func NewItem(name string) *Item {
	return &Item{
		Name:     name,
		x:        NewProperty(0.0),
		y:        NewProperty(0.0),
		width:    NewProperty(0.0),
		height:   NewProperty(0.0),
		rotation: NewProperty(0.0),
	}
}

func (it *Item) X() float64        { return it.x.Get() }
func (it *Item) Y() float64        { return it.y.Get() }
func (it *Item) Width() float64    { return it.width.Get() }
func (it *Item) Height() float64   { return it.height.Get() }
func (it *Item) Rotation() float64 { return it.rotation.Get() }

func (it *Item) SetX(v float64)        { it.x.Set(v) }
func (it *Item) SetY(v float64)        { it.y.Set(v) }
func (it *Item) SetWidth(v float64)    { it.width.Set(v) }
func (it *Item) SetHeight(v float64)   { it.height.Set(v) }
func (it *Item) SetRotation(v float64) { it.rotation.Set(v) }

// SetPosition moves the item; x is applied before y.
func (it *Item) SetPosition(x, y float64) {
	it.x.Set(x)
	it.y.Set(y)
}

// SetSize resizes the item; width is applied before height.
func (it *Item) SetSize(w, h float64) {
	it.width.Set(w)
	it.height.Set(h)
}

func (it *Item) XProperty() Value[float64]        { return it.x }
func (it *Item) YProperty() Value[float64]        { return it.y }
func (it *Item) WidthProperty() Value[float64]    { return it.width }
func (it *Item) HeightProperty() Value[float64]   { return it.height }
func (it *Item) RotationProperty() Value[float64] { return it.rotation }

// Parent returns the parent item, or nil for a root.
func (it *Item) Parent() *Item {
	return it.parent
}

// Children returns a copy of the child list in insertion order.
func (it *Item) Children() []*Item {
	out := make([]*Item, 0, len(it.children))
	return append(out, it.children...)
}

// SetParent reparents the item. A nil parent detaches it.
func (it *Item) SetParent(parent *Item) error {
	for p := parent; p != nil; p = p.parent {
		if p == it {
			return ErrItemCycle
		}
	}
	if it.parent != nil {
		siblings := it.parent.children
		for i, c := range siblings {
			if c == it {
				it.parent.children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
	}
	it.parent = parent
	if parent != nil {
		parent.children = append(parent.children, it)
	}
	return nil
}

// IsComplete reports whether the item finished construction and its geometry
// can be trusted.
func (it *Item) IsComplete() bool {
	return it.complete
}

// ComponentComplete marks construction finished. Only the first call emits
// Completed.
func (it *Item) ComponentComplete() {
	if it.complete {
		return
	}
	it.complete = true
	it.Completed.Emit(it)
}

// Walk visits it and its descendants depth first.
func (it *Item) Walk(fn func(*Item)) {
	if it == nil || fn == nil {
		return
	}
	fn(it)
	for _, c := range it.children {
		c.Walk(fn)
	}
}
