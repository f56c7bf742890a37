package physics

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/scene"
)

// ShapeKind selects the collision geometry of a fixture.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
	ShapePolygon
	ShapeEdge
	ShapeChain
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	case ShapeEdge:
		return "edge"
	case ShapeChain:
		return "chain"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ParseShapeKind accepts the names produced by String.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "":
		return ShapeBox, nil
	case "circle":
		return ShapeCircle, nil
	case "polygon":
		return ShapePolygon, nil
	case "edge":
		return ShapeEdge, nil
	case "chain":
		return ShapeChain, nil
	}
	return ShapeBox, fmt.Errorf("physics: unknown shape %q", s)
}

const (
	defaultFriction   = 0.2
	defaultCategories = 1
)

// Fixture is the collision shape adapter attached to a Body. All coordinates
// are local to the body's item.
type Fixture struct {
	kind ShapeKind

	// Box: X, Y, Width, Height; zero size means the item's size.
	// Circle: X, Y is the center.
	x, y          float64
	width, height float64
	radius        float64
	vertices      []cp.Vector
	loop          bool

	density      float64
	friction     float64
	restitution  float64
	sensor       bool
	categories   uint
	collidesWith uint
	groupIndex   uint

	body   *Body
	shapes []*cp.Shape

	DensityChanged     scene.Signal[float64]
	FrictionChanged    scene.Signal[float64]
	RestitutionChanged scene.Signal[float64]
	SensorChanged      scene.Signal[bool]
	FilterChanged      scene.Signal[*Fixture]
}

func newFixture(kind ShapeKind) *Fixture {
	return &Fixture{
		kind:         kind,
		friction:     defaultFriction,
		categories:   defaultCategories,
		collidesWith: cp.ALL_CATEGORIES,
	}
}

// NewBox returns a rectangle fixture with its top-left corner at (x, y). A
// zero width or height follows the body item's size when attached.
func NewBox(x, y, width, height float64) *Fixture {
	f := newFixture(ShapeBox)
	f.x, f.y, f.width, f.height = x, y, width, height
	return f
}

// NewCircle returns a circle fixture centered at (x, y).
func NewCircle(x, y, radius float64) *Fixture {
	f := newFixture(ShapeCircle)
	f.x, f.y, f.radius = x, y, radius
	return f
}

// NewPolygon returns a convex polygon fixture. The engine computes the hull
// of the given vertices.
func NewPolygon(vertices []cp.Vector) *Fixture {
	f := newFixture(ShapePolygon)
	f.vertices = append([]cp.Vector(nil), vertices...)
	return f
}

// NewEdge returns a single line segment fixture.
func NewEdge(a, b cp.Vector) *Fixture {
	f := newFixture(ShapeEdge)
	f.vertices = []cp.Vector{a, b}
	return f
}

// NewChain returns connected segments through points, closed when loop is set.
func NewChain(points []cp.Vector, loop bool) *Fixture {
	f := newFixture(ShapeChain)
	f.vertices = append([]cp.Vector(nil), points...)
	f.loop = loop
	return f
}

func (f *Fixture) Kind() ShapeKind { return f.kind }

// Body returns the body the fixture was appended to, if any.
func (f *Fixture) Body() *Body { return f.body }

// Shapes returns the engine shapes; empty until the owning body initializes.
func (f *Fixture) Shapes() []*cp.Shape {
	out := make([]*cp.Shape, 0, len(f.shapes))
	return append(out, f.shapes...)
}

// Attached reports whether engine shapes exist for this fixture.
func (f *Fixture) Attached() bool { return len(f.shapes) > 0 }

func (f *Fixture) Density() float64     { return f.density }
func (f *Fixture) Friction() float64    { return f.friction }
func (f *Fixture) Restitution() float64 { return f.restitution }
func (f *Fixture) IsSensor() bool       { return f.sensor }
func (f *Fixture) Categories() uint     { return f.categories }
func (f *Fixture) CollidesWith() uint   { return f.collidesWith }
func (f *Fixture) GroupIndex() uint     { return f.groupIndex }

// SetDensity changes the mass density; an attached body recomputes its mass.
func (f *Fixture) SetDensity(density float64) {
	if f.density == density {
		return
	}
	f.density = density
	for _, s := range f.shapes {
		s.SetDensity(density)
	}
	if f.Attached() && f.body != nil {
		f.body.ResetMassData()
	}
	f.DensityChanged.Emit(density)
}

func (f *Fixture) SetFriction(friction float64) {
	if f.friction == friction {
		return
	}
	f.friction = friction
	for _, s := range f.shapes {
		s.SetFriction(friction)
	}
	f.FrictionChanged.Emit(friction)
}

func (f *Fixture) SetRestitution(restitution float64) {
	if f.restitution == restitution {
		return
	}
	f.restitution = restitution
	for _, s := range f.shapes {
		s.SetElasticity(restitution)
	}
	f.RestitutionChanged.Emit(restitution)
}

func (f *Fixture) SetSensor(sensor bool) {
	if f.sensor == sensor {
		return
	}
	f.sensor = sensor
	for _, s := range f.shapes {
		s.SetSensor(sensor)
	}
	f.SensorChanged.Emit(sensor)
}

// SetFilter sets the collision category bits, the categories this fixture
// collides with, and a group; fixtures sharing a non-zero group never collide.
func (f *Fixture) SetFilter(categories, collidesWith, group uint) {
	if f.categories == categories && f.collidesWith == collidesWith && f.groupIndex == group {
		return
	}
	f.categories, f.collidesWith, f.groupIndex = categories, collidesWith, group
	for _, s := range f.shapes {
		s.SetFilter(f.filter())
	}
	f.FilterChanged.Emit(f)
}

func (f *Fixture) filter() cp.ShapeFilter {
	return cp.NewShapeFilter(f.groupIndex, f.categories, f.collidesWith)
}

// build creates the engine shapes on body without adding them to a space.
// itemW and itemH size boxes that did not specify their own size.
func (f *Fixture) build(body *cp.Body, itemW, itemH float64) []*cp.Shape {
	var shapes []*cp.Shape
	switch f.kind {
	case ShapeBox:
		w, h := f.width, f.height
		if w <= 0 || h <= 0 {
			w, h = itemW, itemH
		}
		if w <= 0 || h <= 0 {
			return nil
		}
		bb := cp.BB{L: f.x, B: f.y, R: f.x + w, T: f.y + h}
		shapes = append(shapes, cp.NewBox2(body, bb, 0))
	case ShapeCircle:
		if f.radius <= 0 {
			return nil
		}
		shapes = append(shapes, cp.NewCircle(body, f.radius, cp.Vector{X: f.x, Y: f.y}))
	case ShapePolygon:
		if len(f.vertices) < 3 {
			return nil
		}
		shapes = append(shapes, cp.NewPolyShape(body, len(f.vertices), f.vertices, cp.NewTransformIdentity(), 0))
	case ShapeEdge:
		if len(f.vertices) != 2 {
			return nil
		}
		shapes = append(shapes, cp.NewSegment(body, f.vertices[0], f.vertices[1], 0))
	case ShapeChain:
		n := len(f.vertices)
		if n < 2 {
			return nil
		}
		for i := 0; i+1 < n; i++ {
			shapes = append(shapes, cp.NewSegment(body, f.vertices[i], f.vertices[i+1], 0))
		}
		if f.loop && n > 2 {
			shapes = append(shapes, cp.NewSegment(body, f.vertices[n-1], f.vertices[0], 0))
		}
	}

	for _, s := range shapes {
		s.SetFriction(f.friction)
		s.SetElasticity(f.restitution)
		s.SetSensor(f.sensor)
		s.SetFilter(f.filter())
		s.UserData = f
	}
	return shapes
}

// attach creates the shapes and adds them to space when addToSpace is set.
// Density is applied after the shapes join the body so the engine accumulates
// mass from them.
func (f *Fixture) attach(space *cp.Space, body *cp.Body, itemW, itemH float64, addToSpace bool) {
	f.shapes = f.build(body, itemW, itemH)
	if addToSpace {
		for _, s := range f.shapes {
			space.AddShape(s)
		}
	}
	if f.density > 0 {
		for _, s := range f.shapes {
			s.SetDensity(f.density)
		}
	}
}

func (f *Fixture) detach(space *cp.Space, inSpace bool) {
	if inSpace && space != nil {
		for _, s := range f.shapes {
			space.RemoveShape(s)
		}
	}
	f.shapes = nil
}
