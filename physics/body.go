package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/scene"
)

// Body binds one engine rigid body to a scene item. Before Initialize every
// property lives in the cached BodyDef; between Initialize and Cleanup reads
// and writes go to the engine and the cache is kept consistent.
//
// The body's origin is the item's top-left corner. Fixtures are laid out in
// item-local coordinates.
type Body struct {
	*scene.Item

	def  BodyDef
	body *cp.Body
	data *bodyData

	world  *World
	handle Handle
	state  State

	inSpace       bool
	synchronizing bool

	fixtures []*Fixture

	LinearDampingChanged   scene.Signal[float64]
	AngularDampingChanged  scene.Signal[float64]
	BodyTypeChanged        scene.Signal[BodyType]
	BulletChanged          scene.Signal[bool]
	SleepingAllowedChanged scene.Signal[bool]
	FixedRotationChanged   scene.Signal[bool]
	ActiveChanged          scene.Signal[bool]
	AwakeChanged           scene.Signal[bool]
	LinearVelocityChanged  scene.Signal[cp.Vector]
	AngularVelocityChanged scene.Signal[float64]
	GravityScaleChanged    scene.Signal[float64]
	BodyCreated            scene.Signal[*Body]
	PositionChanged        scene.Signal[cp.Vector]
}

// NewBody wraps item (a new unnamed item when nil) with the given definition.
func NewBody(item *scene.Item, def BodyDef) *Body {
	if item == nil {
		item = scene.NewItem("")
	}
	b := &Body{Item: item, def: def}
	item.RotationProperty().Changed().Connect(b.onRotationChanged)
	item.XProperty().Changed().Connect(b.onPositionChanged)
	item.YProperty().Changed().Connect(b.onPositionChanged)
	item.Completed.Connect(b.componentComplete)
	return b
}

// State reports where the body is in its lifecycle.
func (b *Body) State() State {
	return b.state
}

// Def returns a copy of the cached definition.
func (b *Body) Def() BodyDef {
	return b.def
}

// Handle returns the engine body, or nil outside Initialize..Cleanup.
func (b *Body) Handle() *cp.Body {
	return b.live()
}

// World returns the world the body is registered with. The reference is weak:
// it resolves to nil once the world has dropped the body.
func (b *Body) World() *World {
	if b.world == nil || !b.world.reg.alive(b.handle) {
		return nil
	}
	return b.world
}

// WorldHandle returns the generational handle assigned by the world.
func (b *Body) WorldHandle() Handle {
	return b.handle
}

func (b *Body) live() *cp.Body {
	if b.state != Initialized {
		return nil
	}
	return b.body
}

// Initialize creates the engine body inside w and attaches all fixtures. When
// the item is not complete yet creation is deferred until ComponentComplete.
// Initializing an already initialized body in the same world does nothing.
func (b *Body) Initialize(w *World) {
	if w == nil {
		return
	}
	if b.World() == w && (b.state == Initialized || b.state == Pending) {
		return
	}
	if cur := b.World(); cur != nil {
		b.Cleanup(cur)
	}

	b.world = w
	b.handle = w.reg.add(b)

	if !b.IsComplete() {
		b.state = Pending
		return
	}
	b.create(w)
}

func (b *Body) componentComplete(*scene.Item) {
	if b.state != Pending {
		return
	}
	if w := b.World(); w != nil {
		b.create(w)
	}
}

func (b *Body) create(w *World) {
	def := b.def

	var cb *cp.Body
	switch def.Type {
	case Dynamic:
		cb = cp.NewBody(1, 1)
	case Kinematic:
		cb = cp.NewKinematicBody()
	default:
		cb = cp.NewStaticBody()
	}
	b.data = newBodyData(b, def)
	cb.UserData = b.data
	cb.SetVelocityUpdateFunc(integrateVelocity)
	cb.SetPosition(cp.Vector{X: b.X(), Y: b.Y()})
	cb.SetAngle(degToRad(b.Rotation()))

	b.body = cb
	if def.Active {
		w.space.AddBody(cb)
		b.inSpace = true
	}
	for _, f := range b.fixtures {
		f.attach(w.space, cb, b.Width(), b.Height(), b.inSpace)
	}
	b.resetMass()

	if def.Type != Static {
		cb.SetVelocityVector(def.LinearVelocity)
		cb.SetAngularVelocity(def.AngularVelocity)
	}
	b.state = Initialized
	if !def.Awake {
		b.sleep()
		b.def.Awake = b.IsAwake()
	}

	log.Printf("physics: body %q created type=%s fixtures=%d", b.Name, def.Type, len(b.fixtures))
	b.BodyCreated.Emit(b)
}

// Synchronize copies the engine position and rotation into the item. The
// item's change handlers see the synchronizing flag and do not write the
// values back into the engine.
func (b *Body) Synchronize() {
	cb := b.live()
	if cb == nil {
		return
	}

	pos := cb.Position()
	moved := pos.X != b.X() || pos.Y != b.Y()

	b.synchronizing = true
	b.SetPosition(pos.X, pos.Y)
	b.SetRotation(radToDeg(cb.Angle()))
	b.synchronizing = false

	if moved {
		b.PositionChanged.Emit(pos)
	}

	if v := cb.Velocity(); v != b.def.LinearVelocity {
		b.def.LinearVelocity = v
		b.LinearVelocityChanged.Emit(v)
	}
	if w := cb.AngularVelocity(); w != b.def.AngularVelocity {
		b.def.AngularVelocity = w
		b.AngularVelocityChanged.Emit(w)
	}
	if awake := !cb.IsSleeping(); awake != b.def.Awake {
		b.def.Awake = awake
		b.AwakeChanged.Emit(awake)
	}
}

// Cleanup removes the engine body and its fixtures from w and drops the world
// reference. It is safe on a body that never finished initializing. A body
// registered with a different world is left alone.
func (b *Body) Cleanup(w *World) {
	world := b.World()
	if world == nil {
		if b.state == Pending || b.state == Initialized {
			b.state = Destroyed
		}
		b.body = nil
		b.data = nil
		b.inSpace = false
		b.world = nil
		b.handle = 0
		return
	}
	if w != nil && w != world {
		return
	}

	if cb := b.body; cb != nil {
		b.def.LinearVelocity = cb.Velocity()
		b.def.AngularVelocity = cb.AngularVelocity()
		b.def.Awake = !cb.IsSleeping()

		for _, f := range b.fixtures {
			f.detach(world.space, b.inSpace)
		}
		if b.inSpace {
			world.space.RemoveBody(cb)
		}
		cb.UserData = nil
		log.Printf("physics: body %q cleaned up", b.Name)
	}

	world.reg.remove(b.handle)
	b.body = nil
	b.data = nil
	b.inSpace = false
	b.world = nil
	b.handle = 0
	b.state = Destroyed
}

func (b *Body) onRotationChanged(deg float64) {
	cb := b.live()
	if cb == nil || b.synchronizing {
		return
	}
	// SetAngle turns the body about its center of gravity; keep the origin.
	origin := cb.Position()
	cb.SetAngle(degToRad(deg))
	cb.SetPosition(origin)
	b.reindexStatic()
}

func (b *Body) onPositionChanged(float64) {
	cb := b.live()
	if cb == nil || b.synchronizing {
		return
	}
	cb.SetPosition(cp.Vector{X: b.X(), Y: b.Y()})
	b.reindexStatic()
}

// reindexStatic refreshes the spatial index after a static body moved; the
// engine only re-indexes dynamic shapes on its own. Removing and re-adding a
// shape inserts it again at its new bounds.
func (b *Body) reindexStatic() {
	if !b.inSpace || b.body.GetType() != cp.BODY_STATIC {
		return
	}
	w := b.World()
	if w == nil {
		return
	}
	for _, f := range b.fixtures {
		for _, s := range f.shapes {
			if !w.space.ContainsShape(s) {
				continue
			}
			w.space.RemoveShape(s)
			w.space.AddShape(s)
		}
	}
}

// resetMass recomputes mass from fixture densities. A dynamic body without
// mass falls back to unit mass and no rotation.
func (b *Body) resetMass() {
	cb := b.body
	if cb == nil || cb.GetType() != cp.BODY_DYNAMIC {
		return
	}
	cb.AccumulateMassFromShapes()
	if m := cb.Mass(); !(m > 0) || math.IsInf(m, 1) {
		cb.SetMass(1)
		cb.SetMoment(math.Inf(1))
		return
	}
	if b.def.FixedRotation || !(cb.Moment() > 0) {
		cb.SetMoment(math.Inf(1))
	}
}

// sleep brings a dynamic body to rest so the space puts it to sleep once it
// has idled for the world's sleep threshold. The body stays awake until then.
func (b *Body) sleep() {
	cb := b.body
	if cb == nil || !b.inSpace || cb.GetType() != cp.BODY_DYNAMIC || !b.def.AllowSleep || cb.IsSleeping() {
		return
	}
	w := b.World()
	if w == nil || !w.sleepEnabled() {
		return
	}
	cb.SetVelocityVector(cp.Vector{})
	cb.SetAngularVelocity(0)
	cb.SetForce(cp.Vector{})
	cb.SetTorque(0)
}

// enforceSleepPolicy wakes bodies that are not allowed to sleep.
func (b *Body) enforceSleepPolicy() {
	cb := b.live()
	if cb == nil || b.def.AllowSleep || !cb.IsSleeping() {
		return
	}
	cb.Activate()
}

// AppendFixture adds f to the ordered fixture list. A fixture appended after
// Initialize is attached to the engine body right away. A fixture already
// owned by a body is ignored.
func (b *Body) AppendFixture(f *Fixture) {
	if f == nil {
		return
	}
	if f.body != nil {
		log.Printf("physics: body %q: fixture already belongs to %q", b.Name, f.body.Name)
		return
	}
	f.body = b
	b.fixtures = append(b.fixtures, f)
	if cb := b.live(); cb != nil {
		if w := b.World(); w != nil {
			f.attach(w.space, cb, b.Width(), b.Height(), b.inSpace)
			b.resetMass()
		}
	}
}

// FixtureCount returns the number of appended fixtures.
func (b *Body) FixtureCount() int {
	return len(b.fixtures)
}

// FixtureAt returns the fixture at index i in insertion order, or nil.
func (b *Body) FixtureAt(i int) *Fixture {
	if i < 0 || i >= len(b.fixtures) {
		return nil
	}
	return b.fixtures[i]
}

// Fixtures returns a copy of the fixture list.
func (b *Body) Fixtures() []*Fixture {
	out := make([]*Fixture, 0, len(b.fixtures))
	return append(out, b.fixtures...)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
