package scenefile

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/physics"
	"github.com/milk9111/bodybind/scene"
)

var ErrDuplicateBody = errors.New("duplicate body name")

// Scene is a built scene: a world, a root item, and the bodies under it.
type Scene struct {
	Name   string
	World  *physics.World
	Root   *scene.Item
	Bodies []*physics.Body

	// Scripts maps body names to their script file, for bodies that have one.
	Scripts map[string]string

	byName map[string]*physics.Body
}

// Body returns the body with the given name.
func (s *Scene) Body(name string) (*physics.Body, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Close removes every body from the world.
func (s *Scene) Close() {
	if s == nil || s.World == nil {
		return
	}
	s.World.Clear()
}

// Config converts the world section into a physics config.
func (w WorldSpec) Config() physics.Config {
	cfg := physics.DefaultConfig()
	if w.Gravity != nil {
		cfg.Gravity = w.Gravity.Vector()
	}
	if w.Iterations > 0 {
		cfg.Iterations = w.Iterations
	}
	if w.TimeStep > 0 {
		cfg.TimeStep = w.TimeStep
	}
	if w.SleepTimeThreshold != nil {
		cfg.SleepTimeThreshold = *w.SleepTimeThreshold
	}
	if w.Running != nil {
		cfg.Running = *w.Running
	}
	return cfg
}

// Def converts the body section into a body definition.
func (b BodySpec) Def() (physics.BodyDef, error) {
	def := physics.DefaultBodyDef()
	bt, err := physics.ParseBodyType(b.BodyType)
	if err != nil {
		return def, err
	}
	def.Type = bt
	def.LinearDamping = b.LinearDamping
	def.AngularDamping = b.AngularDamping
	def.Bullet = b.Bullet
	def.FixedRotation = b.FixedRotation
	def.LinearVelocity = b.LinearVelocity.Vector()
	def.AngularVelocity = b.AngularVelocity
	if b.SleepingAllowed != nil {
		def.AllowSleep = *b.SleepingAllowed
	}
	if b.Active != nil {
		def.Active = *b.Active
	}
	if b.Awake != nil {
		def.Awake = *b.Awake
	}
	if b.GravityScale != nil {
		def.GravityScale = *b.GravityScale
	}
	return def, nil
}

// Fixture converts the fixture section into an unattached fixture.
func (f FixtureSpec) Fixture() (*physics.Fixture, error) {
	kind, err := physics.ParseShapeKind(f.Shape)
	if err != nil {
		return nil, err
	}

	var fx *physics.Fixture
	switch kind {
	case physics.ShapeBox:
		fx = physics.NewBox(f.X, f.Y, f.Width, f.Height)
	case physics.ShapeCircle:
		fx = physics.NewCircle(f.X, f.Y, f.Radius)
	case physics.ShapePolygon:
		fx = physics.NewPolygon(vectors(f.Vertices))
	case physics.ShapeEdge:
		pts := vectors(f.Vertices)
		if len(pts) != 2 {
			pts = vectors(f.Points)
		}
		if len(pts) != 2 {
			return nil, fmt.Errorf("edge needs 2 points, got %d", len(pts))
		}
		fx = physics.NewEdge(pts[0], pts[1])
	case physics.ShapeChain:
		pts := vectors(f.Points)
		if len(pts) == 0 {
			pts = vectors(f.Vertices)
		}
		fx = physics.NewChain(pts, f.Loop)
	}

	fx.SetDensity(f.Density)
	if f.Friction != nil {
		fx.SetFriction(*f.Friction)
	}
	fx.SetRestitution(f.Restitution)
	fx.SetSensor(f.Sensor)
	categories, collidesWith := fx.Categories(), fx.CollidesWith()
	if f.Categories != nil {
		categories = *f.Categories
	}
	if f.CollidesWith != nil {
		collidesWith = *f.CollidesWith
	}
	fx.SetFilter(categories, collidesWith, f.GroupIndex)
	return fx, nil
}

func vectors(in []VectorSpec) []cp.Vector {
	out := make([]cp.Vector, 0, len(in))
	for _, v := range in {
		out = append(out, v.Vector())
	}
	return out
}

// Build creates the world and every body in spec. Bodies are added to the
// world before their items complete, so creation happens on completion in
// declaration order.
func Build(spec SceneSpec) (*Scene, error) {
	s := &Scene{
		Name:    spec.Name,
		World:   physics.NewWorld(spec.World.Config()),
		Root:    scene.NewItem(spec.Name),
		Scripts: make(map[string]string),
		byName:  make(map[string]*physics.Body),
	}
	if spec.Size != nil {
		s.Root.SetSize(spec.Size.X, spec.Size.Y)
	}

	for i, bs := range spec.Bodies {
		name := bs.Name
		if name == "" {
			name = fmt.Sprintf("body%d", i)
		}
		if _, dup := s.byName[name]; dup {
			return nil, fmt.Errorf("scenefile: body %s: %w", name, ErrDuplicateBody)
		}

		def, err := bs.Def()
		if err != nil {
			return nil, fmt.Errorf("scenefile: body %s: %w", name, err)
		}

		item := scene.NewItem(name)
		item.SetPosition(bs.X, bs.Y)
		item.SetSize(bs.Width, bs.Height)
		item.SetRotation(bs.Rotation)
		if err := item.SetParent(s.Root); err != nil {
			return nil, fmt.Errorf("scenefile: body %s: %w", name, err)
		}

		body := physics.NewBody(item, def)
		for j, fs := range bs.Fixtures {
			fx, err := fs.Fixture()
			if err != nil {
				return nil, fmt.Errorf("scenefile: body %s fixture %d: %w", name, j, err)
			}
			body.AppendFixture(fx)
		}

		s.World.AddBody(body)
		s.Bodies = append(s.Bodies, body)
		s.byName[name] = body
		if bs.Script != "" {
			s.Scripts[name] = bs.Script
		}
	}

	s.Root.Walk(func(it *scene.Item) { it.ComponentComplete() })
	log.Printf("scenefile: built %q with %d bodies", s.Name, len(s.Bodies))
	return s, nil
}

// LoadScene loads, parses, and builds the named scene.
func LoadScene(name string) (*Scene, error) {
	spec, err := LoadSpec(name)
	if err != nil {
		return nil, err
	}
	return Build(spec)
}
