// Package physics binds Chipmunk2D bodies to scene items.
package physics

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/scene"
)

// Config holds the world-wide simulation settings.
type Config struct {
	Gravity    cp.Vector
	Iterations int
	TimeStep   float64
	// SleepTimeThreshold is how long a body must rest before it sleeps.
	// Zero or less disables sleeping.
	SleepTimeThreshold float64
	Running            bool
}

// DefaultConfig returns a running world at 60 steps per second with gravity
// pointing down the y-down scene.
func DefaultConfig() Config {
	return Config{
		Gravity:            cp.Vector{X: 0, Y: 320},
		Iterations:         10,
		TimeStep:           1.0 / 60.0,
		SleepTimeThreshold: 0.5,
		Running:            true,
	}
}

// World owns the Chipmunk space and the bodies registered with it. Bodies
// reach it through weak handles; World is the only owner of engine objects.
type World struct {
	space *cp.Space
	cfg   Config
	reg   registry
	steps int

	Stepped        scene.Signal[int]
	GravityChanged scene.Signal[cp.Vector]
	RunningChanged scene.Signal[bool]
}

// NewWorld creates a world with its own space. A zero Config means
// DefaultConfig; otherwise only a missing time step or iteration count is
// filled in and every other field is taken as given.
func NewWorld(cfg Config) *World {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = DefaultConfig().TimeStep
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}

	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cfg.Gravity)
	space.SleepTimeThreshold = cp.INFINITY
	if cfg.SleepTimeThreshold > 0 {
		space.SleepTimeThreshold = cfg.SleepTimeThreshold
	}

	return &World{space: space, cfg: cfg}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Config returns the current settings.
func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Gravity() cp.Vector {
	return w.cfg.Gravity
}

func (w *World) SetGravity(g cp.Vector) {
	if w.cfg.Gravity == g {
		return
	}
	w.cfg.Gravity = g
	w.space.SetGravity(g)
	w.GravityChanged.Emit(g)
}

func (w *World) Running() bool {
	return w.cfg.Running
}

// SetRunning pauses or resumes Step.
func (w *World) SetRunning(running bool) {
	if w.cfg.Running == running {
		return
	}
	w.cfg.Running = running
	w.RunningChanged.Emit(running)
}

func (w *World) TimeStep() float64 {
	return w.cfg.TimeStep
}

// SetTimeStep changes the fixed step; non-positive values are ignored.
func (w *World) SetTimeStep(dt float64) {
	if dt <= 0 {
		return
	}
	w.cfg.TimeStep = dt
}

func (w *World) sleepEnabled() bool {
	return w.cfg.SleepTimeThreshold > 0
}

// AddBody registers b and initializes it in this world.
func (w *World) AddBody(b *Body) {
	if w == nil || b == nil {
		return
	}
	b.Initialize(w)
}

// RemoveBody cleans b up and drops it from the registry.
func (w *World) RemoveBody(b *Body) {
	if w == nil || b == nil {
		return
	}
	b.Cleanup(w)
}

// Lookup resolves a handle. Stale handles report false.
func (w *World) Lookup(h Handle) (*Body, bool) {
	if w == nil {
		return nil, false
	}
	return w.reg.get(h)
}

// Bodies returns the registered bodies in registration order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	return w.reg.bodies()
}

// BodyCount returns the number of registered bodies, pending ones included.
func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return w.reg.len()
}

// StepCount returns how many steps ran since the world was created.
func (w *World) StepCount() int {
	return w.steps
}

// Step advances the space by one time step and then synchronizes every body
// so items reflect the new state before the next draw. It does nothing while
// the world is paused.
func (w *World) Step() {
	if w == nil || !w.cfg.Running {
		return
	}
	w.space.Step(w.cfg.TimeStep)
	w.steps++

	for _, b := range w.reg.bodies() {
		b.enforceSleepPolicy()
		b.Synchronize()
	}
	w.Stepped.Emit(w.steps)
}

// Clear cleans up every registered body.
func (w *World) Clear() {
	if w == nil {
		return
	}
	bodies := w.reg.bodies()
	for _, b := range bodies {
		b.Cleanup(w)
	}
	if len(bodies) > 0 {
		log.Printf("physics: world cleared %d bodies", len(bodies))
	}
}

// BodyAt returns the body owning the shape under point, preferring the
// nearest shape within radius.
func (w *World) BodyAt(point cp.Vector, radius float64) (*Body, bool) {
	if w == nil {
		return nil, false
	}
	info := w.space.PointQueryNearest(point, radius, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil, false
	}
	f, ok := info.Shape.UserData.(*Fixture)
	if !ok || f.body == nil || f.body.World() != w {
		return nil, false
	}
	return f.body, true
}
