package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestRegistryHandles(t *testing.T) {
	var r registry
	a := NewBody(nil, DefaultBodyDef())
	b := NewBody(nil, DefaultBodyDef())

	ha := r.add(a)
	hb := r.add(b)
	if !ha.Valid() || !hb.Valid() || ha == hb {
		t.Fatalf("expected distinct valid handles, got %s %s", ha, hb)
	}
	if !r.remove(ha) {
		t.Fatalf("remove should succeed for a live handle")
	}
	if r.remove(ha) {
		t.Fatalf("remove should fail for a stale handle")
	}

	c := NewBody(nil, DefaultBodyDef())
	hc := r.add(c)
	if hc.id() != ha.id() || hc.generation() == ha.generation() {
		t.Fatalf("expected slot reuse with a new generation, old=%s new=%s", ha, hc)
	}
	if _, ok := r.get(ha); ok {
		t.Fatalf("stale handle resolved after slot reuse")
	}
	if got, ok := r.get(hc); !ok || got != c {
		t.Fatalf("expected new handle to resolve to c")
	}

	bodies := r.bodies()
	if len(bodies) != 2 || bodies[0] != b || bodies[1] != c {
		t.Fatalf("expected registration order [b c], got %v", bodies)
	}
	var zero Handle
	if r.alive(zero) {
		t.Fatalf("zero handle should never be alive")
	}
}

func TestWorldStep(t *testing.T) {
	cases := []struct {
		name    string
		running bool
		steps   int
	}{
		{"running", true, 3},
		{"paused", false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Running = c.running
			w := NewWorld(cfg)
			b := dynamicBox("target")
			w.AddBody(b)

			var stepped []int
			w.Stepped.Connect(func(n int) { stepped = append(stepped, n) })
			for i := 0; i < 3; i++ {
				w.Step()
			}
			if w.StepCount() != c.steps || len(stepped) != c.steps {
				t.Fatalf("expected %d steps, got count=%d signals=%d", c.steps, w.StepCount(), len(stepped))
			}
			if moved := b.Y() != 50; moved != c.running {
				t.Fatalf("expected moved=%v, y=%v", c.running, b.Y())
			}
		})
	}
}

func TestWorldWeakReferences(t *testing.T) {
	w := zeroGravityWorld()
	a := dynamicBox("a")
	b := dynamicBox("b")
	b.SetY(300)
	w.AddBody(a)
	w.AddBody(b)

	h := a.WorldHandle()
	if got, ok := w.Lookup(h); !ok || got != a {
		t.Fatalf("expected lookup to resolve a")
	}
	if a.World() != w {
		t.Fatalf("expected a to see its world")
	}

	w.RemoveBody(a)
	if _, ok := w.Lookup(h); ok {
		t.Fatalf("stale handle still resolves")
	}
	if a.World() != nil {
		t.Fatalf("removed body still sees the world")
	}
	if bodies := w.Bodies(); len(bodies) != 1 || bodies[0] != b {
		t.Fatalf("expected only b registered, got %d bodies", len(bodies))
	}

	other := zeroGravityWorld()
	b.Cleanup(other)
	if b.State() != Initialized {
		t.Fatalf("cleanup from a foreign world should be ignored, state=%s", b.State())
	}

	other.AddBody(b)
	if b.World() != other || w.BodyCount() != 0 || other.BodyCount() != 1 {
		t.Fatalf("expected b to move worlds, w=%d other=%d", w.BodyCount(), other.BodyCount())
	}

	other.Clear()
	if other.BodyCount() != 0 || b.State() != Destroyed {
		t.Fatalf("expected clear to destroy bodies, state=%s", b.State())
	}
}

func TestWorldSettings(t *testing.T) {
	w := NewWorld(Config{})
	if w.Config() != DefaultConfig() || !w.Running() {
		t.Fatalf("expected defaults for zero config, got %+v", w.Config())
	}
	if w.Space().SleepTimeThreshold != DefaultConfig().SleepTimeThreshold {
		t.Fatalf("sleep threshold not forwarded, got %v", w.Space().SleepTimeThreshold)
	}

	var gravity []cp.Vector
	w.GravityChanged.Connect(func(g cp.Vector) { gravity = append(gravity, g) })
	w.SetGravity(cp.Vector{Y: 10})
	w.SetGravity(cp.Vector{Y: 10})
	if len(gravity) != 1 || w.Space().Gravity() != (cp.Vector{Y: 10}) {
		t.Fatalf("expected one gravity change forwarded to space, got %v", gravity)
	}

	w.SetTimeStep(-1)
	if w.TimeStep() <= 0 {
		t.Fatalf("negative time step accepted")
	}

	paused := 0
	w.RunningChanged.Connect(func(r bool) {
		if !r {
			paused++
		}
	})
	w.SetRunning(false)
	w.SetRunning(false)
	if w.Running() || paused != 1 {
		t.Fatalf("expected one pause notification, got %d", paused)
	}
}

func TestWorldSleepThreshold(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{"enabled", 2, 2},
		{"zero_disables", 0, cp.INFINITY},
		{"negative_disables", -1, cp.INFINITY},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SleepTimeThreshold = tc.threshold
			w := NewWorld(cfg)
			if got := w.Space().SleepTimeThreshold; got != tc.want {
				t.Fatalf("space threshold = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWorldBodyAt(t *testing.T) {
	w := zeroGravityWorld()
	a := dynamicBox("a")
	w.AddBody(a)

	cases := []struct {
		name  string
		point cp.Vector
		want  *Body
	}{
		{"inside", cp.Vector{X: 105, Y: 55}, a},
		{"edge_within_radius", cp.Vector{X: 112, Y: 55}, a},
		{"outside", cp.Vector{X: 300, Y: 300}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := w.BodyAt(c.point, 3)
			if ok != (c.want != nil) || got != c.want {
				t.Fatalf("expected %v, got %v (ok=%v)", c.want, got, ok)
			}
		})
	}

	w.RemoveBody(a)
	if _, ok := w.BodyAt(cp.Vector{X: 105, Y: 55}, 0); ok {
		t.Fatalf("removed body still found")
	}
}

func TestWorldBodyAtFollowsMovedStaticBody(t *testing.T) {
	w := zeroGravityWorld()
	ledge := NewBody(completeItem("ledge", 0, 0, 20, 10), DefaultBodyDef())
	ledge.AppendFixture(NewBox(0, 0, 0, 0))
	w.AddBody(ledge)

	ledge.SetPosition(200, 100)
	if got, ok := w.BodyAt(cp.Vector{X: 210, Y: 105}, 0); !ok || got != ledge {
		t.Fatalf("moved static body not found at its new place")
	}
	if _, ok := w.BodyAt(cp.Vector{X: 10, Y: 5}, 0); ok {
		t.Fatalf("static body still found at its old place")
	}

	ledge.SetRotation(90)
	if got, ok := w.BodyAt(cp.Vector{X: 195, Y: 110}, 0); !ok || got != ledge {
		t.Fatalf("rotated static body not found")
	}
	if p := ledge.Handle().Position(); !near(p.X, 200) || !near(p.Y, 100) {
		t.Fatalf("rotating a static body moved its origin to %v", p)
	}
}
