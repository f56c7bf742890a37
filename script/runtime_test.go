package script

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/physics"
	"github.com/milk9111/bodybind/scene"
	"github.com/milk9111/bodybind/scenefile"
)

func scriptedBody(name string) *physics.Body {
	item := scene.NewItem(name)
	item.SetSize(10, 10)
	item.ComponentComplete()
	def := physics.DefaultBodyDef()
	def.Type = physics.Dynamic
	b := physics.NewBody(item, def)
	fx := physics.NewBox(0, 0, 0, 0)
	fx.SetDensity(1)
	b.AppendFixture(fx)
	return b
}

func floatingWorld() *physics.World {
	cfg := physics.DefaultConfig()
	cfg.Gravity = cp.Vector{}
	return physics.NewWorld(cfg)
}

func TestProgramActions(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		check func(*physics.Body, *Program) error
	}{
		{
			name: "impulse",
			src:  `update := func(body, dt) { body.apply_impulse(body.mass(), 0) }`,
			check: func(b *physics.Body, _ *Program) error {
				if v := b.LinearVelocity(); math.Abs(v.X-1) > 1e-9 || math.Abs(v.Y) > 1e-9 {
					return fmt.Errorf("expected velocity (1, 0), got %v", v)
				}
				return nil
			},
		},
		{
			name: "set_velocity",
			src:  `update := func(body, dt) { body.set_velocity(3, -4); body.set_angular_velocity(2) }`,
			check: func(b *physics.Body, _ *Program) error {
				if b.LinearVelocity() != (cp.Vector{X: 3, Y: -4}) || b.AngularVelocity() != 2 {
					return fmt.Errorf("unexpected velocities %v %v", b.LinearVelocity(), b.AngularVelocity())
				}
				return nil
			},
		},
		{
			name: "queries",
			src: `update := func(body, dt) {
	c := body.world_center()
	body.state.cx = c[0]
	body.state.cy = c[1]
	body.state.awake = body.awake()
	body.state.name = body.name
	body.state.dt = dt
}`,
			check: func(_ *physics.Body, p *Program) error {
				if p.State("cx") != 5.0 || p.State("cy") != 5.0 {
					return fmt.Errorf("unexpected center %v %v", p.State("cx"), p.State("cy"))
				}
				if p.State("awake") != true || p.State("name") != "crate" || p.State("dt") != 0.5 {
					return fmt.Errorf("unexpected state awake=%v name=%v dt=%v", p.State("awake"), p.State("name"), p.State("dt"))
				}
				return nil
			},
		},
		{
			name: "sleep",
			src:  `update := func(body, dt) { body.set_velocity(4.0, 0.0); body.set_awake(false) }`,
			check: func(b *physics.Body, _ *Program) error {
				if (b.LinearVelocity() != cp.Vector{}) {
					return fmt.Errorf("expected body at rest, v=%v", b.LinearVelocity())
				}
				return nil
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := floatingWorld()
			b := scriptedBody("crate")
			w.AddBody(b)

			p, err := Compile(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if err := p.Update(b, 0.5); err != nil {
				t.Fatalf("update: %v", err)
			}
			if err := c.check(b, p); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestProgramSleepRequest(t *testing.T) {
	w := floatingWorld()
	b := scriptedBody("dozer")
	w.AddBody(b)

	p, err := Compile("dozer", []byte(`update := func(body, dt) { body.set_awake(false) }`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := p.Update(b, w.TimeStep()); err != nil {
		t.Fatalf("update: %v", err)
	}
	for i := 0; i < 60 && b.IsAwake(); i++ {
		w.Step()
	}
	if b.IsAwake() {
		t.Fatalf("expected body to sleep after resting past the threshold")
	}
}

func TestProgramStatePersists(t *testing.T) {
	p, err := Compile("counter", []byte(`
update := func(body, dt) {
	body.state.ticks = (body.state.ticks || 0) + 1
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b := scriptedBody("counter")
	for i := 0; i < 3; i++ {
		if err := p.Update(b, 1.0/60); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	if got := p.State("ticks"); got != int64(3) {
		t.Fatalf("expected 3 ticks, got %v", got)
	}
	if p.State("missing") != nil {
		t.Fatalf("expected nil for a missing key")
	}
}

func TestProgramUninitializedBody(t *testing.T) {
	p, err := Compile("idle", []byte(`
update := func(body, dt) {
	body.apply_force(1, 2)
	body.apply_torque(3)
	body.state.mass = body.mass()
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b := scriptedBody("idle")
	if err := p.Update(b, 1.0/60); err != nil {
		t.Fatalf("actions on an uninitialized body must not fail: %v", err)
	}
	if p.State("mass") != 0.0 {
		t.Fatalf("expected zero mass before initialize, got %v", p.State("mass"))
	}
}

func TestProgramErrors(t *testing.T) {
	compileCases := []struct {
		name string
		src  string
		is   error
	}{
		{"syntax", `update := func(body, dt) {`, nil},
		{"no_update", `x := 1`, nil},
		{"update_not_function", `update := 5`, ErrNoUpdate},
	}
	for _, c := range compileCases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Compile(c.name, []byte(c.src))
			if err == nil {
				t.Fatalf("expected compile error")
			}
			if c.is != nil && !errors.Is(err, c.is) {
				t.Fatalf("expected %v, got %v", c.is, err)
			}
		})
	}

	runCases := []struct {
		name string
		src  string
	}{
		{"wrong_type", `update := func(body, dt) { body.apply_torque("a") }`},
		{"wrong_count", `update := func(body, dt) { body.set_velocity(1) }`},
		{"point_count", `update := func(body, dt) { body.apply_force(1, 2, 3) }`},
		{"getter_args", `update := func(body, dt) { body.mass(1) }`},
	}
	for _, c := range runCases {
		t.Run(c.name, func(t *testing.T) {
			p, err := Compile(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if err := p.Update(scriptedBody(c.name), 1.0/60); err == nil {
				t.Fatalf("expected runtime error")
			}
		})
	}
}

func TestRunner(t *testing.T) {
	sources := map[string]string{
		"push.tengo":   `update := func(body, dt) { body.apply_impulse(body.mass(), 0) }`,
		"broken.tengo": `update := func(body, dt) { body.nope() }`,
	}
	loads := 0
	r := NewRunner(func(name string) ([]byte, error) {
		loads++
		src, ok := sources[name]
		if !ok {
			return nil, fmt.Errorf("no script %s", name)
		}
		return []byte(src), nil
	})

	w := floatingWorld()
	a := scriptedBody("a")
	b := scriptedBody("b")
	b.SetY(100)
	pending := scriptedBody("pending")
	w.AddBody(a)
	w.AddBody(b)

	for _, bd := range []*physics.Body{a, b, pending} {
		if err := r.Attach(bd, "push.tengo"); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	if loads != 1 || r.Len() != 3 {
		t.Fatalf("expected one load for three attaches, loads=%d len=%d", loads, r.Len())
	}
	if err := r.Attach(a, "missing.tengo"); err == nil {
		t.Fatalf("expected error for a missing script")
	}
	if err := r.Attach(a, "  "); err != nil || r.Len() != 3 {
		t.Fatalf("blank script name should be ignored")
	}

	if err := r.Update(1.0 / 60); err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, bd := range []*physics.Body{a, b} {
		if math.Abs(bd.LinearVelocity().X-1) > 1e-9 {
			t.Fatalf("body %q not pushed: %v", bd.Item.Name, bd.LinearVelocity())
		}
	}
	if pending.LinearVelocity() != (cp.Vector{}) {
		t.Fatalf("body outside a world must not run its script")
	}

	if err := r.Attach(b, "broken.tengo"); err != nil {
		t.Fatalf("attach broken: %v", err)
	}
	if err := r.Update(1.0 / 60); err == nil {
		t.Fatalf("expected joined error from the broken script")
	}
	if v := a.LinearVelocity().X; math.Abs(v-2) > 1e-9 {
		t.Fatalf("healthy scripts must keep running, got %v", v)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("reset should drop programs")
	}
}

func TestDefaultSceneScripts(t *testing.T) {
	s, err := scenefile.LoadScene("default")
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	defer s.Close()

	r := NewRunner(scenefile.LoadScript)
	if err := r.AttachScene(s); err != nil {
		t.Fatalf("attach scene: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 scripted bodies, got %d", r.Len())
	}

	for i := 0; i < 10; i++ {
		if err := r.Update(s.World.TimeStep()); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		s.World.Step()
	}

	paddle, _ := s.Body("paddle")
	if paddle.AngularVelocity() != 1.5 {
		t.Fatalf("expected the spinner to drive the paddle, got %v", paddle.AngularVelocity())
	}
	if paddle.Rotation() == 0 {
		t.Fatalf("expected the paddle to turn")
	}
	ball, _ := s.Body("ball")
	p, ok := r.Program(ball)
	if !ok || p.Name() != "pusher.tengo" {
		t.Fatalf("expected the ball to run pusher.tengo")
	}
}
