// Package script runs tengo scripts against bound bodies. A script defines
// update(body, dt), called once per frame with a map of body functions.
package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/bodybind/physics"
)

var ErrNoUpdate = errors.New("update is not a function")

const dispatchScript = `
if __phase == "update" {
	update(__body, __dt)
}
`

// Loader returns the source of a named script.
type Loader func(name string) ([]byte, error)

// Program is a compiled script with its own persistent state map.
type Program struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

// Compile prepares src for repeated calls to Update.
func Compile(name string, src []byte) (*Program, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__body", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	p := &Program{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}

	// Run top-level statements once so globals resolve.
	if err := p.run("load", &tengo.ImmutableMap{Value: map[string]tengo.Object{}}, 0); err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	if fn := compiled.Get("update").Object(); fn == nil || !fn.CanCall() {
		return nil, fmt.Errorf("script: %s: %w", name, ErrNoUpdate)
	}
	return p, nil
}

func (p *Program) Name() string {
	return p.name
}

// State returns a named value the script stored in body.state.
func (p *Program) State(key string) any {
	obj, ok := p.state.Value[key]
	if !ok {
		return nil
	}
	return tengo.ToInterface(obj)
}

// Update calls the script's update function for b.
func (p *Program) Update(b *physics.Body, dt float64) error {
	if err := p.run("update", bodyMap(b, p.state), dt); err != nil {
		return fmt.Errorf("script: %s update: %w", p.name, err)
	}
	return nil
}

func (p *Program) run(phase string, body *tengo.ImmutableMap, dt float64) error {
	if err := p.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := p.compiled.Set("__body", body); err != nil {
		return err
	}
	if err := p.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return p.compiled.Run()
}

type binding struct {
	body    *physics.Body
	program *Program
}

// Runner owns the programs attached to bodies and updates them in attach
// order.
type Runner struct {
	load     Loader
	bindings []binding
	cache    map[string][]byte
}

func NewRunner(load Loader) *Runner {
	return &Runner{load: load, cache: make(map[string][]byte)}
}

// Attach compiles the named script for b. Each body gets its own program so
// script state is never shared.
func (r *Runner) Attach(b *physics.Body, name string) error {
	name = strings.TrimSpace(name)
	if b == nil || name == "" {
		return nil
	}
	src, ok := r.cache[name]
	if !ok {
		if r.load == nil {
			return fmt.Errorf("script: no loader for %s", name)
		}
		var err error
		src, err = r.load(name)
		if err != nil {
			return fmt.Errorf("script: load %s: %w", name, err)
		}
		r.cache[name] = src
	}
	p, err := Compile(name, src)
	if err != nil {
		return err
	}
	r.bindings = append(r.bindings, binding{body: b, program: p})
	return nil
}

// Program returns the program attached to b, if any.
func (r *Runner) Program(b *physics.Body) (*Program, bool) {
	for _, bd := range r.bindings {
		if bd.body == b {
			return bd.program, true
		}
	}
	return nil, false
}

func (r *Runner) Len() int {
	return len(r.bindings)
}

// Update runs every attached program whose body is initialized. A failing
// script does not stop the others; all errors are returned joined.
func (r *Runner) Update(dt float64) error {
	var errs []error
	for _, bd := range r.bindings {
		if bd.body.State() != physics.Initialized {
			continue
		}
		if err := bd.program.Update(bd.body, dt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset drops every program and the source cache, as after a reload.
func (r *Runner) Reset() {
	if len(r.bindings) > 0 {
		log.Printf("script: reset %d programs", len(r.bindings))
	}
	r.bindings = nil
	r.cache = make(map[string][]byte)
}
