package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/jakecoffman/cp"
)

// BodyType selects how the engine integrates a body.
type BodyType int

const (
	Static BodyType = iota
	Kinematic
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", int(t))
	}
}

// ParseBodyType accepts the names produced by String, case-insensitively.
func ParseBodyType(s string) (BodyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return Static, nil
	case "kinematic":
		return Kinematic, nil
	case "dynamic":
		return Dynamic, nil
	}
	return Static, fmt.Errorf("physics: unknown body type %q", s)
}

func (t BodyType) cpType() int {
	switch t {
	case Kinematic:
		return cp.BODY_KINEMATIC
	case Dynamic:
		return cp.BODY_DYNAMIC
	default:
		return cp.BODY_STATIC
	}
}

// State is the adapter lifecycle.
type State int

const (
	Uninitialized State = iota
	// Pending means Initialize was requested before the item's geometry was
	// resolved; the engine body is created on ComponentComplete.
	Pending
	Initialized
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Pending:
		return "pending"
	case Initialized:
		return "initialized"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BodyDef is the cached configuration of a body. It is the source of truth
// before Initialize and is kept in step with the engine afterwards.
type BodyDef struct {
	Type            BodyType
	LinearDamping   float64
	AngularDamping  float64
	Bullet          bool
	AllowSleep      bool
	FixedRotation   bool
	Active          bool
	Awake           bool
	LinearVelocity  cp.Vector
	AngularVelocity float64
	GravityScale    float64
}

// DefaultBodyDef returns a static, awake, active body that may sleep and
// feels full gravity.
func DefaultBodyDef() BodyDef {
	return BodyDef{
		Type:         Static,
		AllowSleep:   true,
		Active:       true,
		Awake:        true,
		GravityScale: 1,
	}
}

// bodyData rides on cp.Body.UserData and carries the per-body settings the
// engine has no native field for. The velocity integrator reads it every step.
type bodyData struct {
	owner          *Body
	linearDamping  float64
	angularDamping float64
	gravityScale   float64
	bullet         bool
	allowSleep     bool
}

func newBodyData(owner *Body, def BodyDef) *bodyData {
	return &bodyData{
		owner:          owner,
		linearDamping:  def.LinearDamping,
		angularDamping: def.AngularDamping,
		gravityScale:   def.GravityScale,
		bullet:         def.Bullet,
		allowSleep:     def.AllowSleep,
	}
}

// restingSpeed is the angular speed below which the damping correction is
// skipped. Engine setters reset the idle timer, so correcting a resting body
// every step would keep it from ever sleeping.
const restingSpeed = 1e-3

// integrateVelocity applies the body's gravity scale and per-body damping on
// top of the space-wide integration. Linear damping folds into the engine's
// damping factor; angular damping is corrected afterwards when it differs.
func integrateVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	data, ok := body.UserData.(*bodyData)
	if !ok || data == nil || body.GetType() != cp.BODY_DYNAMIC {
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		return
	}
	linear := 1 / (1 + dt*data.linearDamping)
	before := body.AngularVelocity()
	cp.BodyUpdateVelocity(body, gravity.Mult(data.gravityScale), damping*linear, dt)
	if data.angularDamping == data.linearDamping {
		return
	}
	// Undo the linear factor on the angular term and apply the angular one.
	w := body.AngularVelocity() + before*damping*(1-linear)
	w /= 1 + dt*data.angularDamping
	if math.Abs(w) > restingSpeed || math.Abs(body.AngularVelocity()) > restingSpeed {
		body.SetAngularVelocity(w)
	}
}
