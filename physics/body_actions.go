package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// dynamic returns the engine body when forces can act on it.
func (b *Body) dynamic() *cp.Body {
	cb := b.live()
	if cb == nil || cb.GetType() != cp.BODY_DYNAMIC {
		return nil
	}
	return cb
}

// ApplyForce applies force at a world point for the next step. Before
// Initialize it does nothing; nothing is queued.
func (b *Body) ApplyForce(force, point cp.Vector) {
	if cb := b.dynamic(); cb != nil {
		cb.ApplyForceAtWorldPoint(force, point)
	}
}

// ApplyTorque adds torque for the next step.
func (b *Body) ApplyTorque(torque float64) {
	if cb := b.dynamic(); cb != nil {
		cb.SetTorque(cb.Torque() + torque)
	}
}

// ApplyLinearImpulse changes velocity immediately as if struck at point.
func (b *Body) ApplyLinearImpulse(impulse, point cp.Vector) {
	if cb := b.dynamic(); cb != nil {
		cb.ApplyImpulseAtWorldPoint(impulse, point)
	}
}

// ApplyAngularImpulse changes the spin immediately.
func (b *Body) ApplyAngularImpulse(impulse float64) {
	cb := b.dynamic()
	if cb == nil {
		return
	}
	i := cb.Moment()
	if !(i > 0) || math.IsInf(i, 1) {
		return
	}
	cb.SetAngularVelocity(cb.AngularVelocity() + impulse/i)
}

// WorldCenter returns the center of mass in world coordinates, or the zero
// vector before Initialize.
func (b *Body) WorldCenter() cp.Vector {
	cb := b.live()
	if cb == nil {
		return cp.Vector{}
	}
	return cb.LocalToWorld(cb.CenterOfGravity())
}

// LocalCenter returns the center of mass relative to the body origin.
func (b *Body) LocalCenter() cp.Vector {
	cb := b.live()
	if cb == nil {
		return cp.Vector{}
	}
	return cb.CenterOfGravity()
}

// Mass returns the mass of a dynamic body and zero otherwise.
func (b *Body) Mass() float64 {
	cb := b.dynamic()
	if cb == nil {
		return 0
	}
	return cb.Mass()
}

// Inertia returns the rotational inertia about the body origin. Bodies that
// cannot rotate report zero.
func (b *Body) Inertia() float64 {
	cb := b.dynamic()
	if cb == nil {
		return 0
	}
	i := cb.Moment()
	if math.IsInf(i, 1) || !(i > 0) {
		return 0
	}
	return i + cb.Mass()*cb.CenterOfGravity().LengthSq()
}

// ResetMassData recomputes mass, center and inertia from the fixtures.
func (b *Body) ResetMassData() {
	if b.live() == nil {
		return
	}
	b.resetMass()
}

// LinearVelocityFromWorldPoint returns the velocity of a world point attached
// to the body.
func (b *Body) LinearVelocityFromWorldPoint(point cp.Vector) cp.Vector {
	cb := b.live()
	if cb == nil {
		return cp.Vector{}
	}
	return cb.VelocityAtWorldPoint(point)
}

// LinearVelocityFromLocalPoint returns the velocity of a body-local point.
func (b *Body) LinearVelocityFromLocalPoint(point cp.Vector) cp.Vector {
	cb := b.live()
	if cb == nil {
		return cp.Vector{}
	}
	return cb.VelocityAtLocalPoint(point)
}
