package physics

import "github.com/jakecoffman/cp"

func (b *Body) LinearDamping() float64 {
	if b.data != nil {
		return b.data.linearDamping
	}
	return b.def.LinearDamping
}

func (b *Body) SetLinearDamping(v float64) {
	if b.LinearDamping() == v {
		return
	}
	b.def.LinearDamping = v
	if b.data != nil {
		b.data.linearDamping = v
	}
	b.LinearDampingChanged.Emit(v)
}

func (b *Body) AngularDamping() float64 {
	if b.data != nil {
		return b.data.angularDamping
	}
	return b.def.AngularDamping
}

func (b *Body) SetAngularDamping(v float64) {
	if b.AngularDamping() == v {
		return
	}
	b.def.AngularDamping = v
	if b.data != nil {
		b.data.angularDamping = v
	}
	b.AngularDampingChanged.Emit(v)
}

func (b *Body) BodyType() BodyType {
	return b.def.Type
}

// SetBodyType converts the body. Becoming static clears its velocities and
// reports the change after the type notification.
func (b *Body) SetBodyType(t BodyType) {
	if b.def.Type == t {
		return
	}
	b.def.Type = t
	cb := b.live()
	if cb == nil {
		b.BodyTypeChanged.Emit(t)
		return
	}

	v, w := cb.Velocity(), cb.AngularVelocity()
	cb.SetType(t.cpType())
	b.resetMass()
	if t != Static {
		cb.Activate()
		b.BodyTypeChanged.Emit(t)
		return
	}

	b.def.LinearVelocity = cp.Vector{}
	b.def.AngularVelocity = 0
	b.BodyTypeChanged.Emit(t)
	if (v != cp.Vector{}) {
		b.LinearVelocityChanged.Emit(cp.Vector{})
	}
	if w != 0 {
		b.AngularVelocityChanged.Emit(0)
	}
}

func (b *Body) IsBullet() bool {
	if b.data != nil {
		return b.data.bullet
	}
	return b.def.Bullet
}

// SetBullet flags a fast-moving body. The engine resolves collisions
// discretely; the flag travels with the engine body for collision handlers
// that want to special-case bullets.
func (b *Body) SetBullet(v bool) {
	if b.IsBullet() == v {
		return
	}
	b.def.Bullet = v
	if b.data != nil {
		b.data.bullet = v
	}
	b.BulletChanged.Emit(v)
}

func (b *Body) SleepingAllowed() bool {
	if b.data != nil {
		return b.data.allowSleep
	}
	return b.def.AllowSleep
}

// SetSleepingAllowed toggles sleeping. Disallowing it wakes the body.
func (b *Body) SetSleepingAllowed(v bool) {
	if b.SleepingAllowed() == v {
		return
	}
	b.def.AllowSleep = v
	if b.data != nil {
		b.data.allowSleep = v
	}
	if !v {
		b.SetAwake(true)
	}
	b.SleepingAllowedChanged.Emit(v)
}

func (b *Body) FixedRotation() bool {
	return b.def.FixedRotation
}

// SetFixedRotation locks or unlocks rotation. Locking also stops any spin.
func (b *Body) SetFixedRotation(v bool) {
	if b.def.FixedRotation == v {
		return
	}
	b.def.FixedRotation = v
	if cb := b.live(); cb != nil {
		b.resetMass()
		if v && cb.GetType() == cp.BODY_DYNAMIC {
			cb.SetAngularVelocity(0)
			b.def.AngularVelocity = 0
		}
	}
	b.FixedRotationChanged.Emit(v)
}

func (b *Body) IsActive() bool {
	if b.live() != nil {
		return b.inSpace
	}
	return b.def.Active
}

// SetActive adds the body to or removes it from the simulation. An inactive
// body keeps its engine handle and fixtures but takes no part in stepping or
// collisions.
func (b *Body) SetActive(v bool) {
	if b.IsActive() == v {
		return
	}
	b.def.Active = v
	cb := b.live()
	w := b.World()
	if cb != nil && w != nil {
		if v {
			w.space.AddBody(cb)
			for _, f := range b.fixtures {
				for _, s := range f.shapes {
					w.space.AddShape(s)
				}
			}
			b.inSpace = true
			b.resetMass()
		} else {
			for _, f := range b.fixtures {
				for _, s := range f.shapes {
					w.space.RemoveShape(s)
				}
			}
			w.space.RemoveBody(cb)
			b.inSpace = false
		}
	}
	b.ActiveChanged.Emit(v)
}

func (b *Body) IsAwake() bool {
	if cb := b.live(); cb != nil {
		return !cb.IsSleeping()
	}
	return b.def.Awake
}

// SetAwake wakes the body or brings it to rest so the world can put it to
// sleep. AwakeChanged(false) follows once the engine reports the body asleep.
// Sleep requests are ignored when sleeping is not allowed for the body or
// disabled in its world.
func (b *Body) SetAwake(v bool) {
	if b.IsAwake() == v {
		return
	}
	if cb := b.live(); cb != nil {
		if v {
			cb.Activate()
		} else {
			b.sleep()
		}
		v = !cb.IsSleeping()
		if v == b.def.Awake {
			return
		}
	}
	b.def.Awake = v
	b.AwakeChanged.Emit(v)
}

func (b *Body) LinearVelocity() cp.Vector {
	if cb := b.live(); cb != nil {
		return cb.Velocity()
	}
	return b.def.LinearVelocity
}

// SetLinearVelocity sets the velocity. Static bodies ignore it once created.
func (b *Body) SetLinearVelocity(v cp.Vector) {
	if b.LinearVelocity() == v {
		return
	}
	if cb := b.live(); cb != nil {
		if cb.GetType() == cp.BODY_STATIC {
			return
		}
		cb.SetVelocityVector(v)
	}
	b.def.LinearVelocity = v
	b.LinearVelocityChanged.Emit(v)
}

func (b *Body) AngularVelocity() float64 {
	if cb := b.live(); cb != nil {
		return cb.AngularVelocity()
	}
	return b.def.AngularVelocity
}

// SetAngularVelocity sets the spin in radians per second. Static bodies
// ignore it once created.
func (b *Body) SetAngularVelocity(w float64) {
	if b.AngularVelocity() == w {
		return
	}
	if cb := b.live(); cb != nil {
		if cb.GetType() == cp.BODY_STATIC {
			return
		}
		cb.SetAngularVelocity(w)
	}
	b.def.AngularVelocity = w
	b.AngularVelocityChanged.Emit(w)
}

func (b *Body) GravityScale() float64 {
	if b.data != nil {
		return b.data.gravityScale
	}
	return b.def.GravityScale
}

func (b *Body) SetGravityScale(v float64) {
	if b.GravityScale() == v {
		return
	}
	b.def.GravityScale = v
	if b.data != nil {
		b.data.gravityScale = v
	}
	b.GravityScaleChanged.Emit(v)
}
