package interact

import (
	"log/slog"

	"github.com/oomph-ac/locomotion/character"
)

// PushComponent lets a character push a Pushable. While pushing, the character is attached to
// the pushable, can only move along the push direction and is moved together with the
// pushable every tick.
type PushComponent struct {
	c       *character.Character
	log     *slog.Logger
	current *Pushable
}

// NewPushComponent creates a push component and installs it on c.
func NewPushComponent(c *character.Character) *PushComponent {
	p := &PushComponent{c: c, log: c.Logger()}
	c.SetPushComponent(p)
	return p
}

// BeginPush starts pushing p. It does nothing while another pushable that is still part of
// the world is being pushed.
func (p *PushComponent) BeginPush(pushable *Pushable) {
	if p.IsPushingObject() {
		return
	}
	p.current = pushable

	mv := p.c.Movement()
	mv.AttachTo(pushable.Body())
	mv.SetPlaneConstraintNormal(p.c.RightVector())
	mv.SetPlaneConstraintEnabled(true)
	mv.SetOrientRotationToMovement(false)
	p.log.Debug("push started", "pushable", pushable.Body().Name())
}

// EndPush stops pushing and gives the character its free movement back.
func (p *PushComponent) EndPush() {
	p.current = nil

	mv := p.c.Movement()
	mv.Detach()
	mv.SetPlaneConstraintEnabled(false)
	mv.SetOrientRotationToMovement(true)
	p.log.Debug("push ended")
}

// IsPushingObject returns true while a pushable that is still part of the world is being
// pushed.
func (p *PushComponent) IsPushingObject() bool {
	return p.current != nil && !p.current.Body().Removed()
}

// Current returns the pushable being pushed, or nil.
func (p *PushComponent) Current() *Pushable {
	if !p.IsPushingObject() {
		return nil
	}
	return p.current
}

// PushableHeight returns how far the top of the pushable rises above the character's lower
// body, measured from half way between the capsule centre and its bottom. It returns 0 when
// nothing is being pushed.
func (p *PushComponent) PushableHeight() float32 {
	if !p.IsPushingObject() {
		return 0
	}
	top := p.current.Body().Box().Max().Z()
	feet := p.c.Location().Z() - p.c.Movement().CapsuleHalfHeight()/2
	return top - feet
}

// Tick moves the pushable and the character forward at the push speed. A push whose
// pushable was removed from the world is ended.
func (p *PushComponent) Tick(dt float32) {
	if p.current == nil {
		return
	}
	if !p.IsPushingObject() {
		p.EndPush()
		return
	}

	body := p.current.Body()
	delta := p.c.ForwardVector().Mul(p.c.Settings().Push.Speed * dt)
	res := p.current.w.Sweep(body.Box(), delta, body)
	if res.Delta.LenSqr() == 0 || !p.current.w.MoveBody(body, res.Delta) {
		return
	}
	p.c.Movement().MoveAttached(res.Delta)
}
