package movement

import "github.com/oomph-ac/locomotion/world"

// CanCrouchInCurrentState returns true if the capsule may crouch, which is only the case on
// the ground.
func (c *Component) CanCrouchInCurrentState() bool {
	return c.IsMovingOnGround()
}

func (c *Component) IsCrouching() bool   { return c.crouched }
func (c *Component) WantsToCrouch() bool { return c.wantsToCrouch }

// SetWantsToCrouch sets the crouch intent. The capsule is resized on the next tick.
func (c *Component) SetWantsToCrouch(v bool) { c.wantsToCrouch = v }

// CrouchPressed toggles the crouch intent.
func (c *Component) CrouchPressed() { c.wantsToCrouch = !c.wantsToCrouch }

// Crouch shrinks the capsule to its crouched height. On the ground the bottom of the capsule
// stays in place.
func (c *Component) Crouch() {
	if c.crouched {
		return
	}
	oldHalfHeight := c.halfHeight
	newHalfHeight := c.settings.Movement.CrouchedHalfHeight
	adjust := oldHalfHeight - newHalfHeight

	c.halfHeight = newHalfHeight
	if c.IsMovingOnGround() {
		c.location[2] -= adjust
	}
	c.crouched = true
	c.logger.Debug("crouched", "halfHeight", newHalfHeight)
	c.owner.OnStartCrouch(adjust)
}

// UnCrouch grows the capsule back to its standing height if there is room for it. If the
// standing capsule would be blocked, the capsule stays crouched.
func (c *Component) UnCrouch() {
	if !c.crouched {
		return
	}
	oldHalfHeight := c.halfHeight
	newHalfHeight := c.settings.Movement.CapsuleHalfHeight
	adjust := newHalfHeight - oldHalfHeight

	newLocation := c.location
	if c.IsMovingOnGround() {
		newLocation[2] += adjust
	}

	c.halfHeight = newHalfHeight
	if c.world.Overlaps(c.capsuleBox(newLocation).Grow(-world.OverlapTolerance), c.ignored()...) {
		c.halfHeight = oldHalfHeight
		c.logger.Debug("uncrouch blocked", "location", c.location)
		return
	}
	c.location = newLocation
	c.crouched = false
	c.logger.Debug("uncrouched", "halfHeight", newHalfHeight)
	c.owner.OnEndCrouch(adjust)
}
