package character

import (
	"github.com/oomph-ac/locomotion/tag"
)

// SetDesiredStance records the stance the character should be in and applies it. Setting the
// current desired stance does nothing.
func (c *Character) SetDesiredStance(stance tag.Stance) {
	if c.state.DesiredStance == stance {
		return
	}
	c.state.DesiredStance = stance
	c.ApplyDesiredStance()
}

// ApplyDesiredStance requests a crouch or uncrouch from the movement component. Without an
// action, a grounded character follows its desired stance and an airborne character stands.
// Sliding and rolling always crouch. The capsule is resized on the next movement tick and
// the stance only changes once that succeeds.
func (c *Character) ApplyDesiredStance() {
	switch c.state.Action {
	case tag.ActionNone:
		switch c.state.Mode {
		case tag.LocomotionModeGrounded:
			if c.state.DesiredStance == tag.StanceCrouching {
				c.Crouch()
			} else {
				c.UnCrouch()
			}
		case tag.LocomotionModeInAir:
			c.UnCrouch()
		}
	case tag.ActionSliding, tag.ActionRolling:
		c.Crouch()
	}
}

// Crouch requests the capsule to crouch.
func (c *Character) Crouch() {
	c.movement.SetWantsToCrouch(true)
}

// UnCrouch requests the capsule to stand up.
func (c *Character) UnCrouch() {
	c.movement.SetWantsToCrouch(false)
}

// CanCrouch returns true if the character is crouched or may start crouching.
func (c *Character) CanCrouch() bool {
	return c.movement.IsCrouching() || c.movement.CanCrouchInCurrentState()
}

func (c *Character) setStance(stance tag.Stance) {
	c.movement.SetStance(stance)
	if c.state.Stance == stance {
		return
	}
	prev := c.state.Stance
	c.state.Stance = stance
	c.log.Debug("stance changed", "from", prev, "to", stance)
}

// SetDesiredGait records the gait the character should move in. The gait itself follows on
// the next RefreshGait.
func (c *Character) SetDesiredGait(gait tag.Gait) {
	if c.state.DesiredGait == gait {
		return
	}
	c.state.DesiredGait = gait
}

// SetGait sets the current gait and calls the OnGaitChanged hook if it changed.
func (c *Character) SetGait(gait tag.Gait) {
	if c.state.Gait == gait {
		return
	}
	prev := c.state.Gait
	c.state.Gait = gait
	c.hooks.OnGaitChanged(c, prev)
}

// RefreshGait recomputes the max allowed gait, pushes it into the movement component and
// derives the current gait from the speed. It does nothing unless the character is grounded.
func (c *Character) RefreshGait() {
	if c.state.Mode != tag.LocomotionModeGrounded {
		return
	}
	maxGait := c.CalculateMaxAllowedGait()
	c.movement.SetMaxAllowedGait(maxGait)
	c.SetGait(c.CalculateActualGait(maxGait))
}

// CalculateMaxAllowedGait returns the fastest gait the character may currently move in.
func (c *Character) CalculateMaxAllowedGait() tag.Gait {
	if c.forceWalkRun && c.state.DesiredGait != tag.GaitSprinting {
		return c.state.DesiredGait
	}
	if c.forceRunSprint {
		if c.CanSprint() {
			return tag.GaitSprinting
		}
		return tag.GaitRunning
	}
	if c.forceWalkRun {
		return tag.GaitRunning
	}
	return tag.GaitWalking
}

// CalculateActualGait derives the gait from the speed. A gait is only left once the speed
// passes the next gait's speed plus the hysteresis, which keeps the gait from flickering
// around the boundary speeds.
func (c *Character) CalculateActualGait(maxAllowedGait tag.Gait) tag.Gait {
	speed := c.movement.Speed()
	g := c.settings.Gait
	if speed < g.WalkSpeed+g.Hysteresis {
		return tag.GaitWalking
	}
	if speed < g.RunSpeed+g.Hysteresis || maxAllowedGait != tag.GaitSprinting {
		return tag.GaitRunning
	}
	return tag.GaitSprinting
}

// CanSprint returns true if the character has directional input, stands, and sprinting is
// enabled on its movement component.
func (c *Character) CanSprint() bool {
	if !c.movement.HasInput() || c.state.Stance != tag.StanceStanding {
		return false
	}
	return c.movement.CanSprint()
}

func (c *Character) setLocomotionMode(mode tag.LocomotionMode) {
	if c.state.Mode == mode {
		return
	}
	prev := c.state.Mode
	c.state.Mode = mode
	c.NotifyLocomotionModeChanged(prev)
}

// NotifyLocomotionModeChanged reapplies the desired stance after a mode change. On landing, it
// either starts a roll or raises the braking friction for a short time.
func (c *Character) NotifyLocomotionModeChanged(prev tag.LocomotionMode) {
	c.log.Debug("locomotion mode changed", "from", prev, "to", c.state.Mode)
	c.ApplyDesiredStance()

	if c.state.Mode != tag.LocomotionModeGrounded || prev != tag.LocomotionModeInAir {
		return
	}
	if c.settings.Roll.Enabled && c.movement.LandingVelocity().Z() <= -c.settings.Roll.LandingSpeed {
		c.TryStartRolling()
		return
	}

	factor := c.settings.Braking.NoInputFrictionFactor
	if c.movement.HasInput() {
		factor = c.settings.Braking.HasInputFrictionFactor
	}
	c.movement.SetBrakingFrictionFactor(factor)
	c.timers.Set(&c.brakingFrictionReset, c.settings.Braking.ResetDelay, func() {
		c.movement.SetBrakingFrictionFactor(1)
		c.log.Debug("braking friction factor reset")
	})
	c.log.Debug("landed", "brakingFrictionFactor", factor)
}

// SetLocomotionAction sets the current action. Setting the current action does nothing.
func (c *Character) SetLocomotionAction(action tag.Action) {
	if c.state.Action == action {
		return
	}
	prev := c.state.Action
	c.state.Action = action
	c.NotifyLocomotionActionChanged(prev)
}

// NotifyLocomotionActionChanged reapplies the desired stance after an action change.
func (c *Character) NotifyLocomotionActionChanged(prev tag.Action) {
	c.log.Debug("locomotion action changed", "from", prev, "to", c.state.Action)
	c.ApplyDesiredStance()
}
