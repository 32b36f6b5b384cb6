package character

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/tag"
)

// Jump makes the character jump if it stands on the ground without an action in progress.
func (c *Character) Jump() {
	if c.state.Stance == tag.StanceStanding && c.state.Action == tag.ActionNone && c.state.Mode == tag.LocomotionModeGrounded {
		c.movement.Jump()
	}
}

// StopJumping cancels a pending jump.
func (c *Character) StopJumping() {
	c.movement.StopJumping()
}

// InputMove adds movement input. v.Y() moves along the control yaw and v.X() to the right of
// it.
func (c *Character) InputMove(v mgl32.Vec2, controlYaw float32) {
	rad := mgl32.DegToRad(controlYaw)
	forward := mgl32.Vec3{math32.Cos(rad), math32.Sin(rad), 0}
	right := mgl32.Vec3{-math32.Sin(rad), math32.Cos(rad), 0}
	c.movement.AddInputVector(forward.Mul(v.Y()).Add(right.Mul(v.X())))
}

// InputSprint handles the sprint button. Holding it makes sprinting the desired gait.
func (c *Character) InputSprint(pressed bool) {
	if pressed {
		c.SetDesiredGait(tag.GaitSprinting)
		c.movement.SetCanSprint(true)
		c.movement.SprintPressed()
		return
	}
	c.SetDesiredGait(tag.GaitRunning)
	c.movement.SetCanSprint(false)
	c.movement.SprintReleased()
}

// InputJump handles the jump button. A crouched character stands up instead of jumping.
func (c *Character) InputJump(pressed bool) {
	if !pressed {
		c.StopJumping()
		return
	}
	if c.state.Stance == tag.StanceCrouching {
		c.SetDesiredStance(tag.StanceStanding)
		return
	}
	c.MantleTrace()
	c.Jump()
}

// InputCrouch toggles the desired stance.
func (c *Character) InputCrouch() {
	if c.state.DesiredStance == tag.StanceStanding {
		c.SetDesiredStance(tag.StanceCrouching)
	} else {
		c.SetDesiredStance(tag.StanceStanding)
	}
}

// InputInteract ends a push in progress, or interacts with the closest interactable in range.
func (c *Character) InputInteract() {
	if c.push != nil && c.push.IsPushingObject() {
		c.push.EndPush()
		return
	}
	c.Interact()
}
