package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/world"
)

func (c *Component) Settings() *settings.Settings { return c.settings }
func (c *Component) World() *world.World          { return c.world }

func (c *Component) Location() mgl32.Vec3 { return c.location }
func (c *Component) Yaw() float32         { return c.yaw }

// SetYaw sets the facing of the capsule in degrees.
func (c *Component) SetYaw(yaw float32) { c.yaw = normalizeYaw(yaw) }

func (c *Component) Velocity() mgl32.Vec3 { return c.velocity }

// SetVelocity sets the velocity of the capsule.
func (c *Component) SetVelocity(v mgl32.Vec3) { c.velocity = c.constrainToPlane(v) }

// Acceleration returns the acceleration computed from input in the last tick.
func (c *Component) Acceleration() mgl32.Vec3 { return c.acceleration }

// Speed returns the horizontal speed of the capsule.
func (c *Component) Speed() float32 { return len2D(c.velocity) }

// LandingVelocity returns the velocity the capsule had when it last landed.
func (c *Component) LandingVelocity() mgl32.Vec3 { return c.landingVelocity }

func (c *Component) Mode() Mode             { return c.mode }
func (c *Component) CustomMode() CustomMode { return c.customMode }

// IsMovementMode returns true if the component is in the mode passed.
func (c *Component) IsMovementMode(m Mode) bool { return c.mode == m }

// IsCustomMovementMode returns true if the component is in the custom mode passed.
func (c *Component) IsCustomMovementMode(m CustomMode) bool {
	return c.mode == ModeCustom && c.customMode == m
}

func (c *Component) IsWalking() bool { return c.mode == ModeWalking }
func (c *Component) IsFalling() bool { return c.mode == ModeFalling }
func (c *Component) IsFlying() bool  { return c.mode == ModeFlying }

// IsMovingOnGround returns true while walking or sliding.
func (c *Component) IsMovingOnGround() bool {
	return c.mode == ModeWalking || c.IsCustomMovementMode(CustomSlide)
}

// CurrentFloor returns the result of the last floor check.
func (c *Component) CurrentFloor() Floor { return c.floor }

// Base returns the body the capsule is standing on, or nil.
func (c *Component) Base() *world.Body { return c.base }

func (c *Component) CapsuleRadius() float32     { return c.settings.Movement.CapsuleRadius }
func (c *Component) CapsuleHalfHeight() float32 { return c.halfHeight }

// ForwardVector returns the horizontal direction the capsule faces.
func (c *Component) ForwardVector() mgl32.Vec3 {
	rad := mgl32.DegToRad(c.yaw)
	return mgl32.Vec3{math32.Cos(rad), math32.Sin(rad), 0}
}

// RightVector returns the horizontal direction to the right of the capsule.
func (c *Component) RightVector() mgl32.Vec3 {
	rad := mgl32.DegToRad(c.yaw)
	return mgl32.Vec3{-math32.Sin(rad), math32.Cos(rad), 0}
}

func (c *Component) OrientRotationToMovement() bool { return c.orientRotationToMovement }

// SetOrientRotationToMovement sets whether the capsule turns towards its acceleration.
func (c *Component) SetOrientRotationToMovement(v bool) { c.orientRotationToMovement = v }

func (c *Component) BrakingFrictionFactor() float32 { return c.brakingFrictionFactor }

// SetBrakingFrictionFactor sets the factor applied to friction while braking.
func (c *Component) SetBrakingFrictionFactor(f float32) { c.brakingFrictionFactor = f }

// HasInput returns true if there was directional input in the last tick.
func (c *Component) HasInput() bool { return c.hasInput }

func (c *Component) WantsToSprint() bool { return c.wantsToSprint }
func (c *Component) CanSprint() bool     { return c.canSprint }

// SetCanSprint sets the external flag that allows sprinting.
func (c *Component) SetCanSprint(v bool) { c.canSprint = v }

// SprintPressed marks the intent to sprint.
func (c *Component) SprintPressed() { c.wantsToSprint = true }

// SprintReleased clears the intent to sprint.
func (c *Component) SprintReleased() { c.wantsToSprint = false }
