package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/tag"
)

// CanSlide returns true if the capsule is crouched, has a walkable surface close below it and
// moves faster than the min slide speed.
func (c *Component) CanSlide() bool {
	if c.stance != tag.StanceCrouching {
		return false
	}
	start := c.location
	end := start.Sub(mgl32.Vec3{0, 0, c.halfHeight * c.settings.Slide.FloorTraceScale})
	hit, ok := c.world.LineTrace(start, end, c.ignored()...)
	validSurface := ok && c.IsWalkable(hit)

	minSpeed := c.settings.Slide.MinSpeed
	enoughSpeed := c.velocity.LenSqr() > minSpeed*minSpeed

	return validSurface && enoughSpeed
}

func (c *Component) enterSlide(prevMode Mode, prevCustom CustomMode) {
	c.wantsToCrouch = true
	c.orientRotationToMovement = false
	c.velocity = c.velocity.Add(safeNormal2D(c.velocity).Mul(c.settings.Slide.EnterImpulse))
	c.floor = c.FindFloor(c.location)
	c.logger.Debug("entered slide", "from", prevMode, "velocity", c.velocity)
}

func (c *Component) exitSlide() {
	c.wantsToCrouch = false
	c.orientRotationToMovement = true
	c.logger.Debug("exited slide", "to", c.mode, "velocity", c.velocity)
}

// PhysSlide runs the slide physics for the time passed. The capsule keeps its speed on flat
// ground apart from friction, accelerates down slopes and can only be steered sideways.
func (c *Component) PhysSlide(dt float32, iterations int) {
	if dt < minTickTime {
		return
	}
	if !c.CanSlide() {
		c.SetMovementMode(ModeWalking, CustomNone)
		c.StartNewPhysics(dt, iterations)
		return
	}

	c.justTeleported = false
	if c.moveOnGround(dt, iterations, c.slideVelocity) {
		return
	}

	if dir := safeNormal2D(c.velocity); dir.LenSqr() > 0 {
		c.yaw = yawOf(dir)
	}
}

func (c *Component) slideVelocity(timeTick float32) {
	slopeForce := c.floor.Hit.Normal
	slopeForce[2] = 0
	c.velocity = c.velocity.Add(slopeForce.Mul(c.settings.Slide.GravityForce * timeTick))

	c.acceleration = projectOnto(c.acceleration, safeNormal2D(c.RightVector()))

	c.CalcVelocity(timeTick, c.settings.Movement.GroundFriction*c.settings.Slide.FrictionFactor, c.MaxBrakingDeceleration())
}
