package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/tag"
)

// MaxSpeed returns the speed the capsule may reach in its current mode.
func (c *Component) MaxSpeed() float32 {
	if c.mode == ModeWalking && c.wantsToSprint && !c.crouched {
		return c.settings.Gait.SprintSpeed
	}
	if c.mode != ModeCustom {
		switch c.mode {
		case ModeWalking:
			if c.crouched {
				return c.maxWalkSpeedCrouched
			}
			return c.maxWalkSpeed
		case ModeFalling:
			return c.maxWalkSpeed
		case ModeFlying:
			return c.settings.Movement.MaxFlySpeed
		}
		return 0
	}

	c.assertCustomMode()
	return c.settings.Slide.MaxSpeed
}

// MaxBrakingDeceleration returns the deceleration applied while braking in the current mode.
func (c *Component) MaxBrakingDeceleration() float32 {
	if c.mode != ModeCustom {
		switch c.mode {
		case ModeWalking:
			return c.settings.Movement.BrakingDecelerationWalking
		case ModeFalling:
			return c.settings.Movement.BrakingDecelerationFalling
		case ModeFlying:
			return c.settings.Movement.BrakingDecelerationFlying
		}
		return 0
	}

	c.assertCustomMode()
	return c.settings.Slide.BrakingDeceleration
}

// MaxAcceleration returns the acceleration applied at full input.
func (c *Component) MaxAcceleration() float32 {
	return c.settings.Movement.MaxAcceleration
}

// IsExceedingMaxSpeed returns true if the velocity is above max by more than a percent.
func (c *Component) IsExceedingMaxSpeed(max float32) bool {
	max = math32.Max(0, max)
	return c.velocity.LenSqr() > max*max*overVelocityPercent
}

// CalcVelocity updates the velocity from the current acceleration, applying friction and
// braking for the time passed.
func (c *Component) CalcVelocity(dt, friction, brakingDeceleration float32) {
	if dt < minTickTime {
		return
	}

	friction = math32.Max(0, friction)
	maxSpeed := c.MaxSpeed()

	zeroAcceleration := c.acceleration.LenSqr() == 0
	velocityOverMax := c.IsExceedingMaxSpeed(maxSpeed)

	if zeroAcceleration || velocityOverMax {
		oldVelocity := c.velocity
		c.ApplyVelocityBraking(dt, friction, brakingDeceleration)

		// Don't let braking drop the velocity below max speed while still accelerating along it.
		if velocityOverMax && c.velocity.LenSqr() < maxSpeed*maxSpeed && c.acceleration.Dot(oldVelocity) > 0 {
			c.velocity = safeNormal(oldVelocity).Mul(maxSpeed)
		}
	} else {
		accelDir := safeNormal(c.acceleration)
		speed := c.velocity.Len()
		c.velocity = c.velocity.Sub(c.velocity.Sub(accelDir.Mul(speed)).Mul(math32.Min(dt*friction, 1)))
	}

	if !zeroAcceleration {
		newMaxInputSpeed := maxSpeed
		if c.IsExceedingMaxSpeed(maxSpeed) {
			newMaxInputSpeed = c.velocity.Len()
		}
		c.velocity = clampedToMaxSize(c.velocity.Add(c.acceleration.Mul(dt)), newMaxInputSpeed)
	}
	c.velocity = c.constrainToPlane(c.velocity)
}

// ApplyVelocityBraking slows the velocity down using friction and a constant deceleration.
func (c *Component) ApplyVelocityBraking(dt, friction, brakingDeceleration float32) {
	if c.velocity.LenSqr() == 0 || dt < minTickTime {
		return
	}

	friction = math32.Max(0, friction*math32.Max(0, c.brakingFrictionFactor))
	brakingDeceleration = math32.Max(0, brakingDeceleration)
	zeroFriction := friction == 0
	zeroBraking := brakingDeceleration == 0
	if zeroFriction && zeroBraking {
		return
	}

	oldVelocity := c.velocity
	var revAccel mgl32.Vec3
	if !zeroBraking {
		revAccel = safeNormal(c.velocity).Mul(-brakingDeceleration)
	}

	remaining := dt
	for remaining >= minTickTime {
		step := remaining
		if remaining > brakingSubStepTime && !zeroFriction {
			step = math32.Min(brakingSubStepTime, remaining*0.5)
		}
		remaining -= step

		c.velocity = c.velocity.Add(c.velocity.Mul(-friction).Add(revAccel).Mul(step))
		// Braking must never reverse the velocity.
		if c.velocity.Dot(oldVelocity) <= 0 {
			c.velocity = mgl32.Vec3{}
			return
		}
	}

	if l := c.velocity.LenSqr(); l <= kindaSmallNumber || (!zeroBraking && l <= brakeToStopVelocity*brakeToStopVelocity) {
		c.velocity = mgl32.Vec3{}
	}
}

func (c *Component) maintainHorizontalGroundVelocity() {
	c.velocity[2] = 0
}

// RefreshMaxWalkSpeed sets the standing and crouched max walk speed from the max allowed gait
// and the stance.
func (c *Component) RefreshMaxWalkSpeed() {
	speed := c.settings.SpeedForGait(c.maxAllowedGait, c.stance)
	c.maxWalkSpeed = speed
	c.maxWalkSpeedCrouched = speed
}

// MaxWalkSpeed returns the max walk speed set by RefreshMaxWalkSpeed.
func (c *Component) MaxWalkSpeed() float32 { return c.maxWalkSpeed }

// MaxWalkSpeedCrouched returns the crouched max walk speed set by RefreshMaxWalkSpeed.
func (c *Component) MaxWalkSpeedCrouched() float32 { return c.maxWalkSpeedCrouched }

// Stance returns the stance last pushed by the owner.
func (c *Component) Stance() tag.Stance { return c.stance }

// SetStance sets the stance and refreshes the max walk speed if it changed.
func (c *Component) SetStance(stance tag.Stance) {
	if c.stance != stance {
		c.stance = stance
		c.RefreshMaxWalkSpeed()
	}
}

// MaxAllowedGait returns the max allowed gait last pushed by the owner.
func (c *Component) MaxAllowedGait() tag.Gait { return c.maxAllowedGait }

// SetMaxAllowedGait sets the max allowed gait and refreshes the max walk speed if it changed.
func (c *Component) SetMaxAllowedGait(gait tag.Gait) {
	if c.maxAllowedGait != gait {
		c.maxAllowedGait = gait
		c.RefreshMaxWalkSpeed()
	}
}
