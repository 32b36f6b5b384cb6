package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func (c *Component) physFalling(dt float32, iterations int) {
	if dt < minTickTime {
		return
	}

	fallAcceleration := mgl32.Vec3{c.acceleration.X(), c.acceleration.Y(), 0}.Mul(c.settings.Movement.AirControl)
	remaining := dt
	for remaining >= minTickTime && iterations < c.settings.Movement.MaxSimulationIterations {
		iterations++
		timeTick := c.simulationTimeStep(remaining, iterations)
		remaining -= timeTick

		oldVelocity := c.velocity

		// Lateral velocity is computed without the vertical component.
		savedAcceleration := c.acceleration
		c.acceleration = fallAcceleration
		c.velocity[2] = 0
		c.CalcVelocity(timeTick, c.settings.Movement.FallingLateralFriction, c.MaxBrakingDeceleration())
		c.velocity[2] = oldVelocity.Z()
		c.acceleration = savedAcceleration

		c.velocity = c.newFallVelocity(c.velocity, timeTick)
		delta := oldVelocity.Add(c.velocity).Mul(0.5 * timeTick)

		res := c.sweep(delta)
		if c.velocity.Z() <= 0 {
			floor := c.computeFloorDist(c.location, maxFloorDist)
			if floor.BlockingHit && floor.FloorDist <= maxFloorDist {
				if floor.WalkableFloor {
					remaining += timeTick * (1 - res.Fraction(delta))
					c.ProcessLanded(floor, remaining, iterations)
					return
				}
				if floor.FloorDist < 0 {
					// Sunk into a slope that is too steep to stand on: slide down along it.
					c.sweep(mgl32.Vec3{0, 0, -floor.FloorDist})
					n := floor.Hit.Normal
					if into := c.velocity.Dot(n); into < 0 {
						c.velocity = c.velocity.Sub(n.Mul(into))
					}
				}
			}
		}

		if res.Blocked[2] && delta.Z() > 0 {
			c.velocity[2] = math32.Min(0, c.velocity.Z())
		}
		if res.Blocked[0] {
			c.velocity[0] = 0
		}
		if res.Blocked[1] {
			c.velocity[1] = 0
		}
	}
}

func (c *Component) newFallVelocity(v mgl32.Vec3, dt float32) mgl32.Vec3 {
	v[2] += c.settings.Movement.GravityZ * dt
	if terminal := c.settings.Movement.TerminalVelocity; terminal > 0 && math32.Abs(v.Z()) > terminal {
		if v.Z() > 0 {
			v[2] = terminal
		} else {
			v[2] = -terminal
		}
	}
	return v
}

// ProcessLanded handles the capsule landing on the floor passed and continues with the
// remaining time on the ground.
func (c *Component) ProcessLanded(floor Floor, remaining float32, iterations int) {
	c.landingVelocity = c.velocity
	c.floor = floor
	c.logger.Debug("landed", "location", c.location, "velocity", c.velocity)

	if c.IsFalling() {
		c.SetMovementMode(ModeWalking, CustomNone)
	}
	c.StartNewPhysics(remaining, iterations)
}

func (c *Component) physFlying(dt float32, iterations int) {
	if dt < minTickTime {
		return
	}
	if !c.owner.HasAnimRootMotion() {
		c.CalcVelocity(dt, 0, c.MaxBrakingDeceleration())
	}

	delta := c.velocity.Mul(dt)
	res := c.sweep(delta)
	for i := 0; i < 3; i++ {
		if res.Blocked[i] {
			c.velocity[i] = 0
		}
	}
}
