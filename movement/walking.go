package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/world"
)

func (c *Component) physWalking(dt float32, iterations int) {
	if dt < minTickTime {
		return
	}
	if !c.owner.HasController() && !c.owner.HasAnimRootMotion() {
		c.acceleration = mgl32.Vec3{}
		c.velocity = mgl32.Vec3{}
		return
	}

	c.justTeleported = false
	if c.moveOnGround(dt, iterations, c.walkingVelocity) {
		return
	}
	if c.IsMovingOnGround() {
		c.maintainHorizontalGroundVelocity()
	}
}

func (c *Component) walkingVelocity(timeTick float32) {
	c.acceleration[2] = 0
	if !c.owner.HasAnimRootMotion() {
		c.CalcVelocity(timeTick, c.settings.Movement.GroundFriction, c.MaxBrakingDeceleration())
	}
}

// moveOnGround runs the sub-stepped ground movement loop shared by walking and sliding.
// updateVelocity computes the velocity of each sub-step. It returns true if the loop handed
// off to the physics of another mode, in which case the caller must not touch the state.
func (c *Component) moveOnGround(deltaTime float32, iterations int, updateVelocity func(timeTick float32)) bool {
	checkedFall, triedLedgeMove := false, false
	remaining := deltaTime

	for remaining >= minTickTime && iterations < c.settings.Movement.MaxSimulationIterations && c.owner.HasController() {
		iterations++
		c.justTeleported = false
		timeTick := c.simulationTimeStep(remaining, iterations)
		remaining -= timeTick

		oldBase := c.base
		oldLocation := c.location
		oldFloor := c.floor

		c.maintainHorizontalGroundVelocity()
		updateVelocity(timeTick)

		moveVelocity := c.velocity
		delta := moveVelocity.Mul(timeTick)
		zeroDelta := nearlyZero(delta)
		floorWalkable := c.floor.IsWalkableFloor()
		var stepDown StepDownResult

		if zeroDelta {
			remaining = 0
		} else {
			c.MoveAlongFloor(moveVelocity, timeTick, &stepDown)
			if c.IsFalling() {
				if desired := delta.Len(); desired > kindaSmallNumber {
					actual := len2D(c.location.Sub(oldLocation))
					remaining += timeTick * (1 - math32.Min(1, actual/desired))
				}
				c.StartNewPhysics(remaining, iterations)
				return true
			}
		}

		if stepDown.ComputedFloor {
			c.floor = stepDown.Floor
		} else {
			c.floor = c.FindFloor(c.location)
		}

		if !c.CanWalkOffLedges() && !c.floor.IsWalkableFloor() {
			var newDelta mgl32.Vec3
			if !triedLedgeMove {
				newDelta = c.GetLedgeMove(oldLocation, delta)
			}
			if newDelta.LenSqr() != 0 {
				c.RevertMove(oldLocation, oldBase, oldFloor, false)
				triedLedgeMove = true
				c.velocity = newDelta.Mul(1 / timeTick)
				remaining += timeTick
				continue
			}

			mustJump := zeroDelta || oldBase == nil
			if (mustJump || !checkedFall) && c.CheckFall(delta, oldLocation, remaining, timeTick, iterations, mustJump) {
				return true
			}
			checkedFall = true

			c.RevertMove(oldLocation, oldBase, oldFloor, true)
			break
		}

		if c.floor.IsWalkableFloor() {
			if c.ShouldCatchAir(oldFloor, c.floor) {
				c.logger.Debug("caught air", "location", c.location)
				if c.IsMovingOnGround() {
					c.StartFalling(iterations, remaining, timeTick, delta, oldLocation)
				}
				return true
			}
			c.AdjustFloorHeight()
			c.setBaseFromFloor()
		} else if c.floor.Hit.StartPenetrating && remaining <= 0 {
			c.ResolvePenetration()
			c.forceNextFloorCheck = true
		}

		if !c.floor.IsWalkableFloor() && !c.floor.Hit.StartPenetrating {
			mustJump := c.justTeleported || zeroDelta || oldBase == nil
			if (mustJump || !checkedFall) && c.CheckFall(delta, oldLocation, remaining, timeTick, iterations, mustJump) {
				return true
			}
			checkedFall = true
		}

		// Make the velocity reflect the actual move.
		if c.IsMovingOnGround() && floorWalkable && !c.justTeleported && !c.owner.HasAnimRootMotion() && timeTick >= minTickTime {
			c.velocity = c.location.Sub(oldLocation).Mul(1 / timeTick)
			c.maintainHorizontalGroundVelocity()
		}

		if c.location == oldLocation {
			break
		}
	}
	return false
}

// MoveAlongFloor moves the capsule along the current floor with the velocity passed, stepping
// up onto obstacles that are low enough.
func (c *Component) MoveAlongFloor(velocity mgl32.Vec3, dt float32, stepDown *StepDownResult) {
	if !c.floor.IsWalkableFloor() {
		return
	}
	delta := c.groundMovementDelta(mgl32.Vec3{velocity.X(), velocity.Y(), 0}.Mul(dt), c.floor)

	start := c.location
	res := c.sweep(delta)
	if !res.Blocked[0] && !res.Blocked[1] {
		return
	}

	stepped, ok := c.stepUp(start, delta)
	if !ok || len2D(stepped.Sub(start)) <= len2D(res.Delta)+kindaSmallNumber {
		return
	}
	c.location = stepped
	if stepDown != nil {
		stepDown.ComputedFloor = true
		stepDown.Floor = c.FindFloor(c.location)
	}
}

// groundMovementDelta tilts a horizontal delta so that it follows a sloped floor while
// keeping its horizontal length.
func (c *Component) groundMovementDelta(delta mgl32.Vec3, floor Floor) mgl32.Vec3 {
	n := floor.Hit.Normal
	if !floor.IsWalkableFloor() || n.Z() >= 1-kindaSmallNumber || n.Z() < kindaSmallNumber {
		return delta
	}
	delta[2] = -(n.X()*delta.X() + n.Y()*delta.Y()) / n.Z()
	return delta
}

// stepUp tries to move the capsule at start by delta while raised by the max step height, and
// returns the location after settling back down.
func (c *Component) stepUp(start, delta mgl32.Vec3) (mgl32.Vec3, bool) {
	if !c.floor.IsWalkableFloor() || c.settings.Movement.MaxStepHeight <= 0 {
		return start, false
	}
	ignore := c.ignored()
	bb := c.capsuleBox(start)

	up := c.world.Sweep(bb, mgl32.Vec3{0, 0, c.settings.Movement.MaxStepHeight}, ignore...)
	hz := c.world.Sweep(up.Box, mgl32.Vec3{delta.X(), delta.Y(), 0}, ignore...)
	down := c.world.Sweep(hz.Box, mgl32.Vec3{0, 0, -up.Delta.Z()}, ignore...)

	end := start.Add(up.Delta).Add(hz.Delta).Add(down.Delta)
	if c.world.Overlaps(down.Box.Grow(-world.OverlapTolerance), ignore...) {
		return start, false
	}
	if f := c.computeFloorDist(end, maxFloorDist); !f.IsWalkableFloor() {
		return start, false
	}
	return end, true
}

// CheckFall starts a fall if the capsule is allowed to walk off the ledge it is on, or must
// jump off it. It returns true if the fall was started.
func (c *Component) CheckFall(delta, oldLocation mgl32.Vec3, remaining, timeTick float32, iterations int, mustJump bool) bool {
	if !mustJump && !c.CanWalkOffLedges() {
		return false
	}
	if c.IsMovingOnGround() {
		c.StartFalling(iterations, remaining, timeTick, delta, oldLocation)
	}
	return true
}

// StartFalling switches to falling and spends the unused part of the sub-step falling.
func (c *Component) StartFalling(iterations int, remaining, timeTick float32, delta, oldLocation mgl32.Vec3) {
	desired := delta.Len()
	if desired > kindaSmallNumber {
		actual := len2D(c.location.Sub(oldLocation))
		remaining += timeTick * (1 - math32.Min(1, actual/desired))
	} else {
		remaining = 0
	}
	if c.IsMovingOnGround() {
		c.SetMovementMode(ModeFalling, CustomNone)
	}
	c.StartNewPhysics(remaining, iterations)
}
