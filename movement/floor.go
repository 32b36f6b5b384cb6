package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/world"
)

// Floor is the result of a floor check below the capsule.
type Floor struct {
	// BlockingHit is true if a surface was found within the probe distance.
	BlockingHit bool
	// WalkableFloor is true if the surface found is flat enough to walk on.
	WalkableFloor bool
	// FloorDist is the distance from the bottom of the capsule down to the surface. It is
	// negative when the capsule sinks into the surface.
	FloorDist float32
	Hit       world.Hit
}

// IsWalkableFloor returns true if the floor check found a walkable surface.
func (f Floor) IsWalkableFloor() bool {
	return f.BlockingHit && f.WalkableFloor
}

// StepDownResult carries a floor computed while moving, so the caller can skip a new check.
type StepDownResult struct {
	ComputedFloor bool
	Floor         Floor
}

// IsWalkable returns true if a surface with the hit's normal can be walked on.
func (c *Component) IsWalkable(hit world.Hit) bool {
	return hit.Normal.Z() >= c.settings.Movement.WalkableFloorZ
}

// FindFloor probes for a floor below the capsule at loc.
func (c *Component) FindFloor(loc mgl32.Vec3) Floor {
	heightCheckAdjust := float32(-maxFloorDist)
	if c.IsMovingOnGround() {
		heightCheckAdjust = maxFloorDist + kindaSmallNumber
	}
	sweepDist := math32.Max(maxFloorDist, c.settings.Movement.MaxStepHeight+heightCheckAdjust)
	return c.computeFloorDist(loc, sweepDist)
}

func (c *Component) computeFloorDist(loc mgl32.Vec3, sweepDist float32) Floor {
	feet := loc.Z() - c.halfHeight
	hit, ok := c.world.SurfaceBelow(c.capsuleBox(loc), feet+c.settings.Movement.MaxStepHeight, feet-sweepDist, c.ignored()...)
	if !ok {
		return Floor{}
	}
	f := Floor{
		BlockingHit:   true,
		WalkableFloor: c.IsWalkable(hit),
		FloorDist:     feet - hit.Location.Z(),
		Hit:           hit,
	}
	f.Hit.StartPenetrating = f.FloorDist < -kindaSmallNumber && !f.WalkableFloor
	return f
}

// AdjustFloorHeight moves the capsule vertically so that it rests on the current floor.
func (c *Component) AdjustFloorHeight() {
	if !c.floor.IsWalkableFloor() || math32.Abs(c.floor.FloorDist) <= floorTolerance {
		return
	}
	res := c.sweep(mgl32.Vec3{0, 0, -c.floor.FloorDist})
	c.floor.FloorDist += res.Delta.Z()
}

// ResolvePenetration pushes the capsule out of any body it overlaps.
func (c *Component) ResolvePenetration() {
	res := c.sweep(mgl32.Vec3{})
	if res.Penetration.LenSqr() > 0 {
		c.logger.Debug("resolved penetration", "adjustment", res.Delta, "penetration", res.Penetration)
	}
}

func (c *Component) setBaseFromFloor() {
	if c.floor.IsWalkableFloor() {
		c.base = c.floor.Hit.Body
		return
	}
	c.base = nil
}

// CanWalkOffLedges returns true if the capsule may walk off ledges into a fall.
func (c *Component) CanWalkOffLedges() bool {
	if !c.settings.Movement.CanWalkOffLedgesWhenCrouching && c.crouched {
		return false
	}
	return c.settings.Movement.CanWalkOffLedges
}

// ShouldCatchAir returns true if a slide should turn into a fall because the floor dropped
// away by more than the configured height.
func (c *Component) ShouldCatchAir(oldFloor, newFloor Floor) bool {
	height := c.settings.Slide.CatchAirHeight
	if height <= 0 || !c.IsCustomMovementMode(CustomSlide) || !oldFloor.IsWalkableFloor() {
		return false
	}
	return oldFloor.Hit.Location.Z()-newFloor.Hit.Location.Z() > height
}

// GetLedgeMove returns a sideways move to take instead of walking off a ledge, or the zero
// vector if neither side has a walkable floor.
func (c *Component) GetLedgeMove(oldLocation, delta mgl32.Vec3) mgl32.Vec3 {
	if nearlyZero(delta) {
		return mgl32.Vec3{}
	}
	side := mgl32.Vec3{delta.Y(), -delta.X(), 0}
	if c.checkLedgeDirection(oldLocation, side) {
		return side
	}
	side = side.Mul(-1)
	if c.checkLedgeDirection(oldLocation, side) {
		return side
	}
	return mgl32.Vec3{}
}

func (c *Component) checkLedgeDirection(oldLocation, side mgl32.Vec3) bool {
	res := c.world.Sweep(c.capsuleBox(oldLocation), side, c.ignored()...)
	if res.Hit() {
		return false
	}
	f := c.computeFloorDist(oldLocation.Add(res.Delta), c.settings.Movement.MaxStepHeight+c.settings.Movement.LedgeCheckThreshold)
	return f.IsWalkableFloor()
}

// RevertMove moves the capsule back to oldLocation. If failMove is set, the velocity and
// acceleration are cleared as well.
func (c *Component) RevertMove(oldLocation mgl32.Vec3, oldBase *world.Body, oldFloor Floor, failMove bool) {
	c.location = oldLocation
	c.justTeleported = false
	c.floor = oldFloor
	if oldBase != nil && !oldBase.Removed() {
		c.base = oldBase
	} else {
		c.base = nil
	}
	if failMove {
		c.velocity = mgl32.Vec3{}
		c.acceleration = mgl32.Vec3{}
	}
}
