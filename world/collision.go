package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

type clipCollideResult struct {
	depenetratingAxis     int
	penetration           float32
	clippedVelocity       mgl32.Vec3
	depenetratingVelocity mgl32.Vec3
}

// ClipCollide clips the velocity of a moving box against a stationary one so that the moving
// box stops at the stationary box's face. If both boxes already overlap, the velocity is
// instead changed to push the moving box out along the axis of least penetration, unless
// oneWay is set. The deepest penetration seen per axis is accumulated into penetration.
func ClipCollide(stationary, moving cube.BBox, vel mgl32.Vec3, oneWay bool, penetration *mgl32.Vec3) mgl32.Vec3 {
	result := doClipCollide(stationary, moving, vel)
	if penetration != nil && penetration[result.depenetratingAxis] < result.penetration {
		penetration[result.depenetratingAxis] = result.penetration
	}

	if oneWay {
		return result.clippedVelocity
	}
	return result.depenetratingVelocity
}

func doClipCollide(stationary, moving cube.BBox, velocity mgl32.Vec3) (result clipCollideResult) {
	result.clippedVelocity = velocity
	result.depenetratingVelocity = velocity

	if HasZeroVolume(stationary) {
		return
	}

	axisPenetrations := [3]float32{}
	axisPenetrationsSigned := [3]float32{}
	normalDirs := [3]float32{}
	separatingAxes, separatingAxis := 0, 0

	for i := 0; i < 3; i++ {
		minPenetration := moving.Max()[i] - stationary.Min()[i]
		maxPenetration := stationary.Max()[i] - moving.Min()[i]

		if math32.Abs(minPenetration) <= 1e-5 {
			minPenetration = 0
		}
		if math32.Abs(maxPenetration) <= 1e-5 {
			maxPenetration = 0
		}

		minPositive := math32.Max(0, minPenetration)
		maxPositive := math32.Max(0, maxPenetration)

		if minPositive == 0 {
			axisPenetrationsSigned[i] = minPenetration
			normalDirs[i] = -1
			separatingAxes++
			separatingAxis = i
		} else if maxPositive == 0 {
			axisPenetrationsSigned[i] = maxPenetration
			normalDirs[i] = 1
			separatingAxes++
			separatingAxis = i
		} else if minPositive < maxPositive {
			axisPenetrations[i] = minPositive
			axisPenetrationsSigned[i] = minPositive
			normalDirs[i] = -1
		} else {
			axisPenetrations[i] = maxPositive
			axisPenetrationsSigned[i] = maxPositive
			normalDirs[i] = 1
		}

		if separatingAxes > 1 {
			return
		}
	}

	if separatingAxes == 0 {
		bestAxis := 0
		for i := 1; i < 3; i++ {
			if axisPenetrations[i] < axisPenetrations[bestAxis] {
				bestAxis = i
			}
		}
		result.penetration = axisPenetrations[bestAxis]

		desiredVelocity := axisPenetrations[bestAxis] * normalDirs[bestAxis]
		if desiredVelocity > 0 {
			result.depenetratingVelocity[bestAxis] = math32.Max(desiredVelocity, velocity[bestAxis])
		} else {
			result.depenetratingVelocity[bestAxis] = math32.Min(desiredVelocity, velocity[bestAxis])
		}
		result.depenetratingAxis = bestAxis
		return
	}

	sweptPenetration := axisPenetrationsSigned[separatingAxis] - (normalDirs[separatingAxis] * velocity[separatingAxis])
	if sweptPenetration <= 0 {
		return
	}

	resolvedVelocity := axisPenetrationsSigned[separatingAxis] * normalDirs[separatingAxis]
	result.clippedVelocity[separatingAxis] = resolvedVelocity
	result.depenetratingVelocity[separatingAxis] = resolvedVelocity
	return
}

// HasZeroVolume returns true if the bounding box has zero volume.
func HasZeroVolume(bb cube.BBox) bool {
	return bb.Min() == bb.Max()
}

// SweepResult is the outcome of sweeping a box through the world.
type SweepResult struct {
	// Delta is the movement actually applied.
	Delta mgl32.Vec3
	// Box is the moved box.
	Box cube.BBox
	// Blocked holds, per axis, whether the movement along that axis was clipped.
	Blocked [3]bool
	// Penetration is the deepest penetration per axis that was resolved during the sweep.
	Penetration mgl32.Vec3
}

// Hit returns true if the movement was clipped along any axis.
func (r SweepResult) Hit() bool {
	return r.Blocked[0] || r.Blocked[1] || r.Blocked[2]
}

// Fraction returns the length of the applied movement relative to the requested one.
func (r SweepResult) Fraction(requested mgl32.Vec3) float32 {
	l := requested.Len()
	if l <= 1e-6 {
		return 1
	}
	return math32.Min(1, r.Delta.Len()/l)
}

// Sweep moves bb by delta through the bodies of the world, resolving the vertical axis
// first and then both horizontal axes.
func (w *World) Sweep(bb cube.BBox, delta mgl32.Vec3, ignore ...*Body) SweepResult {
	boxes := w.NearbyBBoxes(bb.Extend(delta).Grow(OverlapTolerance), ignore...)
	result := SweepResult{}

	zVel := mgl32.Vec3{0, 0, delta.Z()}
	for i := len(boxes) - 1; i >= 0; i-- {
		zVel = ClipCollide(boxes[i], bb, zVel, false, &result.Penetration)
	}
	bb = bb.Translate(zVel)

	xVel := mgl32.Vec3{delta.X()}
	for i := len(boxes) - 1; i >= 0; i-- {
		xVel = ClipCollide(boxes[i], bb, xVel, false, &result.Penetration)
	}
	bb = bb.Translate(xVel)

	yVel := mgl32.Vec3{0, delta.Y()}
	for i := len(boxes) - 1; i >= 0; i-- {
		yVel = ClipCollide(boxes[i], bb, yVel, false, &result.Penetration)
	}
	bb = bb.Translate(yVel)

	result.Delta = zVel.Add(xVel).Add(yVel)
	result.Box = bb
	for i := 0; i < 3; i++ {
		result.Blocked[i] = math32.Abs(result.Delta[i]-delta[i]) >= 1e-4
	}
	return result
}
