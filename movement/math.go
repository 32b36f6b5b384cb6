package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minTickTime         = 1e-6
	smallNumber         = 1e-8
	kindaSmallNumber    = 1e-4
	maxFloorDist        = 2.4
	floorTolerance      = 1e-3
	brakeToStopVelocity = 10
	brakingSubStepTime  = 1.0 / 33.0
	overVelocityPercent = 1.01
)

// safeNormal2D returns the horizontal direction of v, or the zero vector if v has no
// meaningful horizontal length.
func safeNormal2D(v mgl32.Vec3) mgl32.Vec3 {
	h := mgl32.Vec3{v.X(), v.Y(), 0}
	if h.LenSqr() < smallNumber {
		return mgl32.Vec3{}
	}
	return h.Normalize()
}

// safeNormal returns v normalised, or the zero vector if v is too short to normalise.
func safeNormal(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() < smallNumber {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

func len2D(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.X()*v.X() + v.Y()*v.Y())
}

func nearlyZero(v mgl32.Vec3) bool {
	return math32.Abs(v.X()) <= kindaSmallNumber && math32.Abs(v.Y()) <= kindaSmallNumber && math32.Abs(v.Z()) <= kindaSmallNumber
}

// projectOnto projects v onto the direction passed.
func projectOnto(v, dir mgl32.Vec3) mgl32.Vec3 {
	l := dir.LenSqr()
	if l < smallNumber {
		return mgl32.Vec3{}
	}
	return dir.Mul(v.Dot(dir) / l)
}

// clampedToMaxSize returns v scaled down to max if it is longer.
func clampedToMaxSize(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max < kindaSmallNumber {
		return mgl32.Vec3{}
	}
	if l := v.LenSqr(); l > max*max {
		return v.Mul(max / math32.Sqrt(l))
	}
	return v
}

// normalizeYaw maps a yaw in degrees to (-180, 180].
func normalizeYaw(yaw float32) float32 {
	yaw = math32.Mod(yaw, 360)
	if yaw > 180 {
		yaw -= 360
	} else if yaw <= -180 {
		yaw += 360
	}
	return yaw
}

// fixedTurn rotates current towards desired by at most step degrees.
func fixedTurn(current, desired, step float32) float32 {
	diff := normalizeYaw(desired - current)
	if math32.Abs(diff) <= step {
		return normalizeYaw(desired)
	}
	if diff > 0 {
		return normalizeYaw(current + step)
	}
	return normalizeYaw(current - step)
}

// yawOf returns the yaw in degrees of the horizontal direction of v.
func yawOf(v mgl32.Vec3) float32 {
	return mgl32.RadToDeg(math32.Atan2(v.Y(), v.X()))
}
