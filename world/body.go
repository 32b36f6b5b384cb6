package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// OverlapTolerance is the distance below which boxes are considered touching rather than
// overlapping.
const OverlapTolerance = 0.01

// Body is a box in the world.
type Body struct {
	id      uint64
	name    string
	box     cube.BBox
	movable bool
	removed bool
}

// ID returns the unique ID of the body within its world.
func (b *Body) ID() uint64 { return b.id }

// Name returns the name the body was added with.
func (b *Body) Name() string { return b.name }

// Box returns the current bounding box of the body.
func (b *Body) Box() cube.BBox { return b.box }

// Movable returns true if the body may be moved after it was added.
func (b *Body) Movable() bool { return b.movable }

// Removed returns true if the body was removed from its world.
func (b *Body) Removed() bool { return b.removed }

// Center returns the centre of the body's box.
func (b *Body) Center() mgl32.Vec3 {
	return b.box.Min().Add(b.box.Max()).Mul(0.5)
}

// Ramp is an inclined rectangular surface. The space below the surface, down to the lowest
// corner of the ramp, is solid.
type Ramp struct {
	id       uint64
	name     string
	min, max mgl32.Vec2
	baseZ    float32
	gradient mgl32.Vec2
	normal   mgl32.Vec3
	bottom   float32
}

func newRamp(id uint64, name string, min, max mgl32.Vec2, baseZ float32, gradient mgl32.Vec2) *Ramp {
	r := &Ramp{
		id:       id,
		name:     name,
		min:      mgl32.Vec2{math32.Min(min.X(), max.X()), math32.Min(min.Y(), max.Y())},
		max:      mgl32.Vec2{math32.Max(min.X(), max.X()), math32.Max(min.Y(), max.Y())},
		baseZ:    baseZ,
		gradient: gradient,
		normal:   mgl32.Vec3{-gradient.X(), -gradient.Y(), 1}.Normalize(),
	}
	r.bottom = math32.Min(
		math32.Min(r.HeightAt(r.min.X(), r.min.Y()), r.HeightAt(r.max.X(), r.min.Y())),
		math32.Min(r.HeightAt(r.min.X(), r.max.Y()), r.HeightAt(r.max.X(), r.max.Y())),
	)
	return r
}

// ID returns the unique ID of the ramp within its world.
func (r *Ramp) ID() uint64 { return r.id }

// Name returns the name the ramp was added with.
func (r *Ramp) Name() string { return r.name }

// Normal returns the surface normal of the ramp.
func (r *Ramp) Normal() mgl32.Vec3 { return r.normal }

// HeightAt returns the height of the ramp's plane at x, y. The point does not need to be
// within the ramp's footprint.
func (r *Ramp) HeightAt(x, y float32) float32 {
	return r.baseZ + r.gradient.X()*(x-r.min.X()) + r.gradient.Y()*(y-r.min.Y())
}

// Contains returns true if x, y lies within the footprint of the ramp.
func (r *Ramp) Contains(x, y float32) bool {
	return x >= r.min.X() && x <= r.max.X() && y >= r.min.Y() && y <= r.max.Y()
}

// maxHeightOver returns the highest surface point of the ramp over the rectangle passed, if
// the rectangle overlaps the footprint.
func (r *Ramp) maxHeightOver(x0, y0, x1, y1 float32) (float32, bool) {
	ix0, iy0 := math32.Max(x0, r.min.X()), math32.Max(y0, r.min.Y())
	ix1, iy1 := math32.Min(x1, r.max.X()), math32.Min(y1, r.max.Y())
	if ix0 > ix1 || iy0 > iy1 {
		return 0, false
	}
	x := ix0
	if r.gradient.X() > 0 {
		x = ix1
	}
	y := iy0
	if r.gradient.Y() > 0 {
		y = iy1
	}
	return r.HeightAt(x, y), true
}
