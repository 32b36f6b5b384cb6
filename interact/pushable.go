// Package interact implements the props a character can interact with: boxes it pushes,
// doors it walks through and collectibles it picks up.
package interact

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/world"
)

// pushProbeUp and pushProbeDown bound the floor probe below a push spot.
const (
	pushProbeUp   = 70
	pushProbeDown = 100
)

// PushTransform is a spot a character can push a Pushable from.
type PushTransform struct {
	// Offset is the position of the character's feet relative to the bottom centre of the
	// pushable's box.
	Offset mgl32.Vec3
	// Yaw is the direction the character faces, and pushes in, from this spot.
	Yaw float32
}

// Pushable is a movable box a character pushes in the direction it faces.
type Pushable struct {
	w          *world.World
	body       *world.Body
	transforms []PushTransform
}

// NewPushable adds a movable box to the world and returns it as a Pushable that can be
// pushed from the transforms passed.
func NewPushable(w *world.World, name string, box cube.BBox, transforms ...PushTransform) *Pushable {
	return &Pushable{
		w:          w,
		body:       w.AddBox(name, box, true),
		transforms: transforms,
	}
}

// Body returns the world body of the pushable.
func (p *Pushable) Body() *world.Body { return p.body }

// Location returns the centre of the pushable's box.
func (p *Pushable) Location() mgl32.Vec3 { return p.body.Center() }

// origin returns the bottom centre of the pushable's box.
func (p *Pushable) origin() mgl32.Vec3 {
	c := p.body.Center()
	return mgl32.Vec3{c.X(), c.Y(), p.body.Box().Min().Z()}
}

// PushTransforms returns the spots the pushable can be pushed from.
func (p *Pushable) PushTransforms() []PushTransform { return p.transforms }

// PushLocation returns the world position of the feet of a character pushing from the
// transform at index i.
func (p *Pushable) PushLocation(i int) mgl32.Vec3 {
	return p.origin().Add(p.transforms[i].Offset)
}

// FindClosestPushTransform returns the index of the push transform horizontally closest to
// loc within pushRange, or -1 if none is in range.
func (p *Pushable) FindClosestPushTransform(loc mgl32.Vec2, pushRange float32) int {
	closest, best := -1, float32(0)
	for i := range p.transforms {
		t := p.PushLocation(i)
		d := mgl32.Vec2{t.X(), t.Y()}.Sub(loc).LenSqr()
		if d >= pushRange*pushRange {
			continue
		}
		if closest < 0 || d < best {
			closest, best = i, d
		}
	}
	return closest
}

// OnInteracted starts a push if c has a PushComponent and stands close to one of the push
// transforms. The character is only moved onto the push spot if its capsule fits there, it
// has walkable floor below it and nothing lies between the spot and the pushable.
func (p *Pushable) OnInteracted(c *character.Character) {
	push, ok := c.PushComponent().(*PushComponent)
	if !ok {
		return
	}
	loc := c.Location()
	i := p.FindClosestPushTransform(mgl32.Vec2{loc.X(), loc.Y()}, c.Settings().Push.Range)
	if i < 0 {
		return
	}

	mv := c.Movement()
	radius, halfHeight := mv.CapsuleRadius(), mv.CapsuleHalfHeight()
	feet := p.PushLocation(i)
	center := feet.Add(mgl32.Vec3{0, 0, halfHeight})

	capsule := func(at mgl32.Vec3) cube.BBox {
		return cube.Box(at.X()-radius, at.Y()-radius, at.Z()-halfHeight, at.X()+radius, at.Y()+radius, at.Z()+halfHeight)
	}
	log := c.Logger().With("pushable", p.body.Name(), "transform", i)

	if p.w.Overlaps(capsule(center.Add(mgl32.Vec3{0, 0, pushProbeUp})).Grow(-world.OverlapTolerance), p.body) {
		log.Debug("push spot is blocked")
		return
	}
	floor, ok := p.w.SurfaceBelow(capsule(center), feet.Z()+pushProbeUp, feet.Z()-pushProbeDown, p.body)
	if !ok || floor.Normal.Z() <= c.Settings().Movement.WalkableFloorZ {
		log.Debug("no walkable floor at push spot")
		return
	}
	if _, hit := p.w.LineTrace(p.Location(), center, p.body); hit {
		log.Debug("push spot is out of reach")
		return
	}

	c.WarpTo(center, p.transforms[i].Yaw)
	push.BeginPush(p)
}
