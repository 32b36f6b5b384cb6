package world

import (
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

var currentWorldID = atomic.NewUint64(0)

// World is the static and movable collision geometry characters move through. It is made
// of axis aligned boxes and inclined ramps.
type World struct {
	id     uint64
	nextID uint64

	bodies *orderedmap.OrderedMap[uint64, *Body]
	ramps  *orderedmap.OrderedMap[uint64, *Ramp]

	logger *slog.Logger

	deadlock.RWMutex
}

// New returns an empty world. If logger is nil, slog.Default() is used.
func New(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		id:     currentWorldID.Inc(),
		bodies: orderedmap.NewOrderedMap[uint64, *Body](),
		ramps:  orderedmap.NewOrderedMap[uint64, *Ramp](),
		logger: logger,
	}
}

// ID returns the unique ID of the world.
func (w *World) ID() uint64 {
	return w.id
}

// AddBox adds a box to the world. Movable boxes may be moved with MoveBody.
func (w *World) AddBox(name string, box cube.BBox, movable bool) *Body {
	w.Lock()
	defer w.Unlock()

	w.nextID++
	b := &Body{id: w.nextID, name: name, box: box, movable: movable}
	w.bodies.Set(b.id, b)
	w.logger.Debug("added body", "world", w.id, "body", b.id, "name", name, "min", box.Min(), "max", box.Max())
	return b
}

// AddRamp adds a ramp spanning the footprint min-max. The surface height is baseZ at min and
// rises by gradient.X() per unit along X and gradient.Y() per unit along Y.
func (w *World) AddRamp(name string, min, max mgl32.Vec2, baseZ float32, gradient mgl32.Vec2) *Ramp {
	w.Lock()
	defer w.Unlock()

	w.nextID++
	r := newRamp(w.nextID, name, min, max, baseZ, gradient)
	w.ramps.Set(r.id, r)
	w.logger.Debug("added ramp", "world", w.id, "ramp", r.id, "name", name, "normal", r.normal)
	return r
}

// RemoveBody removes the body with the ID passed.
func (w *World) RemoveBody(id uint64) {
	w.Lock()
	defer w.Unlock()

	if b, ok := w.bodies.Get(id); ok {
		b.removed = true
		w.bodies.Delete(id)
	}
}

// Body returns the body with the ID passed.
func (w *World) Body(id uint64) (*Body, bool) {
	w.RLock()
	defer w.RUnlock()
	return w.bodies.Get(id)
}

// Bodies returns all bodies in the world in the order they were added.
func (w *World) Bodies() []*Body {
	w.RLock()
	defer w.RUnlock()

	out := make([]*Body, 0, w.bodies.Len())
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Ramps returns all ramps in the world in the order they were added.
func (w *World) Ramps() []*Ramp {
	w.RLock()
	defer w.RUnlock()

	out := make([]*Ramp, 0, w.ramps.Len())
	for el := w.ramps.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// MoveBody translates a movable body by delta. It returns false if the body is not movable
// or no longer part of the world.
func (w *World) MoveBody(b *Body, delta mgl32.Vec3) bool {
	w.Lock()
	defer w.Unlock()

	if b == nil || !b.movable || b.removed {
		return false
	}
	b.box = b.box.Translate(delta)
	return true
}

// NearbyBBoxes returns the boxes of all bodies intersecting bb, skipping the bodies passed.
func (w *World) NearbyBBoxes(bb cube.BBox, ignore ...*Body) []cube.BBox {
	w.RLock()
	defer w.RUnlock()

	var boxes []cube.BBox
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if ignored(b, ignore) || !b.box.IntersectsWith(bb) {
			continue
		}
		boxes = append(boxes, b.box)
	}
	return boxes
}

// Overlaps returns true if bb overlaps any body or lies partly below the surface of a ramp.
func (w *World) Overlaps(bb cube.BBox, ignore ...*Body) bool {
	w.RLock()
	defer w.RUnlock()

	for el := w.bodies.Front(); el != nil; el = el.Next() {
		if b := el.Value; !ignored(b, ignore) && b.box.IntersectsWith(bb) {
			return true
		}
	}
	for el := w.ramps.Front(); el != nil; el = el.Next() {
		r := el.Value
		top, ok := r.maxHeightOver(bb.Min().X(), bb.Min().Y(), bb.Max().X(), bb.Max().Y())
		if ok && bb.Min().Z() < top-OverlapTolerance && bb.Max().Z() > r.bottom {
			return true
		}
	}
	return false
}

func ignored(b *Body, ignore []*Body) bool {
	for _, i := range ignore {
		if i == b {
			return true
		}
	}
	return false
}
