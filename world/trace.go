package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// Hit describes the first blocking hit of a trace.
type Hit struct {
	// Location is where the traced shape ended up when it hit. For line traces it equals
	// ImpactPoint.
	Location mgl32.Vec3
	// ImpactPoint is the point of contact on the surface that was hit.
	ImpactPoint mgl32.Vec3
	// Normal is the surface normal at the impact point.
	Normal mgl32.Vec3
	// Time is the fraction of the trace at which the hit happened.
	Time float32
	// Distance is the distance travelled before the hit.
	Distance float32
	// StartPenetrating is true if the trace started inside the surface that was hit.
	StartPenetrating bool

	Body *Body
	Ramp *Ramp
}

// LineTrace traces a line from start to end and returns the first hit.
func (w *World) LineTrace(start, end mgl32.Vec3, ignore ...*Body) (Hit, bool) {
	return w.SphereTrace(start, end, 0, ignore...)
}

// SphereTrace sweeps a sphere of the radius passed from start to end and returns the first
// hit. Boxes are grown by the radius, which makes corners slightly conservative.
func (w *World) SphereTrace(start, end mgl32.Vec3, radius float32, ignore ...*Body) (Hit, bool) {
	w.RLock()
	defer w.RUnlock()

	var (
		best  Hit
		found bool
	)
	consider := func(h Hit) {
		if !found || h.Time < best.Time {
			best, found = h, true
		}
	}

	length := end.Sub(start).Len()
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if ignored(b, ignore) {
			continue
		}
		if h, ok := traceBox(b.box.Grow(radius), start, end, length); ok {
			h.ImpactPoint = h.Location.Sub(h.Normal.Mul(radius))
			h.Body = b
			consider(h)
		}
	}
	for el := w.ramps.Front(); el != nil; el = el.Next() {
		r := el.Value
		if h, ok := traceRamp(r, start, end, length, radius); ok {
			h.Ramp = r
			consider(h)
		}
	}
	return best, found
}

func traceBox(bb cube.BBox, start, end mgl32.Vec3, length float32) (Hit, bool) {
	if strictlyInside(bb, start) {
		return Hit{Location: start, ImpactPoint: start, Normal: faceNormal(bb, start), StartPenetrating: true}, true
	}
	result, ok := trace.BBoxIntercept(bb, start, end)
	if !ok {
		return Hit{}, false
	}
	pos := result.Position()
	dist := pos.Sub(start).Len()
	h := Hit{Location: pos, ImpactPoint: pos, Normal: faceNormal(bb, pos), Distance: dist}
	if length > 0 {
		h.Time = dist / length
	}
	return h, true
}

func traceRamp(r *Ramp, start, end mgl32.Vec3, length, radius float32) (Hit, bool) {
	// The swept sphere centre hits the plane offset along the normal by the radius.
	offset := radius / r.normal.Z()
	height := func(p mgl32.Vec3) float32 { return p.Z() - (r.HeightAt(p.X(), p.Y()) + offset) }

	f0 := height(start)
	if r.Contains(start.X(), start.Y()) && f0 < 0 && start.Z() > r.bottom {
		return Hit{Location: start, ImpactPoint: start.Sub(r.normal.Mul(radius)), Normal: r.normal, StartPenetrating: true}, true
	}
	f1 := height(end)
	if f0 < 0 || f1 > 0 || f0 == f1 {
		return Hit{}, false
	}
	t := f0 / (f0 - f1)
	pos := start.Add(end.Sub(start).Mul(t))
	if !r.Contains(pos.X(), pos.Y()) {
		return Hit{}, false
	}
	return Hit{
		Location:    pos,
		ImpactPoint: pos.Sub(r.normal.Mul(radius)),
		Normal:      r.normal,
		Time:        t,
		Distance:    length * t,
	}, true
}

// SurfaceBelow returns the highest supporting surface under the footprint of bb whose height
// lies within [bottom, top]. For ramps the height is that of the lowest point of a capsule
// of the footprint's half width resting on the ramp.
func (w *World) SurfaceBelow(bb cube.BBox, top, bottom float32, ignore ...*Body) (Hit, bool) {
	w.RLock()
	defer w.RUnlock()

	min, max := bb.Min(), bb.Max()
	center := min.Add(max).Mul(0.5)
	radius := (max.X() - min.X()) * 0.5

	var (
		best  Hit
		found bool
	)
	consider := func(h Hit) {
		z := h.Location.Z()
		if z > top || z < bottom {
			return
		}
		if !found || z > best.Location.Z() {
			best, found = h, true
		}
	}

	for el := w.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if ignored(b, ignore) {
			continue
		}
		bmin, bmax := b.box.Min(), b.box.Max()
		if bmax.X()-min.X() <= OverlapTolerance || max.X()-bmin.X() <= OverlapTolerance ||
			bmax.Y()-min.Y() <= OverlapTolerance || max.Y()-bmin.Y() <= OverlapTolerance {
			continue
		}
		impact := mgl32.Vec3{
			mgl32.Clamp(center.X(), bmin.X(), bmax.X()),
			mgl32.Clamp(center.Y(), bmin.Y(), bmax.Y()),
			bmax.Z(),
		}
		consider(Hit{
			Location:    mgl32.Vec3{center.X(), center.Y(), bmax.Z()},
			ImpactPoint: impact,
			Normal:      mgl32.Vec3{0, 0, 1},
			Body:        b,
		})
	}
	for el := w.ramps.Front(); el != nil; el = el.Next() {
		r := el.Value
		var z float32
		var impact mgl32.Vec3
		if r.Contains(center.X(), center.Y()) {
			// A sphere resting on the plane touches it below its centre, offset along the normal.
			z = r.HeightAt(center.X(), center.Y()) + radius/r.normal.Z() - radius
			impact = mgl32.Vec3{center.X(), center.Y(), z + radius}.Sub(r.normal.Mul(radius))
		} else {
			h, ok := r.maxHeightOver(min.X(), min.Y(), max.X(), max.Y())
			if !ok {
				continue
			}
			z = h
			impact = mgl32.Vec3{
				mgl32.Clamp(center.X(), r.min.X(), r.max.X()),
				mgl32.Clamp(center.Y(), r.min.Y(), r.max.Y()),
				h,
			}
		}
		consider(Hit{
			Location:    mgl32.Vec3{center.X(), center.Y(), z},
			ImpactPoint: impact,
			Normal:      r.normal,
			Ramp:        r,
		})
	}
	if found {
		best.Distance = math32.Max(0, top-best.Location.Z())
		best.StartPenetrating = best.Location.Z() > min.Z()+OverlapTolerance
	}
	return best, found
}

func strictlyInside(bb cube.BBox, p mgl32.Vec3) bool {
	min, max := bb.Min(), bb.Max()
	for i := 0; i < 3; i++ {
		if p[i] <= min[i]+OverlapTolerance || p[i] >= max[i]-OverlapTolerance {
			return false
		}
	}
	return true
}

// faceNormal returns the outward normal of the face of bb closest to p.
func faceNormal(bb cube.BBox, p mgl32.Vec3) mgl32.Vec3 {
	min, max := bb.Min(), bb.Max()
	bestAxis, bestDir := 2, float32(1)
	bestDist := float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		if d := math32.Abs(p[i] - min[i]); d < bestDist {
			bestAxis, bestDir, bestDist = i, -1, d
		}
		if d := math32.Abs(p[i] - max[i]); d < bestDist {
			bestAxis, bestDir, bestDist = i, 1, d
		}
	}
	var n mgl32.Vec3
	n[bestAxis] = bestDir
	return n
}
