package character

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MantleType classifies a detected mantle by the height of the obstacle.
type MantleType uint8

const (
	MantleNone MantleType = iota
	MantleLow
	MantleHigh
)

func (t MantleType) String() string {
	switch t {
	case MantleLow:
		return "MantleLow"
	case MantleHigh:
		return "MantleHigh"
	}
	return "NoMantle"
}

// MantleState is the result of the last mantle trace.
type MantleState struct {
	Type MantleType
	// StartPos is the position of the character's feet when the trace ran.
	StartPos mgl32.Vec3
	// MidPos is where the character's root passes over the top of the obstacle.
	MidPos mgl32.Vec3
	// EndPos is where the character lands behind the obstacle.
	EndPos    mgl32.Vec3
	CanWarp   bool
	CanMantle bool
}

// Mantle returns the result of the last mantle trace.
func (c *Character) Mantle() MantleState { return c.mantle }

// MantleTrace looks for an obstacle in front of the character that it could mantle onto. It
// sweeps forward at several heights, probes the top of the first obstacle found and then
// looks for a landing spot behind it. If an obstacle is found, the SetupMantle hook is called
// with the result. Only grounded characters can mantle.
func (c *Character) MantleTrace() (MantleState, bool) {
	c.mantle = MantleState{}
	if !c.movement.IsMovingOnGround() {
		return c.mantle, false
	}

	ms := c.settings.Mantle
	loc := c.Location()
	fwd := c.ForwardVector()
	halfHeight := c.movement.CapsuleHalfHeight()
	ignore := c.ignored()

	for i := 0; i < ms.Heights; i++ {
		start := loc.Add(mgl32.Vec3{0, 0, float32(i) * ms.TraceForwardStart})
		end := start.Add(fwd.Mul(ms.ForwardTraceLength))
		hit, ok := c.world.SphereTrace(start, end, ms.TraceRadius, ignore...)
		if !ok {
			continue
		}

		state := MantleState{
			StartPos: loc.Sub(mgl32.Vec3{0, 0, halfHeight}),
			CanWarp:  true,
		}
		for f := 0; f < ms.ForwardSamples; f++ {
			sampleStart := hit.Location.Add(mgl32.Vec3{0, 0, ms.SampleHeight}).Add(fwd.Mul(float32(f) * ms.SampleSpacing))
			sampleEnd := sampleStart.Sub(mgl32.Vec3{0, 0, ms.SampleHeight})

			if top, ok := c.world.SphereTrace(sampleStart, sampleEnd, ms.TraceRadius, ignore...); ok {
				if top.StartPenetrating {
					// The obstacle is taller than the sample height.
					state.CanWarp = false
					state.EndPos = mgl32.Vec3{0, 0, 2000}
					break
				}
				state.MidPos = top.Location.Sub(mgl32.Vec3{0, 0, halfHeight / 2})
				state.Type = MantleLow
				if top.Location.Z()-state.StartPos.Z() > halfHeight {
					state.Type = MantleHigh
				}
				continue
			}

			dropStart := sampleStart.Add(fwd.Mul(ms.LandingForwardOffset))
			dropEnd := dropStart.Sub(mgl32.Vec3{0, 0, ms.DropTraceLength})
			if landing, ok := c.world.LineTrace(dropStart, dropEnd, ignore...); ok {
				state.EndPos = landing.Location
				break
			}
		}

		state.CanMantle = true
		c.mantle = state
		c.log.Debug("mantle detected", "type", state.Type, "mid", state.MidPos, "end", state.EndPos)
		c.hooks.SetupMantle(c, state)
		return state, true
	}
	return c.mantle, false
}
