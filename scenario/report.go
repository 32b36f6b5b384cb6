package scenario

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/omath"
	"github.com/oomph-ac/locomotion/tag"
)

// Sample is the state of the character at a point in simulated time.
type Sample struct {
	Time     float32
	State    character.LocomotionState
	Location mgl32.Vec3
	Speed    float32
}

// Report is the outcome of a scenario run.
type Report struct {
	Name     string
	Steps    int
	Duration float32
	Samples  []Sample
	// Transitions counts the steps after which the locomotion state differed from the step
	// before.
	Transitions int

	Final         character.LocomotionState
	FinalLocation mgl32.Vec3
	FinalSpeed    float32
	// Debug is the debug string of the character at the end of the run.
	Debug string
	// Messages are the diagnostic messages the character emitted.
	Messages []string
}

// SpeedStats summarises the sampled speeds.
type SpeedStats struct {
	Mean, StdDev, Max float32
}

// SpeedStats returns statistics over the speed of all samples.
func (r Report) SpeedStats() SpeedStats {
	speeds := make([]float32, len(r.Samples))
	for i, s := range r.Samples {
		speeds[i] = s.Speed
	}
	return SpeedStats{
		Mean:   omath.Round(omath.Mean(speeds), 3),
		StdDev: omath.Round(omath.StandardDeviation(speeds), 3),
		Max:    omath.Round(omath.Max(speeds), 3),
	}
}

// TimeIn returns the sampled time spent with the action passed, counting each sample as
// lasting until the next one.
func (r Report) TimeIn(action tag.Action) float32 {
	var total float32
	for i := 0; i+1 < len(r.Samples); i++ {
		if r.Samples[i].State.Action == action {
			total += r.Samples[i+1].Time - r.Samples[i].Time
		}
	}
	return total
}

// Verify checks the final state of the report against e. It returns an error listing every
// mismatch.
func (r Report) Verify(e *Expectation) error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Mode != "" {
		if m, _ := tag.ParseLocomotionMode(e.Mode); m != r.Final.Mode {
			errs = append(errs, fmt.Errorf("mode: expected %v, got %v", m, r.Final.Mode))
		}
	}
	if e.Stance != "" {
		if s, _ := tag.ParseStance(e.Stance); s != r.Final.Stance {
			errs = append(errs, fmt.Errorf("stance: expected %v, got %v", s, r.Final.Stance))
		}
	}
	if e.Gait != "" {
		if g, _ := tag.ParseGait(e.Gait); g != r.Final.Gait {
			errs = append(errs, fmt.Errorf("gait: expected %v, got %v", g, r.Final.Gait))
		}
	}
	if e.Action != "" {
		if a, _ := tag.ParseAction(e.Action); a != r.Final.Action {
			errs = append(errs, fmt.Errorf("action: expected %v, got %v", a, r.Final.Action))
		}
	}
	if e.Location != nil {
		tolerance := e.Tolerance
		if tolerance == 0 {
			tolerance = 1
		}
		for i := 0; i < 3; i++ {
			if math32.Abs(e.Location[i]-r.FinalLocation[i]) > tolerance {
				errs = append(errs, fmt.Errorf("location: expected %v within %v, got %v", *e.Location, tolerance, r.FinalLocation))
				break
			}
		}
	}
	if e.MinSpeed != nil && r.FinalSpeed < *e.MinSpeed {
		errs = append(errs, fmt.Errorf("speed: expected at least %v, got %v", *e.MinSpeed, r.FinalSpeed))
	}
	if e.MaxSpeed != nil && r.FinalSpeed > *e.MaxSpeed {
		errs = append(errs, fmt.Errorf("speed: expected at most %v, got %v", *e.MaxSpeed, r.FinalSpeed))
	}
	return errors.Join(errs...)
}
