// Package scenario runs characters headlessly through scripted inputs. A scenario describes
// the world geometry, the spawn point and a timeline of input events, and produces a Report
// of the simulation.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/tag"
	"gopkg.in/yaml.v3"
)

// DefaultTimestep is used when a scenario does not set a timestep.
const DefaultTimestep = float32(1.0 / 60.0)

// Scenario is a scripted simulation of a single character.
type Scenario struct {
	Name string `yaml:"name"`
	// Timestep is the fixed simulation step in seconds.
	Timestep float32 `yaml:"timestep"`
	// Duration is the simulated time in seconds.
	Duration float32 `yaml:"duration"`
	// SampleInterval is the simulated time between two samples of the report. Zero samples
	// every step.
	SampleInterval float32      `yaml:"sample_interval"`
	Spawn          SpawnSpec    `yaml:"spawn"`
	World          WorldSpec    `yaml:"world"`
	Events         []Event      `yaml:"events"`
	Expect         *Expectation `yaml:"expect"`
}

// SpawnSpec is where the character starts.
type SpawnSpec struct {
	Location mgl32.Vec3 `yaml:"location"`
	Yaw      float32    `yaml:"yaw"`
}

// WorldSpec is the geometry and props of the world.
type WorldSpec struct {
	Boxes        []BoxSpec         `yaml:"boxes"`
	Ramps        []RampSpec        `yaml:"ramps"`
	Pushables    []PushableSpec    `yaml:"pushables"`
	Doors        []DoorSpec        `yaml:"doors"`
	Collectibles []CollectibleSpec `yaml:"collectibles"`
}

type BoxSpec struct {
	Name string     `yaml:"name"`
	Min  mgl32.Vec3 `yaml:"min"`
	Max  mgl32.Vec3 `yaml:"max"`
}

type RampSpec struct {
	Name     string     `yaml:"name"`
	Min      mgl32.Vec2 `yaml:"min"`
	Max      mgl32.Vec2 `yaml:"max"`
	BaseZ    float32    `yaml:"base_z"`
	Gradient mgl32.Vec2 `yaml:"gradient"`
}

type PushableSpec struct {
	BoxSpec    `yaml:",inline"`
	Transforms []PushTransformSpec `yaml:"transforms"`
}

type PushTransformSpec struct {
	Offset mgl32.Vec3 `yaml:"offset"`
	Yaw    float32    `yaml:"yaw"`
}

type DoorSpec struct {
	BoxSpec    `yaml:",inline"`
	WarpOffset mgl32.Vec3 `yaml:"warp_offset"`
	WarpYaw    float32    `yaml:"warp_yaw"`
}

type CollectibleSpec struct {
	Name     string     `yaml:"name"`
	Location mgl32.Vec3 `yaml:"location"`
}

// EventType is the kind of input an Event applies.
type EventType string

const (
	// EventMove holds the move input Move, relative to ControlYaw, until the next move event.
	EventMove EventType = "move"
	// EventSprint presses or releases the sprint button.
	EventSprint EventType = "sprint"
	// EventJump presses or releases the jump button.
	EventJump EventType = "jump"
	// EventCrouch toggles the desired stance.
	EventCrouch EventType = "crouch"
	// EventInteract presses the interact button.
	EventInteract EventType = "interact"
	// EventGait sets the desired gait to Gait.
	EventGait EventType = "gait"
	// EventForceGait sets the gait policy toggles.
	EventForceGait EventType = "force_gait"
	// EventWarp warps the character to Location facing Yaw.
	EventWarp EventType = "warp"
)

// Event is an input applied at a point in simulated time.
type Event struct {
	At   float32   `yaml:"at"`
	Type EventType `yaml:"type"`

	Move       mgl32.Vec2 `yaml:"move"`
	ControlYaw float32    `yaml:"control_yaw"`
	Pressed    bool       `yaml:"pressed"`
	Gait       string     `yaml:"gait"`
	WalkRun    bool       `yaml:"walk_run"`
	RunSprint  bool       `yaml:"run_sprint"`
	Location   mgl32.Vec3 `yaml:"location"`
	Yaw        float32    `yaml:"yaw"`
}

// Expectation is checked against the final state of a run. Empty fields are not checked.
type Expectation struct {
	Mode      string      `yaml:"mode"`
	Stance    string      `yaml:"stance"`
	Gait      string      `yaml:"gait"`
	Action    string      `yaml:"action"`
	Location  *mgl32.Vec3 `yaml:"location"`
	Tolerance float32     `yaml:"tolerance"`
	MinSpeed  *float32    `yaml:"min_speed"`
	MaxSpeed  *float32    `yaml:"max_speed"`
}

// Load reads the scenario at path.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scenario, fills in defaults and validates it.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal: %w", err)
	}
	if s.Timestep == 0 {
		s.Timestep = DefaultTimestep
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate returns an error if the scenario cannot be run. Events are sorted by time.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Timestep <= 0 {
		errs = append(errs, fmt.Errorf("timestep must be positive, got %v", s.Timestep))
	}
	if s.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", s.Duration))
	}
	if s.SampleInterval < 0 {
		errs = append(errs, fmt.Errorf("sample_interval must not be negative, got %v", s.SampleInterval))
	}
	for i, e := range s.Events {
		if e.At < 0 {
			errs = append(errs, fmt.Errorf("event %d: at must not be negative, got %v", i, e.At))
		}
		switch e.Type {
		case EventMove, EventSprint, EventJump, EventCrouch, EventInteract, EventForceGait, EventWarp:
		case EventGait:
			if _, ok := tag.ParseGait(e.Gait); !ok {
				errs = append(errs, fmt.Errorf("event %d: unknown gait %q", i, e.Gait))
			}
		default:
			errs = append(errs, fmt.Errorf("event %d: unknown type %q", i, e.Type))
		}
	}
	if s.Expect != nil {
		errs = append(errs, s.Expect.validate()...)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	slices.SortStableFunc(s.Events, func(a, b Event) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	return nil
}

func (e *Expectation) validate() []error {
	var errs []error
	if e.Mode != "" {
		if _, ok := tag.ParseLocomotionMode(e.Mode); !ok {
			errs = append(errs, fmt.Errorf("expect: unknown mode %q", e.Mode))
		}
	}
	if e.Stance != "" {
		if _, ok := tag.ParseStance(e.Stance); !ok {
			errs = append(errs, fmt.Errorf("expect: unknown stance %q", e.Stance))
		}
	}
	if e.Gait != "" {
		if _, ok := tag.ParseGait(e.Gait); !ok {
			errs = append(errs, fmt.Errorf("expect: unknown gait %q", e.Gait))
		}
	}
	if e.Action != "" {
		if _, ok := tag.ParseAction(e.Action); !ok {
			errs = append(errs, fmt.Errorf("expect: unknown action %q", e.Action))
		}
	}
	if e.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("expect: tolerance must not be negative, got %v", e.Tolerance))
	}
	return errs
}
