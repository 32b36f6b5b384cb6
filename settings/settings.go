package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/locomotion/tag"
	"github.com/pelletier/go-toml"
)

// Settings contains all tunable constants of the locomotion controller. A single Settings
// value is shared by a character and its movement component and is never mutated at runtime.
type Settings struct {
	Gait     Gait     `toml:"gait"`
	Slide    Slide    `toml:"slide"`
	Braking  Braking  `toml:"braking"`
	Movement Movement `toml:"movement"`
	Mantle   Mantle   `toml:"mantle"`
	Push     Push     `toml:"push"`
	Interact Interact `toml:"interact"`
	Roll     Roll     `toml:"roll"`
}

// Gait holds the max walk speed for each gait and the gait policy toggles.
type Gait struct {
	WalkSpeed   float32 `toml:"walk_speed"`
	RunSpeed    float32 `toml:"run_speed"`
	SprintSpeed float32 `toml:"sprint_speed"`
	CrouchSpeed float32 `toml:"crouch_speed"`
	// Hysteresis is added to the walk and run speeds when deriving the actual gait from speed.
	Hysteresis float32 `toml:"hysteresis"`
	// ForceWalkRun keeps the allowed gait at the desired gait as long as it is not sprinting.
	ForceWalkRun bool `toml:"force_walk_run"`
	// ForceRunSprint allows sprinting whenever the character is able to sprint.
	ForceRunSprint bool `toml:"force_run_sprint"`
}

// Slide holds the constants of the slide movement mode.
type Slide struct {
	MinSpeed            float32 `toml:"min_speed"`
	MaxSpeed            float32 `toml:"max_speed"`
	EnterImpulse        float32 `toml:"enter_impulse"`
	GravityForce        float32 `toml:"gravity_force"`
	FrictionFactor      float32 `toml:"friction_factor"`
	BrakingDeceleration float32 `toml:"braking_deceleration"`
	// FloorTraceScale scales the capsule half height to get the length of the slide floor probe.
	FloorTraceScale float32 `toml:"floor_trace_scale"`
	// CatchAirHeight is the floor drop at which a slide turns into a fall. Zero disables it.
	CatchAirHeight float32 `toml:"catch_air_height"`
	Montage        Montage `toml:"montage"`
}

// Braking holds the friction factors applied when landing.
type Braking struct {
	HasInputFrictionFactor float32 `toml:"has_input_friction_factor"`
	NoInputFrictionFactor  float32 `toml:"no_input_friction_factor"`
	// ResetDelay is the time in seconds after landing at which the friction factor resets to 1.
	ResetDelay float32 `toml:"reset_delay"`
}

// Movement holds the parameters of the character movement component.
type Movement struct {
	CapsuleRadius                 float32 `toml:"capsule_radius"`
	CapsuleHalfHeight             float32 `toml:"capsule_half_height"`
	CrouchedHalfHeight            float32 `toml:"crouched_half_height"`
	MaxAcceleration               float32 `toml:"max_acceleration"`
	GroundFriction                float32 `toml:"ground_friction"`
	BrakingDecelerationWalking    float32 `toml:"braking_deceleration_walking"`
	BrakingDecelerationFalling    float32 `toml:"braking_deceleration_falling"`
	BrakingDecelerationFlying     float32 `toml:"braking_deceleration_flying"`
	FallingLateralFriction        float32 `toml:"falling_lateral_friction"`
	GravityZ                      float32 `toml:"gravity_z"`
	TerminalVelocity              float32 `toml:"terminal_velocity"`
	JumpZVelocity                 float32 `toml:"jump_z_velocity"`
	AirControl                    float32 `toml:"air_control"`
	MaxStepHeight                 float32 `toml:"max_step_height"`
	WalkableFloorZ                float32 `toml:"walkable_floor_z"`
	MaxFlySpeed                   float32 `toml:"max_fly_speed"`
	RotationRate                  float32 `toml:"rotation_rate"`
	CanWalkOffLedges              bool    `toml:"can_walk_off_ledges"`
	CanWalkOffLedgesWhenCrouching bool    `toml:"can_walk_off_ledges_when_crouching"`
	LedgeCheckThreshold           float32 `toml:"ledge_check_threshold"`
	MaxSimulationIterations       int     `toml:"max_simulation_iterations"`
	MaxSimulationTimeStep         float32 `toml:"max_simulation_time_step"`
}

// Mantle holds the parameters of the mantle trace.
type Mantle struct {
	ForwardTraceLength   float32 `toml:"forward_trace_length"`
	TraceForwardStart    float32 `toml:"trace_forward_start"`
	TraceRadius          float32 `toml:"trace_radius"`
	Heights              int     `toml:"heights"`
	ForwardSamples       int     `toml:"forward_samples"`
	SampleSpacing        float32 `toml:"sample_spacing"`
	SampleHeight         float32 `toml:"sample_height"`
	DropTraceLength      float32 `toml:"drop_trace_length"`
	LandingForwardOffset float32 `toml:"landing_forward_offset"`
}

// Push holds the parameters of pushing props.
type Push struct {
	Speed float32 `toml:"speed"`
	Range float32 `toml:"range"`
}

// Interact holds the parameters of interacting with props.
type Interact struct {
	Range float32 `toml:"range"`
}

// Roll holds the parameters of rolling on landing.
type Roll struct {
	Enabled bool `toml:"enabled"`
	// LandingSpeed is the downward speed above which a landing turns into a roll.
	LandingSpeed float32 `toml:"landing_speed"`
	Montage      Montage `toml:"montage"`
}

// Montage names an animation montage and its length in seconds.
type Montage struct {
	Name   string  `toml:"name"`
	Length float32 `toml:"length"`
}

// DefaultSettings returns the default settings of the locomotion controller.
func DefaultSettings() Settings {
	s := Settings{}
	s.Gait = Gait{
		WalkSpeed:      175,
		RunSpeed:       375,
		SprintSpeed:    650,
		CrouchSpeed:    150,
		Hysteresis:     10,
		ForceWalkRun:   true,
		ForceRunSprint: true,
	}
	s.Slide = Slide{
		MinSpeed:            200,
		MaxSpeed:            500,
		EnterImpulse:        200,
		GravityForce:        5000,
		FrictionFactor:      0.2,
		BrakingDeceleration: 2500,
		FloorTraceScale:     2.5,
		Montage:             Montage{Name: "Slide", Length: 1},
	}
	s.Braking = Braking{
		HasInputFrictionFactor: 0.5,
		NoInputFrictionFactor:  3,
		ResetDelay:             0.5,
	}
	s.Movement = Movement{
		CapsuleRadius:                 42,
		CapsuleHalfHeight:             96,
		CrouchedHalfHeight:            40,
		MaxAcceleration:               2048,
		GroundFriction:                8,
		BrakingDecelerationWalking:    2000,
		GravityZ:                      -980,
		TerminalVelocity:              4000,
		JumpZVelocity:                 500,
		AirControl:                    0.25,
		MaxStepHeight:                 45,
		WalkableFloorZ:                0.71,
		MaxFlySpeed:                   600,
		RotationRate:                  350,
		CanWalkOffLedges:              true,
		CanWalkOffLedgesWhenCrouching: true,
		LedgeCheckThreshold:           4,
		MaxSimulationIterations:       8,
		MaxSimulationTimeStep:         0.05,
	}
	s.Mantle = Mantle{
		ForwardTraceLength:   180,
		TraceForwardStart:    30,
		TraceRadius:          5,
		Heights:              3,
		ForwardSamples:       6,
		SampleSpacing:        50,
		SampleHeight:         100,
		DropTraceLength:      1000,
		LandingForwardOffset: 80,
	}
	s.Push = Push{Speed: 60, Range: 120}
	s.Interact = Interact{Range: 150}
	s.Roll = Roll{LandingSpeed: 50, Montage: Montage{Name: "Roll", Length: 0.8}}
	return s
}

// SpeedForGait returns the max walk speed for the gait and stance passed. Crouching always
// uses the crouch speed.
func (s *Settings) SpeedForGait(gait tag.Gait, stance tag.Stance) float32 {
	if stance == tag.StanceCrouching {
		return s.Gait.CrouchSpeed
	}
	switch gait {
	case tag.GaitRunning:
		return s.Gait.RunSpeed
	case tag.GaitSprinting:
		return s.Gait.SprintSpeed
	default:
		return s.Gait.WalkSpeed
	}
}

// Validate returns an error if the settings cannot drive a character.
func (s *Settings) Validate() error {
	var errs []error
	positive := func(name string, v float32) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	positive("gait.walk_speed", s.Gait.WalkSpeed)
	positive("gait.run_speed", s.Gait.RunSpeed)
	positive("gait.sprint_speed", s.Gait.SprintSpeed)
	positive("gait.crouch_speed", s.Gait.CrouchSpeed)
	positive("slide.max_speed", s.Slide.MaxSpeed)
	positive("slide.floor_trace_scale", s.Slide.FloorTraceScale)
	positive("movement.capsule_radius", s.Movement.CapsuleRadius)
	positive("movement.capsule_half_height", s.Movement.CapsuleHalfHeight)
	positive("movement.crouched_half_height", s.Movement.CrouchedHalfHeight)
	positive("movement.max_acceleration", s.Movement.MaxAcceleration)
	positive("movement.max_simulation_time_step", s.Movement.MaxSimulationTimeStep)

	if s.Gait.WalkSpeed > s.Gait.RunSpeed || s.Gait.RunSpeed > s.Gait.SprintSpeed {
		errs = append(errs, errors.New("gait speeds must be ordered walk <= run <= sprint"))
	}
	if s.Slide.MinSpeed < 0 || s.Slide.MinSpeed > s.Slide.MaxSpeed {
		errs = append(errs, fmt.Errorf("slide.min_speed must be within [0, %v], got %v", s.Slide.MaxSpeed, s.Slide.MinSpeed))
	}
	if s.Movement.CrouchedHalfHeight > s.Movement.CapsuleHalfHeight {
		errs = append(errs, errors.New("movement.crouched_half_height must not exceed movement.capsule_half_height"))
	}
	if s.Movement.WalkableFloorZ <= 0 || s.Movement.WalkableFloorZ > 1 {
		errs = append(errs, fmt.Errorf("movement.walkable_floor_z must be within (0, 1], got %v", s.Movement.WalkableFloorZ))
	}
	if s.Movement.MaxSimulationIterations < 1 {
		errs = append(errs, errors.New("movement.max_simulation_iterations must be at least 1"))
	}
	if s.Movement.GravityZ > 0 {
		errs = append(errs, errors.New("movement.gravity_z must point down"))
	}
	return errors.Join(errs...)
}

// SaveDefault writes the default settings to path. It does nothing if a file already exists there.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat settings: %w", err)
	}

	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("encode default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write default settings: %w", err)
	}
	return nil
}

// Load reads the settings at path. Fields missing from the file keep their default values.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
