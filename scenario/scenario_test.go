package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/tag"
)

const floorYAML = `
world:
  boxes:
    - name: floor
      min: [-5000, -5000, -100]
      max: [5000, 5000, 0]
`

func mustParse(t *testing.T, data string) Scenario {
	t.Helper()
	s, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse scenario: %v", err)
	}
	return s
}

func mustRun(t *testing.T, s Scenario) Report {
	t.Helper()
	r, err := Run(context.Background(), s, settings.DefaultSettings(), nil, nil)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	return r
}

func TestParse(t *testing.T) {
	s := mustParse(t, `
name: parse
duration: 2
spawn:
  location: [10, 20, 96]
  yaw: 90
world:
  ramps:
    - name: slope
      min: [0, 0]
      max: [100, 100]
      base_z: 5
      gradient: [0.5, 0]
  pushables:
    - name: crate
      min: [0, 0, 0]
      max: [10, 10, 10]
      transforms:
        - offset: [-20, 0, 0]
          yaw: 0
events:
  - at: 1
    type: crouch
  - at: 0.5
    type: move
    move: [0, 1]
  - at: 1
    type: gait
    gait: Running
expect:
  mode: Grounded
  location: [1, 2, 3]
`)
	if s.Name != "parse" || s.Timestep != DefaultTimestep || s.Duration != 2 {
		t.Fatalf("unexpected scenario header %+v", s)
	}
	if s.Spawn.Location != (mgl32.Vec3{10, 20, 96}) || s.Spawn.Yaw != 90 {
		t.Fatalf("unexpected spawn %+v", s.Spawn)
	}
	if len(s.World.Ramps) != 1 || s.World.Ramps[0].Gradient != (mgl32.Vec2{0.5, 0}) {
		t.Fatalf("unexpected ramps %+v", s.World.Ramps)
	}
	if p := s.World.Pushables; len(p) != 1 || p[0].Name != "crate" || p[0].Transforms[0].Offset != (mgl32.Vec3{-20, 0, 0}) {
		t.Fatalf("unexpected pushables %+v", p)
	}

	want := []EventType{EventMove, EventCrouch, EventGait}
	for i, e := range s.Events {
		if e.Type != want[i] {
			t.Fatalf("expected events sorted by time as %v, got %+v", want, s.Events)
		}
	}
	if s.Expect == nil || s.Expect.Location == nil || *s.Expect.Location != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected expectation %+v", s.Expect)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"duration", "duration: 0", "duration must be positive"},
		{"timestep", "duration: 1\ntimestep: -1", "timestep must be positive"},
		{"event type", "duration: 1\nevents:\n  - type: dance", `unknown type "dance"`},
		{"event gait", "duration: 1\nevents:\n  - type: gait\n    gait: Crawling", `unknown gait "Crawling"`},
		{"event time", "duration: 1\nevents:\n  - type: crouch\n    at: -1", "at must not be negative"},
		{"expect", "duration: 1\nexpect:\n  stance: Prone", `unknown stance "Prone"`},
		{"yaml", "duration: [1", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected an error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte("name: walk\nduration: 1\n"+floorYAML), 0644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if s.Name != "walk" || len(s.World.Boxes) != 1 {
		t.Fatalf("unexpected scenario %+v", s)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not exist error, got %v", err)
	}
}

func TestRunWalk(t *testing.T) {
	s := mustParse(t, `
name: walk
duration: 2
sample_interval: 0.5
spawn:
  location: [0, 0, 96]
events:
  - at: 0
    type: move
    move: [0, 1]
expect:
  mode: Grounded
  stance: Standing
  gait: Walking
  action: None
  min_speed: 170
  max_speed: 176
`+floorYAML)
	r := mustRun(t, s)

	if err := r.Verify(s.Expect); err != nil {
		t.Fatalf("unexpected final state: %v", err)
	}
	if r.Steps != 120 || len(r.Samples) != 5 {
		t.Fatalf("expected 120 steps and 5 samples, got %d and %d", r.Steps, len(r.Samples))
	}
	if r.FinalLocation.X() < 300 || math32.Abs(r.FinalLocation.Y()) > 1e-3 {
		t.Fatalf("expected to walk along +X, got %v", r.FinalLocation)
	}
	if stats := r.SpeedStats(); stats.Max > 176 || stats.Mean <= 0 {
		t.Fatalf("unexpected speed stats %+v", stats)
	}
	if !strings.Contains(r.Debug, "Gait: Walking") {
		t.Fatalf("expected the debug string to show the gait, got %q", r.Debug)
	}
}

func TestRunSlide(t *testing.T) {
	s := mustParse(t, `
name: slide
duration: 3
spawn:
  location: [0, 0, 96]
events:
  - at: 0
    type: move
    move: [0, 1]
  - at: 0
    type: sprint
    pressed: true
  - at: 1.5
    type: crouch
expect:
  mode: Grounded
  stance: Crouching
  action: None
  max_speed: 151
`+floorYAML)
	r := mustRun(t, s)

	if err := r.Verify(s.Expect); err != nil {
		t.Fatalf("unexpected final state: %v", err)
	}
	var sprinted bool
	for _, sample := range r.Samples {
		if sample.State.Gait == tag.GaitSprinting && sample.Speed > 600 {
			sprinted = true
		}
	}
	if !sprinted {
		t.Fatalf("expected to sprint before crouching")
	}
	if slid := r.TimeIn(tag.ActionSliding); slid <= 0 || slid > 1 {
		t.Fatalf("expected a short slide, slid for %v", slid)
	}
	if r.Transitions < 4 {
		t.Fatalf("expected several state transitions, got %d", r.Transitions)
	}
}

func TestRunPush(t *testing.T) {
	s := mustParse(t, `
name: push
duration: 1.1
spawn:
  location: [80, 0, 96]
world:
  boxes:
    - name: floor
      min: [-5000, -5000, -100]
      max: [5000, 5000, 0]
  pushables:
    - name: crate
      min: [160, -40, 0]
      max: [240, 40, 80]
      transforms:
        - offset: [-90, 0, 0]
events:
  - at: 0.1
    type: interact
expect:
  location: [170, 0, 96]
  tolerance: 0.5
`)
	r := mustRun(t, s)

	if err := r.Verify(s.Expect); err != nil {
		t.Fatalf("unexpected final state: %v", err)
	}
	if len(r.Messages) != 1 || r.Messages[0] != "Interacted" {
		t.Fatalf("expected one interaction, got %v", r.Messages)
	}
}

func TestRunCancelled(t *testing.T) {
	s := mustParse(t, "name: cancelled\nduration: 1\n"+floorYAML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, s, settings.DefaultSettings(), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the run to be cancelled, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	r := Report{
		Final: character.LocomotionState{
			Mode:   tag.LocomotionModeInAir,
			Stance: tag.StanceStanding,
			Gait:   tag.GaitRunning,
		},
		FinalLocation: mgl32.Vec3{0, 0, 200},
		FinalSpeed:    300,
	}
	if err := r.Verify(nil); err != nil {
		t.Fatalf("expected no error without an expectation, got %v", err)
	}

	minSpeed := float32(400)
	err := r.Verify(&Expectation{
		Mode:     "Grounded",
		Gait:     "Running",
		Action:   "Sliding",
		Location: &mgl32.Vec3{0, 0, 96},
		MinSpeed: &minSpeed,
	})
	if err == nil {
		t.Fatalf("expected mismatches")
	}
	for _, want := range []string{"mode", "action", "location", "speed"} {
		if !strings.Contains(err.Error(), want+":") {
			t.Fatalf("expected a %s mismatch in %q", want, err)
		}
	}
	if strings.Contains(err.Error(), "gait:") {
		t.Fatalf("expected the gait to match, got %q", err)
	}
}
