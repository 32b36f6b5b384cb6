package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oomph-ac/locomotion/tag"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("expected default settings to be valid, got %v", err)
	}
	if s.Slide.MinSpeed != 200 || s.Slide.MaxSpeed != 500 || s.Slide.EnterImpulse != 200 {
		t.Fatalf("unexpected slide defaults: %+v", s.Slide)
	}
	if s.Movement.CapsuleRadius <= s.Movement.CrouchedHalfHeight {
		t.Fatalf("expected the default radius to exceed the crouched half height, got %+v", s.Movement)
	}
	if s.Braking.HasInputFrictionFactor != 0.5 || s.Braking.NoInputFrictionFactor != 3 || s.Braking.ResetDelay != 0.5 {
		t.Fatalf("unexpected braking defaults: %+v", s.Braking)
	}
}

func TestSpeedForGait(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		gait   tag.Gait
		stance tag.Stance
		want   float32
	}{
		{tag.GaitWalking, tag.StanceStanding, 175},
		{tag.GaitRunning, tag.StanceStanding, 375},
		{tag.GaitSprinting, tag.StanceStanding, 650},
		{tag.GaitWalking, tag.StanceCrouching, 150},
		{tag.GaitSprinting, tag.StanceCrouching, 150},
	}
	for _, tt := range tests {
		if got := s.SpeedForGait(tt.gait, tt.stance); got != tt.want {
			t.Fatalf("SpeedForGait(%v, %v) = %v, want %v", tt.gait, tt.stance, got, tt.want)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	s := DefaultSettings()
	s.Slide.MinSpeed = 600
	if err := s.Validate(); err == nil {
		t.Fatalf("expected min slide speed above max to be rejected")
	}

	s = DefaultSettings()
	s.Gait.RunSpeed = 100
	if err := s.Validate(); err == nil {
		t.Fatalf("expected unordered gait speeds to be rejected")
	}

	s = DefaultSettings()
	s.Movement.CrouchedHalfHeight = 120
	if err := s.Validate(); err == nil {
		t.Fatalf("expected crouched half height above half height to be rejected")
	}

	s = DefaultSettings()
	s.Movement.MaxSimulationIterations = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("expected zero iterations to be rejected")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != DefaultSettings() {
		t.Fatalf("expected round-tripped defaults, got %+v", s)
	}

	if err := os.WriteFile(path, []byte("[slide]\nmin_speed = 250.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// SaveDefault must not overwrite an existing file.
	if err := SaveDefault(path); err != nil {
		t.Fatalf("save default: %v", err)
	}
	s, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Slide.MinSpeed != 250 {
		t.Fatalf("expected min slide speed 250, got %v", s.Slide.MinSpeed)
	}
	if s.Slide.MaxSpeed != 500 {
		t.Fatalf("expected missing field to keep its default, got %v", s.Slide.MaxSpeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
