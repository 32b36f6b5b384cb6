package tag

import "testing"

func TestNewInterns(t *testing.T) {
	a := New("Test.Interning.Value")
	b := New(".Test.Interning.Value.")
	if a != b {
		t.Fatalf("expected interned tags to be equal, got %v and %v", a, b)
	}
	if a.Hash() == 0 {
		t.Fatalf("expected non-zero hash")
	}
	if got, ok := Lookup("Test.Interning.Value"); !ok || got != a {
		t.Fatalf("lookup failed: %v %v", got, ok)
	}
	if New("") != Empty {
		t.Fatalf("expected empty name to return Empty")
	}
}

func TestHierarchy(t *testing.T) {
	crouching := StanceCrouching.Tag()
	if !crouching.MatchesTag(StanceRoot) {
		t.Fatalf("expected %v to match %v", crouching, StanceRoot)
	}
	if crouching.MatchesTag(GaitRoot) {
		t.Fatalf("expected %v not to match %v", crouching, GaitRoot)
	}
	if crouching.Parent() != StanceRoot {
		t.Fatalf("expected parent %v, got %v", StanceRoot, crouching.Parent())
	}
	if crouching.SimpleName() != "Crouching" {
		t.Fatalf("expected simple name Crouching, got %q", crouching.SimpleName())
	}
	if Empty.SimpleName() != "None" {
		t.Fatalf("expected empty simple name None, got %q", Empty.SimpleName())
	}
	if Empty.MatchesTag(Empty) {
		t.Fatalf("empty tag must not match anything")
	}
}

func TestAxisTags(t *testing.T) {
	if LocomotionModeNone.Tag().Valid() {
		t.Fatalf("expected no-mode to map to the empty tag")
	}
	if ActionNone.Tag().Valid() {
		t.Fatalf("expected no-action to map to the empty tag")
	}
	if GaitSprinting.String() != "Sprinting" {
		t.Fatalf("unexpected gait string %q", GaitSprinting.String())
	}
	if LocomotionModeInAir.String() != "InAir" {
		t.Fatalf("unexpected mode string %q", LocomotionModeInAir.String())
	}
	if !(GaitWalking < GaitRunning && GaitRunning < GaitSprinting) {
		t.Fatalf("expected gaits to be ordered")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Stance
		ok   bool
	}{
		{"Crouching", StanceCrouching, true},
		{"Locomotion.Stance.Standing", StanceStanding, true},
		{"Sprinting", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseStance(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("ParseStance(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	if a, ok := ParseAction("None"); !ok || a != ActionNone {
		t.Fatalf("expected None to parse to ActionNone, got %v %v", a, ok)
	}
	if g, ok := ParseGait("Locomotion.Gait.Running"); !ok || g != GaitRunning {
		t.Fatalf("expected Running, got %v %v", g, ok)
	}
	if m, ok := ParseLocomotionMode("InAir"); !ok || m != LocomotionModeInAir {
		t.Fatalf("expected InAir, got %v %v", m, ok)
	}
	if _, ok := ParseGait("None"); ok {
		t.Fatalf("gait has no empty value")
	}
}

func TestAllKeepsOrder(t *testing.T) {
	all := All()
	idx := func(tg Tag) int {
		for i, candidate := range all {
			if candidate == tg {
				return i
			}
		}
		return -1
	}
	if idx(StanceRoot) < 0 || idx(StanceRoot) > idx(StanceStanding.Tag()) {
		t.Fatalf("expected stance root to be registered before its children")
	}
}
