package tag

// LocomotionMode is the coarse physical context of a character.
type LocomotionMode uint8

const (
	LocomotionModeNone LocomotionMode = iota
	LocomotionModeGrounded
	LocomotionModeInAir
)

// Stance is the body posture of a character.
type Stance uint8

const (
	StanceStanding Stance = iota
	StanceCrouching
)

// Gait is the movement cadence of a character. Gaits are ordered from slowest to fastest.
type Gait uint8

const (
	GaitWalking Gait = iota
	GaitRunning
	GaitSprinting
)

// Action is an exclusive, transient action. ActionNone means no action is in progress.
type Action uint8

const (
	ActionNone Action = iota
	ActionSliding
	ActionMantling
	ActionRolling
)

var (
	LocomotionModeRoot = New("Locomotion.LocomotionMode")
	StanceRoot         = New("Locomotion.Stance")
	GaitRoot           = New("Locomotion.Gait")
	ActionRoot         = New("Locomotion.LocomotionAction")

	locomotionModeTags = [...]Tag{Empty, New("Locomotion.LocomotionMode.Grounded"), New("Locomotion.LocomotionMode.InAir")}
	stanceTags         = [...]Tag{New("Locomotion.Stance.Standing"), New("Locomotion.Stance.Crouching")}
	gaitTags           = [...]Tag{New("Locomotion.Gait.Walking"), New("Locomotion.Gait.Running"), New("Locomotion.Gait.Sprinting")}
	actionTags         = [...]Tag{Empty, New("Locomotion.LocomotionAction.Sliding"), New("Locomotion.LocomotionAction.Mantling"), New("Locomotion.LocomotionAction.Rolling")}
)

// Tag returns the tag naming the mode. LocomotionModeNone maps to Empty.
func (m LocomotionMode) Tag() Tag {
	if int(m) >= len(locomotionModeTags) {
		return Empty
	}
	return locomotionModeTags[m]
}

func (m LocomotionMode) String() string { return m.Tag().SimpleName() }

// Tag returns the tag naming the stance.
func (s Stance) Tag() Tag {
	if int(s) >= len(stanceTags) {
		return Empty
	}
	return stanceTags[s]
}

func (s Stance) String() string { return s.Tag().SimpleName() }

// Tag returns the tag naming the gait.
func (g Gait) Tag() Tag {
	if int(g) >= len(gaitTags) {
		return Empty
	}
	return gaitTags[g]
}

func (g Gait) String() string { return g.Tag().SimpleName() }

// Tag returns the tag naming the action. ActionNone maps to Empty.
func (a Action) Tag() Tag {
	if int(a) >= len(actionTags) {
		return Empty
	}
	return actionTags[a]
}

func (a Action) String() string { return a.Tag().SimpleName() }

// ParseLocomotionMode parses a full tag name or simple name. "None" and "" parse to
// LocomotionModeNone.
func ParseLocomotionMode(s string) (LocomotionMode, bool) {
	i, ok := parse(s, LocomotionModeRoot, locomotionModeTags[:], true)
	return LocomotionMode(i), ok
}

// ParseStance parses a full tag name or simple name.
func ParseStance(s string) (Stance, bool) {
	i, ok := parse(s, StanceRoot, stanceTags[:], false)
	return Stance(i), ok
}

// ParseGait parses a full tag name or simple name.
func ParseGait(s string) (Gait, bool) {
	i, ok := parse(s, GaitRoot, gaitTags[:], false)
	return Gait(i), ok
}

// ParseAction parses a full tag name or simple name. "None" and "" parse to ActionNone.
func ParseAction(s string) (Action, bool) {
	i, ok := parse(s, ActionRoot, actionTags[:], true)
	return Action(i), ok
}

func parse(s string, root Tag, table []Tag, allowEmpty bool) (int, bool) {
	if s == "" || s == "None" {
		return 0, allowEmpty
	}
	t, ok := Lookup(s)
	if !ok {
		t, ok = Lookup(root.String() + "." + s)
	}
	if !ok {
		return 0, false
	}
	for i, candidate := range table {
		if candidate.Valid() && candidate == t {
			return i, true
		}
	}
	return 0, false
}
