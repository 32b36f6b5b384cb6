package character

import (
	"math/rand/v2"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/anim"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/tag"
	"github.com/oomph-ac/locomotion/timer"
	"github.com/oomph-ac/locomotion/world"
)

const frame = float32(1.0 / 60.0)

type recordingHooks struct {
	NopHooks
	gaitChanges []tag.Gait
	mantles     []MantleState
}

func (h *recordingHooks) OnGaitChanged(_ *Character, prev tag.Gait) {
	h.gaitChanges = append(h.gaitChanges, prev)
}

func (h *recordingHooks) SetupMantle(_ *Character, state MantleState) {
	h.mantles = append(h.mantles, state)
}

type recordingSink struct {
	messages []string
}

func (s *recordingSink) Message(_ int, _ float32, text string) {
	s.messages = append(s.messages, text)
}

type testCharacter struct {
	*Character
	world  *world.World
	timers *timer.Manager
	hooks  *recordingHooks
	sink   *recordingSink
}

func newTestCharacter(t *testing.T, s settings.Settings, spawn mgl32.Vec3) testCharacter {
	t.Helper()
	w := world.New(nil)
	w.AddBox("floor", cube.Box(-5000, -5000, -100, 5000, 5000, 0), false)

	tc := testCharacter{
		world:  w,
		timers: timer.NewManager(),
		hooks:  &recordingHooks{},
		sink:   &recordingSink{},
	}
	tc.Character = New(Config{
		Name:     "test",
		Settings: &s,
		World:    w,
		Timers:   tc.timers,
		Hooks:    tc.hooks,
		Sink:     tc.sink,
	})
	tc.Spawn(spawn, 0)
	return tc
}

func TestSpawnDefaults(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	want := LocomotionState{
		Mode:          tag.LocomotionModeGrounded,
		Stance:        tag.StanceStanding,
		DesiredStance: tag.StanceStanding,
		Gait:          tag.GaitWalking,
		DesiredGait:   tag.GaitWalking,
		Action:        tag.ActionNone,
	}
	if got := c.State(); got != want {
		t.Fatalf("expected state %+v, got %+v", want, got)
	}
	if c.Movement().MaxWalkSpeed() != 175 {
		t.Fatalf("expected max walk speed 175, got %v", c.Movement().MaxWalkSpeed())
	}
}

func TestNew(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected New to panic without settings")
		}
	}()
	New(Config{World: world.New(nil), Timers: timer.NewManager()})
}

func TestCrouchEndToEnd(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.SetDesiredStance(tag.StanceCrouching)
	if !c.Movement().WantsToCrouch() {
		t.Fatalf("expected the desired stance to request a crouch")
	}
	if c.Stance() != tag.StanceStanding {
		t.Fatalf("expected the stance to change only once the capsule crouched")
	}

	c.Tick(frame)
	if c.Stance() != tag.StanceCrouching {
		t.Fatalf("expected to be crouching, got %v", c.Stance())
	}
	if c.Movement().MaxWalkSpeed() != 150 || c.Movement().MaxSpeed() != 150 {
		t.Fatalf("expected the crouch speed 150, got %v", c.Movement().MaxSpeed())
	}

	c.SetDesiredStance(tag.StanceStanding)
	c.Tick(frame)
	if c.Stance() != tag.StanceStanding || c.Movement().MaxWalkSpeed() != 175 {
		t.Fatalf("expected to stand at walk speed, got %v at %v", c.Stance(), c.Movement().MaxWalkSpeed())
	}
}

func TestApplyDesiredStancePolicy(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	r := rand.New(rand.NewPCG(1, 2))

	ops := []func(){
		func() { c.SetDesiredStance(tag.StanceStanding) },
		func() { c.SetDesiredStance(tag.StanceCrouching) },
		func() { c.Movement().SetMovementMode(movement.ModeFalling, movement.CustomNone) },
		func() { c.Movement().SetMovementMode(movement.ModeWalking, movement.CustomNone) },
		func() { c.SetLocomotionAction(tag.ActionNone) },
		func() { c.SetLocomotionAction(tag.ActionSliding) },
		func() { c.SetLocomotionAction(tag.ActionRolling) },
		func() { c.SetLocomotionAction(tag.ActionMantling) },
	}
	var mantled bool
	for i := 0; i < 500; i++ {
		prev := c.Movement().WantsToCrouch()
		ops[r.IntN(len(ops))]()

		s := c.State()
		want := (s.Mode == tag.LocomotionModeGrounded && s.DesiredStance == tag.StanceCrouching && s.Action == tag.ActionNone) ||
			s.Action == tag.ActionSliding || s.Action == tag.ActionRolling
		if s.Action == tag.ActionMantling {
			// Mantling leaves the crouch request as it was.
			want = prev
			mantled = true
		}
		if got := c.Movement().WantsToCrouch(); got != want {
			t.Fatalf("step %d: expected crouch request %v for state %+v, got %v", i, want, s, got)
		}
	}
	if !mantled {
		t.Fatalf("expected the sequence to mantle at least once")
	}
}

func TestCalculateActualGaitHysteresis(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	const eps = 0.01

	tests := []struct {
		speed   float32
		maxGait tag.Gait
		want    tag.Gait
	}{
		{0, tag.GaitSprinting, tag.GaitWalking},
		{185 - eps, tag.GaitSprinting, tag.GaitWalking},
		{185 + eps, tag.GaitSprinting, tag.GaitRunning},
		{385 - eps, tag.GaitSprinting, tag.GaitRunning},
		{385 + eps, tag.GaitSprinting, tag.GaitSprinting},
		{385 + eps, tag.GaitRunning, tag.GaitRunning},
		{650, tag.GaitWalking, tag.GaitRunning},
	}
	for _, tt := range tests {
		c.Movement().SetVelocity(mgl32.Vec3{tt.speed, 0, 0})
		if got := c.CalculateActualGait(tt.maxGait); got != tt.want {
			t.Fatalf("speed %v max %v: expected %v, got %v", tt.speed, tt.maxGait, tt.want, got)
		}
	}
}

func TestGaitRampNotifiesChanges(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	const eps = 0.01

	ramp := []float32{0, 185 - eps, 185 + eps, 300, 385 - eps, 385 + eps, 500, 385 + eps, 385 - eps, 185 + eps, 185 - eps, 0}
	for _, speed := range ramp {
		c.Movement().SetVelocity(mgl32.Vec3{0, speed, 0})
		c.SetGait(c.CalculateActualGait(tag.GaitSprinting))
	}
	want := []tag.Gait{tag.GaitWalking, tag.GaitRunning, tag.GaitSprinting, tag.GaitRunning}
	if len(c.hooks.gaitChanges) != len(want) {
		t.Fatalf("expected gait changes from %v, got %v", want, c.hooks.gaitChanges)
	}
	for i := range want {
		if c.hooks.gaitChanges[i] != want[i] {
			t.Fatalf("expected gait changes from %v, got %v", want, c.hooks.gaitChanges)
		}
	}
	if c.Gait() != tag.GaitWalking {
		t.Fatalf("expected to end walking, got %v", c.Gait())
	}
}

func TestCalculateMaxAllowedGait(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})

	c.SetForceGait(true, true)
	c.SetDesiredGait(tag.GaitRunning)
	if got := c.CalculateMaxAllowedGait(); got != tag.GaitRunning {
		t.Fatalf("expected the desired gait below sprinting, got %v", got)
	}
	c.SetDesiredGait(tag.GaitSprinting)
	if got := c.CalculateMaxAllowedGait(); got != tag.GaitRunning {
		t.Fatalf("expected running without the ability to sprint, got %v", got)
	}

	c.InputMove(mgl32.Vec2{0, 1}, 0)
	c.Tick(frame)
	c.Movement().SetCanSprint(true)
	if !c.CanSprint() {
		t.Fatalf("expected to be able to sprint with input while standing")
	}
	if got := c.CalculateMaxAllowedGait(); got != tag.GaitSprinting {
		t.Fatalf("expected sprinting, got %v", got)
	}

	c.SetForceGait(true, false)
	if got := c.CalculateMaxAllowedGait(); got != tag.GaitRunning {
		t.Fatalf("expected sprinting to be clamped to running, got %v", got)
	}
	c.SetForceGait(false, false)
	if got := c.CalculateMaxAllowedGait(); got != tag.GaitWalking {
		t.Fatalf("expected walking without toggles, got %v", got)
	}
}

func TestRefreshGaitOnlyWhenGrounded(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.SetDesiredGait(tag.GaitRunning)
	c.Movement().SetMovementMode(movement.ModeFalling, movement.CustomNone)
	c.RefreshGait()
	if c.Movement().MaxAllowedGait() != tag.GaitWalking {
		t.Fatalf("expected the max allowed gait to stay while in the air")
	}

	c.Movement().SetMovementMode(movement.ModeWalking, movement.CustomNone)
	c.RefreshGait()
	if c.Movement().MaxAllowedGait() != tag.GaitRunning || c.Movement().MaxWalkSpeed() != 375 {
		t.Fatalf("expected running speed once grounded, got %v", c.Movement().MaxWalkSpeed())
	}
}

func TestLandingTimerIsReplaced(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	land := func() {
		c.Movement().SetMovementMode(movement.ModeFalling, movement.CustomNone)
		c.Movement().SetMovementMode(movement.ModeWalking, movement.CustomNone)
	}

	land()
	if got := c.Movement().BrakingFrictionFactor(); got != 3 {
		t.Fatalf("expected the no input braking friction factor, got %v", got)
	}
	if c.timers.Pending() != 1 {
		t.Fatalf("expected exactly one pending reset, got %d", c.timers.Pending())
	}

	c.timers.Tick(0.3)
	land()
	if c.timers.Pending() != 1 {
		t.Fatalf("expected the second landing to replace the reset, got %d pending", c.timers.Pending())
	}

	c.timers.Tick(0.3)
	if got := c.Movement().BrakingFrictionFactor(); got != 3 {
		t.Fatalf("expected the first reset not to fire, got factor %v", got)
	}
	c.timers.Tick(0.25)
	if got := c.Movement().BrakingFrictionFactor(); got != 1 {
		t.Fatalf("expected the second reset to fire, got factor %v", got)
	}
	if c.timers.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", c.timers.Pending())
	}
}

func TestNoOpSetters(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})

	c.SetGait(tag.GaitWalking)
	if len(c.hooks.gaitChanges) != 0 {
		t.Fatalf("expected no gait change notification, got %v", c.hooks.gaitChanges)
	}
	c.SetGait(tag.GaitRunning)
	c.SetGait(tag.GaitRunning)
	if len(c.hooks.gaitChanges) != 1 || c.hooks.gaitChanges[0] != tag.GaitWalking {
		t.Fatalf("expected one gait change from walking, got %v", c.hooks.gaitChanges)
	}

	c.Movement().SetWantsToCrouch(true)
	c.SetDesiredStance(tag.StanceStanding)
	c.SetLocomotionAction(tag.ActionNone)
	if !c.Movement().WantsToCrouch() {
		t.Fatalf("expected unchanged setters not to reapply the stance")
	}

	c.SetDesiredGait(tag.GaitWalking)
	if c.Movement().MaxAllowedGait() != tag.GaitWalking || c.Movement().MaxWalkSpeed() != 175 {
		t.Fatalf("expected unchanged setters not to touch the speed table")
	}
}

func TestSlideRoundTrip(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.Movement().SetMovementMode(movement.ModeCustom, movement.CustomSlide)

	if c.LocomotionAction() != tag.ActionSliding {
		t.Fatalf("expected entering the slide mode to start the slide action, got %v", c.LocomotionAction())
	}
	if c.LocomotionMode() != tag.LocomotionModeNone {
		t.Fatalf("expected no locomotion mode while sliding, got %v", c.LocomotionMode())
	}
	if !c.Montages().IsPlaying(c.SlideMontage()) {
		t.Fatalf("expected the slide montage to play")
	}

	c.Tick(frame)
	if !c.Movement().IsWalking() {
		t.Fatalf("expected to return to walking within one frame, got %v", c.Movement().Mode())
	}
	if c.LocomotionAction() != tag.ActionNone || c.LocomotionMode() != tag.LocomotionModeGrounded {
		t.Fatalf("expected a grounded character without action, got %+v", c.State())
	}
	if c.Movement().WantsToCrouch() {
		t.Fatalf("expected the crouch request to be cleared")
	}

	c.Tick(frame)
	if c.Stance() != tag.StanceStanding {
		t.Fatalf("expected to stand after the slide, got %v", c.Stance())
	}
}

func TestSlideFromRun(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.InputSprint(false)
	for _i := 0; _i < 60; _i++ {
		c.InputMove(mgl32.Vec2{0, 1}, 0)
		c.Tick(frame)
	}
	if c.Speed() < 350 {
		t.Fatalf("expected to run, got speed %v", c.Speed())
	}

	c.InputCrouch()
	for i := 0; i < 3 && c.LocomotionAction() != tag.ActionSliding; i++ {
		c.InputMove(mgl32.Vec2{0, 1}, 0)
		c.Tick(frame)
	}
	if !c.Movement().IsCustomMovementMode(movement.CustomSlide) || c.LocomotionAction() != tag.ActionSliding {
		t.Fatalf("expected crouching while running to slide, got %v/%v", c.Movement().Mode(), c.LocomotionAction())
	}
	if c.Movement().OrientRotationToMovement() {
		t.Fatalf("expected rotation not to follow input while sliding")
	}

	for i := 0; i < 120 && c.LocomotionAction() == tag.ActionSliding; i++ {
		c.InputMove(mgl32.Vec2{0, 1}, 0)
		c.Tick(frame)
	}
	if c.LocomotionAction() != tag.ActionNone || !c.Movement().IsWalking() {
		t.Fatalf("expected the slide to end, got %v/%v", c.Movement().Mode(), c.LocomotionAction())
	}
	if c.Stance() != tag.StanceCrouching || !c.Movement().WantsToCrouch() {
		t.Fatalf("expected to stay crouched after the slide, got %v", c.Stance())
	}
}

func TestRollOnHardLanding(t *testing.T) {
	s := settings.DefaultSettings()
	s.Roll.Enabled = true
	c := newTestCharacter(t, s, mgl32.Vec3{0, 0, 400})
	if c.LocomotionMode() != tag.LocomotionModeInAir {
		t.Fatalf("expected to spawn in the air, got %v", c.LocomotionMode())
	}

	for i := 0; i < 120 && c.LocomotionMode() == tag.LocomotionModeInAir; i++ {
		c.Tick(frame)
	}
	if c.LocomotionAction() != tag.ActionRolling {
		t.Fatalf("expected a hard landing to roll, got %v", c.LocomotionAction())
	}
	if !c.Movement().WantsToCrouch() {
		t.Fatalf("expected rolling to force a crouch")
	}
	if c.timers.Pending() != 0 || c.Movement().BrakingFrictionFactor() != 1 {
		t.Fatalf("expected rolling to skip the landing friction")
	}

	for _i := 0; _i < 60; _i++ {
		c.Tick(frame)
	}
	if c.LocomotionAction() != tag.ActionNone {
		t.Fatalf("expected the roll to end with its montage, got %v", c.LocomotionAction())
	}
	if c.Movement().WantsToCrouch() {
		t.Fatalf("expected to stand up after rolling")
	}
}

func TestSlideAllowedAfterRollMontage(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	if !c.TryStartRolling() {
		t.Fatalf("expected to start rolling")
	}
	if c.IsAllowedToSlide(c.RollMontage()) {
		t.Fatalf("expected sliding to be blocked while the roll montage plays")
	}
	c.Montages().Stop(c.RollMontage())
	if !c.IsAllowedToSlide(c.RollMontage()) {
		t.Fatalf("expected sliding to be allowed once the roll montage stopped")
	}
}

type nilMontageHooks struct{ NopHooks }

func (nilMontageHooks) SelectRollMontage(*Character) *anim.Montage { return nil }

func TestStartSlidingWithoutMontage(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.Character.hooks = nilMontageHooks{}
	c.StartSliding()
	if c.LocomotionAction() != tag.ActionNone {
		t.Fatalf("expected no slide without a montage, got %v", c.LocomotionAction())
	}
}

func TestJump(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	c.SetDesiredStance(tag.StanceCrouching)
	c.Tick(frame)

	c.InputJump(true)
	if c.DesiredStance() != tag.StanceStanding {
		t.Fatalf("expected jump to stand up a crouched character")
	}
	c.Tick(frame)
	if c.LocomotionMode() != tag.LocomotionModeGrounded {
		t.Fatalf("expected not to jump while crouched")
	}

	c.InputJump(true)
	c.Tick(frame)
	if c.LocomotionMode() != tag.LocomotionModeInAir {
		t.Fatalf("expected to jump, got %v", c.LocomotionMode())
	}
}

func TestMantleTrace(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	if _, ok := c.MantleTrace(); ok {
		t.Fatalf("expected nothing to mantle in an empty world")
	}

	c.world.AddBox("wall", cube.Box(100, -200, 0, 200, 200, 130), false)
	state, ok := c.MantleTrace()
	if !ok || !state.CanMantle {
		t.Fatalf("expected to detect the wall")
	}
	if state.StartPos != (mgl32.Vec3{0, 0, 0}) {
		t.Fatalf("expected the start at the feet, got %v", state.StartPos)
	}
	if len(c.hooks.mantles) != 1 {
		t.Fatalf("expected SetupMantle to be called once, got %d", len(c.hooks.mantles))
	}

	c.Movement().SetMovementMode(movement.ModeFalling, movement.CustomNone)
	if _, ok := c.MantleTrace(); ok || c.Mantle().CanMantle {
		t.Fatalf("expected no mantle while in the air")
	}
}

type fakeInteractable struct {
	loc        mgl32.Vec3
	interacted int
	focused    bool
}

func (f *fakeInteractable) Location() mgl32.Vec3    { return f.loc }
func (f *fakeInteractable) OnInteracted(*Character) { f.interacted++ }
func (f *fakeInteractable) StartFocus(*Character)   { f.focused = true }
func (f *fakeInteractable) EndFocus(*Character)     { f.focused = false }

func TestInteract(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	closeProp := &fakeInteractable{loc: mgl32.Vec3{100, 0, 96}}
	farProp := &fakeInteractable{loc: mgl32.Vec3{1000, 0, 96}}
	c.AddInteractable(closeProp)
	c.AddInteractable(farProp)

	c.Tick(frame)
	if !closeProp.focused || farProp.focused {
		t.Fatalf("expected only the close interactable to be focused")
	}
	c.InputInteract()
	if closeProp.interacted != 1 || farProp.interacted != 0 {
		t.Fatalf("expected to interact with the close interactable only")
	}
	if len(c.sink.messages) != 1 || c.sink.messages[0] != "Interacted" {
		t.Fatalf("expected an interaction message, got %v", c.sink.messages)
	}

	c.WarpTo(mgl32.Vec3{1000, 50, 96}, 0)
	c.Tick(frame)
	if closeProp.focused || !farProp.focused {
		t.Fatalf("expected the focus to move to the other interactable")
	}
	c.RemoveInteractable(farProp)
	if farProp.focused || c.Focused() != nil {
		t.Fatalf("expected removing the focused interactable to end its focus")
	}
}

func TestDebugState(t *testing.T) {
	c := newTestCharacter(t, settings.DefaultSettings(), mgl32.Vec3{0, 0, 96})
	keys := c.DebugState().Keys()
	want := []string{"Locomotion Mode", "Desired Stance", "Stance", "Desired Gait", "Gait", "Locomotion Action", "Speed"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
	if v, _ := c.DebugState().Get("Locomotion Action"); v != "None" {
		t.Fatalf("expected no action, got %q", v)
	}

	c.Movement().SetMovementMode(movement.ModeFalling, movement.CustomNone)
	if v, _ := c.DebugState().Get("Locomotion Mode"); v != "In Air" {
		t.Fatalf("expected In Air, got %q", v)
	}
}

func TestDisplayName(t *testing.T) {
	for in, want := range map[string]string{
		"LocomotionMode": "Locomotion Mode",
		"InAir":          "In Air",
		"HTTPServer":     "HTTP Server",
		"None":           "None",
		"":               "",
	} {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q): expected %q, got %q", in, want, got)
		}
	}
}
