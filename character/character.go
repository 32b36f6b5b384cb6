// Package character implements the locomotion state machine of a character. A Character keeps
// its locomotion mode, stance, gait and action in sync with its movement component and drives
// the side effects of their transitions.
package character

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/anim"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/tag"
	"github.com/oomph-ac/locomotion/timer"
	"github.com/oomph-ac/locomotion/world"
)

// LocomotionState holds the state axes of a character. Within each axis exactly one value is
// active at a time.
type LocomotionState struct {
	Mode          tag.LocomotionMode
	Stance        tag.Stance
	DesiredStance tag.Stance
	Gait          tag.Gait
	DesiredGait   tag.Gait
	Action        tag.Action
}

// Config holds the collaborators of a Character.
type Config struct {
	// Name identifies the character in logs.
	Name     string
	Settings *settings.Settings
	World    *world.World
	// Timers is the timer service the character schedules its one-shot callbacks on. The
	// owner of the world ticks it.
	Timers *timer.Manager
	Logger *slog.Logger
	// Hooks may be nil, in which case NopHooks is used.
	Hooks Hooks
	// Sink receives on-screen style diagnostics. It may be nil, in which case messages are
	// written to the logger.
	Sink Sink
}

// Character is a controllable character. All of its methods must be called from the goroutine
// that simulates the world it lives in.
type Character struct {
	name     string
	settings *settings.Settings
	world    *world.World
	timers   *timer.Manager
	log      *slog.Logger
	hooks    Hooks
	sink     Sink

	movement *movement.Component
	montages *anim.Player

	state LocomotionState

	forceWalkRun   bool
	forceRunSprint bool
	controlled     bool

	brakingFrictionReset timer.Handle

	slideMontage *anim.Montage
	rollMontage  *anim.Montage

	mantle MantleState

	push          Pusher
	interactables []Interactable
	focused       Interactable
}

// New creates a character from the config passed. The character is not placed in the world
// until Spawn is called. New panics if the settings, world or timer service are missing.
func New(conf Config) *Character {
	assert.NotNil(conf.Settings, "character settings")
	assert.NotNil(conf.World, "world")
	assert.NotNil(conf.Timers, "timer manager")

	if conf.Logger == nil {
		conf.Logger = slog.Default()
	}
	if conf.Hooks == nil {
		conf.Hooks = NopHooks{}
	}
	if conf.Sink == nil {
		conf.Sink = LogSink{Logger: conf.Logger}
	}
	log := conf.Logger.With("character", conf.Name)

	c := &Character{
		name:     conf.Name,
		settings: conf.Settings,
		world:    conf.World,
		timers:   conf.Timers,
		log:      log,
		hooks:    conf.Hooks,
		sink:     conf.Sink,
		montages: anim.NewPlayer(),
		state: LocomotionState{
			Mode:          tag.LocomotionModeGrounded,
			Stance:        tag.StanceStanding,
			DesiredStance: tag.StanceStanding,
			Gait:          tag.GaitWalking,
			DesiredGait:   tag.GaitWalking,
		},
		forceWalkRun:   conf.Settings.Gait.ForceWalkRun,
		forceRunSprint: conf.Settings.Gait.ForceRunSprint,
		controlled:     true,
		slideMontage:   montageFromSettings(conf.Settings.Slide.Montage),
		rollMontage:    montageFromSettings(conf.Settings.Roll.Montage),
	}
	c.movement = movement.New(conf.Settings, conf.World, c, log)
	return c
}

func montageFromSettings(m settings.Montage) *anim.Montage {
	return &anim.Montage{Name: m.Name, Length: m.Length}
}

// Spawn places the character at loc facing yaw and runs BeginPlay.
func (c *Character) Spawn(loc mgl32.Vec3, yaw float32) {
	c.movement.Spawn(loc, yaw)
	c.BeginPlay()
}

// BeginPlay brings the movement component in line with the locomotion state.
func (c *Character) BeginPlay() {
	c.ApplyDesiredStance()
	c.movement.SetStance(c.state.Stance)
	c.RefreshGait()
}

// Tick advances the character by dt seconds: it refreshes the gait, runs the movement
// component, advances montages and pushes, and updates the focused interactable.
func (c *Character) Tick(dt float32) {
	if dt <= 0 {
		return
	}
	c.RefreshGait()
	c.movement.Tick(dt)

	c.montages.Tick(dt)
	for _, m := range c.montages.Ended() {
		c.onMontageEnded(m)
	}

	if c.push != nil {
		c.push.Tick(dt)
	}
	c.updateFocus()
}

// Name returns the name of the character.
func (c *Character) Name() string { return c.name }

// Settings returns the settings the character was created with.
func (c *Character) Settings() *settings.Settings { return c.settings }

// World returns the world the character lives in.
func (c *Character) World() *world.World { return c.world }

// Logger returns the logger of the character.
func (c *Character) Logger() *slog.Logger { return c.log }

// Sink returns the sink diagnostics of the character are sent to.
func (c *Character) Sink() Sink { return c.sink }

// Movement returns the movement component of the character.
func (c *Character) Movement() *movement.Component { return c.movement }

// Montages returns the montage player of the character.
func (c *Character) Montages() *anim.Player { return c.montages }

// State returns a copy of the locomotion state.
func (c *Character) State() LocomotionState { return c.state }

func (c *Character) LocomotionMode() tag.LocomotionMode { return c.state.Mode }
func (c *Character) Stance() tag.Stance                 { return c.state.Stance }
func (c *Character) DesiredStance() tag.Stance          { return c.state.DesiredStance }
func (c *Character) Gait() tag.Gait                     { return c.state.Gait }
func (c *Character) DesiredGait() tag.Gait              { return c.state.DesiredGait }
func (c *Character) LocomotionAction() tag.Action       { return c.state.Action }

// Location returns the location of the centre of the character's capsule.
func (c *Character) Location() mgl32.Vec3 { return c.movement.Location() }

// Yaw returns the facing of the character in degrees.
func (c *Character) Yaw() float32 { return c.movement.Yaw() }

// ForwardVector returns the horizontal direction the character faces.
func (c *Character) ForwardVector() mgl32.Vec3 { return c.movement.ForwardVector() }

// RightVector returns the horizontal direction to the right of the character.
func (c *Character) RightVector() mgl32.Vec3 { return c.movement.RightVector() }

// Velocity returns the velocity of the character.
func (c *Character) Velocity() mgl32.Vec3 { return c.movement.Velocity() }

// Speed returns the horizontal speed of the character.
func (c *Character) Speed() float32 { return c.movement.Speed() }

// SetControlled sets whether the character is controlled. Uncontrolled characters do not
// move on the ground.
func (c *Character) SetControlled(v bool) { c.controlled = v }

// SetForceGait sets the gait policy toggles used by CalculateMaxAllowedGait.
func (c *Character) SetForceGait(walkRun, runSprint bool) {
	c.forceWalkRun = walkRun
	c.forceRunSprint = runSprint
}

// WarpTo teleports the character to loc facing yaw. A push in progress is ended first.
func (c *Character) WarpTo(loc mgl32.Vec3, yaw float32) {
	if c.push != nil && c.push.IsPushingObject() {
		c.push.EndPush()
	}
	c.log.Debug("warped", "location", loc, "yaw", yaw)
	c.movement.Teleport(loc, yaw)
}

// ignored returns the bodies traces of the character skip.
func (c *Character) ignored() []*world.Body {
	if b := c.movement.AttachedTo(); b != nil {
		return []*world.Body{b}
	}
	return nil
}

// OnMovementModeChanged maps the movement mode of the component onto the locomotion mode and
// starts or ends the slide action when the slide mode is entered or left.
func (c *Character) OnMovementModeChanged(prevMode movement.Mode, prevCustom movement.CustomMode) {
	if c.movement.IsCustomMovementMode(movement.CustomSlide) {
		c.TryStartSliding()
	} else if prevMode == movement.ModeCustom && prevCustom == movement.CustomSlide && c.state.Action == tag.ActionSliding {
		c.SetLocomotionAction(tag.ActionNone)
	}

	switch c.movement.Mode() {
	case movement.ModeWalking:
		c.setLocomotionMode(tag.LocomotionModeGrounded)
	case movement.ModeFalling:
		c.setLocomotionMode(tag.LocomotionModeInAir)
	default:
		c.setLocomotionMode(tag.LocomotionModeNone)
	}
}

// OnStartCrouch is called by the movement component once the capsule crouched.
func (c *Character) OnStartCrouch(float32) {
	c.setStance(tag.StanceCrouching)
}

// OnEndCrouch is called by the movement component once the capsule stood up.
func (c *Character) OnEndCrouch(float32) {
	c.setStance(tag.StanceStanding)
}

// HasController returns true if the character is controlled.
func (c *Character) HasController() bool { return c.controlled }

// HasAnimRootMotion returns true while a root motion montage plays.
func (c *Character) HasAnimRootMotion() bool { return c.montages.RootMotion() }
