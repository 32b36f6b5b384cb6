package movement

import (
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/tag"
	"github.com/oomph-ac/locomotion/world"
)

// Owner is the character driving a movement component. It is notified of mode changes and
// crouch state changes synchronously from within the component's tick.
type Owner interface {
	// OnMovementModeChanged is called after the component switched modes and ran its own
	// mode entry and exit logic.
	OnMovementModeChanged(prevMode Mode, prevCustomMode CustomMode)
	// OnStartCrouch is called after the capsule shrunk to its crouched height.
	OnStartCrouch(halfHeightAdjust float32)
	// OnEndCrouch is called after the capsule grew back to its standing height.
	OnEndCrouch(halfHeightAdjust float32)
	// HasController returns true if the owner is currently controlled. Ground physics only
	// run for controlled owners.
	HasController() bool
	// HasAnimRootMotion returns true while an animation drives the owner with root motion.
	HasAnimRootMotion() bool
}

// Component simulates the movement of a character capsule through a world. It walks, falls,
// flies and slides, and tracks the crouch and sprint intent of its owner. A Component is
// owned by a single character and is not safe for concurrent use.
type Component struct {
	settings *settings.Settings
	world    *world.World
	owner    Owner
	logger   *slog.Logger

	location     mgl32.Vec3
	yaw          float32
	velocity     mgl32.Vec3
	acceleration mgl32.Vec3
	inputVector  mgl32.Vec3

	mode       Mode
	customMode CustomMode

	floor               Floor
	base                *world.Body
	attached            *world.Body
	forceNextFloorCheck bool
	justTeleported      bool

	halfHeight    float32
	crouched      bool
	wantsToCrouch bool
	wantsToSprint bool
	canSprint     bool
	hasInput      bool
	pressedJump   bool

	hadAnimRootMotion bool
	landingVelocity   mgl32.Vec3

	brakingFrictionFactor    float32
	maxWalkSpeed             float32
	maxWalkSpeedCrouched     float32
	orientRotationToMovement bool

	planeConstraint bool
	planeNormal     mgl32.Vec3

	stance         tag.Stance
	maxAllowedGait tag.Gait
}

// New returns a movement component for owner in the world passed. The component starts with
// no movement mode; call Spawn to place it.
func New(s *settings.Settings, w *world.World, owner Owner, logger *slog.Logger) *Component {
	assert.NotNil(s, "movement settings")
	assert.NotNil(w, "world")
	assert.IsTrue(owner != nil, "movement component requires an owner")
	if logger == nil {
		logger = slog.Default()
	}

	c := &Component{
		settings:                 s,
		world:                    w,
		owner:                    owner,
		logger:                   logger,
		halfHeight:               s.Movement.CapsuleHalfHeight,
		brakingFrictionFactor:    1,
		orientRotationToMovement: true,
		stance:                   tag.StanceStanding,
		maxAllowedGait:           tag.GaitWalking,
	}
	c.RefreshMaxWalkSpeed()
	return c
}

// Spawn teleports the capsule to loc with the yaw passed and starts walking if there is a
// walkable floor below, or falling otherwise.
func (c *Component) Spawn(loc mgl32.Vec3, yaw float32) {
	c.Teleport(loc, yaw)
	if c.floor.IsWalkableFloor() && c.floor.FloorDist <= maxFloorDist {
		c.SetMovementMode(ModeWalking, CustomNone)
		return
	}
	c.SetMovementMode(ModeFalling, CustomNone)
}

// Teleport moves the capsule to loc without sweeping and refreshes the floor.
func (c *Component) Teleport(loc mgl32.Vec3, yaw float32) {
	c.location = loc
	c.yaw = normalizeYaw(yaw)
	c.justTeleported = true
	c.floor = c.FindFloor(c.location)
	c.forceNextFloorCheck = true
	if c.IsMovingOnGround() && !c.floor.IsWalkableFloor() {
		c.SetMovementMode(ModeFalling, CustomNone)
	}
}

// Tick runs the movement of one frame: it consumes the pending input, evaluates mode
// transitions, runs the physics of the current mode and updates the rotation.
func (c *Component) Tick(dt float32) {
	if dt <= 0 || c.mode == ModeNone {
		return
	}
	oldLocation, oldVelocity := c.location, c.velocity

	input := c.inputVector
	c.inputVector = mgl32.Vec3{}
	c.acceleration = c.scaleInputAcceleration(c.constrainInputAcceleration(input))

	if c.pressedJump {
		c.pressedJump = false
		c.DoJump()
	}

	c.UpdateCharacterStateBeforeMovement(dt)
	c.StartNewPhysics(dt, 0)
	c.UpdateCharacterStateAfterMovement(dt)
	c.PhysicsRotation(dt)
	c.OnMovementUpdated(dt, oldLocation, oldVelocity)
}

// AddInputVector adds movement input for the next tick. The accumulated input is clamped to a
// length of 1 and scaled by the max acceleration.
func (c *Component) AddInputVector(v mgl32.Vec3) {
	c.inputVector = c.inputVector.Add(v)
}

// Jump requests a jump on the next tick.
func (c *Component) Jump() {
	c.pressedJump = true
}

// StopJumping cancels a pending jump request.
func (c *Component) StopJumping() {
	c.pressedJump = false
}

// CanJump returns true if the component is in a state that allows jumping.
func (c *Component) CanJump() bool {
	return c.mode == ModeWalking && !c.crouched
}

// DoJump launches the capsule upwards if it can jump.
func (c *Component) DoJump() bool {
	if !c.CanJump() {
		return false
	}
	c.velocity[2] = math32.Max(c.velocity.Z(), c.settings.Movement.JumpZVelocity)
	c.SetMovementMode(ModeFalling, CustomNone)
	return true
}

// OnMovementUpdated is called at the end of every tick.
func (c *Component) OnMovementUpdated(dt float32, oldLocation, oldVelocity mgl32.Vec3) {
	c.setupInputDirection(c.acceleration.Mul(1 / c.MaxAcceleration()))
}

func (c *Component) setupInputDirection(dir mgl32.Vec3) {
	c.hasInput = safeNormal(dir).LenSqr() > kindaSmallNumber
}

func (c *Component) constrainInputAcceleration(input mgl32.Vec3) mgl32.Vec3 {
	if input.Z() != 0 && (c.IsMovingOnGround() || c.IsFalling()) {
		input[2] = 0
	}
	return c.constrainToPlane(input)
}

func (c *Component) scaleInputAcceleration(input mgl32.Vec3) mgl32.Vec3 {
	return clampedToMaxSize(input, 1).Mul(c.MaxAcceleration())
}

// PhysicsRotation turns the capsule towards its acceleration when orient rotation to
// movement is enabled.
func (c *Component) PhysicsRotation(dt float32) {
	if !c.orientRotationToMovement {
		return
	}
	a := mgl32.Vec3{c.acceleration.X(), c.acceleration.Y(), 0}
	if a.LenSqr() < kindaSmallNumber {
		return
	}
	c.yaw = fixedTurn(c.yaw, yawOf(a), c.settings.Movement.RotationRate*dt)
}

// SetMovementMode switches to the mode passed. The custom mode is ignored unless mode is
// ModeCustom. Switching to the current mode does nothing.
func (c *Component) SetMovementMode(mode Mode, custom CustomMode) {
	if mode != ModeCustom {
		custom = CustomNone
	}
	if c.mode == mode && c.customMode == custom {
		return
	}
	prevMode, prevCustom := c.mode, c.customMode
	c.mode, c.customMode = mode, custom
	c.logger.Debug("movement mode changed", "from", prevMode, "fromCustom", prevCustom, "to", mode, "toCustom", custom)

	c.OnMovementModeChanged(prevMode, prevCustom)
}

// OnMovementModeChanged runs the mode entry and exit logic of the component and then notifies
// the owner.
func (c *Component) OnMovementModeChanged(prevMode Mode, prevCustom CustomMode) {
	switch {
	case c.mode == ModeWalking:
		c.velocity[2] = 0
		c.floor = c.FindFloor(c.location)
		c.AdjustFloorHeight()
		c.setBaseFromFloor()
	case c.IsMovingOnGround():
	default:
		c.floor = Floor{}
		c.base = nil
	}

	if prevMode == ModeCustom && prevCustom == CustomSlide {
		c.exitSlide()
	}
	if c.IsCustomMovementMode(CustomSlide) {
		c.enterSlide(prevMode, prevCustom)
	}
	if c.IsFalling() {
		c.orientRotationToMovement = true
	}

	c.owner.OnMovementModeChanged(prevMode, prevCustom)
}

// UpdateCharacterStateBeforeMovement evaluates slide and crouch transitions before the
// physics of the tick run.
func (c *Component) UpdateCharacterStateBeforeMovement(dt float32) {
	if c.mode == ModeWalking && c.wantsToCrouch {
		if c.CanSlide() {
			c.SetMovementMode(ModeCustom, CustomSlide)
		}
	} else if c.IsCustomMovementMode(CustomSlide) && !c.wantsToCrouch {
		c.SetMovementMode(ModeWalking, CustomNone)
	}

	if c.crouched && (!c.wantsToCrouch || !c.CanCrouchInCurrentState()) {
		c.UnCrouch()
	} else if !c.crouched && c.wantsToCrouch && c.CanCrouchInCurrentState() {
		c.Crouch()
	}
}

// UpdateCharacterStateAfterMovement returns to walking when a root motion animation that
// moved the capsule while flying has ended.
func (c *Component) UpdateCharacterStateAfterMovement(dt float32) {
	rootMotion := c.owner.HasAnimRootMotion()
	if !rootMotion && c.hadAnimRootMotion && c.mode == ModeFlying {
		c.logger.Debug("ending anim root motion")
		c.SetMovementMode(ModeWalking, CustomNone)
	}
	c.hadAnimRootMotion = rootMotion
}

// StartNewPhysics runs the physics of the current mode for the time passed.
func (c *Component) StartNewPhysics(dt float32, iterations int) {
	if dt < minTickTime || iterations >= c.settings.Movement.MaxSimulationIterations {
		return
	}
	switch c.mode {
	case ModeWalking:
		c.physWalking(dt, iterations)
	case ModeFalling:
		c.physFalling(dt, iterations)
	case ModeFlying:
		c.physFlying(dt, iterations)
	case ModeCustom:
		c.PhysCustom(dt, iterations)
	}
}

// PhysCustom runs the physics of the current custom mode.
func (c *Component) PhysCustom(dt float32, iterations int) {
	c.assertCustomMode()
	switch c.customMode {
	case CustomSlide:
		c.PhysSlide(dt, iterations)
	}
}

// assertCustomMode panics if the component is in an unknown custom mode. Such a mode can only
// be reached through a programming error.
func (c *Component) assertCustomMode() {
	valid := c.customMode == CustomSlide
	if !valid {
		c.logger.Error("invalid custom movement mode", "mode", c.customMode)
	}
	assert.IsTrue(valid, "invalid custom movement mode %v", c.customMode)
}

func (c *Component) simulationTimeStep(remaining float32, iterations int) float32 {
	maxStep := c.settings.Movement.MaxSimulationTimeStep
	if remaining > maxStep && iterations < c.settings.Movement.MaxSimulationIterations {
		remaining = math32.Min(maxStep, remaining*0.5)
	}
	return math32.Max(minTickTime, remaining)
}

// capsuleBox returns the bounding box of the capsule centred at loc.
func (c *Component) capsuleBox(loc mgl32.Vec3) cube.BBox {
	r, hh := c.settings.Movement.CapsuleRadius, c.halfHeight
	return cube.Box(loc.X()-r, loc.Y()-r, loc.Z()-hh, loc.X()+r, loc.Y()+r, loc.Z()+hh)
}

func (c *Component) ignored() []*world.Body {
	if c.attached == nil {
		return nil
	}
	return []*world.Body{c.attached}
}

// sweep moves the capsule by delta through the world and returns the result.
func (c *Component) sweep(delta mgl32.Vec3) world.SweepResult {
	res := c.world.Sweep(c.capsuleBox(c.location), c.constrainToPlane(delta), c.ignored()...)
	c.location = c.location.Add(res.Delta)
	return res
}

// MoveAttached moves the capsule by delta, as done when the body it is attached to moves.
func (c *Component) MoveAttached(delta mgl32.Vec3) {
	c.sweep(delta)
}

// AttachTo attaches the capsule to body. The capsule no longer collides with an attached body.
func (c *Component) AttachTo(body *world.Body) {
	c.attached = body
}

// Detach detaches the capsule from the body it is attached to.
func (c *Component) Detach() {
	c.attached = nil
}

// AttachedTo returns the body the capsule is attached to, or nil.
func (c *Component) AttachedTo() *world.Body {
	return c.attached
}

func (c *Component) constrainToPlane(v mgl32.Vec3) mgl32.Vec3 {
	if !c.planeConstraint {
		return v
	}
	return v.Sub(c.planeNormal.Mul(v.Dot(c.planeNormal)))
}

// SetPlaneConstraintEnabled enables or disables constraining movement to a plane.
func (c *Component) SetPlaneConstraintEnabled(enabled bool) {
	c.planeConstraint = enabled
	if enabled {
		c.velocity = c.constrainToPlane(c.velocity)
	}
}

// SetPlaneConstraintNormal sets the normal of the plane movement is constrained to.
func (c *Component) SetPlaneConstraintNormal(n mgl32.Vec3) {
	c.planeNormal = safeNormal(n)
}

// PlaneConstraintEnabled returns true if movement is constrained to a plane.
func (c *Component) PlaneConstraintEnabled() bool { return c.planeConstraint }

// PlaneConstraintNormal returns the normal of the constraint plane.
func (c *Component) PlaneConstraintNormal() mgl32.Vec3 { return c.planeNormal }
