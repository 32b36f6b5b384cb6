package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/interact"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/tag"
	"github.com/oomph-ac/locomotion/timer"
	"github.com/oomph-ac/locomotion/world"
)

// Run simulates the scenario with the settings passed and returns its report. It returns an
// error if ctx is done before the simulation finished. Hooks may be nil.
func Run(ctx context.Context, s Scenario, conf settings.Settings, hooks character.Hooks, logger *slog.Logger) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("scenario", s.Name)

	w := world.New(logger)
	timers := timer.NewManager()
	sink := &recordingSink{}
	c := character.New(character.Config{
		Name:     s.Name,
		Settings: &conf,
		World:    w,
		Timers:   timers,
		Logger:   logger,
		Hooks:    hooks,
		Sink:     sink,
	})
	interact.NewPushComponent(c)
	buildWorld(w, c, s.World)
	c.Spawn(s.Spawn.Location, s.Spawn.Yaw)

	r := &runner{
		s:      s,
		c:      c,
		report: Report{Name: s.Name},
	}
	steps := int(math32.Ceil(s.Duration/s.Timestep - 1e-4))
	r.sample(0)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return r.report, fmt.Errorf("scenario %s: stopped at step %d: %w", s.Name, i, err)
		}
		r.step(float32(i-1)*s.Timestep, s.Timestep)
		timers.Tick(s.Timestep)

		now := float32(i) * s.Timestep
		if s.SampleInterval == 0 || now-r.lastSample >= s.SampleInterval-1e-4 || i == steps {
			r.sample(now)
		}
	}

	r.report.Steps = steps
	r.report.Duration = float32(steps) * s.Timestep
	r.report.Final = c.State()
	r.report.FinalLocation = c.Location()
	r.report.FinalSpeed = c.Speed()
	r.report.Debug = c.DebugString()
	r.report.Messages = sink.messages
	logger.Debug("scenario finished", "steps", steps, "state", r.report.Final)
	return r.report, nil
}

type runner struct {
	s      Scenario
	c      *character.Character
	report Report

	next       int
	move       mgl32.Vec2
	controlYaw float32
	lastSample float32
	lastState  character.LocomotionState
}

// step applies the events due at t and advances the character by dt.
func (r *runner) step(t, dt float32) {
	for r.next < len(r.s.Events) && r.s.Events[r.next].At <= t+1e-4 {
		r.apply(r.s.Events[r.next])
		r.next++
	}
	if r.move.LenSqr() > 0 {
		r.c.InputMove(r.move, r.controlYaw)
	}
	r.c.Tick(dt)

	if st := r.c.State(); st != r.lastState {
		r.report.Transitions++
		r.lastState = st
	}
}

func (r *runner) apply(e Event) {
	c := r.c
	switch e.Type {
	case EventMove:
		r.move, r.controlYaw = e.Move, e.ControlYaw
	case EventSprint:
		c.InputSprint(e.Pressed)
	case EventJump:
		c.InputJump(e.Pressed)
	case EventCrouch:
		c.InputCrouch()
	case EventInteract:
		c.InputInteract()
	case EventGait:
		g, _ := tag.ParseGait(e.Gait)
		c.SetDesiredGait(g)
	case EventForceGait:
		c.SetForceGait(e.WalkRun, e.RunSprint)
	case EventWarp:
		c.WarpTo(e.Location, e.Yaw)
	}
}

func (r *runner) sample(t float32) {
	if len(r.report.Samples) == 0 {
		r.lastState = r.c.State()
	}
	r.lastSample = t
	r.report.Samples = append(r.report.Samples, Sample{
		Time:     t,
		State:    r.c.State(),
		Location: r.c.Location(),
		Speed:    r.c.Speed(),
	})
}

func buildWorld(w *world.World, c *character.Character, spec WorldSpec) {
	for _, b := range spec.Boxes {
		w.AddBox(b.Name, boxOf(b), false)
	}
	for _, r := range spec.Ramps {
		w.AddRamp(r.Name, r.Min, r.Max, r.BaseZ, r.Gradient)
	}
	for _, p := range spec.Pushables {
		transforms := make([]interact.PushTransform, 0, len(p.Transforms))
		for _, t := range p.Transforms {
			transforms = append(transforms, interact.PushTransform{Offset: t.Offset, Yaw: t.Yaw})
		}
		c.AddInteractable(interact.NewPushable(w, p.Name, boxOf(p.BoxSpec), transforms...))
	}
	for _, d := range spec.Doors {
		c.AddInteractable(interact.NewDoor(w, d.Name, boxOf(d.BoxSpec), d.WarpOffset, d.WarpYaw))
	}
	for _, col := range spec.Collectibles {
		c.AddInteractable(interact.NewCollectible(col.Name, col.Location))
	}
}

func boxOf(b BoxSpec) cube.BBox {
	return cube.Box(b.Min.X(), b.Min.Y(), b.Min.Z(), b.Max.X(), b.Max.Y(), b.Max.Z())
}

type recordingSink struct {
	messages []string
}

func (s *recordingSink) Message(_ int, _ float32, text string) {
	s.messages = append(s.messages, text)
}
