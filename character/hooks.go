package character

import (
	"log/slog"

	"github.com/oomph-ac/locomotion/anim"
	"github.com/oomph-ac/locomotion/tag"
)

// Hooks lets content extend a character at fixed points of its state machine. All hooks are
// called synchronously from within the character's own methods.
type Hooks interface {
	// OnGaitChanged is called after the gait changed from prev.
	OnGaitChanged(c *Character, prev tag.Gait)
	// SelectRollMontage returns the montage played when a slide starts. Returning nil
	// prevents the slide action from starting.
	SelectRollMontage(c *Character) *anim.Montage
	// SetupMantle is called when the mantle trace found an obstacle to mantle onto.
	SetupMantle(c *Character, state MantleState)
}

// NopHooks implements Hooks with default behaviour. It may be embedded to override only some
// of the hooks.
type NopHooks struct{}

func (NopHooks) OnGaitChanged(*Character, tag.Gait) {}

// SelectRollMontage returns the slide montage from the character's settings.
func (NopHooks) SelectRollMontage(c *Character) *anim.Montage { return c.SlideMontage() }

func (NopHooks) SetupMantle(*Character, MantleState) {}

// Sink receives short diagnostic messages meant for display. Messages sharing a key replace
// each other; a negative key always adds a new message.
type Sink interface {
	Message(key int, duration float32, text string)
}

// LogSink writes diagnostic messages to a logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Message(key int, duration float32, text string) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(text, "key", key, "duration", duration)
}
