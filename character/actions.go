package character

import (
	"github.com/oomph-ac/locomotion/anim"
	"github.com/oomph-ac/locomotion/tag"
)

// TryStartSliding starts the slide action if the character is grounded.
func (c *Character) TryStartSliding() {
	if c.state.Mode == tag.LocomotionModeGrounded {
		c.StartSliding()
	}
}

// IsAllowedToSlide returns true if no action is in progress, or if the character is rolling
// and m no longer plays.
func (c *Character) IsAllowedToSlide(m *anim.Montage) bool {
	return c.state.Action == tag.ActionNone ||
		(c.state.Action == tag.ActionRolling && !c.montages.IsPlaying(m))
}

// StartSliding selects the slide montage through the hooks and starts the slide action.
func (c *Character) StartSliding() {
	m := c.hooks.SelectRollMontage(c)
	if m == nil {
		c.log.Error("no montage selected for sliding")
		return
	}
	if !c.IsAllowedToSlide(m) {
		return
	}
	c.StartSlidingImplementation(m)
}

// StartSlidingImplementation plays m and sets the sliding action.
func (c *Character) StartSlidingImplementation(m *anim.Montage) {
	if !c.IsAllowedToSlide(m) {
		return
	}
	c.montages.Play(m, 1)
	c.SetLocomotionAction(tag.ActionSliding)
}

// TryStartRolling plays the roll montage and sets the rolling action if no action is in
// progress.
func (c *Character) TryStartRolling() bool {
	if c.state.Action != tag.ActionNone {
		return false
	}
	if c.montages.Play(c.rollMontage, 1) <= 0 {
		c.log.Error("roll montage could not be played", "montage", c.rollMontage.Name)
		return false
	}
	c.SetLocomotionAction(tag.ActionRolling)
	return true
}

// SlideMontage returns the montage configured for sliding.
func (c *Character) SlideMontage() *anim.Montage { return c.slideMontage }

// RollMontage returns the montage configured for rolling.
func (c *Character) RollMontage() *anim.Montage { return c.rollMontage }

func (c *Character) onMontageEnded(m *anim.Montage) {
	if m == c.rollMontage && c.state.Action == tag.ActionRolling {
		c.SetLocomotionAction(tag.ActionNone)
	}
}
