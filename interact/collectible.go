package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
)

const focusMessageDuration = 15

// Collectible is picked up, and removed from the character's interactables, when interacted
// with. It reports focus changes to the character's sink.
type Collectible struct {
	Name string
	loc  mgl32.Vec3

	collected bool
	// Collected is called once the collectible was picked up. It may be nil.
	Collected func(col *Collectible, c *character.Character)
}

// NewCollectible returns a collectible at loc.
func NewCollectible(name string, loc mgl32.Vec3) *Collectible {
	return &Collectible{Name: name, loc: loc}
}

func (col *Collectible) Location() mgl32.Vec3 { return col.loc }

// IsCollected returns true once the collectible was picked up.
func (col *Collectible) IsCollected() bool { return col.collected }

func (col *Collectible) OnInteracted(c *character.Character) {
	if col.collected {
		return
	}
	col.collected = true
	c.RemoveInteractable(col)
	c.Logger().Debug("collected", "collectible", col.Name)
	if col.Collected != nil {
		col.Collected(col, c)
	}
}

func (col *Collectible) StartFocus(c *character.Character) {
	c.Sink().Message(-1, focusMessageDuration, "StartFocus")
}

func (col *Collectible) EndFocus(c *character.Character) {
	c.Sink().Message(-1, focusMessageDuration, "EndFocus")
}
