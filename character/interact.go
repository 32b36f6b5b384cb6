package character

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Interactable is a prop a character can interact with.
type Interactable interface {
	// Location returns the location the interaction range is measured from.
	Location() mgl32.Vec3
	// OnInteracted is called when c interacts with the prop.
	OnInteracted(c *Character)
}

// Focusable is an Interactable that is told when it becomes the closest interactable in range
// of a character.
type Focusable interface {
	Interactable
	StartFocus(c *Character)
	EndFocus(c *Character)
}

// Pusher moves a prop together with the character. Tick is called every frame, whether a
// push is in progress or not.
type Pusher interface {
	IsPushingObject() bool
	EndPush()
	Tick(dt float32)
}

// SetPushComponent sets the component the character pushes props with.
func (c *Character) SetPushComponent(p Pusher) { c.push = p }

// PushComponent returns the push component of the character, or nil.
func (c *Character) PushComponent() Pusher { return c.push }

// AddInteractable makes i available for interaction.
func (c *Character) AddInteractable(i Interactable) {
	if !slices.Contains(c.interactables, i) {
		c.interactables = append(c.interactables, i)
	}
}

// RemoveInteractable removes i. It is safe to call from within OnInteracted.
func (c *Character) RemoveInteractable(i Interactable) {
	c.interactables = slices.DeleteFunc(c.interactables, func(o Interactable) bool { return o == i })
	if c.focused == i {
		c.setFocus(nil)
	}
}

// ClosestInteractable returns the closest interactable within the interaction range.
func (c *Character) ClosestInteractable() (Interactable, bool) {
	loc := c.Location()
	maxDist := c.settings.Interact.Range * c.settings.Interact.Range

	var (
		closest Interactable
		best    float32
	)
	for _, i := range c.interactables {
		d := i.Location().Sub(loc).LenSqr()
		if d > maxDist {
			continue
		}
		if closest == nil || d < best {
			closest, best = i, d
		}
	}
	return closest, closest != nil
}

// Interact interacts with the closest interactable in range.
func (c *Character) Interact() {
	i, ok := c.ClosestInteractable()
	if !ok {
		return
	}
	c.sink.Message(1, 5, "Interacted")
	i.OnInteracted(c)
}

func (c *Character) updateFocus() {
	i, _ := c.ClosestInteractable()
	if i != c.focused {
		c.setFocus(i)
	}
}

func (c *Character) setFocus(i Interactable) {
	if f, ok := c.focused.(Focusable); ok {
		f.EndFocus(c)
	}
	c.focused = i
	if f, ok := i.(Focusable); ok {
		f.StartFocus(c)
	}
}

// Focused returns the interactable currently in focus, or nil.
func (c *Character) Focused() Interactable { return c.focused }
