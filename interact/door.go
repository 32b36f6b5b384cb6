package interact

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/character"
	"github.com/oomph-ac/locomotion/world"
)

// Door is a solid box that warps the character interacting with it to the other side.
type Door struct {
	body *world.Body

	// WarpOffset is where the character is warped to, relative to the centre of the door.
	WarpOffset mgl32.Vec3
	// WarpYaw is the yaw the character faces after being warped.
	WarpYaw float32
	// Interacted is called before the character is warped. It may be nil.
	Interacted func(d *Door, c *character.Character)
}

// NewDoor adds the box of a door to the world.
func NewDoor(w *world.World, name string, box cube.BBox, warpOffset mgl32.Vec3, warpYaw float32) *Door {
	return &Door{
		body:       w.AddBox(name, box, false),
		WarpOffset: warpOffset,
		WarpYaw:    warpYaw,
	}
}

// Body returns the world body of the door.
func (d *Door) Body() *world.Body { return d.body }

// Location returns the centre of the door.
func (d *Door) Location() mgl32.Vec3 { return d.body.Center() }

// OnInteracted warps c to the warp location of the door.
func (d *Door) OnInteracted(c *character.Character) {
	if d.Interacted != nil {
		d.Interacted(d, c)
	}
	c.WarpTo(d.Location().Add(d.WarpOffset), d.WarpYaw)
}
