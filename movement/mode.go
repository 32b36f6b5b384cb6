package movement

import "fmt"

// Mode is the physics mode of a movement component.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeWalking
	ModeFalling
	ModeFlying
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeWalking:
		return "Walking"
	case ModeFalling:
		return "Falling"
	case ModeFlying:
		return "Flying"
	case ModeCustom:
		return "Custom"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// CustomMode is the sub mode used while in ModeCustom.
type CustomMode uint8

const (
	CustomNone CustomMode = iota
	CustomSlide
)

func (m CustomMode) String() string {
	switch m {
	case CustomNone:
		return "None"
	case CustomSlide:
		return "Slide"
	}
	return fmt.Sprintf("CustomMode(%d)", uint8(m))
}
