package character

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/elliotchance/orderedmap/v2"
)

// DebugState returns the current state of the character as display name/value pairs in a
// stable order.
func (c *Character) DebugState() *orderedmap.OrderedMap[string, string] {
	m := orderedmap.NewOrderedMap[string, string]()
	m.Set(DisplayName("LocomotionMode"), DisplayName(c.state.Mode.String()))
	m.Set(DisplayName("DesiredStance"), DisplayName(c.state.DesiredStance.String()))
	m.Set(DisplayName("Stance"), DisplayName(c.state.Stance.String()))
	m.Set(DisplayName("DesiredGait"), DisplayName(c.state.DesiredGait.String()))
	m.Set(DisplayName("Gait"), DisplayName(c.state.Gait.String()))
	m.Set(DisplayName("LocomotionAction"), DisplayName(c.state.Action.String()))
	v := c.Velocity()
	m.Set("Speed", fmt.Sprintf("X=%.3f Y=%.3f Z=%.3f", v.X(), v.Y(), v.Z()))
	return m
}

// DebugString renders DebugState as one "name: value" line per entry.
func (c *Character) DebugString() string {
	var sb strings.Builder
	for el := c.DebugState().Front(); el != nil; el = el.Next() {
		sb.WriteString(el.Key)
		sb.WriteString(": ")
		sb.WriteString(el.Value)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DisplayName turns a CamelCase identifier into space separated words, keeping acronyms
// together: "LocomotionMode" becomes "Locomotion Mode" and "InAir" becomes "In Air".
func DisplayName(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
