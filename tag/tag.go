// Package tag implements the hierarchical identifiers used to name locomotion states,
// and the closed per-axis types the state machine works with internally.
package tag

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
)

// Tag is an interned hierarchical name such as "Locomotion.Stance.Crouching". The zero
// value is the empty tag.
type Tag struct {
	name string
	hash uint64
}

// Empty is the invalid tag, used as "no value" on axes that allow one.
var Empty Tag

var registry = struct {
	deadlock.RWMutex
	byHash *orderedmap.OrderedMap[uint64, Tag]
}{byHash: orderedmap.NewOrderedMap[uint64, Tag]()}

// New interns name and returns its tag. Calling New twice with the same name returns equal
// tags. Leading and trailing separators are stripped; an empty name returns Empty.
func New(name string) Tag {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return Empty
	}
	h := xxh3.HashString(name)

	registry.Lock()
	defer registry.Unlock()
	if t, ok := registry.byHash.Get(h); ok {
		return t
	}
	t := Tag{name: name, hash: h}
	registry.byHash.Set(h, t)
	return t
}

// Lookup returns the tag registered under name, if any.
func Lookup(name string) (Tag, bool) {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return Empty, false
	}

	registry.RLock()
	defer registry.RUnlock()
	return registry.byHash.Get(xxh3.HashString(name))
}

// All returns every registered tag in registration order.
func All() []Tag {
	registry.RLock()
	defer registry.RUnlock()

	tags := make([]Tag, 0, registry.byHash.Len())
	for _, h := range registry.byHash.Keys() {
		t, _ := registry.byHash.Get(h)
		tags = append(tags, t)
	}
	return tags
}

// Valid returns true if the tag is not Empty.
func (t Tag) Valid() bool {
	return t.name != ""
}

// Hash returns the interned hash of the tag name.
func (t Tag) Hash() uint64 {
	return t.hash
}

// String returns the full name of the tag.
func (t Tag) String() string {
	return t.name
}

// SimpleName returns the last segment of the tag name, or "None" for the empty tag.
func (t Tag) SimpleName() string {
	if !t.Valid() {
		return "None"
	}
	if i := strings.LastIndexByte(t.name, '.'); i >= 0 {
		return t.name[i+1:]
	}
	return t.name
}

// Parent returns the tag one level up the hierarchy, or Empty for a root tag.
func (t Tag) Parent() Tag {
	i := strings.LastIndexByte(t.name, '.')
	if i < 0 {
		return Empty
	}
	return New(t.name[:i])
}

// MatchesTag returns true if t equals other or is a descendant of it.
func (t Tag) MatchesTag(other Tag) bool {
	if !t.Valid() || !other.Valid() {
		return false
	}
	if t.hash == other.hash {
		return true
	}
	return strings.HasPrefix(t.name, other.name+".")
}
