// Package anim tracks animation montage playback for characters. It does not blend or
// sample poses; it only keeps track of which montages are playing and for how long.
package anim

// Montage is a one-shot animation.
type Montage struct {
	Name   string
	Length float32
	// RootMotion marks montages that drive the character with root motion while playing.
	RootMotion bool
}

type instance struct {
	montage  *Montage
	position float32
	rate     float32
}

// Player plays montages. Only one montage plays at a time; playing a new montage stops the
// current one.
type Player struct {
	current *instance
	ended   []*Montage
}

// NewPlayer returns an idle Player.
func NewPlayer() *Player {
	return &Player{}
}

// Play starts m at the play rate passed and returns its duration in seconds. It returns 0
// and plays nothing if m is nil, has no length or the rate is not positive.
func (p *Player) Play(m *Montage, rate float32) float32 {
	if m == nil || m.Length <= 0 || rate <= 0 {
		return 0
	}
	if p.current != nil {
		p.ended = append(p.ended, p.current.montage)
	}
	p.current = &instance{montage: m, rate: rate}
	return m.Length / rate
}

// IsPlaying returns true if m is currently playing. A nil montage checks whether any montage
// is playing.
func (p *Player) IsPlaying(m *Montage) bool {
	if p.current == nil {
		return false
	}
	return m == nil || p.current.montage == m
}

// Current returns the montage currently playing, or nil.
func (p *Player) Current() *Montage {
	if p.current == nil {
		return nil
	}
	return p.current.montage
}

// Stop stops m if it is playing.
func (p *Player) Stop(m *Montage) {
	if p.current != nil && (m == nil || p.current.montage == m) {
		p.ended = append(p.ended, p.current.montage)
		p.current = nil
	}
}

// RootMotion returns true while a root motion montage is playing.
func (p *Player) RootMotion() bool {
	return p.current != nil && p.current.montage.RootMotion
}

// Tick advances the current montage by dt seconds.
func (p *Player) Tick(dt float32) {
	if p.current == nil {
		return
	}
	p.current.position += dt * p.current.rate
	if p.current.position >= p.current.montage.Length {
		p.ended = append(p.ended, p.current.montage)
		p.current = nil
	}
}

// Ended returns the montages that stopped since the last call and clears the list.
func (p *Player) Ended() []*Montage {
	ended := p.ended
	p.ended = nil
	return ended
}
