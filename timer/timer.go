// Package timer implements a tick-driven one-shot timer service.
package timer

import "sort"

// Handle identifies a scheduled timer. A handle holds at most one pending timer at a time;
// the zero value is an inactive handle.
type Handle struct {
	id uint64
}

// Valid returns true if the handle has ever been used to schedule a timer.
func (h *Handle) Valid() bool {
	return h.id != 0
}

type entry struct {
	id        uint64
	remaining float32
	seq       uint64
	fn        func()
}

// Manager schedules callbacks that fire after an amount of simulated time. It is advanced
// by Tick and is not safe for concurrent use.
type Manager struct {
	entries map[uint64]*entry
	nextID  uint64
	seq     uint64
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{entries: make(map[uint64]*entry)}
}

// Set schedules fn to run after delay seconds. If h already has a pending timer, it is
// replaced rather than stacked. A non-positive delay clears the handle.
func (m *Manager) Set(h *Handle, delay float32, fn func()) {
	m.Clear(h)
	if delay <= 0 || fn == nil {
		return
	}
	m.nextID++
	m.seq++
	h.id = m.nextID
	m.entries[h.id] = &entry{id: h.id, remaining: delay, seq: m.seq, fn: fn}
}

// Clear cancels the pending timer of h, if any.
func (m *Manager) Clear(h *Handle) {
	if h.id != 0 {
		delete(m.entries, h.id)
	}
}

// Active returns true if h has a pending timer.
func (m *Manager) Active(h *Handle) bool {
	_, ok := m.entries[h.id]
	return ok && h.id != 0
}

// Remaining returns the time left before the timer of h fires, or 0 if none is pending.
func (m *Manager) Remaining(h *Handle) float32 {
	if e, ok := m.entries[h.id]; ok && h.id != 0 {
		return e.remaining
	}
	return 0
}

// Pending returns the amount of pending timers.
func (m *Manager) Pending() int {
	return len(m.entries)
}

// Tick advances all timers by dt seconds and runs the callbacks of those that expired, in
// the order they were scheduled. Callbacks may schedule new timers, which are first
// advanced on the next tick.
func (m *Manager) Tick(dt float32) {
	var due []*entry
	for _, e := range m.entries {
		e.remaining -= dt
		if e.remaining <= 0 {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].seq < due[j].seq
	})
	for _, e := range due {
		delete(m.entries, e.id)
	}
	for _, e := range due {
		e.fn()
	}
}
