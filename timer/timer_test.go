package timer

import "testing"

func TestTimerFires(t *testing.T) {
	m := NewManager()
	var h Handle
	fired := 0
	m.Set(&h, 0.5, func() { fired++ })

	m.Tick(0.25)
	if fired != 0 || !m.Active(&h) {
		t.Fatalf("expected timer to still be pending, fired=%d", fired)
	}
	if r := m.Remaining(&h); r != 0.25 {
		t.Fatalf("expected 0.25 remaining, got %v", r)
	}
	m.Tick(0.25)
	if fired != 1 {
		t.Fatalf("expected timer to fire once, fired=%d", fired)
	}
	if m.Active(&h) {
		t.Fatalf("expected timer to be inactive after firing")
	}
	m.Tick(1)
	if fired != 1 {
		t.Fatalf("expected one-shot timer, fired=%d", fired)
	}
}

func TestTimerReplaces(t *testing.T) {
	m := NewManager()
	var h Handle
	var calls []string
	m.Set(&h, 0.5, func() { calls = append(calls, "first") })
	m.Tick(0.4)
	m.Set(&h, 0.5, func() { calls = append(calls, "second") })

	if m.Pending() != 1 {
		t.Fatalf("expected a single pending timer, got %d", m.Pending())
	}
	m.Tick(0.2)
	if len(calls) != 0 {
		t.Fatalf("expected replaced timer not to fire, got %v", calls)
	}
	m.Tick(0.3)
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("expected only the second timer to fire, got %v", calls)
	}
}

func TestTimerClearAndOrder(t *testing.T) {
	m := NewManager()
	var a, b, c Handle
	var calls []string
	m.Set(&a, 0.1, func() { calls = append(calls, "a") })
	m.Set(&b, 0.1, func() { calls = append(calls, "b") })
	m.Set(&c, 0.1, func() { calls = append(calls, "c") })
	m.Clear(&b)

	m.Tick(0.1)
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "c" {
		t.Fatalf("expected [a c], got %v", calls)
	}

	var zero Handle
	if m.Active(&zero) || zero.Valid() {
		t.Fatalf("zero handle must be inactive")
	}
	m.Set(&zero, 0, func() { t.Fatalf("non-positive delay must not schedule") })
	m.Tick(1)
}
