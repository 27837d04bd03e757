package client

import (
	"sync"
	"time"
)

type HoldState int

const (
	StateIdle HoldState = iota
	StateHolding
	StateSent
)

const (
	defaultHoldDuration = 3000 * time.Millisecond
	defaultTickInterval = 50 * time.Millisecond
	defaultCooldown     = 1000 * time.Millisecond
)

// HoldTrigger is the anti-accidental-trigger gate: the button must be held
// for the full hold duration before the complete callback fires. State moves
// Idle -> Holding -> Sent, or back to Idle on early release.
//
// Start while already holding is a no-op, Cancel is idempotent, and
// OnComplete fires exactly once per successful full hold.
type HoldTrigger struct {
	HoldDuration time.Duration
	TickInterval time.Duration
	Cooldown     time.Duration

	// OnProgress receives the elapsed/required ratio as a percentage in
	// [0,100]. OnComplete fires when the hold reaches 100%. Set both before
	// the first Start call.
	OnProgress func(percent float64)
	OnComplete func()

	mu         sync.Mutex
	state      HoldState
	generation int
	holdStart  time.Time

	now func() time.Time
}

func NewHoldTrigger() *HoldTrigger {
	return &HoldTrigger{
		HoldDuration: defaultHoldDuration,
		TickInterval: defaultTickInterval,
		Cooldown:     defaultCooldown,
		now:          time.Now,
	}
}

func (t *HoldTrigger) State() HoldState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start begins a hold. It does nothing unless the trigger is idle.
func (t *HoldTrigger) Start() {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return
	}
	t.state = StateHolding
	t.generation++
	generation := t.generation
	t.holdStart = t.now()
	t.mu.Unlock()

	go t.tick(generation)
}

// Cancel releases an in-progress hold before completion. The progress
// display resets after the cooldown period. Cancelling when not holding
// (including a second release event racing the first) does nothing.
func (t *HoldTrigger) Cancel() {
	t.mu.Lock()
	if t.state != StateHolding {
		t.mu.Unlock()
		return
	}
	t.state = StateIdle
	t.generation++ // stops the running tick loop
	cooldown := t.Cooldown
	onProgress := t.OnProgress
	t.mu.Unlock()

	if onProgress == nil {
		return
	}
	if cooldown <= 0 {
		onProgress(0)
		return
	}
	time.AfterFunc(cooldown, func() { onProgress(0) })
}

func (t *HoldTrigger) tick(generation int) {
	ticker := time.NewTicker(t.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		if t.state != StateHolding || t.generation != generation {
			t.mu.Unlock()
			return
		}

		elapsed := t.now().Sub(t.holdStart)
		percent := float64(elapsed) / float64(t.HoldDuration) * 100
		if percent > 100 {
			percent = 100
		}

		completed := elapsed >= t.HoldDuration
		if completed {
			t.state = StateSent
		}
		onProgress := t.OnProgress
		onComplete := t.OnComplete
		t.mu.Unlock()

		if onProgress != nil {
			onProgress(percent)
		}
		if completed {
			if onComplete != nil {
				onComplete()
			}
			return
		}
	}
}
