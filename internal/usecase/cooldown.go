package usecase

import (
	"sync"
	"time"

	"github.com/vitos/marketpulse/internal/domain"
)

const defaultCooldown = 300 * time.Second

// cooldownKey identifies one (symbol, trigger) pair in the cooldown table.
type cooldownKey struct {
	symbol  string
	trigger domain.TriggerKind
}

// cooldownTable suppresses repeat firings of the same trigger for the same
// symbol within a configured window, so a noisy indicator doesn't spam
// alerts every tick.
type cooldownTable struct {
	mu       sync.Mutex
	window   time.Duration
	lastFire map[cooldownKey]time.Time
	now      func() time.Time
}

func newCooldownTable(window time.Duration) *cooldownTable {
	if window <= 0 {
		window = defaultCooldown
	}
	return &cooldownTable{
		window:   window,
		lastFire: make(map[cooldownKey]time.Time),
		now:      time.Now,
	}
}

// allow reports whether the trigger may fire now, and if so records the
// firing time so subsequent calls within the window are suppressed.
func (c *cooldownTable) allow(symbol string, trigger domain.TriggerKind) bool {
	key := cooldownKey{symbol: symbol, trigger: trigger}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.lastFire[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.lastFire[key] = now
	return true
}
