package webserver

import (
	"sync"
	"time"
)

// RateLimiter enforces a per-player cooldown between votes.
type RateLimiter struct {
	players map[string]time.Time
	mu      sync.Mutex
	limit   time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		players: make(map[string]time.Time),
		limit:   limit,
	}
}

// Mark records a successful use. Callers check TimeUntilNext first and mark
// only once the vote is actually stored, so a rejected or failed attempt does
// not burn the player's cooldown.
func (rl *RateLimiter) Mark(playerID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.players[playerID] = time.Now()
}

func (rl *RateLimiter) TimeUntilNext(playerID string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lastUse, exists := rl.players[playerID]
	if !exists {
		return 0
	}

	elapsed := time.Since(lastUse)
	if elapsed >= rl.limit {
		return 0
	}
	return rl.limit - elapsed
}
