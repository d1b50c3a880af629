package service

import (
	"sync"
	"time"
)

// MaxCooldown is the longest cooldown a guild may configure
const MaxCooldown = 3600 * time.Second

// CooldownKey identifies one user within one guild
type CooldownKey struct {
	GuildID   int64
	DiscordID int64
}

// CooldownStore gates message awards per user and guild.
// TryReserve must check and record atomically.
type CooldownStore interface {
	// TryReserve returns true and records now when no award happened within
	// cooldown of now. It returns false and leaves the record untouched otherwise.
	TryReserve(key CooldownKey, now time.Time, cooldown time.Duration) bool
}

// MemoryCooldownStore keeps last-award times in process memory.
// Contents are lost on restart.
type MemoryCooldownStore struct {
	mu        sync.Mutex
	lastAward map[CooldownKey]time.Time
}

// NewMemoryCooldownStore creates an empty store
func NewMemoryCooldownStore() *MemoryCooldownStore {
	return &MemoryCooldownStore{
		lastAward: make(map[CooldownKey]time.Time),
	}
}

// TryReserve implements CooldownStore
func (s *MemoryCooldownStore) TryReserve(key CooldownKey, now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastAward[key]; ok && now.Sub(last) < cooldown {
		return false
	}
	s.lastAward[key] = now
	return true
}

// LastAward returns the recorded reservation time for key
func (s *MemoryCooldownStore) LastAward(key CooldownKey) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastAward[key]
	return t, ok
}

// Prune drops reservations older than MaxCooldown relative to now, since no
// guild cooldown can still be gating them. It returns the number removed.
func (s *MemoryCooldownStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, last := range s.lastAward {
		if now.Sub(last) >= MaxCooldown {
			delete(s.lastAward, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked reservations
func (s *MemoryCooldownStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastAward)
}
