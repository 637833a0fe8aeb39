package player

import (
	"fmt"
	"sync"

	"fanfeed/internal/observability"
)

// LightboxKey is the reserved registry key for the single lightbox player.
// Feed-card players are keyed by their post ID, which is always positive.
const LightboxKey = -1

// Registry maps post IDs (plus the reserved lightbox key) to mounted
// players. Play is the only path that starts playback, and it pauses every
// other entry first.
type Registry struct {
	mu      sync.Mutex
	entries map[int]*entry
	log     *observability.Logger
}

type entry struct {
	player Player
	state  State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[int]*entry),
		log:     observability.Component("player"),
	}
}

// Mount registers a player for key in the mounted-paused state. Mounting
// over a live entry destroys the old player first.
func (r *Registry) Mount(key int, p Player, element, url string) error {
	if err := p.Mount(element, url); err != nil {
		return fmt.Errorf("failed to mount player %d: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.entries[key]; ok && old.state != StateDestroyed {
		old.player.Destroy()
	}
	r.entries[key] = &entry{player: p, state: StateMountedPaused}
	return nil
}

// Play pauses every other entry, then starts playback on key. Unknown or
// destroyed keys are an error; playback must never race a teardown.
func (r *Registry) Play(key int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.entries[key]
	if !ok || target.state == StateDestroyed {
		return fmt.Errorf("player %d is not mounted", key)
	}

	r.pauseAllLocked(key)

	if err := target.player.Play(); err != nil {
		return fmt.Errorf("failed to start playback on %d: %w", key, err)
	}
	target.state = StateMountedPlaying
	return nil
}

// Pause stops playback on key, leaving it mounted. No-op for unknown keys:
// scroll-out pauses arrive after teardown races and must stay harmless.
func (r *Registry) Pause(key int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok && e.state == StateMountedPlaying {
		_ = e.player.Pause()
		e.state = StateMountedPaused
	}
}

// PauseAll pauses every entry except exceptKey. Pass a key that is never
// registered (e.g. 0) to pause everything.
func (r *Registry) PauseAll(exceptKey int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauseAllLocked(exceptKey)
}

func (r *Registry) pauseAllLocked(exceptKey int) {
	for key, e := range r.entries {
		if key == exceptKey || e.state != StateMountedPlaying {
			continue
		}
		_ = e.player.Pause()
		e.state = StateMountedPaused
	}
}

// Destroy tears down a single entry and removes it from the registry.
func (r *Registry) Destroy(key int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		if e.state != StateDestroyed {
			e.player.Destroy()
			e.state = StateDestroyed
		}
		delete(r.entries, key)
	}
}

// DestroyAll tears down every entry (logout/page unload).
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		if e.state != StateDestroyed {
			e.player.Destroy()
			e.state = StateDestroyed
		}
		delete(r.entries, key)
	}
	r.log.Debug("all players destroyed")
}

// StateOf reports the lifecycle state for key; uninitialized for unknown
// keys.
func (r *Registry) StateOf(key int) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e.state
	}
	return StateUninitialized
}

// Keys returns the currently registered keys, in no particular order.
func (r *Registry) Keys() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]int, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	return keys
}
