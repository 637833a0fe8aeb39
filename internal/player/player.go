// Package player defines the playback collaborator consumed by the feed
// core and the registry that enforces the single-playing-video invariant.
package player

// Event names emitted by a mounted player.
type Event string

const (
	EventPlay         Event = "play"
	EventPause        Event = "pause"
	EventVolumeChange Event = "volumechange"
	EventReady        Event = "ready"
)

// Player wraps a third-party video player instance. Implementations select
// native versus library-backed streaming per capability; the core never
// looks inside.
type Player interface {
	Mount(element, url string) error
	Play() error
	Pause() error
	On(event Event, handler func())
	Destroy()
}

// Factory builds a fresh player instance per mount.
type Factory func() Player

// State is the lifecycle position of a registry entry.
type State int

const (
	StateUninitialized State = iota
	StateMountedPaused
	StateMountedPlaying
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateMountedPaused:
		return "mounted-paused"
	case StateMountedPlaying:
		return "mounted-playing"
	case StateDestroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}
