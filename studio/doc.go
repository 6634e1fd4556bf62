// Package studio is the keyframe authoring engine: the element/control
// registry, the shared play/record timeline and the per-frame resolution hook
// that host code calls for every animated value.
//
// # Lifecycle
//
// Host setup code registers elements and controls once:
//
//	s := studio.New(studio.DefaultOptions())
//	s.RegisterControl("rig", "HeadRotation", studio.Control{Min: -180, Max: 180, Step: 0.1, Format: "n1"})
//
// Every frame the host advances the timeline and routes its live values
// through Resolve:
//
//	s.Tick()
//	rotation = s.Resolve("rig", "HeadRotation", rotation)
//
// # Modes
//
// In Observe mode Resolve records the host's live value and returns it
// unchanged. In Override mode Resolve returns the authored curve evaluated at
// the current time, and the editing operations become available.
//
// # Thread Safety
//
// A Studio is not safe for concurrent use. Run it on a single goroutine and
// hand keyframe.Track clones to anything else.
package studio
