package studio

import (
	"github.com/matt-g-everett/animstudio/keyframe"
)

// Options configures a Studio.
type Options struct {
	MinTime int
	MaxTime int
	Export  ExportOptions
}

// DefaultOptions returns a 0..600 tick timeline with shortest-form export.
func DefaultOptions() Options {
	return Options{
		MinTime: 0,
		MaxTime: 600,
		Export:  DefaultExportOptions(),
	}
}

// Studio is the engine context owned by the host application. It ties the
// registry and timeline together and exposes the per-frame hook.
type Studio struct {
	registry *Registry
	timeline *Timeline
	export   ExportOptions
	logger   Logger
}

// New creates an empty Studio.
func New(opts Options) *Studio {
	s := new(Studio)
	s.registry = NewRegistry()
	s.timeline = NewTimeline(s.registry, opts.MinTime, opts.MaxTime)
	s.export = opts.Export
	s.logger = nopLogger{}
	return s
}

// SetLogger sets the logger for the studio and its parts.
func (s *Studio) SetLogger(logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	s.logger = logger
	s.registry.SetLogger(logger)
	s.timeline.SetLogger(logger)
}

// Registry returns the element registry.
func (s *Studio) Registry() *Registry {
	return s.registry
}

// Timeline returns the shared timeline.
func (s *Studio) Timeline() *Timeline {
	return s.timeline
}

// RegisterElement registers an element. The first element registered becomes
// the selected one.
func (s *Studio) RegisterElement(name string) bool {
	if !s.registry.RegisterElement(name) {
		return false
	}
	s.timeline.selectDefault(name)
	return true
}

// RegisterControl registers a control, and its element if needed.
func (s *Studio) RegisterControl(element string, control string, c Control) bool {
	if !s.RegisterElement(element) {
		return false
	}
	return s.registry.RegisterControl(element, control, c)
}

// Track looks up a control's track.
func (s *Studio) Track(element string, control string) (*keyframe.Track, bool) {
	return s.registry.Track(element, control)
}

// Resolve is called by host code once per control per frame with the value the
// host computed itself. It returns the value the host should use.
//
// The live value passes through untouched unless the overlay is visible, the
// element is selected and the control is registered and enabled. In Observe
// mode the live value is recorded as the control's current value; in Override
// mode the authored curve at the current time replaces it.
func (s *Studio) Resolve(element string, control string, live float64) float64 {
	t := s.timeline
	if !t.visible || element != t.selected {
		return live
	}

	track, ok := s.registry.Track(element, control)
	if !ok || track.Disabled {
		return live
	}

	if t.mode == Observe {
		track.SetValue(live)
		return live
	}

	return track.Evaluate(t.current)
}

// SetTime lets host code drive the clock for its selected element.
func (s *Studio) SetTime(element string, time int) {
	s.timeline.SetTime(element, time)
}

// IsObserveMode reports whether element is selected and being observed, so the
// host knows to keep running its own logic for it.
func (s *Studio) IsObserveMode(element string) bool {
	return s.timeline.selected == element && s.timeline.mode == Observe
}

// Tick advances playback by one frame.
func (s *Studio) Tick() bool {
	return s.timeline.Tick()
}
