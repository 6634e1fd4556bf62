package studio

import (
	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/util"
)

// Direction is the playback state of the timeline.
type Direction int

const (
	Stopped Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "stopped"
	}
}

// EditMode decides who owns a control's value.
type EditMode int

const (
	// Observe records the host's live values without changing them.
	Observe EditMode = iota
	// Override replaces the host's values with the authored animation.
	Override
)

func (m EditMode) String() string {
	if m == Override {
		return "override"
	}
	return "observe"
}

// Timeline is the shared play/record clock.
type Timeline struct {
	registry  *Registry
	logger    Logger
	current   int
	min       int
	max       int
	direction Direction
	loop      bool
	mode      EditMode
	selected  string
	visible   bool
}

// NewTimeline creates a stopped, hidden timeline in Observe mode positioned at
// min. Bounds that do not satisfy 0 <= min < max fall back to 0..600.
func NewTimeline(registry *Registry, min int, max int) *Timeline {
	if min < 0 || min >= max {
		min, max = 0, 600
	}

	t := new(Timeline)
	t.registry = registry
	t.logger = nopLogger{}
	t.min = min
	t.max = max
	t.current = min
	t.mode = Observe
	return t
}

// SetLogger sets the logger used for state change messages.
func (t *Timeline) SetLogger(logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	t.logger = logger
}

// Time returns the current tick.
func (t *Timeline) Time() int { return t.current }

// Bounds returns the inclusive playback range.
func (t *Timeline) Bounds() (int, int) { return t.min, t.max }

// Direction returns the playback direction.
func (t *Timeline) Direction() Direction { return t.direction }

// Playing reports whether the timeline is moving.
func (t *Timeline) Playing() bool { return t.direction != Stopped }

// Loop reports whether playback wraps at the bounds.
func (t *Timeline) Loop() bool { return t.loop }

// Mode returns the edit mode.
func (t *Timeline) Mode() EditMode { return t.mode }

// Selected returns the selected element, or "" when nothing is selected.
func (t *Timeline) Selected() string { return t.selected }

// Visible reports whether the overlay is active.
func (t *Timeline) Visible() bool { return t.visible }

// Play starts playback in dir. It is refused in Observe mode and when the
// timeline already sits on the bound it would run into without looping.
func (t *Timeline) Play(dir Direction) bool {
	if t.mode != Override {
		return false
	}

	switch dir {
	case Forward:
		if t.current >= t.max && !t.loop {
			return false
		}
	case Backward:
		if t.current <= t.min && !t.loop {
			return false
		}
	default:
		t.Stop()
		return true
	}

	t.direction = dir
	t.logger.Debug("timeline playing", "direction", dir.String(), "time", t.current)
	return true
}

// Stop halts playback.
func (t *Timeline) Stop() {
	t.direction = Stopped
}

// Tick advances playback by one frame. It reports whether the time changed.
func (t *Timeline) Tick() bool {
	if !t.visible || t.mode != Override {
		return false
	}

	switch t.direction {
	case Forward:
		next := t.current + 1
		if next > t.max {
			if t.loop {
				return t.setTime(t.min)
			}
			t.direction = Stopped
			return false
		}
		return t.setTime(next)

	case Backward:
		next := t.current - 1
		if next < t.min {
			if t.loop {
				return t.setTime(t.max)
			}
			t.direction = Stopped
			return false
		}
		return t.setTime(next)
	}

	return false
}

// SetTime is the host's way to drive the clock. It only applies when element
// is the selected element; time is clamped into the bounds.
func (t *Timeline) SetTime(element string, time int) {
	if element != t.selected {
		return
	}
	t.setTime(util.ClampInt(time, t.min, t.max))
}

// Seek moves the clock on behalf of the user. Only allowed in Override mode.
func (t *Timeline) Seek(time int) bool {
	if t.mode != Override {
		return false
	}
	t.setTime(util.ClampInt(time, t.min, t.max))
	return true
}

// StepTime moves the clock by delta ticks on behalf of the user.
func (t *Timeline) StepTime(delta int) bool {
	return t.Seek(t.current + delta)
}

// setTime assigns the current time and refreshes the selected element when it
// changes.
func (t *Timeline) setTime(time int) bool {
	if time == t.current {
		return false
	}
	t.current = time
	t.refresh()
	return true
}

// refresh re-evaluates every control of the selected element at the current
// time.
func (t *Timeline) refresh() {
	e, ok := t.registry.Element(t.selected)
	if !ok {
		return
	}
	for _, control := range e.order {
		e.tracks[control].Evaluate(t.current)
	}
}

// SetSelectedElement selects a registered element.
func (t *Timeline) SetSelectedElement(name string) bool {
	if _, ok := t.registry.Element(name); !ok {
		return false
	}
	if name != t.selected {
		t.selected = name
		t.logger.Info("element selected", "element", name)
		t.refresh()
	}
	return true
}

// CycleElement selects the element registered after the current one,
// wrapping around to the first.
func (t *Timeline) CycleElement() bool {
	names := t.registry.Elements()
	if len(names) == 0 {
		return false
	}

	next := 0
	for i, name := range names {
		if name == t.selected {
			next = (i + 1) % len(names)
			break
		}
	}
	return t.SetSelectedElement(names[next])
}

// selectDefault selects name when nothing is selected yet.
func (t *Timeline) selectDefault(name string) {
	if t.selected == "" {
		t.selected = name
	}
}

// SetVisible shows or hides the overlay. Showing it makes sure an element is
// selected and refreshes that element's values.
func (t *Timeline) SetVisible(visible bool) {
	if visible {
		if t.selected == "" && t.registry.Len() > 0 {
			t.selected = t.registry.Elements()[0]
		}
		t.refresh()
	}
	if visible != t.visible {
		t.logger.Info("overlay visibility changed", "visible", visible)
	}
	t.visible = visible
}

// ToggleVisible flips the overlay visibility.
func (t *Timeline) ToggleVisible() {
	t.SetVisible(!t.visible)
}

// SetMode switches between Observe and Override.
func (t *Timeline) SetMode(mode EditMode) {
	if mode != t.mode {
		t.logger.Info("edit mode changed", "mode", mode.String())
	}
	t.mode = mode
}

// ToggleMode flips between Observe and Override.
func (t *Timeline) ToggleMode() {
	if t.mode == Observe {
		t.SetMode(Override)
	} else {
		t.SetMode(Observe)
	}
}

// SetLoop enables or disables wrapping at the bounds.
func (t *Timeline) SetLoop(loop bool) {
	t.loop = loop
}

// ToggleLoop flips looping.
func (t *Timeline) ToggleLoop() {
	t.loop = !t.loop
}

// SetBounds replaces the playback range. It requires 0 <= min < max, clamps the
// current time into the new range and marks every track dirty.
func (t *Timeline) SetBounds(min int, max int) bool {
	if min < 0 || min >= max {
		return false
	}

	t.min = min
	t.max = max
	t.setTime(util.ClampInt(t.current, min, max))
	t.registry.each(func(track *keyframe.Track) {
		track.Dirty = true
	})
	return true
}

// AdjustMin moves the lower bound by delta.
func (t *Timeline) AdjustMin(delta int) bool {
	return t.SetBounds(t.min+delta, t.max)
}

// AdjustMax moves the upper bound by delta.
func (t *Timeline) AdjustMax(delta int) bool {
	return t.SetBounds(t.min, t.max+delta)
}
