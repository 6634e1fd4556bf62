package studio

import (
	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/util"
)

// editable returns the track when the user may edit it: Override mode,
// playback stopped and the track unlocked.
func (s *Studio) editable(element string, control string) (*keyframe.Track, bool) {
	track, ok := s.registry.Track(element, control)
	if !ok {
		return nil, false
	}
	if s.timeline.mode != Override || s.timeline.Playing() || track.Locked {
		return nil, false
	}
	return track, true
}

// record stores value as a keyframe at the current time, but only once the
// track has been keyed at least once.
func (s *Studio) record(track *keyframe.Track, value float64) {
	if track.Len() == 0 {
		return
	}
	if track.AddOrUpdateKeyFrame(s.timeline.current, value, track.DefaultMode) {
		track.Dirty = true
	}
}

// SetValue sets a control's value at the current time.
func (s *Studio) SetValue(element string, control string, value float64) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	value = util.Clamp(value, track.Min, track.Max)
	track.SetValue(value)
	s.record(track, value)
	return true
}

// StepValue nudges a control's value by steps times its step size.
func (s *Studio) StepValue(element string, control string, steps int) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	if track.Len() > 0 {
		track.Evaluate(s.timeline.current)
	}

	value := util.Clamp(track.Value()+float64(steps)*track.Step, track.Min, track.Max)
	track.SetValue(value)
	s.record(track, value)
	return true
}

// ZeroValue sets a control's value to zero, or the nearest bound.
func (s *Studio) ZeroValue(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	value := util.Clamp(0, track.Min, track.Max)
	track.SetValue(value)
	s.record(track, value)
	return true
}

// ToggleKeyFrame removes the keyframe at the current time, or records the
// current value there when there is none.
func (s *Studio) ToggleKeyFrame(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	now := s.timeline.current
	if track.Has(now) {
		track.RemoveKeyFrame(now)
	} else {
		track.AddOrUpdateKeyFrame(now, track.Value(), track.DefaultMode)
	}
	track.Dirty = true
	return true
}

// NextKeyFrame moves the clock to the control's next keyframe within bounds.
func (s *Studio) NextKeyFrame(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	key, ok := track.SeekKeyAfter(s.timeline.current)
	if !ok || key > s.timeline.max {
		return false
	}
	s.timeline.setTime(key)
	return true
}

// PreviousKeyFrame moves the clock to the control's previous keyframe within
// bounds.
func (s *Studio) PreviousKeyFrame(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	key, ok := track.SeekKeyBefore(s.timeline.current)
	if !ok || key < s.timeline.min {
		return false
	}
	s.timeline.setTime(key)
	return true
}

// NudgeKeyFrame shifts the keyframe under the clock by delta ticks and moves
// the clock with it. The target tick must be free and within bounds.
func (s *Studio) NudgeKeyFrame(element string, control string, delta int) bool {
	track, ok := s.editable(element, control)
	if !ok || delta == 0 {
		return false
	}

	now := s.timeline.current
	to := now + delta
	if to < s.timeline.min || to > s.timeline.max {
		return false
	}
	if !track.MoveKeyFrame(now, to) {
		return false
	}

	track.Dirty = true
	s.timeline.setTime(to)
	return true
}

// CycleEasing advances the easing mode used at the current time and re-records
// the current value with it.
func (s *Studio) CycleEasing(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	s.applyEasing(track, track.ModeAt(s.timeline.current).Next())
	return true
}

// SetEasing selects the easing mode used at the current time and re-records
// the current value with it.
func (s *Studio) SetEasing(element string, control string, mode keyframe.Mode) bool {
	if !mode.Valid() {
		return false
	}
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	s.applyEasing(track, mode)
	return true
}

// applyEasing makes mode the track's default. A keyed track also gets the
// current value recorded at the current time with mode.
func (s *Studio) applyEasing(track *keyframe.Track, mode keyframe.Mode) {
	track.DefaultMode = mode
	if track.Len() == 0 {
		return
	}

	now := s.timeline.current
	value := track.Evaluate(now)
	if track.AddOrUpdateKeyFrame(now, value, mode) {
		track.Dirty = true
	}
}

// ModifyKeyFrame replaces the value of the keyframe under the clock. It fails
// when there is no keyframe at the current time.
func (s *Studio) ModifyKeyFrame(element string, control string, value float64) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	now := s.timeline.current
	if !track.ModifyKeyFrame(now, util.Clamp(value, track.Min, track.Max)) {
		return false
	}

	track.Dirty = true
	track.Evaluate(now)
	return true
}

// ClearKeyFrames removes every keyframe of a control.
func (s *Studio) ClearKeyFrames(element string, control string) bool {
	track, ok := s.editable(element, control)
	if !ok {
		return false
	}

	if track.Len() > 0 {
		track.Clear()
		track.Dirty = true
	}
	return true
}

// ToggleLock locks or unlocks a control against edits.
func (s *Studio) ToggleLock(element string, control string) bool {
	track, ok := s.registry.Track(element, control)
	if !ok {
		return false
	}
	track.Locked = !track.Locked
	return true
}

// ToggleDisable excludes a control from resolution and export, or brings it
// back.
func (s *Studio) ToggleDisable(element string, control string) bool {
	track, ok := s.registry.Track(element, control)
	if !ok {
		return false
	}
	track.Disabled = !track.Disabled
	s.logger.Debug("control disable toggled", "element", element, "control", control, "disabled", track.Disabled)
	return true
}
