// Package keyframe stores and evaluates sparse keyframe curves.
package keyframe

import (
	"sort"

	"github.com/matt-g-everett/animstudio/util"
)

// KeyFrame is a value authored at a tick, together with the easing mode used
// on the way to the following keyframe.
type KeyFrame struct {
	Time  int
	Value float64
	Mode  Mode
}

// bracket holds the keyframe times surrounding the last interpolated time.
// A missing begin means "before the first key", a missing end means "after
// the last key".
type bracket struct {
	begin    int
	end      int
	hasBegin bool
	hasEnd   bool
	set      bool
}

func (b bracket) contains(time int) bool {
	switch {
	case !b.set:
		return false
	case b.hasBegin && b.hasEnd:
		return b.begin <= time && time < b.end
	case b.hasEnd:
		return time < b.end
	case b.hasBegin:
		return time >= b.begin
	default:
		return false
	}
}

// Track is the sparse, time-ordered keyframe set for one control plus the
// metadata used to edit and display it.
//
// A Track is not safe for concurrent use. Hand a Clone to any other goroutine.
type Track struct {
	Min        float64
	Max        float64
	Step       float64
	Format     string
	Conversion Conversion
	Disabled   bool
	Locked     bool

	// DefaultMode is applied to keyframes recorded through the editor.
	DefaultMode Mode

	// Dirty is raised by editors whenever the curve changes and cleared by
	// whoever regenerates its visual representation.
	Dirty bool

	keys  []KeyFrame
	value float64

	cached      bool
	cachedTime  int
	cachedValue float64
	bracket     bracket
}

// NewTrack creates an empty Track with the given metadata.
func NewTrack(min float64, max float64, step float64, format string, conversion Conversion) *Track {
	t := new(Track)
	t.Min = min
	t.Max = max
	t.Step = step
	t.Format = format
	t.Conversion = conversion
	t.DefaultMode = Linear
	return t
}

// Value returns the current value of the control: the last evaluated value,
// or the last value stored with SetValue.
func (t *Track) Value() float64 {
	return t.value
}

// SetValue stores the current value without touching any keyframe.
func (t *Track) SetValue(value float64) {
	t.value = value
}

// Len returns the number of keyframes.
func (t *Track) Len() int {
	return len(t.keys)
}

// Keys returns a copy of the keyframes in ascending time order.
func (t *Track) Keys() []KeyFrame {
	keys := make([]KeyFrame, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Has reports whether a keyframe exists at time.
func (t *Track) Has(time int) bool {
	_, found := t.search(time)
	return found
}

// KeyFrame returns the keyframe at time.
func (t *Track) KeyFrame(time int) (KeyFrame, bool) {
	i, found := t.search(time)
	if !found {
		return KeyFrame{}, false
	}
	return t.keys[i], true
}

// search returns the index of the first key at or after time and whether
// that key is exactly at time.
func (t *Track) search(time int) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool {
		return t.keys[i].Time >= time
	})
	return i, i < len(t.keys) && t.keys[i].Time == time
}

// invalidate drops the cached evaluation. The bracket is kept; Evaluate
// checks it against the key set before trusting it.
func (t *Track) invalidate() {
	t.cached = false
}

// AddOrUpdateKeyFrame inserts a keyframe at time or overwrites the one that is
// already there. It reports whether anything changed.
//
// Inserting a new key resets the bracket to start at that key.
func (t *Track) AddOrUpdateKeyFrame(time int, value float64, mode Mode) bool {
	i, found := t.search(time)
	if !found {
		t.keys = append(t.keys, KeyFrame{})
		copy(t.keys[i+1:], t.keys[i:])
		t.keys[i] = KeyFrame{Time: time, Value: value, Mode: mode}
		t.invalidate()

		t.bracket.begin, t.bracket.hasBegin = time, true
		t.bracket.end, t.bracket.hasEnd = t.SeekKeyAfter(time)
		t.bracket.set = true
		return true
	}

	k := &t.keys[i]
	if k.Value == value && k.Mode == mode {
		return false
	}

	k.Value = value
	k.Mode = mode
	t.invalidate()
	return true
}

// ModifyKeyFrame replaces the value of an existing keyframe.
func (t *Track) ModifyKeyFrame(time int, value float64) bool {
	i, found := t.search(time)
	if !found {
		return false
	}

	t.keys[i].Value = value
	t.invalidate()
	return true
}

// RemoveKeyFrame deletes the keyframe at time.
func (t *Track) RemoveKeyFrame(time int) bool {
	i, found := t.search(time)
	if !found {
		return false
	}

	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	t.invalidate()

	if t.bracket.hasBegin && t.bracket.begin == time {
		t.bracket.begin, t.bracket.hasBegin = t.SeekKeyBefore(time)
	}
	if t.bracket.hasEnd && t.bracket.end == time {
		t.bracket.end, t.bracket.hasEnd = t.SeekKeyAfter(time)
	}

	return true
}

// MoveKeyFrame moves the keyframe at from to the free tick to.
func (t *Track) MoveKeyFrame(from int, to int) bool {
	k, found := t.KeyFrame(from)
	if !found || t.Has(to) {
		return false
	}

	t.RemoveKeyFrame(from)
	t.AddOrUpdateKeyFrame(to, k.Value, k.Mode)
	return true
}

// Clear removes every keyframe. The current value is kept.
func (t *Track) Clear() {
	t.keys = nil
	t.invalidate()
	t.bracket = bracket{}
}

// SeekKeyAfter returns the smallest key strictly greater than time.
func (t *Track) SeekKeyAfter(time int) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool {
		return t.keys[i].Time > time
	})
	if i == len(t.keys) {
		return 0, false
	}
	return t.keys[i].Time, true
}

// SeekKeyBefore returns the largest key strictly less than time.
func (t *Track) SeekKeyBefore(time int) (int, bool) {
	i, _ := t.search(time)
	if i == 0 {
		return 0, false
	}
	return t.keys[i-1].Time, true
}

// bracketAt computes the bracket surrounding time from scratch.
func (t *Track) bracketAt(time int) bracket {
	b := bracket{set: true}
	if t.Has(time) {
		b.begin, b.hasBegin = time, true
	} else {
		b.begin, b.hasBegin = t.SeekKeyBefore(time)
	}
	b.end, b.hasEnd = t.SeekKeyAfter(time)
	return b
}

// bracketKeys resolves the current bracket to keyframes. ok is false when a
// bracket end names a key that no longer exists.
func (t *Track) bracketKeys() (begin KeyFrame, end KeyFrame, ok bool) {
	if t.bracket.hasBegin {
		if begin, ok = t.KeyFrame(t.bracket.begin); !ok {
			return
		}
	}
	if t.bracket.hasEnd {
		if end, ok = t.KeyFrame(t.bracket.end); !ok {
			return
		}
	}
	return begin, end, true
}

// Evaluate returns the value of the track at time.
//
// Without keyframes the current value passes through unchanged. Before the
// first key and after the last key the curve is flat. Between two keys the
// value is interpolated using the easing mode of the earlier key.
func (t *Track) Evaluate(time int) float64 {
	if len(t.keys) == 0 {
		return t.value
	}

	if t.cached && t.cachedTime == time {
		return t.cachedValue
	}

	if i, found := t.search(time); found {
		return t.store(time, t.keys[i].Value)
	}

	if !t.bracket.contains(time) {
		t.bracket = t.bracketAt(time)
	}

	begin, end, ok := t.bracketKeys()
	if !ok {
		t.bracket = t.bracketAt(time)
		if begin, end, ok = t.bracketKeys(); !ok {
			return t.value
		}
	}

	b := t.bracket
	switch {
	case !b.hasBegin && !b.hasEnd:
		return t.value
	case !b.hasBegin:
		return t.store(time, end.Value)
	case !b.hasEnd:
		return t.store(time, begin.Value)
	}

	progress := float64(time-b.begin) / float64(b.end-b.begin)
	return t.store(time, util.Lerp(begin.Value, end.Value, begin.Mode.Ease(progress)))
}

func (t *Track) store(time int, value float64) float64 {
	t.cached = true
	t.cachedTime = time
	t.cachedValue = value
	t.value = value
	return value
}

// ModeAt returns the easing mode in effect at time: the mode of the key at
// time, otherwise that of the key before it, otherwise DefaultMode.
func (t *Track) ModeAt(time int) Mode {
	if k, found := t.KeyFrame(time); found {
		return k.Mode
	}
	if before, ok := t.SeekKeyBefore(time); ok {
		k, _ := t.KeyFrame(before)
		return k.Mode
	}
	return t.DefaultMode
}

// Clone returns a deep copy that can be evaluated without disturbing t.
func (t *Track) Clone() *Track {
	c := new(Track)
	*c = *t
	c.keys = t.Keys()
	return c
}
