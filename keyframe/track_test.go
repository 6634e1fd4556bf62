package keyframe

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func newTestTrack(keys ...KeyFrame) *Track {
	t := NewTrack(0, 1, 0.1, "n2", None)
	for _, k := range keys {
		t.AddOrUpdateKeyFrame(k.Time, k.Value, k.Mode)
	}
	return t
}

func TestEvaluate_EmptyTrackPassesValueThrough(t *testing.T) {
	track := newTestTrack()
	track.SetValue(0.42)

	for _, time := range []int{-10, 0, 1, 600} {
		if got := track.Evaluate(time); got != 0.42 {
			t.Errorf("Evaluate(%d) = %v, want 0.42", time, got)
		}
	}
}

func TestEvaluate_ExactKeys(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 3, Mode: InQuad},
		KeyFrame{Time: 7, Value: -2, Mode: OutQuad},
		KeyFrame{Time: 9, Value: 11, Mode: InOutQuad},
	)

	for _, k := range track.Keys() {
		if got := track.Evaluate(k.Time); got != k.Value {
			t.Errorf("Evaluate(%d) = %v, want %v", k.Time, got, k.Value)
		}
	}
}

func TestEvaluate_LinearAndClamp(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 10, Value: 0, Mode: Linear},
		KeyFrame{Time: 20, Value: 10, Mode: Linear},
	)

	tests := []struct {
		name     string
		time     int
		expected float64
	}{
		{"midpoint", 15, 5},
		{"before first", 5, 0},
		{"after last", 25, 10},
		{"quarter", 12, 2},
		{"just before end", 19, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := track.Evaluate(tt.time); math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Evaluate(%d) = %v, want %v", tt.time, got, tt.expected)
			}
		})
	}
}

func TestEvaluate_UsesBeginKeyMode(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0, Mode: InOutQuad},
		KeyFrame{Time: 100, Value: 1, Mode: Linear},
	)

	if got := track.Evaluate(25); math.Abs(got-0.125) > epsilon {
		t.Errorf("Evaluate(25) = %v, want 0.125", got)
	}
	if got := track.Evaluate(75); math.Abs(got-0.875) > epsilon {
		t.Errorf("Evaluate(75) = %v, want 0.875", got)
	}
}

func TestEvaluate_EasingModes(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected float64
	}{
		{Linear, 0.25},
		{InQuad, 0.0625},
		{OutQuad, 0.4375},
		{InOutQuad, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			track := newTestTrack(
				KeyFrame{Time: 0, Value: 0, Mode: tt.mode},
				KeyFrame{Time: 4, Value: 1, Mode: Linear},
			)
			if got := track.Evaluate(1); math.Abs(got-tt.expected) > epsilon {
				t.Errorf("Evaluate(1) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEvaluate_SingleKeyIsFlat(t *testing.T) {
	track := newTestTrack(KeyFrame{Time: 50, Value: 0.7})

	for _, time := range []int{0, 49, 50, 51, 600} {
		if got := track.Evaluate(time); got != 0.7 {
			t.Errorf("Evaluate(%d) = %v, want 0.7", time, got)
		}
	}
}

func TestEvaluate_UpdatesCurrentValue(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0},
		KeyFrame{Time: 10, Value: 1},
	)

	track.Evaluate(5)
	if got := track.Value(); math.Abs(got-0.5) > epsilon {
		t.Errorf("Value() = %v, want 0.5", got)
	}
}

func TestEvaluate_ScrubbingAcrossBrackets(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0},
		KeyFrame{Time: 10, Value: 10},
		KeyFrame{Time: 20, Value: 0},
		KeyFrame{Time: 30, Value: 30},
	)

	// Forward, backward and jumping queries must all agree with a fresh track.
	times := []int{-5, 1, 5, 9, 11, 19, 25, 35, 24, 15, 3, -1, 29, 31}
	for _, time := range times {
		fresh := track.Clone()
		fresh.bracket = bracket{}
		fresh.cached = false
		want := fresh.Evaluate(time)
		if got := track.Evaluate(time); math.Abs(got-want) > epsilon {
			t.Errorf("Evaluate(%d) = %v, want %v", time, got, want)
		}
	}
}

func TestEvaluate_CacheInvalidatedByEdits(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0},
		KeyFrame{Time: 10, Value: 10},
	)

	if got := track.Evaluate(5); math.Abs(got-5) > epsilon {
		t.Fatalf("Evaluate(5) = %v, want 5", got)
	}

	track.ModifyKeyFrame(10, 20)
	if got := track.Evaluate(5); math.Abs(got-10) > epsilon {
		t.Errorf("after modify Evaluate(5) = %v, want 10", got)
	}

	track.AddOrUpdateKeyFrame(5, 1, Linear)
	if got := track.Evaluate(5); got != 1 {
		t.Errorf("after add Evaluate(5) = %v, want 1", got)
	}

	track.RemoveKeyFrame(5)
	if got := track.Evaluate(5); math.Abs(got-10) > epsilon {
		t.Errorf("after remove Evaluate(5) = %v, want 10", got)
	}
}

func TestEvaluate_OutOfOrderInsertion(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0},
		KeyFrame{Time: 20, Value: 20},
	)
	track.Evaluate(15)

	track.AddOrUpdateKeyFrame(10, 0, Linear)
	track.AddOrUpdateKeyFrame(5, 5, Linear)

	// Bracket must be [10, 20), not [5, 20).
	if got := track.Evaluate(15); math.Abs(got-10) > epsilon {
		t.Errorf("Evaluate(15) = %v, want 10", got)
	}
	if got := track.Evaluate(7); math.Abs(got-3) > epsilon {
		t.Errorf("Evaluate(7) = %v, want 3", got)
	}
}

func TestEvaluate_RemovingBracketEnd(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 0, Value: 0},
		KeyFrame{Time: 10, Value: 10},
		KeyFrame{Time: 20, Value: 0},
	)
	track.Evaluate(5)

	track.RemoveKeyFrame(10)
	if got := track.Evaluate(6); math.Abs(got) > epsilon {
		t.Errorf("Evaluate(6) = %v, want 0", got)
	}

	track.RemoveKeyFrame(0)
	track.RemoveKeyFrame(20)
	track.SetValue(0.3)
	if got := track.Evaluate(6); got != 0.3 {
		t.Errorf("empty track Evaluate(6) = %v, want 0.3", got)
	}
}

func TestSeekKeys(t *testing.T) {
	empty := newTestTrack()
	if _, ok := empty.SeekKeyAfter(0); ok {
		t.Error("SeekKeyAfter on empty track should find nothing")
	}
	if _, ok := empty.SeekKeyBefore(0); ok {
		t.Error("SeekKeyBefore on empty track should find nothing")
	}

	track := newTestTrack(
		KeyFrame{Time: 5},
		KeyFrame{Time: 10},
		KeyFrame{Time: 15},
	)

	tests := []struct {
		name   string
		seek   func(int) (int, bool)
		time   int
		want   int
		wantOK bool
	}{
		{"after middle", track.SeekKeyAfter, 10, 15, true},
		{"before middle", track.SeekKeyBefore, 10, 5, true},
		{"after last", track.SeekKeyAfter, 15, 0, false},
		{"before first", track.SeekKeyBefore, 5, 0, false},
		{"after gap", track.SeekKeyAfter, 7, 10, true},
		{"before gap", track.SeekKeyBefore, 12, 10, true},
		{"after negative", track.SeekKeyAfter, -3, 5, true},
		{"before beyond", track.SeekKeyBefore, 99, 15, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.seek(tt.time)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("seek(%d) = (%d, %v), want (%d, %v)", tt.time, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAddOrUpdateKeyFrame_ReportsChanges(t *testing.T) {
	track := newTestTrack()

	if !track.AddOrUpdateKeyFrame(3, 0.5, Linear) {
		t.Error("first insert should report a change")
	}
	if track.AddOrUpdateKeyFrame(3, 0.5, Linear) {
		t.Error("repeating the same key should not report a change")
	}
	if !track.AddOrUpdateKeyFrame(3, 0.6, Linear) {
		t.Error("new value should report a change")
	}
	if !track.AddOrUpdateKeyFrame(3, 0.6, OutQuad) {
		t.Error("new mode should report a change")
	}
	if track.Len() != 1 {
		t.Errorf("Len() = %d, want 1", track.Len())
	}
}

func TestAddOrUpdateKeyFrame_KeepsOrder(t *testing.T) {
	track := newTestTrack()
	for _, time := range []int{30, 10, 20, 0, 25} {
		track.AddOrUpdateKeyFrame(time, float64(time), Linear)
	}

	keys := track.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1].Time >= keys[i].Time {
			t.Fatalf("keys out of order: %v", keys)
		}
	}
}

func TestModifyAndRemove_MissingKeys(t *testing.T) {
	track := newTestTrack(KeyFrame{Time: 1, Value: 1})

	if track.ModifyKeyFrame(2, 5) {
		t.Error("ModifyKeyFrame on missing key should fail")
	}
	if track.RemoveKeyFrame(2) {
		t.Error("RemoveKeyFrame on missing key should fail")
	}
	if k, _ := track.KeyFrame(1); k.Value != 1 {
		t.Errorf("existing key changed to %v", k.Value)
	}

	if !track.ModifyKeyFrame(1, 5) {
		t.Error("ModifyKeyFrame on existing key should succeed")
	}
	if !track.RemoveKeyFrame(1) {
		t.Error("RemoveKeyFrame on existing key should succeed")
	}
	if track.Len() != 0 {
		t.Errorf("Len() = %d, want 0", track.Len())
	}
}

func TestMoveKeyFrame(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 1, Value: 1, Mode: OutQuad},
		KeyFrame{Time: 2, Value: 2},
	)

	if track.MoveKeyFrame(1, 2) {
		t.Error("moving onto an occupied tick should fail")
	}
	if track.MoveKeyFrame(5, 6) {
		t.Error("moving a missing key should fail")
	}
	if !track.MoveKeyFrame(1, 0) {
		t.Fatal("moving to a free tick should succeed")
	}

	k, ok := track.KeyFrame(0)
	if !ok || k.Value != 1 || k.Mode != OutQuad {
		t.Errorf("moved key = %+v, %v", k, ok)
	}
	if track.Has(1) {
		t.Error("old tick still has a key")
	}
}

func TestClear(t *testing.T) {
	track := newTestTrack(KeyFrame{Time: 1, Value: 1}, KeyFrame{Time: 3, Value: 0})
	track.Evaluate(2)
	track.Clear()

	if track.Len() != 0 {
		t.Errorf("Len() = %d, want 0", track.Len())
	}
	if got := track.Evaluate(2); got != 0.5 {
		t.Errorf("Evaluate(2) = %v, want last value 0.5", got)
	}
}

func TestModeAt(t *testing.T) {
	track := newTestTrack(
		KeyFrame{Time: 10, Value: 0, Mode: InQuad},
		KeyFrame{Time: 20, Value: 1, Mode: OutQuad},
	)
	track.DefaultMode = InOutQuad

	if got := track.ModeAt(5); got != InOutQuad {
		t.Errorf("ModeAt(5) = %v, want InOutQuad", got)
	}
	if got := track.ModeAt(15); got != InQuad {
		t.Errorf("ModeAt(15) = %v, want InQuad", got)
	}
	if got := track.ModeAt(20); got != OutQuad {
		t.Errorf("ModeAt(20) = %v, want OutQuad", got)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	track := newTestTrack(KeyFrame{Time: 0, Value: 0}, KeyFrame{Time: 10, Value: 1})
	track.Evaluate(0)

	clone := track.Clone()
	clone.Evaluate(5)
	clone.AddOrUpdateKeyFrame(3, 9, Linear)

	if track.Has(3) {
		t.Error("clone shares keys with its source")
	}
	if track.Value() != 0 {
		t.Errorf("source value = %v, want 0", track.Value())
	}
}
