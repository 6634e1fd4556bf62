package stream

import (
	"encoding/json"
	"sync/atomic"

	"github.com/matt-g-everett/animstudio/studio"
)

// KeyState is a keyframe as shown to viewers.
type KeyState struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
	Mode  string  `json:"mode"`
}

// ControlState is a control of the selected element as shown to viewers.
type ControlState struct {
	Name      string     `json:"name"`
	Value     float64    `json:"value"`
	Text      string     `json:"text"`
	Min       string     `json:"min"`
	Max       string     `json:"max"`
	Mode      string     `json:"mode"`
	Locked    bool       `json:"locked"`
	Disabled  bool       `json:"disabled"`
	KeyFrames []KeyState `json:"keyFrames"`
}

// Snapshot is an immutable copy of the studio state taken at the end of a
// frame. It is the only studio data other goroutines get to see.
type Snapshot struct {
	Time      int            `json:"time"`
	Min       int            `json:"min"`
	Max       int            `json:"max"`
	Direction string         `json:"direction"`
	Mode      string         `json:"mode"`
	Loop      bool           `json:"loop"`
	Visible   bool           `json:"visible"`
	Selected  string         `json:"selected"`
	Elements  []string       `json:"elements"`
	Controls  []ControlState `json:"controls"`
	Frames    []*Frame       `json:"frames"`

	previews map[string][]byte
}

// TakeSnapshot copies the state of s. frames and previews must not be
// modified afterwards.
func TakeSnapshot(s *studio.Studio, frames []*Frame, previews map[string][]byte) *Snapshot {
	t := s.Timeline()
	snap := &Snapshot{
		Time:      t.Time(),
		Direction: t.Direction().String(),
		Mode:      t.Mode().String(),
		Loop:      t.Loop(),
		Visible:   t.Visible(),
		Selected:  t.Selected(),
		Elements:  s.Registry().Elements(),
		Frames:    frames,
		previews:  previews,
	}
	snap.Min, snap.Max = t.Bounds()

	e, ok := s.Registry().Element(snap.Selected)
	if !ok {
		return snap
	}

	for _, name := range e.Controls() {
		track, _ := e.Track(name)
		c := ControlState{
			Name:     name,
			Value:    track.Value(),
			Text:     track.ValueText(),
			Min:      track.MinText(),
			Max:      track.MaxText(),
			Mode:     track.ModeAt(snap.Time).String(),
			Locked:   track.Locked,
			Disabled: track.Disabled,
		}
		for _, k := range track.Keys() {
			c.KeyFrames = append(c.KeyFrames, KeyState{Time: k.Time, Value: k.Value, Mode: k.Mode.String()})
		}
		snap.Controls = append(snap.Controls, c)
	}

	return snap
}

// SnapshotStore hands the latest Snapshot from the frame loop to readers.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
}

// Store publishes snap.
func (st *SnapshotStore) Store(snap *Snapshot) {
	st.current.Store(snap)
}

// Load returns the latest snapshot, or nil before the first frame.
func (st *SnapshotStore) Load() *Snapshot {
	return st.current.Load()
}

// State returns the latest snapshot as JSON.
func (st *SnapshotStore) State() ([]byte, error) {
	snap := st.Load()
	if snap == nil {
		snap = &Snapshot{}
	}
	return json.Marshal(snap)
}

// Preview returns the PNG preview of a control of the selected element.
func (st *SnapshotStore) Preview(control string) ([]byte, bool) {
	snap := st.Load()
	if snap == nil {
		return nil, false
	}
	data, ok := snap.previews[control]
	return data, ok
}
