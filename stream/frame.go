package stream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Frame holds one element's control values for a single tick, in the order
// the element's animation reports its controls.
type Frame struct {
	Element  string    `json:"element"`
	Time     int       `json:"time"`
	Controls []string  `json:"controls"`
	Values   []float64 `json:"values"`
}

// NewFrame creates a zeroed Frame for controls.
func NewFrame(element string, controls []string) *Frame {
	f := new(Frame)
	f.Element = element
	f.Controls = controls
	f.Values = make([]float64, len(controls))
	return f
}

// MarshalBinary converts a Frame into binary data: the tick as uint32, the
// value count as uint16, then each value as float32, all little endian.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.Values) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d values", ErrFrameTooLarge, len(f.Values))
	}

	data = make([]byte, 6, 6+(len(f.Values)*4))
	binary.LittleEndian.PutUint32(data, uint32(f.Time))
	binary.LittleEndian.PutUint16(data[4:], uint16(len(f.Values)))
	for _, v := range f.Values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
	}

	return data, nil
}
