package stream

import (
	"github.com/matt-g-everett/animstudio/util"
)

// PulseControl is one control driven by a Pulse.
type PulseControl struct {
	Name      string
	Min       float64
	Max       float64
	Frequency float64
}

// Pulse swings each of its controls between min and max on a sine wave.
type Pulse struct {
	element  string
	controls []PulseControl
	names    []string
}

// NewPulse creates a Pulse animation for element.
func NewPulse(element string, controls []PulseControl) *Pulse {
	p := new(Pulse)
	p.element = element
	p.controls = controls
	p.names = make([]string, len(controls))
	for i, c := range controls {
		p.names[i] = c.Name
	}
	return p
}

// Element returns the animated element.
func (p *Pulse) Element() string {
	return p.element
}

// CalculateFrame computes min + (max-min) * 0.5 * (1 + sin(2*pi*f*t)) per control.
func (p *Pulse) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(p.element, p.names)
	seconds := float64(runtimeMs) / 1000.0
	for i, c := range p.controls {
		f.Values[i] = util.Lerp(c.Min, c.Max, util.Pulse(c.Frequency*seconds))
	}
	return f
}

// PulseFromConfig builds one Pulse per configured element. Control i cycles
// once every i+2 seconds so the controls drift apart.
func PulseFromConfig(elements []ElementConfig) []Animation {
	animations := make([]Animation, 0, len(elements))
	for _, e := range elements {
		controls := make([]PulseControl, 0, len(e.Controls))
		for i, c := range e.Controls {
			ctrl := c.Control()
			controls = append(controls, PulseControl{
				Name:      c.Name,
				Min:       ctrl.Min,
				Max:       ctrl.Max,
				Frequency: 1.0 / float64(i+2),
			})
		}
		animations = append(animations, NewPulse(e.Name, controls))
	}
	return animations
}
