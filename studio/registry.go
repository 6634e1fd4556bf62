package studio

import (
	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/util"
)

// Logger is the optional logging dependency of the engine.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}

// Control describes a control at registration time.
type Control struct {
	Initial    float64
	Min        float64
	Max        float64
	Step       float64
	Format     string
	Conversion keyframe.Conversion
}

// DefaultControl returns the registration defaults: value 0 in [0,1] with a
// step of 0.1 and no decimals shown.
func DefaultControl() Control {
	return Control{
		Initial: 0,
		Min:     0,
		Max:     1,
		Step:    0.1,
		Format:  "n0",
	}
}

// Element is a named collection of animatable controls.
type Element struct {
	Name   string
	tracks map[string]*keyframe.Track
	order  []string
}

func newElement(name string) *Element {
	e := new(Element)
	e.Name = name
	e.tracks = make(map[string]*keyframe.Track)
	return e
}

// Track returns the track of a control.
func (e *Element) Track(control string) (*keyframe.Track, bool) {
	t, ok := e.tracks[control]
	return t, ok
}

// Controls returns the control names in registration order.
func (e *Element) Controls() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// Len returns the number of controls.
func (e *Element) Len() int {
	return len(e.order)
}

// Registry owns every registered element. Elements and controls are created
// lazily and never removed.
type Registry struct {
	elements map[string]*Element
	order    []string
	logger   Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	r := new(Registry)
	r.elements = make(map[string]*Element)
	r.logger = nopLogger{}
	return r
}

// SetLogger sets the logger used for registration messages.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	r.logger = logger
}

// RegisterElement creates the element if it does not exist yet. It fails only
// for an empty name.
func (r *Registry) RegisterElement(name string) bool {
	if name == "" {
		return false
	}

	if _, ok := r.elements[name]; !ok {
		r.elements[name] = newElement(name)
		r.order = append(r.order, name)
		r.logger.Debug("element registered", "element", name)
	}

	return true
}

// RegisterControl creates or refreshes a control, registering its element on
// the way. Existing keyframes survive re-registration; the metadata and the
// current value are replaced, with the value clamped into [Min, Max].
func (r *Registry) RegisterControl(element string, control string, c Control) bool {
	if control == "" || c.Min > c.Max {
		return false
	}
	if !r.RegisterElement(element) {
		return false
	}

	e := r.elements[element]
	t, ok := e.tracks[control]
	if !ok {
		t = keyframe.NewTrack(c.Min, c.Max, c.Step, c.Format, c.Conversion)
		e.tracks[control] = t
		e.order = append(e.order, control)
		r.logger.Debug("control registered", "element", element, "control", control)
	} else {
		t.Min = c.Min
		t.Max = c.Max
		t.Step = c.Step
		t.Format = c.Format
		t.Conversion = c.Conversion
		t.Dirty = true
		r.logger.Debug("control updated", "element", element, "control", control)
	}

	t.SetValue(util.Clamp(c.Initial, c.Min, c.Max))
	return true
}

// Element looks an element up by name.
func (r *Registry) Element(name string) (*Element, bool) {
	e, ok := r.elements[name]
	return e, ok
}

// Track looks up the track of an element's control.
func (r *Registry) Track(element string, control string) (*keyframe.Track, bool) {
	e, ok := r.elements[element]
	if !ok {
		return nil, false
	}
	return e.Track(control)
}

// Elements returns the element names in registration order.
func (r *Registry) Elements() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered elements.
func (r *Registry) Len() int {
	return len(r.order)
}

// each calls fn for every track of every element.
func (r *Registry) each(fn func(*keyframe.Track)) {
	for _, name := range r.order {
		e := r.elements[name]
		for _, control := range e.order {
			fn(e.tracks[control])
		}
	}
}
