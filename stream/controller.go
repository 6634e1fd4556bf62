package stream

import (
	"encoding/json"
	"fmt"

	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/studio"
)

// Command is a session control request received on the command topic.
// Element defaults to the selected element when omitted.
type Command struct {
	ID       string         `json:"id"`
	Op       string         `json:"op"`
	Element  string         `json:"element,omitempty"`
	Control  string         `json:"control,omitempty"`
	Value    *float64       `json:"value,omitempty"`
	Time     *int           `json:"time,omitempty"`
	Steps    int            `json:"steps,omitempty"`
	Min      *int           `json:"min,omitempty"`
	Max      *int           `json:"max,omitempty"`
	Enabled  *bool          `json:"enabled,omitempty"`
	Mode     string         `json:"mode,omitempty"`
	Easing   string         `json:"easing,omitempty"`
	Dense    bool           `json:"dense,omitempty"`
	Settings *ControlConfig `json:"settings,omitempty"`
}

// Reply answers a Command on the reply topic.
type Reply struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`

	op string
}

type handler func(c *Controller, cmd Command) (any, error)

// Controller executes commands against a Studio. It must run on the same
// goroutine as everything else touching the Studio.
type Controller struct {
	studio *studio.Studio
}

// NewController creates a Controller for s.
func NewController(s *studio.Studio) *Controller {
	c := new(Controller)
	c.studio = s
	return c
}

var handlers = map[string]handler{
	"register-element": (*Controller).registerElement,
	"register-control": (*Controller).registerControl,
	"visible":          (*Controller).visible,
	"toggle-visible":   (*Controller).toggleVisible,
	"select":           (*Controller).selectElement,
	"cycle-element":    (*Controller).cycleElement,
	"mode":             (*Controller).mode,
	"toggle-mode":      (*Controller).toggleMode,
	"play-forward":     (*Controller).playForward,
	"play-backward":    (*Controller).playBackward,
	"stop":             (*Controller).stop,
	"loop":             (*Controller).loop,
	"seek":             (*Controller).seek,
	"step-time":        (*Controller).stepTime,
	"set-time":         (*Controller).setTime,
	"bounds":           (*Controller).bounds,
	"set-value":        (*Controller).setValue,
	"step-value":       (*Controller).stepValue,
	"zero":             editOp((*studio.Studio).ZeroValue),
	"toggle-key":       editOp((*studio.Studio).ToggleKeyFrame),
	"next-key":         editOp((*studio.Studio).NextKeyFrame),
	"previous-key":     editOp((*studio.Studio).PreviousKeyFrame),
	"nudge-key":        (*Controller).nudgeKey,
	"modify-key":       (*Controller).modifyKey,
	"cycle-easing":     editOp((*studio.Studio).CycleEasing),
	"set-easing":       (*Controller).setEasing,
	"clear-keys":       editOp((*studio.Studio).ClearKeyFrames),
	"lock":             editOp((*studio.Studio).ToggleLock),
	"disable":          editOp((*studio.Studio).ToggleDisable),
	"export":           (*Controller).export,
	"export-all":       (*Controller).exportAll,
	"is-observe":       (*Controller).isObserve,
}

// Handle decodes and executes a JSON command.
func (c *Controller) Handle(payload []byte) Reply {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Reply{Error: fmt.Errorf("%w: %w", ErrInvalidCommand, err).Error()}
	}

	result, err := c.Execute(cmd)
	if err != nil {
		return Reply{ID: cmd.ID, Error: err.Error(), op: cmd.Op}
	}
	return Reply{ID: cmd.ID, OK: true, Result: result, op: cmd.Op}
}

// Execute runs a decoded command.
func (c *Controller) Execute(cmd Command) (any, error) {
	h, ok := handlers[cmd.Op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
	}
	if cmd.Element == "" {
		cmd.Element = c.studio.Timeline().Selected()
	}
	return h(c, cmd)
}

func accepted(ok bool, cmd Command) error {
	if !ok {
		return fmt.Errorf("%w: %s", ErrRejected, cmd.Op)
	}
	return nil
}

func missing(cmd Command, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrInvalidCommand, cmd.Op, field)
}

// editOp adapts a per-control studio operation.
func editOp(op func(*studio.Studio, string, string) bool) handler {
	return func(c *Controller, cmd Command) (any, error) {
		if cmd.Control == "" {
			return nil, missing(cmd, "control")
		}
		return nil, accepted(op(c.studio, cmd.Element, cmd.Control), cmd)
	}
}

func (c *Controller) registerElement(cmd Command) (any, error) {
	return nil, accepted(c.studio.RegisterElement(cmd.Element), cmd)
}

func (c *Controller) registerControl(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	ctrl := studio.DefaultControl()
	if cmd.Settings != nil {
		ctrl = cmd.Settings.Control()
	}
	return nil, accepted(c.studio.RegisterControl(cmd.Element, cmd.Control, ctrl), cmd)
}

func (c *Controller) visible(cmd Command) (any, error) {
	if cmd.Enabled == nil {
		return nil, missing(cmd, "enabled")
	}
	c.studio.Timeline().SetVisible(*cmd.Enabled)
	return c.studio.Timeline().Visible(), nil
}

func (c *Controller) toggleVisible(Command) (any, error) {
	c.studio.Timeline().ToggleVisible()
	return c.studio.Timeline().Visible(), nil
}

func (c *Controller) selectElement(cmd Command) (any, error) {
	return cmd.Element, accepted(c.studio.Timeline().SetSelectedElement(cmd.Element), cmd)
}

func (c *Controller) cycleElement(cmd Command) (any, error) {
	ok := c.studio.Timeline().CycleElement()
	return c.studio.Timeline().Selected(), accepted(ok, cmd)
}

func (c *Controller) mode(cmd Command) (any, error) {
	switch cmd.Mode {
	case studio.Observe.String():
		c.studio.Timeline().SetMode(studio.Observe)
	case studio.Override.String():
		c.studio.Timeline().SetMode(studio.Override)
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrInvalidCommand, cmd.Mode)
	}
	return cmd.Mode, nil
}

func (c *Controller) toggleMode(Command) (any, error) {
	c.studio.Timeline().ToggleMode()
	return c.studio.Timeline().Mode().String(), nil
}

func (c *Controller) playForward(cmd Command) (any, error) {
	return nil, accepted(c.studio.Timeline().Play(studio.Forward), cmd)
}

func (c *Controller) playBackward(cmd Command) (any, error) {
	return nil, accepted(c.studio.Timeline().Play(studio.Backward), cmd)
}

func (c *Controller) stop(Command) (any, error) {
	c.studio.Timeline().Stop()
	return c.studio.Timeline().Time(), nil
}

func (c *Controller) loop(cmd Command) (any, error) {
	if cmd.Enabled == nil {
		c.studio.Timeline().ToggleLoop()
	} else {
		c.studio.Timeline().SetLoop(*cmd.Enabled)
	}
	return c.studio.Timeline().Loop(), nil
}

func (c *Controller) seek(cmd Command) (any, error) {
	if cmd.Time == nil {
		return nil, missing(cmd, "time")
	}
	ok := c.studio.Timeline().Seek(*cmd.Time)
	return c.studio.Timeline().Time(), accepted(ok, cmd)
}

func (c *Controller) stepTime(cmd Command) (any, error) {
	ok := c.studio.Timeline().StepTime(cmd.Steps)
	return c.studio.Timeline().Time(), accepted(ok, cmd)
}

func (c *Controller) setTime(cmd Command) (any, error) {
	if cmd.Time == nil {
		return nil, missing(cmd, "time")
	}
	c.studio.SetTime(cmd.Element, *cmd.Time)
	return c.studio.Timeline().Time(), nil
}

func (c *Controller) bounds(cmd Command) (any, error) {
	if cmd.Min == nil || cmd.Max == nil {
		return nil, missing(cmd, "min and max")
	}
	return nil, accepted(c.studio.Timeline().SetBounds(*cmd.Min, *cmd.Max), cmd)
}

func (c *Controller) setValue(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	if cmd.Value == nil {
		return nil, missing(cmd, "value")
	}
	if !c.studio.SetValue(cmd.Element, cmd.Control, *cmd.Value) {
		return nil, accepted(false, cmd)
	}
	return c.value(cmd), nil
}

func (c *Controller) stepValue(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	if !c.studio.StepValue(cmd.Element, cmd.Control, cmd.Steps) {
		return nil, accepted(false, cmd)
	}
	return c.value(cmd), nil
}

func (c *Controller) value(cmd Command) float64 {
	track, _ := c.studio.Track(cmd.Element, cmd.Control)
	return track.Value()
}

func (c *Controller) nudgeKey(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	ok := c.studio.NudgeKeyFrame(cmd.Element, cmd.Control, cmd.Steps)
	return c.studio.Timeline().Time(), accepted(ok, cmd)
}

func (c *Controller) modifyKey(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	if cmd.Value == nil {
		return nil, missing(cmd, "value")
	}
	if !c.studio.ModifyKeyFrame(cmd.Element, cmd.Control, *cmd.Value) {
		return nil, accepted(false, cmd)
	}
	return c.value(cmd), nil
}

func (c *Controller) setEasing(cmd Command) (any, error) {
	if cmd.Control == "" {
		return nil, missing(cmd, "control")
	}
	mode, ok := keyframe.ParseMode(cmd.Easing)
	if !ok {
		return nil, fmt.Errorf("%w: easing %q", ErrInvalidCommand, cmd.Easing)
	}
	return mode.String(), accepted(c.studio.SetEasing(cmd.Element, cmd.Control, mode), cmd)
}

func (c *Controller) export(cmd Command) (any, error) {
	text, err := c.studio.ExportTrack(cmd.Element, cmd.Control, cmd.Dense)
	if err != nil {
		return nil, err
	}
	return text, nil
}

func (c *Controller) exportAll(cmd Command) (any, error) {
	text, err := c.studio.ExportAllControls(cmd.Element, cmd.Dense)
	if err != nil {
		return nil, err
	}
	return text, nil
}

func (c *Controller) isObserve(cmd Command) (any, error) {
	return c.studio.IsObserveMode(cmd.Element), nil
}
