package stream

// An Animation is the host side of an element: it computes the live value of
// every control for a moment in time, before the studio gets a say.
type Animation interface {
	Element() string
	CalculateFrame(runtimeMs int64) *Frame
}
