package studio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matt-g-everett/animstudio/keyframe"
)

// ExportOptions controls how values are written in exported literals.
type ExportOptions struct {
	// Precision is the number of decimals; negative means the shortest text
	// that survives a round trip through a 32-bit float.
	Precision int

	// Normalise maps values onto [0,1] using the track's range.
	Normalise bool
}

// DefaultExportOptions returns shortest-form, unnormalised export.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Precision: -1}
}

// ExportTrack writes one control's animation as a literal. Dense export samples
// every tick between the timeline bounds; sparse export lists the keyframes.
func (s *Studio) ExportTrack(element string, control string, dense bool) (string, error) {
	e, ok := s.registry.Element(element)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrElementNotFound, element)
	}
	track, ok := e.Track(control)
	if !ok {
		return "", fmt.Errorf("%w: %q/%q", ErrControlNotFound, element, control)
	}
	if track.Len() == 0 {
		return "", fmt.Errorf("%w: %q/%q", ErrNoKeyFrames, element, control)
	}

	return "\r\n\r\n" + s.literal(track, dense) + ";", nil
}

// ExportAllControls writes every enabled, keyed control of an element as one
// dictionary literal.
func (s *Studio) ExportAllControls(element string, dense bool) (string, error) {
	e, ok := s.registry.Element(element)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrElementNotFound, element)
	}
	if e.Len() == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoControls, element)
	}

	var b strings.Builder
	if dense {
		b.WriteString("\r\n\r\nnew Dictionary<string, List<float>>()\r\n{\r\n")
	} else {
		b.WriteString("\r\n\r\nnew Dictionary<string, SortedDictionary<int, KeyFrame>>()\r\n{\r\n")
	}

	for _, control := range e.order {
		track := e.tracks[control]
		if track.Disabled || track.Len() == 0 {
			continue
		}
		b.WriteString(`    { "` + control + `", `)
		b.WriteString(s.literal(track, dense))
		b.WriteString(" },\r\n")
	}

	b.WriteString("};\r\n")
	return b.String(), nil
}

// literal renders a track as a list literal.
func (s *Studio) literal(track *keyframe.Track, dense bool) string {
	var b strings.Builder

	if dense {
		b.WriteString("new List<float>() {")
		for time := s.timeline.min; time <= s.timeline.max; time++ {
			b.WriteString(" " + s.number(track, track.Evaluate(time)) + "f,")
		}
		b.WriteString(" }")

		// Sampling moved the track's cache; put the current value back.
		track.Evaluate(s.timeline.current)
		return b.String()
	}

	b.WriteString("new SortedDictionary<int, KeyFrame>() {")
	for _, k := range track.Keys() {
		fmt.Fprintf(&b, " { %d, new KeyFrame(%sf, KeyMode.%s) },", k.Time, s.number(track, k.Value), k.Mode)
	}
	b.WriteString(" }")
	return b.String()
}

// number formats an exported value.
func (s *Studio) number(track *keyframe.Track, value float64) string {
	if s.export.Normalise && track.Max > track.Min {
		value = (value - track.Min) / (track.Max - track.Min)
	}
	if s.export.Precision < 0 {
		return strconv.FormatFloat(value, 'f', -1, 32)
	}
	return strconv.FormatFloat(value, 'f', s.export.Precision, 64)
}
