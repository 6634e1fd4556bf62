package keyframe

import (
	"math"
	"strconv"
	"strings"
)

// Conversion is applied to a value when it is turned into display text.
// Stored and evaluated values are never converted.
type Conversion int

const (
	None Conversion = iota
	ToDegrees
	ToRadians
)

// Apply converts value for display.
func (c Conversion) Apply(value float64) float64 {
	switch c {
	case ToDegrees:
		return value * 180 / math.Pi
	case ToRadians:
		return value * math.Pi / 180
	default:
		return value
	}
}

func (c Conversion) String() string {
	switch c {
	case ToDegrees:
		return "ToDegrees"
	case ToRadians:
		return "ToRadians"
	default:
		return "None"
	}
}

// ParseConversion accepts the names used in configuration files.
func ParseConversion(name string) (Conversion, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, true
	case "todegrees", "degrees":
		return ToDegrees, true
	case "toradians", "radians":
		return ToRadians, true
	default:
		return None, false
	}
}

// Text renders value using the track's conversion and display format.
func (t *Track) Text(value float64) string {
	return FormatNumber(t.Format, t.Conversion.Apply(value))
}

// ValueText renders the current value.
func (t *Track) ValueText() string {
	return t.Text(t.value)
}

// MinText renders the lower bound.
func (t *Track) MinText() string {
	return t.Text(t.Min)
}

// MaxText renders the upper bound.
func (t *Track) MaxText() string {
	return t.Text(t.Max)
}

// FormatNumber formats value with a numeric format string: "nN" gives N
// decimals with thousands grouping, "fN" gives N decimals without grouping.
// Anything else produces the shortest representation.
func FormatNumber(format string, value float64) string {
	if len(format) > 0 {
		decimals := 2
		if len(format) > 1 {
			d, err := strconv.Atoi(format[1:])
			if err != nil || d < 0 {
				return strconv.FormatFloat(value, 'g', -1, 64)
			}
			decimals = d
		}

		switch format[0] {
		case 'n', 'N':
			return group(strconv.FormatFloat(value, 'f', decimals, 64))
		case 'f', 'F':
			return strconv.FormatFloat(value, 'f', decimals, 64)
		}
	}

	return strconv.FormatFloat(value, 'g', -1, 64)
}

// group inserts thousands separators into a plain decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i:]
	}

	if len(whole) <= 3 {
		return sign + whole + frac
	}

	var b strings.Builder
	head := len(whole) % 3
	if head > 0 {
		b.WriteString(whole[:head])
	}
	for i := head; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}

	return sign + b.String() + frac
}
