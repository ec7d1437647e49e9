package spin

import (
	"fmt"
	"math"
)

// WrapMode decides what happens when playback passes the end of an animation.
type WrapMode string

const (
	Once     WrapMode = "once"
	Loop     WrapMode = "loop"
	PingPong WrapMode = "pingPong"
)

// ParseWrapMode converts a wrap mode name into a WrapMode.
func ParseWrapMode(name string) (WrapMode, error) {
	switch w := WrapMode(name); w {
	case Once, Loop, PingPong:
		return w, nil
	}
	return "", fmt.Errorf("%w: unknown wrap mode %q", ErrInvalidArgument, name)
}

// LocalTime maps a playback time onto a position within an animation of the
// given length.
func (w WrapMode) LocalTime(t, length float64) float64 {
	if length <= 0 || t <= 0 {
		return 0
	}

	switch w {
	case Loop:
		return math.Mod(t, length)
	case PingPong:
		m := math.Mod(t, 2*length)
		if m > length {
			return 2*length - m
		}
		return m
	default:
		return math.Min(t, length)
	}
}
