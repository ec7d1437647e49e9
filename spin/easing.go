package spin

import (
	"fmt"

	"github.com/fogleman/ease"
)

// Easing names the curve used to interpolate between two keyframes.
type Easing string

const (
	Linear         Easing = "linear"
	EaseInSine     Easing = "easeInSine"
	EaseOutSine    Easing = "easeOutSine"
	EaseInOutSine  Easing = "easeInOutSine"
	EaseInQuad     Easing = "easeInQuad"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutQuad  Easing = "easeInOutQuad"
	EaseInCubic    Easing = "easeInCubic"
	EaseOutCubic   Easing = "easeOutCubic"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var easings = map[Easing]func(float64) float64{
	Linear:         ease.Linear,
	EaseInSine:     ease.InSine,
	EaseOutSine:    ease.OutSine,
	EaseInOutSine:  ease.InOutSine,
	EaseInQuad:     ease.InQuad,
	EaseOutQuad:    ease.OutQuad,
	EaseInOutQuad:  ease.InOutQuad,
	EaseInCubic:    ease.InCubic,
	EaseOutCubic:   ease.OutCubic,
	EaseInOutCubic: ease.InOutCubic,
}

// ParseEasing converts a curve name into an Easing.
func ParseEasing(name string) (Easing, error) {
	e := Easing(name)
	if _, ok := easings[e]; !ok {
		return "", fmt.Errorf("%w: unknown easing %q", ErrInvalidArgument, name)
	}
	return e, nil
}

// Valid reports whether the easing is one of the known curves.
func (e Easing) Valid() bool {
	_, ok := easings[e]
	return ok
}

// Func returns the curve for the easing. Unknown easings fall back to linear.
func (e Easing) Func() func(float64) float64 {
	if f, ok := easings[e]; ok {
		return f
	}
	return ease.Linear
}
