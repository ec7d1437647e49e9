package spin

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidArgument is returned when keyframes are requested for a
// duration or axis that cannot describe a full revolution.
var ErrInvalidArgument = errors.New("invalid argument")

// quarterTurns is the number of samples taken after time zero.
const quarterTurns = 4

// Keyframe is a single rotation sample for an animation track.
type Keyframe struct {
	Time  float64
	Value mgl64.Quat
}

// GenerateSpinKeyframes generates keyframe data for a simple spin animation.
// duration is the time in seconds it takes to complete a full revolution and
// axis is the axis of rotation in local space. Only its direction matters, so
// every keyframe is a unit quaternion whatever the axis length.
func GenerateSpinKeyframes(duration float64, axis mgl64.Vec3) ([]Keyframe, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be finite and positive, got %v", ErrInvalidArgument, duration)
	}
	for _, c := range axis {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: axis has non-finite component %v", ErrInvalidArgument, axis)
		}
	}
	if axis.Len() == 0 {
		return nil, fmt.Errorf("%w: axis has zero length", ErrInvalidArgument)
	}

	axis = axis.Normalize()
	keyframes := make([]Keyframe, quarterTurns+1)
	for i := range keyframes {
		// 2π is kept distinct from 0 so interpolation continues through the
		// last quarter instead of snapping back.
		fraction := float64(i) / quarterTurns
		keyframes[i] = Keyframe{
			Time:  fraction * duration,
			Value: mgl64.QuatRotate(fraction*2*math.Pi, axis),
		}
	}

	return keyframes, nil
}

// MustGenerateSpinKeyframes is like GenerateSpinKeyframes but panics on
// invalid arguments.
func MustGenerateSpinKeyframes(duration float64, axis mgl64.Vec3) []Keyframe {
	keyframes, err := GenerateSpinKeyframes(duration, axis)
	if err != nil {
		panic(err)
	}
	return keyframes
}
