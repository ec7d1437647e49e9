package spin

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

var (
	up    = mgl64.Vec3{0, 1, 0}
	right = mgl64.Vec3{1, 0, 0}
)

// assertVecNear compares vectors by the length of their difference, so
// components that should be zero tolerate rounding noise.
func assertVecNear(t *testing.T, want, got mgl64.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, 0, want.Sub(got).Len(), delta, msgAndArgs...)
}

func assertQuatNear(t *testing.T, want, got mgl64.Quat, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, 0, want.Sub(got).Len(), delta, msgAndArgs...)
}

// rotateOrthogonal rotates v, which must be orthogonal to the unit axis, by
// angle using the right-hand rule.
func rotateOrthogonal(v, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	return v.Mul(math.Cos(angle)).Add(axis.Cross(v).Mul(math.Sin(angle)))
}

func TestGenerateSpinKeyframes(t *testing.T) {
	cases := []struct {
		name      string
		duration  float64
		axis      mgl64.Vec3
		reference mgl64.Vec3
		times     []float64
	}{
		{"text spin about up", 20, up, mgl64.Vec3{1, 0, 0}, []float64{0, 5, 10, 15, 20}},
		{"cube flip about right", 1, right, mgl64.Vec3{0, 0, 1}, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"diagonal axis", 3, mgl64.Vec3{1, 1, 0}.Normalize(), mgl64.Vec3{0, 0, 1}, []float64{0, 0.75, 1.5, 2.25, 3}},
		{"scaled axis", 20, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0}, []float64{0, 5, 10, 15, 20}},
		{"unnormalized diagonal axis", 3, mgl64.Vec3{3, 3, 0}, mgl64.Vec3{0, 0, 1}, []float64{0, 0.75, 1.5, 2.25, 3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			keyframes, err := GenerateSpinKeyframes(c.duration, c.axis)
			require.NoError(t, err)
			require.Len(t, keyframes, 5)

			for i, k := range keyframes {
				assert.InDelta(t, c.times[i], k.Time, epsilon, "time %d", i)
				if i > 0 {
					assert.GreaterOrEqual(t, k.Time, keyframes[i-1].Time)
				}

				angle := float64(i) * math.Pi / 2
				want := rotateOrthogonal(c.reference, c.axis.Normalize(), angle)
				got := k.Value.Rotate(c.reference)
				assertVecNear(t, want, got, epsilon, "keyframe %d: want %v got %v", i, want, got)
				assert.InDelta(t, 1, k.Value.Len(), epsilon)
			}
		})
	}
}

func TestGenerateSpinKeyframesQuarterTurnAboutUp(t *testing.T) {
	keyframes := MustGenerateSpinKeyframes(20, up)

	// Right-handed about +Y: +X goes to -Z after a quarter turn.
	got := keyframes[1].Value.Rotate(mgl64.Vec3{1, 0, 0})
	assertVecNear(t, mgl64.Vec3{0, 0, -1}, got, epsilon, "got %v", got)
}

func TestGenerateSpinKeyframesFullTurnIsDistinctFromStart(t *testing.T) {
	keyframes := MustGenerateSpinKeyframes(1, up)

	first := keyframes[0].Value
	last := keyframes[4].Value
	assert.InDelta(t, 1, first.W, epsilon)
	assert.InDelta(t, -1, last.W, epsilon)
	assertVecNear(t, mgl64.Vec3{}, first.V, epsilon)
	assertVecNear(t, mgl64.Vec3{}, last.V, epsilon)

	// Both still act as the identity.
	v := mgl64.Vec3{0.3, -2, 7}
	assertVecNear(t, v, last.Rotate(v), epsilon)
}

func TestGenerateSpinKeyframesIgnoresAxisLength(t *testing.T) {
	unit := MustGenerateSpinKeyframes(20, up)
	axis := mgl64.Vec3{0, 2, 0}
	scaled := MustGenerateSpinKeyframes(20, axis)

	for i := range unit {
		assert.InDelta(t, 1, scaled[i].Value.Len(), epsilon, "keyframe %d", i)
		assertQuatNear(t, unit[i].Value, scaled[i].Value, epsilon, "keyframe %d", i)
	}
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, axis)
}

func TestGenerateSpinKeyframesIsDeterministic(t *testing.T) {
	a, err := GenerateSpinKeyframes(7.5, right)
	require.NoError(t, err)
	b, err := GenerateSpinKeyframes(7.5, right)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	// Fresh slices per call.
	a[0].Time = 99
	assert.Equal(t, 0.0, b[0].Time)
}

func TestGenerateSpinKeyframesScalesTimesLinearly(t *testing.T) {
	for _, d := range []float64{0.1, 1, 20, 1234.5} {
		base := MustGenerateSpinKeyframes(d, up)
		doubled := MustGenerateSpinKeyframes(2*d, up)

		for i := range base {
			assert.Equal(t, 2*base[i].Time, doubled[i].Time, "duration %v index %d", d, i)
			assert.Equal(t, base[i].Value, doubled[i].Value, "duration %v index %d", d, i)
		}
	}
}

func TestGenerateSpinKeyframesNegatedAxisReversesDirection(t *testing.T) {
	forward := MustGenerateSpinKeyframes(4, up)
	backward := MustGenerateSpinKeyframes(4, up.Mul(-1))
	reference := mgl64.Vec3{1, 0, 0}

	for i := range forward {
		f := forward[i].Value.Rotate(reference)
		b := backward[i].Value.Rotate(reference)

		// Same step magnitude, opposite direction.
		angle := float64(i) * math.Pi / 2
		assertVecNear(t, rotateOrthogonal(reference, up, angle), f, epsilon, "forward %d", i)
		assertVecNear(t, rotateOrthogonal(reference, up, -angle), b, epsilon, "backward %d", i)
		assert.InDelta(t, f.Dot(reference), b.Dot(reference), epsilon)
	}
}

func TestGenerateSpinKeyframesRejectsInvalidArguments(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		axis     mgl64.Vec3
	}{
		{"zero duration", 0, up},
		{"negative duration", -1, up},
		{"NaN duration", math.NaN(), up},
		{"infinite duration", math.Inf(1), up},
		{"zero axis", 1, mgl64.Vec3{}},
		{"NaN axis", 1, mgl64.Vec3{math.NaN(), 1, 0}},
		{"infinite axis", 1, mgl64.Vec3{0, math.Inf(-1), 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			keyframes, err := GenerateSpinKeyframes(c.duration, c.axis)
			assert.Nil(t, keyframes)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestMustGenerateSpinKeyframesPanics(t *testing.T) {
	assert.Panics(t, func() { MustGenerateSpinKeyframes(0, up) })
}
