package spin

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spinTrack(duration float64) Track {
	return Track{
		Target:    ActorPath("text").LocalRotation(),
		Keyframes: MustGenerateSpinKeyframes(duration, up),
		Easing:    Linear,
	}
}

func TestActorPath(t *testing.T) {
	p := ActorPath("target").LocalRotation()
	assert.Equal(t, Path("actor:target/transform/local/rotation"), p)
	assert.Equal(t, "target", p.Placeholder())
	assert.Equal(t, "cube", ActorPath("cube").LocalScale().Placeholder())
	assert.Equal(t, "", Path("transform/local/rotation").Placeholder())
}

func TestTrackEvaluateMatchesKeyframes(t *testing.T) {
	track := spinTrack(20)
	for _, k := range track.Keyframes {
		got := track.Evaluate(k.Time)
		assertQuatNear(t, k.Value, got, epsilon, "time %v", k.Time)
	}
}

func TestTrackEvaluateIsContinuousThroughFullTurn(t *testing.T) {
	track := spinTrack(1)
	reference := mgl64.Vec3{1, 0, 0}

	// Sample densely; with linear easing the angle must grow at a constant rate,
	// including across the last quarter where 2π would otherwise snap to 0.
	const steps = 200
	for i := 0; i <= steps; i++ {
		tm := float64(i) / steps
		want := rotateOrthogonal(reference, up, tm*2*math.Pi)
		got := track.Evaluate(tm).Rotate(reference)
		assertVecNear(t, want, got, 1e-6, "t=%v want %v got %v", tm, want, got)
	}
}

func TestTrackEvaluateClamps(t *testing.T) {
	track := spinTrack(2)
	assert.Equal(t, track.Keyframes[0].Value, track.Evaluate(-1))
	assert.Equal(t, track.Keyframes[4].Value, track.Evaluate(5))

	empty := Track{}
	assert.Equal(t, mgl64.QuatIdent(), empty.Evaluate(1))
}

func TestTrackEvaluateAppliesEasing(t *testing.T) {
	track := spinTrack(4)
	track.Easing = EaseInQuad
	reference := mgl64.Vec3{1, 0, 0}

	// Halfway through the first quarter an ease-in curve has covered a quarter
	// of the segment: 0.25 * 90 degrees.
	got := track.Evaluate(0.5).Rotate(reference)
	want := rotateOrthogonal(reference, up, 0.25*math.Pi/2)
	assertVecNear(t, want, got, 1e-6, "want %v got %v", want, got)
}

func TestTrackValidate(t *testing.T) {
	good := spinTrack(1)
	require.NoError(t, good.Validate())

	noTarget := spinTrack(1)
	noTarget.Target = "rotation"

	noKeyframes := spinTrack(1)
	noKeyframes.Keyframes = nil

	badEasing := spinTrack(1)
	badEasing.Easing = "wobble"

	unordered := spinTrack(1)
	unordered.Keyframes[1], unordered.Keyframes[2] = unordered.Keyframes[2], unordered.Keyframes[1]

	for name, track := range map[string]Track{
		"no target":    noTarget,
		"no keyframes": noKeyframes,
		"bad easing":   badEasing,
		"unordered":    unordered,
	} {
		t.Run(name, func(t *testing.T) {
			err := track.Validate()
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestAnimationData(t *testing.T) {
	data := AnimationData{
		Name: "Spin",
		Tracks: []Track{
			spinTrack(20),
			{Target: ActorPath("cube").LocalRotation(), Keyframes: MustGenerateSpinKeyframes(1, right), Easing: Linear},
			{Target: ActorPath("text").LocalScale(), Keyframes: MustGenerateSpinKeyframes(3, right), Easing: Linear},
		},
	}

	require.NoError(t, data.Validate())
	assert.Equal(t, []string{"cube", "text"}, data.Placeholders())
	assert.Equal(t, 20.0, data.Length())

	unnamed := data
	unnamed.Name = ""
	assert.True(t, errors.Is(unnamed.Validate(), ErrInvalidArgument))

	empty := AnimationData{Name: "Empty"}
	assert.True(t, errors.Is(empty.Validate(), ErrInvalidArgument))
}

func TestWrapModeLocalTime(t *testing.T) {
	cases := []struct {
		mode   WrapMode
		t      float64
		length float64
		want   float64
	}{
		{Once, 0.5, 1, 0.5},
		{Once, 3, 1, 1},
		{Once, -1, 1, 0},
		{Loop, 1.25, 1, 0.25},
		{Loop, 20, 20, 0},
		{PingPong, 0.25, 1, 0.25},
		{PingPong, 1.25, 1, 0.75},
		{PingPong, 2.25, 1, 0.25},
		{PingPong, 25, 20, 15},
		{Loop, 5, 0, 0},
	}

	for _, c := range cases {
		assert.InDelta(t, c.want, c.mode.LocalTime(c.t, c.length), epsilon, "%s t=%v length=%v", c.mode, c.t, c.length)
	}
}

func TestParseWrapModeAndEasing(t *testing.T) {
	w, err := ParseWrapMode("pingPong")
	require.NoError(t, err)
	assert.Equal(t, PingPong, w)

	_, err = ParseWrapMode("bounce")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	e, err := ParseEasing("easeOutSine")
	require.NoError(t, err)
	assert.Equal(t, EaseOutSine, e)
	assert.InDelta(t, math.Sin(0.5*math.Pi/2), e.Func()(0.5), epsilon)

	_, err = ParseEasing("snap")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.InDelta(t, 0.3, Easing("snap").Func()(0.3), epsilon)
}
