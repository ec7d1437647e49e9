package spin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const actorPathPrefix = "actor:"

// Path addresses a property of an actor placeholder, for example
// "actor:text/transform/local/rotation".
type Path string

// ActorRef is a named placeholder that is resolved to a real actor when
// animation data is bound.
type ActorRef string

// ActorPath starts a path at the named placeholder.
func ActorPath(placeholder string) ActorRef {
	return ActorRef(placeholder)
}

// LocalRotation addresses the placeholder's rotation relative to its parent.
func (a ActorRef) LocalRotation() Path {
	return Path(actorPathPrefix + string(a) + "/transform/local/rotation")
}

// LocalPosition addresses the placeholder's position relative to its parent.
func (a ActorRef) LocalPosition() Path {
	return Path(actorPathPrefix + string(a) + "/transform/local/position")
}

// LocalScale addresses the placeholder's scale.
func (a ActorRef) LocalScale() Path {
	return Path(actorPathPrefix + string(a) + "/transform/local/scale")
}

// Placeholder returns the actor placeholder the path starts at, or "" if the
// path is not actor-valued.
func (p Path) Placeholder() string {
	s := string(p)
	if !strings.HasPrefix(s, actorPathPrefix) {
		return ""
	}
	s = s[len(actorPathPrefix):]
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Track animates one property through a list of rotation keyframes.
type Track struct {
	Target    Path
	Keyframes []Keyframe
	Easing    Easing
}

// Validate checks the track can be handed to an animation player.
func (t *Track) Validate() error {
	if t.Target.Placeholder() == "" {
		return fmt.Errorf("%w: track target %q has no actor placeholder", ErrInvalidArgument, t.Target)
	}
	if len(t.Keyframes) == 0 {
		return fmt.Errorf("%w: track %q has no keyframes", ErrInvalidArgument, t.Target)
	}
	if !t.Easing.Valid() {
		return fmt.Errorf("%w: track %q has unknown easing %q", ErrInvalidArgument, t.Target, t.Easing)
	}
	for i := 1; i < len(t.Keyframes); i++ {
		if t.Keyframes[i].Time < t.Keyframes[i-1].Time {
			return fmt.Errorf("%w: track %q keyframe %d is earlier than keyframe %d", ErrInvalidArgument, t.Target, i, i-1)
		}
	}
	return nil
}

// Length is the time of the last keyframe.
func (t *Track) Length() float64 {
	if len(t.Keyframes) == 0 {
		return 0
	}
	return t.Keyframes[len(t.Keyframes)-1].Time
}

// Evaluate samples the track at time tm. Times outside the track are clamped
// to the first or last keyframe.
func (t *Track) Evaluate(tm float64) mgl64.Quat {
	n := len(t.Keyframes)
	if n == 0 {
		return mgl64.QuatIdent()
	}
	if tm <= t.Keyframes[0].Time {
		return t.Keyframes[0].Value
	}
	if tm >= t.Keyframes[n-1].Time {
		return t.Keyframes[n-1].Value
	}

	// First keyframe strictly after tm; always in 1..n-1 here.
	next := sort.Search(n, func(i int) bool { return t.Keyframes[i].Time > tm })
	k0 := t.Keyframes[next-1]
	k1 := t.Keyframes[next]
	span := k1.Time - k0.Time
	if span <= 0 {
		return k1.Value
	}

	amount := t.Easing.Func()((tm - k0.Time) / span)
	return mgl64.QuatSlerp(k0.Value, k1.Value, amount)
}

// AnimationData is a named, reusable set of tracks addressed through actor
// placeholders.
type AnimationData struct {
	Name   string
	Tracks []Track
}

// Validate checks every track of the animation.
func (d *AnimationData) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: animation data needs a name", ErrInvalidArgument)
	}
	if len(d.Tracks) == 0 {
		return fmt.Errorf("%w: animation data %q has no tracks", ErrInvalidArgument, d.Name)
	}
	for i := range d.Tracks {
		if err := d.Tracks[i].Validate(); err != nil {
			return fmt.Errorf("animation data %q: %w", d.Name, err)
		}
	}
	return nil
}

// Placeholders lists the actor placeholders the tracks refer to.
func (d *AnimationData) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range d.Tracks {
		p := t.Target.Placeholder()
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// Length is the duration of the longest track.
func (d *AnimationData) Length() float64 {
	var length float64
	for i := range d.Tracks {
		if l := d.Tracks[i].Length(); l > length {
			length = l
		}
	}
	return length
}
