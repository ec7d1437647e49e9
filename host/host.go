// Package host is the app's side of the mixed-reality host boundary. The host
// owns the scene graph, physics, asset loading and animation playback; this
// package only describes what the app asks of it and routes the input events
// it sends back.
package host

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/mretx/spin"
)

var (
	// ErrPublish is returned when a command could not be delivered to the host.
	ErrPublish = errors.New("publish failed")
	// ErrUnknownActor is returned for actors the host link does not know about.
	ErrUnknownActor = errors.New("unknown actor")
)

// ActorID identifies an actor on the host. Zero means no actor.
type ActorID uint64

// Actor is a handle to an actor created on the host.
type Actor struct {
	ID     ActorID
	Name   string
	Parent ActorID

	children []ActorID
}

// Prefab is a handle to a loaded glTF asset.
type Prefab struct {
	ID  uint64
	URI string
}

// AnimationData is a handle to animation data registered with the host.
type AnimationData struct {
	ID   uint64
	Data spin.AnimationData
}

// Animation is animation data bound to concrete actors.
type Animation struct {
	ID      uint64
	Name    string
	Targets map[string]ActorID

	wrap   spin.WrapMode
	length time.Duration
	clock  func() time.Time

	playing atomic.Bool
	// Unix nanoseconds at which a play-once run ends; zero while looping.
	endsAt atomic.Int64
}

// IsPlaying reports whether the animation is running on the host. A play-once
// animation counts as stopped once its length has elapsed since it was
// started.
func (a *Animation) IsPlaying() bool {
	if !a.playing.Load() {
		return false
	}
	end := a.endsAt.Load()
	return end == 0 || a.now().UnixNano() < end
}

func (a *Animation) now() time.Time {
	if a.clock == nil {
		return time.Now()
	}
	return a.clock()
}

func (a *Animation) setPlaying(playing bool) {
	if playing && a.wrap == spin.Once {
		a.endsAt.Store(a.now().Add(a.length).UnixNano())
	} else {
		a.endsAt.Store(0)
	}
	a.playing.Store(playing)
}

// Transform is a partial transform; nil fields are left unchanged.
type Transform struct {
	Position *mgl64.Vec3
	Rotation *mgl64.Quat
	Scale    *mgl64.Vec3
}

// Vec3 returns a pointer to a vector, for building Transforms.
func Vec3(x, y, z float64) *mgl64.Vec3 {
	return &mgl64.Vec3{x, y, z}
}

// Uniform returns a pointer to a vector with every component set to s.
func Uniform(s float64) *mgl64.Vec3 {
	return &mgl64.Vec3{s, s, s}
}

// TextAnchor is the point of a text block that sits at the actor's origin.
type TextAnchor string

const (
	TopLeft      TextAnchor = "top-left"
	MiddleCenter TextAnchor = "middle-center"
	BottomRight  TextAnchor = "bottom-right"
)

// TextDef describes text rendered by an actor.
type TextDef struct {
	Contents string
	Anchor   TextAnchor
	Colour   colorful.Color
	Height   float64
}

// CollisionDetectionMode selects how the physics engine tests for contacts.
type CollisionDetectionMode string

const (
	Discrete   CollisionDetectionMode = "discrete"
	Continuous CollisionDetectionMode = "continuous"
)

// RigidBodyDef asks the host to simulate an actor physically.
type RigidBodyDef struct {
	UseGravity         bool
	CollisionDetection CollisionDetectionMode
	DetectCollisions   bool
	Mass               float64
}

// ColliderType is the collider generated for a loaded glTF asset.
type ColliderType string

const (
	BoxCollider  ColliderType = "box"
	MeshCollider ColliderType = "mesh"
	NoCollider   ColliderType = "none"
)

// PrimitiveShape names a mesh the host can generate.
type PrimitiveShape string

const (
	Sphere PrimitiveShape = "sphere"
	Box    PrimitiveShape = "box"
)

// PrimitiveDef describes a generated mesh.
type PrimitiveDef struct {
	Shape      PrimitiveShape
	Dimensions mgl64.Vec3
}

// ActorDef holds the properties an actor is created with.
type ActorDef struct {
	Name   string
	Parent *Actor
	// Local is relative to the parent, App is relative to the app root.
	Local         Transform
	App           Transform
	Text          *TextDef
	Grabbable     bool
	RigidBody     *RigidBodyDef
	AddCollider   bool
	Subscriptions []string
}

// BindOptions controls how bound animation data starts out.
type BindOptions struct {
	Playing bool
	Wrap    spin.WrapMode
}

// AnimateOptions controls a one-off AnimateTo transition.
type AnimateOptions struct {
	Duration float64
	Easing   spin.Easing
}

// EventKind is the kind of input an Event reports.
type EventKind string

const (
	Hover EventKind = "hover"
	Click EventKind = "click"
	Grab  EventKind = "grab"
)

// Phase is the stage of an input interaction.
type Phase string

const (
	Enter Phase = "enter"
	Exit  Phase = "exit"
	Begin Phase = "begin"
	End   Phase = "end"
)

// Event is an input event delivered by the host for an actor.
type Event struct {
	Actor ActorID
	Kind  EventKind
	Phase Phase
	User  string
	// Reported transforms, set for actors subscribed to "transform".
	Local Transform
	App   Transform
}

// Handler reacts to an input event.
type Handler func(ev Event)

// Host is the set of operations the app needs from the mixed-reality host.
type Host interface {
	LoadGltf(uri string, collider ColliderType) (*Prefab, error)
	CreateActor(def ActorDef) (*Actor, error)
	CreateFromPrefab(prefab *Prefab, def ActorDef) (*Actor, error)
	CreatePrimitive(primitive PrimitiveDef, def ActorDef) (*Actor, error)
	DestroyActor(actor *Actor) error

	CreateAnimationData(data spin.AnimationData) (*AnimationData, error)
	Bind(data *AnimationData, targets map[string]*Actor, opts BindOptions) (*Animation, error)
	Play(anim *Animation) error
	Stop(anim *Animation) error
	AnimateTo(actor *Actor, destination Transform, opts AnimateOptions) error

	On(actor *Actor, kind EventKind, phase Phase, handler Handler)
}
