package host

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/mretx/spin"
)

// Command ops published to the host.
const (
	OpLoadGltf            = "loadGltf"
	OpCreateActor         = "createActor"
	OpDestroyActor        = "destroyActor"
	OpCreateAnimationData = "createAnimationData"
	OpBind                = "bind"
	OpPlay                = "play"
	OpStop                = "stop"
	OpAnimateTo           = "animateTo"
)

// Command is the envelope for every message sent to the host.
type Command struct {
	Seq     uint64      `json:"seq"`
	Op      string      `json:"op"`
	Payload interface{} `json:"payload"`
}

type Vec3JSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type QuatJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type ColourJSON struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type TransformJSON struct {
	Position *Vec3JSON `json:"position,omitempty"`
	Rotation *QuatJSON `json:"rotation,omitempty"`
	Scale    *Vec3JSON `json:"scale,omitempty"`
}

type SpaceTransformJSON struct {
	Local *TransformJSON `json:"local,omitempty"`
	App   *TransformJSON `json:"app,omitempty"`
}

type TextJSON struct {
	Contents string     `json:"contents"`
	Anchor   TextAnchor `json:"anchor,omitempty"`
	Colour   ColourJSON `json:"color"`
	Height   float64    `json:"height"`
}

type RigidBodyJSON struct {
	UseGravity             bool                   `json:"useGravity"`
	CollisionDetectionMode CollisionDetectionMode `json:"collisionDetectionMode,omitempty"`
	DetectCollisions       bool                   `json:"detectCollisions"`
	Mass                   float64                `json:"mass,omitempty"`
}

type PrimitiveJSON struct {
	Shape      PrimitiveShape `json:"shape"`
	Dimensions Vec3JSON       `json:"dimensions"`
}

type LoadGltfPayload struct {
	Prefab   uint64       `json:"prefab"`
	URI      string       `json:"uri"`
	Collider ColliderType `json:"colliderType,omitempty"`
}

type CreateActorPayload struct {
	Actor         ActorID             `json:"actor"`
	Prefab        uint64              `json:"prefab,omitempty"`
	Primitive     *PrimitiveJSON      `json:"primitive,omitempty"`
	Name          string              `json:"name"`
	Parent        ActorID             `json:"parent,omitempty"`
	Transform     *SpaceTransformJSON `json:"transform,omitempty"`
	Text          *TextJSON           `json:"text,omitempty"`
	Grabbable     bool                `json:"grabbable"`
	RigidBody     *RigidBodyJSON      `json:"rigidBody,omitempty"`
	AddCollider   bool                `json:"addCollider,omitempty"`
	Subscriptions []string            `json:"subscriptions,omitempty"`
}

type DestroyActorPayload struct {
	Actor ActorID `json:"actor"`
}

type KeyframeJSON struct {
	Time  float64  `json:"time"`
	Value QuatJSON `json:"value"`
}

type TrackJSON struct {
	Target    spin.Path      `json:"target"`
	Easing    spin.Easing    `json:"easing"`
	Keyframes []KeyframeJSON `json:"keyframes"`
}

type AnimationDataPayload struct {
	Data   uint64      `json:"data"`
	Name   string      `json:"name"`
	Tracks []TrackJSON `json:"tracks"`
}

type BindPayload struct {
	Animation uint64             `json:"animation"`
	Data      uint64             `json:"data"`
	Targets   map[string]ActorID `json:"targets"`
	Playing   bool               `json:"isPlaying"`
	Wrap      spin.WrapMode      `json:"wrapMode,omitempty"`
}

type PlaybackPayload struct {
	Animation uint64 `json:"animation"`
}

type AnimateToPayload struct {
	Actor       ActorID            `json:"actor"`
	Destination SpaceTransformJSON `json:"destination"`
	Duration    float64            `json:"duration"`
	Easing      spin.Easing        `json:"easing"`
}

// EventJSON is an input event as sent by the host.
type EventJSON struct {
	Actor     ActorID             `json:"actor"`
	Kind      EventKind           `json:"kind"`
	Phase     Phase               `json:"phase"`
	User      string              `json:"user,omitempty"`
	Transform *SpaceTransformJSON `json:"transform,omitempty"`
}

func vec3ToJSON(v mgl64.Vec3) Vec3JSON {
	return Vec3JSON{X: v[0], Y: v[1], Z: v[2]}
}

// QuatToJSON converts a quaternion to its wire form.
func QuatToJSON(q mgl64.Quat) QuatJSON {
	return QuatJSON{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

func colourToJSON(c colorful.Color) ColourJSON {
	return ColourJSON{R: c.R, G: c.G, B: c.B}
}

func transformToJSON(t Transform) *TransformJSON {
	if t.Position == nil && t.Rotation == nil && t.Scale == nil {
		return nil
	}
	out := new(TransformJSON)
	if t.Position != nil {
		p := vec3ToJSON(*t.Position)
		out.Position = &p
	}
	if t.Rotation != nil {
		r := QuatToJSON(*t.Rotation)
		out.Rotation = &r
	}
	if t.Scale != nil {
		s := vec3ToJSON(*t.Scale)
		out.Scale = &s
	}
	return out
}

func transformFromJSON(t *TransformJSON) Transform {
	var out Transform
	if t == nil {
		return out
	}
	if t.Position != nil {
		out.Position = Vec3(t.Position.X, t.Position.Y, t.Position.Z)
	}
	if t.Rotation != nil {
		out.Rotation = &mgl64.Quat{W: t.Rotation.W, V: mgl64.Vec3{t.Rotation.X, t.Rotation.Y, t.Rotation.Z}}
	}
	if t.Scale != nil {
		out.Scale = Vec3(t.Scale.X, t.Scale.Y, t.Scale.Z)
	}
	return out
}

func spaceTransformToJSON(local, app Transform) *SpaceTransformJSON {
	l, a := transformToJSON(local), transformToJSON(app)
	if l == nil && a == nil {
		return nil
	}
	return &SpaceTransformJSON{Local: l, App: a}
}

func actorPayload(id ActorID, def ActorDef) *CreateActorPayload {
	p := &CreateActorPayload{
		Actor:         id,
		Name:          def.Name,
		Transform:     spaceTransformToJSON(def.Local, def.App),
		Grabbable:     def.Grabbable,
		AddCollider:   def.AddCollider,
		Subscriptions: def.Subscriptions,
	}
	if def.Parent != nil {
		p.Parent = def.Parent.ID
	}
	if def.Text != nil {
		p.Text = &TextJSON{
			Contents: def.Text.Contents,
			Anchor:   def.Text.Anchor,
			Colour:   colourToJSON(def.Text.Colour),
			Height:   def.Text.Height,
		}
	}
	if def.RigidBody != nil {
		p.RigidBody = &RigidBodyJSON{
			UseGravity:             def.RigidBody.UseGravity,
			CollisionDetectionMode: def.RigidBody.CollisionDetection,
			DetectCollisions:       def.RigidBody.DetectCollisions,
			Mass:                   def.RigidBody.Mass,
		}
	}
	return p
}

func animationDataPayload(id uint64, data spin.AnimationData) *AnimationDataPayload {
	p := &AnimationDataPayload{
		Data:   id,
		Name:   data.Name,
		Tracks: make([]TrackJSON, 0, len(data.Tracks)),
	}
	for _, t := range data.Tracks {
		track := TrackJSON{
			Target:    t.Target,
			Easing:    t.Easing,
			Keyframes: make([]KeyframeJSON, len(t.Keyframes)),
		}
		for i, k := range t.Keyframes {
			track.Keyframes[i] = KeyframeJSON{Time: k.Time, Value: QuatToJSON(k.Value)}
		}
		p.Tracks = append(p.Tracks, track)
	}
	return p
}
