package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/kamstrup/intmap"
	"github.com/matt-g-everett/mretx/spin"
)

const (
	commandQos = 1
	// Events received while handlers are busy wait here.
	eventQueueSize = 64
)

var _ Host = (*MQTTHost)(nil)

// Client is the part of an MQTT client the host link uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Topics are the MQTT topics shared with the host.
type Topics struct {
	Commands string
	Events   string
}

type handlerKey struct {
	actor ActorID
	kind  EventKind
	phase Phase
}

// MQTTHost talks to a remote host by publishing commands and receiving input
// events over MQTT.
type MQTTHost struct {
	client  Client
	topics  Topics
	timeout time.Duration

	seq atomic.Uint64
	ids atomic.Uint64

	clock     func() time.Time
	events    chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.RWMutex
	actors   *intmap.Map[ActorID, *Actor]
	handlers map[handlerKey][]Handler
}

// NewMQTTHost creates an instance of an MQTTHost. Received events are handled
// on a goroutine of its own until Close is called.
func NewMQTTHost(client Client, topics Topics, timeout time.Duration) *MQTTHost {
	h := new(MQTTHost)
	h.client = client
	h.topics = topics
	h.timeout = timeout
	h.clock = time.Now
	h.actors = intmap.New[ActorID, *Actor](64)
	h.handlers = make(map[handlerKey][]Handler)
	h.events = make(chan []byte, eventQueueSize)
	h.done = make(chan struct{})
	go h.processEvents()
	return h
}

// Close stops handling received events.
func (h *MQTTHost) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// Subscribe starts receiving input events from the host.
func (h *MQTTHost) Subscribe() error {
	token := h.client.Subscribe(h.topics.Events, commandQos, h.handleEvents)
	if !token.WaitTimeout(h.timeout) {
		return fmt.Errorf("subscribe %s: timed out", h.topics.Events)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", h.topics.Events, err)
	}
	return nil
}

// handleEvents runs on the paho router, which must not block. Handlers publish
// and wait for acknowledgements, so they run on processEvents instead, in the
// order the events arrived.
func (h *MQTTHost) handleEvents(client mqtt.Client, msg mqtt.Message) {
	select {
	case <-h.done:
		log.Printf("Dropping event on %s: host link closed", msg.Topic())
		return
	default:
	}

	select {
	case h.events <- msg.Payload():
	default:
		log.Printf("Dropping event on %s: %d events already queued", msg.Topic(), eventQueueSize)
	}
}

func (h *MQTTHost) processEvents() {
	for {
		select {
		case <-h.done:
			return
		case payload := <-h.events:
			if err := h.Dispatch(payload); err != nil {
				log.Printf("Dropping event: %v", err)
			}
		}
	}
}

// Dispatch routes an encoded input event to the handlers registered for it.
func (h *MQTTHost) Dispatch(payload []byte) error {
	var ev EventJSON
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	h.mu.RLock()
	_, known := h.actors.Get(ev.Actor)
	handlers := append([]Handler(nil), h.handlers[handlerKey{ev.Actor, ev.Kind, ev.Phase}]...)
	h.mu.RUnlock()

	if !known {
		return fmt.Errorf("%s %s event: %w %d", ev.Kind, ev.Phase, ErrUnknownActor, ev.Actor)
	}

	event := Event{
		Actor: ev.Actor,
		Kind:  ev.Kind,
		Phase: ev.Phase,
		User:  ev.User,
	}
	if ev.Transform != nil {
		event.Local = transformFromJSON(ev.Transform.Local)
		event.App = transformFromJSON(ev.Transform.App)
	}
	for _, handler := range handlers {
		handler(event)
	}
	return nil
}

func (h *MQTTHost) publish(op string, payload interface{}) error {
	cmd := Command{
		Seq:     h.seq.Add(1),
		Op:      op,
		Payload: payload,
	}
	b, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode %s: %w", op, err)
	}

	token := h.client.Publish(h.topics.Commands, commandQos, false, b)
	if !token.WaitTimeout(h.timeout) {
		return fmt.Errorf("%w: %s timed out after %v", ErrPublish, op, h.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, op, err)
	}
	return nil
}

func (h *MQTTHost) nextID() uint64 {
	return h.ids.Add(1)
}

func (h *MQTTHost) known(actor *Actor) bool {
	if actor == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.actors.Get(actor.ID)
	return ok
}

// ActorCount is the number of live actors created through this link.
func (h *MQTTHost) ActorCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.actors.Len()
}

// LoadGltf asks the host to load a glTF asset for use as a prefab.
func (h *MQTTHost) LoadGltf(uri string, collider ColliderType) (*Prefab, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: empty glTF uri", spin.ErrInvalidArgument)
	}
	p := &Prefab{ID: h.nextID(), URI: uri}
	if err := h.publish(OpLoadGltf, LoadGltfPayload{Prefab: p.ID, URI: uri, Collider: collider}); err != nil {
		return nil, err
	}
	log.Printf("Loading %s as prefab %d", uri, p.ID)
	return p, nil
}

func (h *MQTTHost) createActor(def ActorDef, payload func(p *CreateActorPayload)) (*Actor, error) {
	if def.Parent != nil && !h.known(def.Parent) {
		return nil, fmt.Errorf("parent of %q: %w %d", def.Name, ErrUnknownActor, def.Parent.ID)
	}

	a := &Actor{ID: ActorID(h.nextID()), Name: def.Name}
	if def.Parent != nil {
		a.Parent = def.Parent.ID
	}

	p := actorPayload(a.ID, def)
	if payload != nil {
		payload(p)
	}
	if err := h.publish(OpCreateActor, p); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if def.Parent != nil {
		// The parent may have been destroyed while the command was in flight,
		// taking the new actor with it on the host.
		parent, ok := h.actors.Get(a.Parent)
		if !ok {
			return nil, fmt.Errorf("parent of %q destroyed during create: %w %d", def.Name, ErrUnknownActor, a.Parent)
		}
		parent.children = append(parent.children, a.ID)
	}
	h.actors.Put(a.ID, a)

	return a, nil
}

// CreateActor creates an actor without a mesh.
func (h *MQTTHost) CreateActor(def ActorDef) (*Actor, error) {
	return h.createActor(def, nil)
}

// CreateFromPrefab spawns a copy of a loaded prefab.
func (h *MQTTHost) CreateFromPrefab(prefab *Prefab, def ActorDef) (*Actor, error) {
	if prefab == nil {
		return nil, fmt.Errorf("%w: %q has no prefab", spin.ErrInvalidArgument, def.Name)
	}
	return h.createActor(def, func(p *CreateActorPayload) {
		p.Prefab = prefab.ID
	})
}

// CreatePrimitive creates an actor with a generated mesh.
func (h *MQTTHost) CreatePrimitive(primitive PrimitiveDef, def ActorDef) (*Actor, error) {
	switch primitive.Shape {
	case Sphere, Box:
	default:
		return nil, fmt.Errorf("%w: unknown primitive %q", spin.ErrInvalidArgument, primitive.Shape)
	}
	return h.createActor(def, func(p *CreateActorPayload) {
		p.Primitive = &PrimitiveJSON{Shape: primitive.Shape, Dimensions: vec3ToJSON(primitive.Dimensions)}
	})
}

// DestroyActor destroys an actor and its children.
func (h *MQTTHost) DestroyActor(actor *Actor) error {
	if !h.known(actor) {
		if actor == nil {
			return fmt.Errorf("destroy: %w", ErrUnknownActor)
		}
		return fmt.Errorf("destroy: %w %d", ErrUnknownActor, actor.ID)
	}

	if err := h.publish(OpDestroyActor, DestroyActorPayload{Actor: actor.ID}); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if parent, ok := h.actors.Get(actor.Parent); ok {
		for i, id := range parent.children {
			if id == actor.ID {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	}

	pending := []ActorID{actor.ID}
	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if a, ok := h.actors.Get(id); ok {
			pending = append(pending, a.children...)
			h.actors.Del(id)
		}
		for key := range h.handlers {
			if key.actor == id {
				delete(h.handlers, key)
			}
		}
	}
	return nil
}

// CreateAnimationData registers reusable animation data with the host.
func (h *MQTTHost) CreateAnimationData(data spin.AnimationData) (*AnimationData, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	d := &AnimationData{ID: h.nextID(), Data: data}
	if err := h.publish(OpCreateAnimationData, animationDataPayload(d.ID, data)); err != nil {
		return nil, err
	}
	return d, nil
}

// Bind resolves the placeholders of animation data to actors.
func (h *MQTTHost) Bind(data *AnimationData, targets map[string]*Actor, opts BindOptions) (*Animation, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: bind without animation data", spin.ErrInvalidArgument)
	}
	if opts.Wrap == "" {
		opts.Wrap = spin.Once
	}
	if _, err := spin.ParseWrapMode(string(opts.Wrap)); err != nil {
		return nil, err
	}

	ids := make(map[string]ActorID, len(targets))
	for _, placeholder := range data.Data.Placeholders() {
		actor, ok := targets[placeholder]
		if !ok {
			return nil, fmt.Errorf("%w: %q placeholder %q is not bound", spin.ErrInvalidArgument, data.Data.Name, placeholder)
		}
		if !h.known(actor) {
			return nil, fmt.Errorf("bind %q placeholder %q: %w", data.Data.Name, placeholder, ErrUnknownActor)
		}
		ids[placeholder] = actor.ID
	}

	anim := &Animation{
		ID:      h.nextID(),
		Name:    data.Data.Name,
		Targets: ids,
		wrap:    opts.Wrap,
		length:  time.Duration(data.Data.Length() * float64(time.Second)),
		clock:   h.clock,
	}
	err := h.publish(OpBind, BindPayload{
		Animation: anim.ID,
		Data:      data.ID,
		Targets:   ids,
		Playing:   opts.Playing,
		Wrap:      opts.Wrap,
	})
	if err != nil {
		return nil, err
	}
	anim.setPlaying(opts.Playing)
	return anim, nil
}

func (h *MQTTHost) playback(anim *Animation, op string, playing bool) error {
	if anim == nil {
		return fmt.Errorf("%w: %s without animation", spin.ErrInvalidArgument, op)
	}
	if err := h.publish(op, PlaybackPayload{Animation: anim.ID}); err != nil {
		return err
	}
	anim.setPlaying(playing)
	return nil
}

// Play starts a bound animation.
func (h *MQTTHost) Play(anim *Animation) error {
	return h.playback(anim, OpPlay, true)
}

// Stop stops a bound animation.
func (h *MQTTHost) Stop(anim *Animation) error {
	return h.playback(anim, OpStop, false)
}

// AnimateTo animates an actor from its current transform to the destination.
func (h *MQTTHost) AnimateTo(actor *Actor, destination Transform, opts AnimateOptions) error {
	if !h.known(actor) {
		return fmt.Errorf("animate: %w", ErrUnknownActor)
	}
	if opts.Duration < 0 {
		return fmt.Errorf("%w: negative duration %v", spin.ErrInvalidArgument, opts.Duration)
	}
	if opts.Easing == "" {
		opts.Easing = spin.Linear
	}
	if !opts.Easing.Valid() {
		return fmt.Errorf("%w: unknown easing %q", spin.ErrInvalidArgument, opts.Easing)
	}

	dest := transformToJSON(destination)
	if dest == nil {
		return errors.New("animate: empty destination")
	}
	return h.publish(OpAnimateTo, AnimateToPayload{
		Actor:       actor.ID,
		Destination: SpaceTransformJSON{Local: dest},
		Duration:    opts.Duration,
		Easing:      opts.Easing,
	})
}

// On registers a handler for input events on an actor.
func (h *MQTTHost) On(actor *Actor, kind EventKind, phase Phase, handler Handler) {
	if actor == nil || handler == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	key := handlerKey{actor.ID, kind, phase}
	h.handlers[key] = append(h.handlers[key], handler)
}
