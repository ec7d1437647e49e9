package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/mretx/host"
)

// ErrUnknownScene is returned when the configured scene does not exist.
var ErrUnknownScene = errors.New("unknown scene")

const (
	SceneHello  = "hello"
	SceneCoster = "coster"
)

var (
	up    = mgl64.Vec3{0, 1, 0}
	right = mgl64.Vec3{1, 0, 0}
)

// Settings tune the scenes.
type Settings struct {
	Scene        string
	SpinDuration float64
	FlipDuration float64
	TextColour   colorful.Color
}

// Scene is everything the event handlers act on. It is passed to every
// handler explicitly.
type Scene struct {
	Text *host.Actor
	Cube *host.Actor
	Spin *host.Animation
	Flip *host.Animation

	Coster *host.Actor
	Dna    *host.Actor

	mu   sync.Mutex
	ball *host.Actor
	box  *host.Actor
}

// Spawned returns the spawned primitive pair, or nils when it is not present.
func (s *Scene) Spawned() (ball, box *host.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ball, s.box
}

// App builds a scene on the host and reacts to its input events.
type App struct {
	host     host.Host
	settings Settings
	scene    *Scene
}

// NewApp creates an instance of an App.
func NewApp(h host.Host, settings Settings) *App {
	a := new(App)
	a.host = h
	a.settings = settings
	a.scene = new(Scene)
	return a
}

// Scene returns the running scene.
func (a *App) Scene() *Scene {
	return a.scene
}

// Start builds the configured scene.
func (a *App) Start() error {
	log.Printf("Starting scene %q", a.settings.Scene)
	switch a.settings.Scene {
	case SceneHello:
		return a.startHello()
	case SceneCoster:
		return a.startCoster()
	}
	return fmt.Errorf("%w: %q", ErrUnknownScene, a.settings.Scene)
}

// sceneHandler is an event handler with its context passed in.
type sceneHandler func(h host.Host, s *Scene, ev host.Event) error

func (a *App) on(actor *host.Actor, kind host.EventKind, phase host.Phase, handler sceneHandler) {
	a.host.On(actor, kind, phase, func(ev host.Event) {
		if err := handler(a.host, a.scene, ev); err != nil {
			log.Printf("%s %s on actor %d: %v", kind, phase, ev.Actor, err)
		}
	})
}
