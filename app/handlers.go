package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/matt-g-everett/mretx/host"
	"github.com/matt-g-everett/mretx/spin"
)

const (
	restScale     = 0.4
	hoverScale    = 0.5
	hoverDuration = 0.3
)

func cubeHoverEnter(h host.Host, s *Scene, ev host.Event) error {
	return h.AnimateTo(s.Cube, host.Transform{Scale: host.Uniform(hoverScale)},
		host.AnimateOptions{Duration: hoverDuration, Easing: spin.EaseOutSine})
}

func cubeHoverExit(h host.Host, s *Scene, ev host.Event) error {
	return h.AnimateTo(s.Cube, host.Transform{Scale: host.Uniform(restScale)},
		host.AnimateOptions{Duration: hoverDuration, Easing: spin.EaseOutSine})
}

func toggleFlip(h host.Host, s *Scene, ev host.Event) error {
	if s.Flip.IsPlaying() {
		return h.Stop(s.Flip)
	}
	return h.Play(s.Flip)
}

// togglePair spawns the ball and box next to the coster, or destroys them if
// they are already there.
func togglePair(h host.Host, s *Scene, ev host.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ball != nil || s.box != nil {
		var errs []error
		for _, actor := range []*host.Actor{s.ball, s.box} {
			if actor == nil {
				continue
			}
			if err := h.DestroyActor(actor); err != nil && !errors.Is(err, host.ErrUnknownActor) {
				errs = append(errs, err)
			}
		}
		s.ball, s.box = nil, nil
		return errors.Join(errs...)
	}

	ball, err := h.CreatePrimitive(
		host.PrimitiveDef{Shape: host.Sphere, Dimensions: mgl64.Vec3{2, 2, 2}},
		host.ActorDef{
			Name:        "ball",
			Local:       host.Transform{Position: host.Vec3(2.5, 1, 0)},
			Grabbable:   true,
			AddCollider: true,
		})
	if err != nil {
		return fmt.Errorf("spawn ball: %w", err)
	}

	box, err := h.CreatePrimitive(
		host.PrimitiveDef{Shape: host.Box, Dimensions: mgl64.Vec3{0.5, 0.5, 0.5}},
		host.ActorDef{
			Name:        "box",
			Local:       host.Transform{Position: host.Vec3(-1.5, 1, 0)},
			Grabbable:   true,
			AddCollider: true,
		})
	if err != nil {
		// Don't leave half a pair behind.
		if derr := h.DestroyActor(ball); derr != nil {
			log.Printf("Removing ball after failed spawn: %v", derr)
		}
		return fmt.Errorf("spawn box: %w", err)
	}

	s.ball, s.box = ball, box
	return nil
}

func logGrabEnd(h host.Host, s *Scene, ev host.Event) error {
	log.Printf("Grab end on actor %d by %q: local %s app %s", ev.Actor, ev.User, formatTransform(ev.Local), formatTransform(ev.App))
	return nil
}

func formatTransform(t host.Transform) string {
	out := "{"
	if t.Position != nil {
		out += fmt.Sprintf("position:%v ", *t.Position)
	}
	if t.Rotation != nil {
		out += fmt.Sprintf("rotation:%v ", *t.Rotation)
	}
	if t.Scale != nil {
		out += fmt.Sprintf("scale:%v ", *t.Scale)
	}
	if len(out) > 1 {
		out = out[:len(out)-1]
	}
	return out + "}"
}
