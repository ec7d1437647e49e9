package app

import (
	"fmt"

	"github.com/matt-g-everett/mretx/host"
	"github.com/matt-g-everett/mretx/spin"
)

// startHello shows spinning "Hello World!" text with a cube hanging below it
// that grows on hover and flips when clicked.
func (a *App) startHello() error {
	s := a.scene

	var err error
	s.Text, err = a.host.CreateActor(host.ActorDef{
		Name: "Text",
		App:  host.Transform{Position: host.Vec3(0, 0.5, 0)},
		Text: &host.TextDef{
			Contents: "Hello World!",
			Anchor:   host.MiddleCenter,
			Colour:   a.settings.TextColour,
			Height:   0.3,
		},
	})
	if err != nil {
		return fmt.Errorf("create text: %w", err)
	}

	spinKeyframes, err := spin.GenerateSpinKeyframes(a.settings.SpinDuration, up)
	if err != nil {
		return fmt.Errorf("spin keyframes: %w", err)
	}
	spinData, err := a.host.CreateAnimationData(spin.AnimationData{
		Name: "Spin",
		Tracks: []spin.Track{{
			Target:    spin.ActorPath("text").LocalRotation(),
			Keyframes: spinKeyframes,
			Easing:    spin.Linear,
		}},
	})
	if err != nil {
		return fmt.Errorf("create spin: %w", err)
	}
	s.Spin, err = a.host.Bind(spinData, map[string]*host.Actor{"text": s.Text},
		host.BindOptions{Playing: true, Wrap: spin.PingPong})
	if err != nil {
		return fmt.Errorf("bind spin: %w", err)
	}

	cubePrefab, err := a.host.LoadGltf("altspace-cube.glb", host.BoxCollider)
	if err != nil {
		return fmt.Errorf("load cube: %w", err)
	}
	s.Cube, err = a.host.CreateFromPrefab(cubePrefab, host.ActorDef{
		Name:   "Altspace Cube",
		Parent: s.Text,
		Local: host.Transform{
			Position: host.Vec3(0, -1, 0),
			Scale:    host.Uniform(restScale),
		},
		Grabbable: true,
	})
	if err != nil {
		return fmt.Errorf("create cube: %w", err)
	}

	flipKeyframes, err := spin.GenerateSpinKeyframes(a.settings.FlipDuration, right)
	if err != nil {
		return fmt.Errorf("flip keyframes: %w", err)
	}
	flipData, err := a.host.CreateAnimationData(spin.AnimationData{
		Name: "DoAFlip",
		Tracks: []spin.Track{{
			Target:    spin.ActorPath("target").LocalRotation(),
			Keyframes: flipKeyframes,
			Easing:    spin.Linear,
		}},
	})
	if err != nil {
		return fmt.Errorf("create flip: %w", err)
	}
	s.Flip, err = a.host.Bind(flipData, map[string]*host.Actor{"target": s.Cube}, host.BindOptions{})
	if err != nil {
		return fmt.Errorf("bind flip: %w", err)
	}

	a.on(s.Cube, host.Hover, host.Enter, cubeHoverEnter)
	a.on(s.Cube, host.Hover, host.Exit, cubeHoverExit)
	a.on(s.Cube, host.Click, host.Begin, toggleFlip)

	return nil
}
