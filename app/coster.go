package app

import (
	"fmt"

	"github.com/matt-g-everett/mretx/host"
)

func physicsBody() *host.RigidBodyDef {
	return &host.RigidBodyDef{
		UseGravity:         true,
		CollisionDetection: host.Continuous,
		DetectCollisions:   true,
	}
}

// startCoster drops a coster with a grabbable DNA model on it. Clicking the
// coster spawns or removes a ball and box.
func (a *App) startCoster() error {
	s := a.scene

	costerPrefab, err := a.host.LoadGltf("coster.glb", host.BoxCollider)
	if err != nil {
		return fmt.Errorf("load coster: %w", err)
	}
	s.Coster, err = a.host.CreateFromPrefab(costerPrefab, host.ActorDef{
		Name: "Altspace Coster",
		Local: host.Transform{
			Position: host.Vec3(0, 0, 0),
			Scale:    host.Uniform(2),
		},
		RigidBody:     physicsBody(),
		Subscriptions: []string{"transform", "rigidbody"},
	})
	if err != nil {
		return fmt.Errorf("create coster: %w", err)
	}
	a.on(s.Coster, host.Grab, host.End, logGrabEnd)
	a.on(s.Coster, host.Click, host.Begin, togglePair)

	dnaPrefab, err := a.host.LoadGltf("dna.glb", host.BoxCollider)
	if err != nil {
		return fmt.Errorf("load dna: %w", err)
	}
	s.Dna, err = a.host.CreateFromPrefab(dnaPrefab, host.ActorDef{
		Name:          "Altspace Dna",
		Parent:        s.Coster,
		Local:         host.Transform{Position: host.Vec3(0, 0, 0)},
		Grabbable:     true,
		RigidBody:     physicsBody(),
		Subscriptions: []string{"transform", "rigidbody"},
	})
	if err != nil {
		return fmt.Errorf("create dna: %w", err)
	}
	a.on(s.Dna, host.Grab, host.End, logGrabEnd)

	return nil
}
