package system

import (
	"log"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const interruptTargetCollected = "target_collected"

// PickupSystem collects active pickups an agent stands on. A collected pickup
// loses its claim and goes on cooldown; any other agent heading for it is
// interrupted so it picks a new target.
type PickupSystem struct{}

func NewPickupSystem() *PickupSystem { return &PickupSystem{} }

func (s *PickupSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AIComponent.Kind(), component.TransformComponent.Kind(), func(ae ecs.Entity, agent *component.AI, at *component.Transform) {
		ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(pe ecs.Entity, pickup *component.Pickup, pt *component.Transform) {
			if ecs.Has(w, pe, component.CooldownComponent.Kind()) {
				return
			}
			if common.Distance2D(at.Position, pt.Position) > pickup.Radius {
				return
			}
			s.collect(w, ae, agent, pe, pickup)
		})
	})
}

func (s *PickupSystem) collect(w *ecs.World, ae ecs.Entity, agent *component.AI, pe ecs.Entity, pickup *component.Pickup) {
	pickup.Collections++
	pickup.Claimant = ""
	agent.Collected++
	if pickup.Cooldown > 0 {
		if err := ecs.Add(w, pe, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: pickup.Cooldown}); err != nil {
			log.Printf("pickup: start cooldown %s: %v", pe, err)
		}
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventCollected, Subject: pe, Other: ae, Detail: agent.Name})

	ecs.ForEach(w, component.AIComponent.Kind(), func(oe ecs.Entity, other *component.AI) {
		if oe == ae || other.Controller == nil || other.Controller.Target() != ai.ActorID(pe) {
			return
		}
		_ = ecs.Add(w, oe, component.AIStateInterruptComponent.Kind(), &component.AIStateInterrupt{Reason: interruptTargetCollected})
	})
}
