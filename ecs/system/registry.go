package system

import (
	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// WorldRegistry exposes the arena actors to controllers. Actor ids are the
// entity handles, so a destroyed actor's id never resolves again.
type WorldRegistry struct {
	w *ecs.World
}

func NewWorldRegistry(w *ecs.World) *WorldRegistry {
	return &WorldRegistry{w: w}
}

// EnumerateActors lists actors of c in entity dense order.
func (r *WorldRegistry) EnumerateActors(c ai.Category) []ai.Actor {
	var out []ai.Actor
	switch c {
	case ai.CategoryResource:
		ecs.ForEach2(r.w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Pickup, t *component.Transform) {
			out = append(out, ai.Actor{
				ID:       ai.ActorID(e),
				Category: c,
				Location: t.Position,
				Active:   !ecs.Has(r.w, e, component.CooldownComponent.Kind()),
			})
		})
	case ai.CategoryPlayer:
		ecs.ForEach2(r.w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Player, t *component.Transform) {
			out = append(out, ai.Actor{ID: ai.ActorID(e), Category: c, Location: t.Position, Active: true})
		})
	case ai.CategoryFleePoint:
		ecs.ForEach2(r.w, component.FleePointTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.FleePointTag, t *component.Transform) {
			out = append(out, ai.Actor{ID: ai.ActorID(e), Category: c, Location: t.Position, Active: true})
		})
	}
	return out
}

func (r *WorldRegistry) IsPoweredUp(player ai.ActorID) bool {
	p, ok := ecs.Get(r.w, ecs.Entity(player), component.PlayerComponent.Kind())
	return ok && p.Powered
}

func (r *WorldRegistry) Claimant(resource ai.ActorID) string {
	p, ok := ecs.Get(r.w, ecs.Entity(resource), component.PickupComponent.Kind())
	if !ok {
		return ""
	}
	return p.Claimant
}

func (r *WorldRegistry) Claim(resource ai.ActorID, claimant string) bool {
	e := ecs.Entity(resource)
	p, ok := ecs.Get(r.w, e, component.PickupComponent.Kind())
	if !ok || claimant == "" {
		return false
	}
	if p.Claimant == claimant {
		return true
	}
	if p.Claimant != "" {
		return false
	}
	p.Claimant = claimant
	r.w.Events().Push(ecs.Event{Kind: ecs.EventClaimed, Subject: e, Detail: claimant})
	return true
}

func (r *WorldRegistry) Release(resource ai.ActorID, claimant string) {
	p, ok := ecs.Get(r.w, ecs.Entity(resource), component.PickupComponent.Kind())
	if !ok || p.Claimant != claimant {
		return
	}
	p.Claimant = ""
}
