package system

import (
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// CooldownSystem counts pickup cooldowns down and removes them once they
// expire, which makes the pickup selectable again.
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		if cd.Remaining > dt {
			cd.Remaining -= dt
			return
		}

		ecs.Remove(w, e, component.CooldownComponent.Kind())
		w.Events().Push(ecs.Event{Kind: ecs.EventRespawned, Subject: e})
	})
}
