package system

import (
	"log"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// PlayerSystem walks each player along its patrol loop and flips its power
// phase when the phase runs out. A phase length of zero never ends.
type PlayerSystem struct {
	Debug bool
}

func NewPlayerSystem() *PlayerSystem {
	return &PlayerSystem{}
}

func (s *PlayerSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, t *component.Transform) {
		s.updatePower(w, e, p, dt)
		patrol(p, t, dt)
	})
}

func (s *PlayerSystem) updatePower(w *ecs.World, e ecs.Entity, p *component.Player, dt float64) {
	p.PhaseElapsed += dt
	phase := p.UnpoweredFor
	if p.Powered {
		phase = p.PoweredFor
	}
	if phase <= 0 || p.PhaseElapsed < phase {
		return
	}

	p.Powered = !p.Powered
	p.PhaseElapsed = 0
	detail := "unpowered"
	if p.Powered {
		detail = "powered"
	}
	if s.Debug {
		log.Printf("player: %s %s", e, detail)
	}
	w.Events().Push(ecs.Event{Kind: ecs.EventPowerChanged, Subject: e, Detail: detail})
}

func patrol(p *component.Player, t *component.Transform, dt float64) {
	if len(p.Patrol) == 0 || p.MoveSpeed <= 0 {
		return
	}
	if p.PatrolIndex < 0 || p.PatrolIndex >= len(p.Patrol) {
		p.PatrolIndex = 0
	}

	budget := p.MoveSpeed * dt
	for range len(p.Patrol) {
		if budget <= 0 {
			return
		}
		target := p.Patrol[p.PatrolIndex]
		dist := common.Distance2D(t.Position, target)
		if dist > budget {
			heading := common.PlanarHeading(t.Position, target)
			t.Position = t.Position.Add(heading.Scale(budget))
			t.Rotation = common.LookAt(heading)
			return
		}
		t.Position = target
		budget -= dist
		p.PatrolIndex = (p.PatrolIndex + 1) % len(p.Patrol)
	}
}
