package system

import (
	"log"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// AISystem ticks every agent controller in dense order. Interrupts raised by
// other systems are applied first, except on agents in mid-jump, which keep
// theirs until they land.
type AISystem struct {
	Debug bool
}

func NewAISystem() *AISystem {
	return &AISystem{}
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AIComponent.Kind(), component.AIStateInterruptComponent.Kind(), func(e ecs.Entity, agent *component.AI, in *component.AIStateInterrupt) {
		ctrl := agent.Controller
		if ctrl == nil || ctrl.Follower().Jumping() {
			return
		}
		if s.Debug {
			log.Printf("ai: interrupt %s: %s", agent.Name, in.Reason)
		}
		ctrl.Interrupt()
		ecs.Remove(w, e, component.AIStateInterruptComponent.Kind())
	})

	ecs.ForEach(w, component.AIComponent.Kind(), func(e ecs.Entity, agent *component.AI) {
		if agent.Controller == nil {
			return
		}
		agent.Controller.Update(dt)
		if prev, cur, changed := agent.ObjectiveChanged(); changed {
			w.Events().Push(ecs.Event{
				Kind:    ecs.EventObjectiveChanged,
				Subject: e,
				Detail:  prev.String() + "->" + cur.String(),
			})
		}
	})
}
