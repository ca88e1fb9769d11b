package system

import (
	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// EntityPawn is the body of an agent entity as seen by its controller.
type EntityPawn struct {
	w *ecs.World
	e ecs.Entity
}

func NewEntityPawn(w *ecs.World, e ecs.Entity) *EntityPawn {
	return &EntityPawn{w: w, e: e}
}

func (p *EntityPawn) Location() common.Vec3 {
	t, ok := ecs.Get(p.w, p.e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}
	}
	return t.Position
}

func (p *EntityPawn) Forward() common.Vec3 {
	t, ok := ecs.Get(p.w, p.e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{X: 1}
	}
	return t.Rotation.Forward()
}

func (p *EntityPawn) SetLocomotionMode(m ai.LocomotionMode) {
	if loc, ok := ecs.Get(p.w, p.e, component.LocomotionComponent.Kind()); ok {
		loc.Mode = m
		return
	}
	_ = ecs.Add(p.w, p.e, component.LocomotionComponent.Kind(), &component.Locomotion{Mode: m})
}

func (p *EntityPawn) SetPosition(pos common.Vec3) {
	if t, ok := ecs.Get(p.w, p.e, component.TransformComponent.Kind()); ok {
		t.Position = pos
	}
}

func (p *EntityPawn) SetOrientation(q common.Quat) {
	if t, ok := ecs.Get(p.w, p.e, component.TransformComponent.Kind()); ok {
		t.Rotation = q
	}
}
