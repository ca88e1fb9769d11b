package system

import (
	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const arriveEpsilon = 1e-3

// MovementSystem executes agent move orders over the nav grid. Requests are
// planned synchronously; each tick the agent's path follower advances the
// active segment and the system reports arrival back to the controller.
type MovementSystem struct {
	nav     *NavGrid
	next    ai.RequestID
	overlap float64
}

// NewMovementSystem creates the executor. Moves that accept any distance
// complete once the agent is within overlap of the goal.
func NewMovementSystem(nav *NavGrid, overlap float64) *MovementSystem {
	return &MovementSystem{nav: nav, overlap: overlap}
}

// Mover returns the move interface for agent e.
func (s *MovementSystem) Mover(w *ecs.World, e ecs.Entity) ai.Mover {
	return &entityMover{sys: s, w: w, e: e}
}

// GroundFollower returns the follower that walks e along ordinary segments.
func (s *MovementSystem) GroundFollower(w *ecs.World, e ecs.Entity) ai.SegmentFollower {
	return &groundFollower{w: w, e: e}
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	ecs.ForEach3(w, component.AIComponent.Kind(), component.MovementComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.AI, mv *component.Movement, t *component.Transform) {
		ctrl := agent.Controller
		if ctrl == nil {
			return
		}
		if mv.Pending {
			mv.Pending = false
			ctrl.OnMoveCompleted(mv.Request, mv.PendingResult)
			w.Events().Push(ecs.Event{Kind: ecs.EventMoveFinished, Subject: e, Detail: mv.PendingResult.String()})
			return
		}
		if !mv.Active {
			return
		}

		f := ctrl.Follower()
		f.FollowPathSegment(mv.Path, mv.Segment, dt)

		if f.Jumping() {
			if ctrl.Jump().Progress < 1 {
				return
			}
		} else {
			if mv.AcceptAnyDistance && s.overlap > 0 && common.Distance2D(t.Position, mv.Goal) <= s.overlap {
				s.finish(w, e, ctrl, mv)
				return
			}
			next := mv.Path.Points[mv.Segment+1].Location
			if common.Distance2D(t.Position, next) > arriveEpsilon {
				return
			}
		}

		t.Position = mv.Path.Points[mv.Segment+1].Location
		mv.Segment++
		if mv.Segment >= len(mv.Path.Points)-1 {
			s.finish(w, e, ctrl, mv)
			return
		}
		f.SetMoveSegment(mv.Path, mv.Segment)
	})
}

func (s *MovementSystem) finish(w *ecs.World, e ecs.Entity, ctrl *ai.Controller, mv *component.Movement) {
	mv.Active = false
	ctrl.Follower().Finish()
	ctrl.OnMoveCompleted(mv.Request, ai.MoveSucceeded)
	w.Events().Push(ecs.Event{Kind: ecs.EventMoveFinished, Subject: e, Detail: ai.MoveSucceeded.String()})
}

type entityMover struct {
	sys *MovementSystem
	w   *ecs.World
	e   ecs.Entity
}

func (m *entityMover) RequestMove(req ai.MoveRequest) ai.RequestID {
	s := m.sys
	s.next++
	id := s.next

	mv := &component.Movement{Request: id, Goal: req.Goal, AcceptAnyDistance: req.AcceptAnyDistance}
	if err := ecs.Add(m.w, m.e, component.MovementComponent.Kind(), mv); err != nil {
		return id
	}
	t, ok := ecs.Get(m.w, m.e, component.TransformComponent.Kind())
	if !ok {
		mv.Pending, mv.PendingResult = true, ai.MoveAborted
		return id
	}

	goal := req.Goal
	if req.ProjectGoal {
		if p, ok := s.nav.Project(goal); ok {
			goal = p
		}
	}
	mv.Goal = goal

	path, ok := s.nav.FindPath(t.Position, goal)
	if !ok || len(path.Points) < 2 || (path.Partial && !req.AllowPartial) {
		mv.Pending, mv.PendingResult = true, ai.MoveBlocked
		return id
	}
	mv.Path = path
	mv.Active = true
	if agent, ok := ecs.Get(m.w, m.e, component.AIComponent.Kind()); ok && agent.Controller != nil {
		agent.Controller.Follower().SetMoveSegment(path, 0)
	}
	return id
}

func (m *entityMover) StopMovement() {
	mv, ok := ecs.Get(m.w, m.e, component.MovementComponent.Kind())
	if !ok {
		return
	}
	mv.Active = false
	mv.Pending = false
	if agent, ok := ecs.Get(m.w, m.e, component.AIComponent.Kind()); ok && agent.Controller != nil {
		agent.Controller.Follower().Finish()
	}
}

// groundFollower walks the agent toward the end of its current segment at
// its move speed and faces it along the way.
type groundFollower struct {
	w *ecs.World
	e ecs.Entity
}

func (g *groundFollower) FollowPathSegment(dt float64) {
	mv, ok := ecs.Get(g.w, g.e, component.MovementComponent.Kind())
	if !ok || !mv.Active || mv.Segment+1 >= len(mv.Path.Points) {
		return
	}
	t, ok := ecs.Get(g.w, g.e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	speed := 0.0
	if agent, ok := ecs.Get(g.w, g.e, component.AIComponent.Kind()); ok {
		speed = agent.MoveSpeed
	}

	target := mv.Path.Points[mv.Segment+1].Location
	heading := common.PlanarHeading(t.Position, target)
	if !heading.IsZero() {
		t.Rotation = common.LookAt(heading)
	}
	step := speed * dt
	if common.Distance2D(t.Position, target) <= step {
		t.Position = target
		return
	}
	t.Position = t.Position.Add(heading.Scale(step))
}
