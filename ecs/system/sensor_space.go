package system

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const (
	categoryWall uint = 1 << iota
	categoryPickup
	categoryPlayer
)

var (
	wallFilter  = cp.NewShapeFilter(cp.NO_GROUP, categoryWall, cp.ALL_CATEGORIES)
	sightFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryWall)
	sweepFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryPickup|categoryPlayer)
)

// SensorSpace answers line-of-sight and sweep queries against a Chipmunk
// space. Walls are static boxes; pickups and players are circles on
// kinematic bodies that Update re-syncs from their transforms each tick.
type SensorSpace struct {
	space  *cp.Space
	actors map[*cp.Shape]sensorActor
}

type sensorActor struct {
	id       ai.ActorID
	category ai.Category
	filter   cp.ShapeFilter
	radius   float64
}

func NewSensorSpace() *SensorSpace {
	return &SensorSpace{
		space:  cp.NewSpace(),
		actors: make(map[*cp.Shape]sensorActor),
	}
}

// AddWall adds a sight-blocking box spanning lo -> hi on the ground plane.
func (s *SensorSpace) AddWall(lo, hi cp.Vector) {
	bb := cp.BB{L: lo.X, B: lo.Y, R: hi.X, T: hi.Y}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFilter(wallFilter)
	s.space.AddShape(shape)
}

// Attach creates the sensing body for e. Only resources and players are
// sensed.
func (s *SensorSpace) Attach(w *ecs.World, e ecs.Entity, cat ai.Category, radius float64) error {
	var filter cp.ShapeFilter
	switch cat {
	case ai.CategoryResource:
		filter = cp.NewShapeFilter(cp.NO_GROUP, categoryPickup, cp.ALL_CATEGORIES)
	case ai.CategoryPlayer:
		filter = cp.NewShapeFilter(cp.NO_GROUP, categoryPlayer, cp.ALL_CATEGORIES)
	default:
		return fmt.Errorf("sensor: category %s is not sensed", cat)
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("sensor: entity %s has no transform", e)
	}

	body := s.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(t.Position.Planar())
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(filter)
	shape.UserData = e
	s.space.AddShape(shape)
	s.actors[shape] = sensorActor{id: ai.ActorID(e), category: cat, filter: filter, radius: radius}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:   body,
		Shape:  shape,
		Radius: radius,
	})
}

// Detach removes the sensing body of e, if any.
func (s *SensorSpace) Detach(w *ecs.World, e ecs.Entity) {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	delete(s.actors, pb.Shape)
	s.space.RemoveShape(pb.Shape)
	s.space.RemoveBody(pb.Body)
	ecs.Remove(w, e, component.PhysicsBodyComponent.Kind())
}

// Update moves every sensing body to its transform and hides pickups that
// are on cooldown.
func (s *SensorSpace) Update(w *ecs.World, _ float64) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil || pb.Shape == nil {
			return
		}
		actor := s.actors[pb.Shape]
		filter := actor.filter
		if ecs.Has(w, e, component.CooldownComponent.Kind()) {
			filter = cp.NewShapeFilter(cp.NO_GROUP, 0, 0)
		}
		pb.Shape.SetFilter(filter)
		pb.Body.SetPosition(t.Position.Planar())
		s.space.ReindexShapesForBody(pb.Body)
	})
}

func (s *SensorSpace) LineOfSight(from, to common.Vec3) bool {
	a, b := from.Planar(), to.Planar()
	if a.DistanceSq(b) == 0 {
		return true
	}
	info := s.space.SegmentQueryFirst(a, b, 0, sightFilter)
	return info.Shape == nil
}

// SweepDetect returns the sensed actors whose circle overlaps the capsule,
// nearest to the capsule start first. The space index does the broad phase;
// each candidate is then tested against the capsule axis, so actors already
// inside the capsule at its start are reported too.
func (s *SensorSpace) SweepDetect(volume ai.Capsule) []ai.Hit {
	a, b := volume.Start.Planar(), volume.End.Planar()
	r := volume.Radius
	bb := cp.BB{
		L: min(a.X, b.X) - r,
		B: min(a.Y, b.Y) - r,
		R: max(a.X, b.X) + r,
		T: max(a.Y, b.Y) + r,
	}

	type found struct {
		hit   ai.Hit
		alpha float64
	}
	var hits []found
	s.space.BBQuery(bb, sweepFilter, func(shape *cp.Shape, _ interface{}) {
		actor, ok := s.actors[shape]
		if !ok {
			return
		}
		pos := shape.Body().Position()
		alpha := segmentAlpha(a, b, pos)
		closest := a.Lerp(b, alpha)
		if closest.DistanceSq(pos) > (r+actor.radius)*(r+actor.radius) {
			return
		}
		hits = append(hits, found{
			hit:   ai.Hit{Actor: actor.id, Category: actor.category, Location: common.FromPlanar(pos, 0)},
			alpha: alpha,
		})
	}, nil)

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].alpha != hits[j].alpha {
			return hits[i].alpha < hits[j].alpha
		}
		return hits[i].hit.Actor < hits[j].hit.Actor
	})
	out := make([]ai.Hit, len(hits))
	for i, h := range hits {
		out[i] = h.hit
	}
	return out
}

// segmentAlpha is the clamped parameter of the point on a -> b closest to p.
func segmentAlpha(a, b, p cp.Vector) float64 {
	ab := b.Sub(a)
	l := ab.LengthSq()
	if l == 0 {
		return 0
	}
	return common.Clamp01(p.Sub(a).Dot(ab) / l)
}
