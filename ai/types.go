// Package ai drives non-player pursuit agents: it senses the arena each tick,
// picks between gathering resources, chasing an unpowered player and fleeing
// a powered one, requests movement toward the chosen target, and overrides
// locomotion with an arc trajectory on jump navigation links.
//
// Everything outside the agent is reached through the interfaces in
// services.go, so a Controller can be driven by a real world or by fakes.
package ai

import (
	"github.com/milk9111/pursuit/common"
)

// Objective is the agent's top-level goal.
type Objective uint8

const (
	ObjectiveNone Objective = iota
	ObjectiveGatherResources
	ObjectiveChasePlayer
	ObjectiveEscapeThreat
)

func (o Objective) String() string {
	switch o {
	case ObjectiveGatherResources:
		return "gather"
	case ObjectiveChasePlayer:
		return "chase"
	case ObjectiveEscapeThreat:
		return "escape"
	default:
		return "none"
	}
}

// Category tags every actor the registry knows about.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryResource
	CategoryPlayer
	CategoryFleePoint
)

func (c Category) String() string {
	switch c {
	case CategoryResource:
		return "resource"
	case CategoryPlayer:
		return "player"
	case CategoryFleePoint:
		return "flee_point"
	default:
		return "none"
	}
}

// ActorID is a non-owning reference to a registry actor. Zero means none.
type ActorID uint64

// Actor is a snapshot of a registry actor taken during enumeration.
type Actor struct {
	ID       ActorID
	Category Category
	Location common.Vec3
	// Active is false while a resource is on collect cooldown.
	Active bool
}

// Hit is one actor overlapping the sensing volume.
type Hit struct {
	Actor    ActorID
	Category Category
	Location common.Vec3
}

// HitKind classifies the highest-priority detection of a tick.
type HitKind uint8

const (
	HitNone HitKind = iota
	HitResource
	HitPlayer
)

// DetectionHit is the single hit the objective machine reacts to.
type DetectionHit struct {
	Kind     HitKind
	Actor    ActorID
	Location common.Vec3
}

// Waypoint is one point of a navigation path. Jump marks the start of a jump
// link: the segment from this waypoint to the next is an arc, not a walk.
type Waypoint struct {
	Location common.Vec3
	Jump     bool
}

// Path is an ordered waypoint sequence. Partial paths stop short of the goal.
type Path struct {
	Points  []Waypoint
	Partial bool
}

// Len returns the number of waypoints.
func (p Path) Len() int {
	return len(p.Points)
}

// Length is the polyline length through every waypoint.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i].Location.Sub(p.Points[i-1].Location).Length()
	}
	return total
}

// LocomotionMode is the physical movement mode of the pawn.
type LocomotionMode uint8

const (
	LocomotionWalking LocomotionMode = iota
	LocomotionFlying
)

func (m LocomotionMode) String() string {
	if m == LocomotionFlying {
		return "flying"
	}
	return "walking"
}

// Capsule is the swept sensing volume in front of the pawn.
type Capsule struct {
	Start  common.Vec3
	End    common.Vec3
	Radius float64
}

// Center returns the midpoint of the capsule axis.
func (c Capsule) Center() common.Vec3 {
	return c.Start.Add(c.End).Scale(0.5)
}

// RequestID identifies a move request issued through a Mover.
type RequestID uint64

// MoveRequest asks the movement layer to walk to Goal.
type MoveRequest struct {
	Goal common.Vec3
	// AcceptAnyDistance disables the minimum stopping distance: the move
	// completes as soon as the pawn overlaps the goal.
	AcceptAnyDistance bool
	// ProjectGoal lets the movement layer snap Goal to the nearest
	// navigable point instead of failing on an off-mesh goal.
	ProjectGoal  bool
	AllowPartial bool
}

// MoveResult reports how a move request ended.
type MoveResult uint8

const (
	MoveSucceeded MoveResult = iota
	MoveAborted
	MoveBlocked
)

func (r MoveResult) String() string {
	switch r {
	case MoveAborted:
		return "aborted"
	case MoveBlocked:
		return "blocked"
	default:
		return "succeeded"
	}
}

// JumpState tracks an arc jump in progress.
type JumpState struct {
	InJump   bool
	Elapsed  float64
	Duration float64
	Start    common.Vec3
	Heading  common.Vec3
	// Progress is Elapsed/Duration clamped to [0, 1].
	Progress float64
}
