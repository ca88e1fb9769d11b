package ai

import (
	"errors"

	"github.com/milk9111/pursuit/common"
)

var (
	ErrNilNav      = errors.New("ai: nav service is nil")
	ErrNilSensor   = errors.New("ai: sensor is nil")
	ErrNilRegistry = errors.New("ai: registry is nil")
	ErrNilMover    = errors.New("ai: mover is nil")
)

// NavService answers synchronous pathfinding queries.
type NavService interface {
	// FindPath returns false when no path at all could be built.
	FindPath(from, to common.Vec3) (Path, bool)
	PathLength(from, to common.Vec3) (float64, bool)
}

// Sensor answers scene queries.
type Sensor interface {
	// LineOfSight reports whether the segment from -> to is unobstructed.
	LineOfSight(from, to common.Vec3) bool
	SweepDetect(volume Capsule) []Hit
}

// Registry enumerates actors and guards resource claims.
//
// Claims are best effort: a controller reads Claimant while scanning and
// calls Claim for the winner afterwards. Claim must fail when another
// claimant already holds the resource, so the first claimer in tick order
// wins, but nothing serializes the read against the claim.
type Registry interface {
	EnumerateActors(c Category) []Actor
	IsPoweredUp(player ActorID) bool
	Claimant(resource ActorID) string
	// Claim succeeds when the resource is unclaimed or already held by
	// claimant.
	Claim(resource ActorID, claimant string) bool
	// Release clears the claim only when claimant holds it.
	Release(resource ActorID, claimant string)
}

// Mover executes move requests. Completion is reported back through
// Controller.OnMoveCompleted.
type Mover interface {
	RequestMove(req MoveRequest) RequestID
	StopMovement()
}

// Pawn is the controlled body.
type Pawn interface {
	Location() common.Vec3
	Forward() common.Vec3
	SetLocomotionMode(m LocomotionMode)
	SetPosition(p common.Vec3)
	SetOrientation(q common.Quat)
}

// SegmentFollower is the standard per-tick path follower the jump follower
// falls back to on ordinary segments.
type SegmentFollower interface {
	FollowPathSegment(dt float64)
}

// Services bundles the collaborators of a Controller. Pawn may be nil while
// the body is not spawned; the controller then skips its ticks.
type Services struct {
	Nav      NavService
	Sensor   Sensor
	Registry Registry
	Mover    Mover
	Pawn     Pawn
}

func (s Services) validate() error {
	switch {
	case s.Nav == nil:
		return ErrNilNav
	case s.Sensor == nil:
		return ErrNilSensor
	case s.Registry == nil:
		return ErrNilRegistry
	case s.Mover == nil:
		return ErrNilMover
	}
	return nil
}
