package ai

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/milk9111/pursuit/common"
)

// Controller is the decision core of one agent. It is not safe for
// concurrent use; the owning scheduler calls Update and the movement
// callbacks from a single goroutine.
type Controller struct {
	label string
	cfg   Config
	svc   Services
	curve Curve

	objective Objective
	threat    ActorID

	target         ActorID
	targetCategory Category
	targetDest     common.Vec3
	reachedTarget  bool

	request RequestID
	moving  bool

	jump     JumpState
	follower PathFollower
}

// NewController builds a controller that starts out gathering. An empty
// label is replaced by a random UUID; the label is the claimant value
// written on resources.
func NewController(label string, svc Services, cfg Config) (*Controller, error) {
	if err := svc.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if label == "" {
		label = uuid.New().String()
	}
	c := &Controller{
		label:         label,
		cfg:           cfg,
		svc:           svc,
		curve:         ParabolaCurve,
		objective:     ObjectiveGatherResources,
		reachedTarget: true,
	}
	c.follower.ctrl = c
	return c, nil
}

// Label is the claimant value this controller writes on resources.
func (c *Controller) Label() string { return c.label }

func (c *Controller) Config() Config { return c.cfg }

// Objective is the current objective. It changes only inside Update.
func (c *Controller) Objective() Objective { return c.objective }

// Threat is the last player seen, or zero.
func (c *Controller) Threat() ActorID { return c.threat }

// Target is the actor the agent is moving to, or zero.
func (c *Controller) Target() ActorID { return c.target }

// TargetReached reports whether the last move finished or was interrupted,
// so the next Update selects a new target.
func (c *Controller) TargetReached() bool { return c.reachedTarget }

func (c *Controller) Jump() JumpState { return c.jump }

// Follower is the path-segment follower the movement layer drives.
func (c *Controller) Follower() *PathFollower { return &c.follower }

// SetConfig swaps tuning between ticks. A jump in flight keeps its duration.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// SetJumpCurve replaces the jump height curve. Nil restores the parabola.
func (c *Controller) SetJumpCurve(curve Curve) {
	if curve == nil {
		curve = ParabolaCurve
	}
	c.curve = curve
}

// SetPawn attaches or detaches the controlled body.
func (c *Controller) SetPawn(p Pawn) {
	c.svc.Pawn = p
}

// Update runs perception and decision for one tick. The tick is skipped
// while a jump is in progress, while no pawn is attached, or while no player
// exists in the registry.
func (c *Controller) Update(dt float64) {
	if c.jump.InJump {
		return
	}
	pawn := c.svc.Pawn
	if pawn == nil {
		return
	}
	if len(c.svc.Registry.EnumerateActors(CategoryPlayer)) == 0 {
		return
	}

	capsule := DetectionCapsule(pawn.Location(), pawn.Forward(), c.cfg.Detection)
	hit := HighestPriorityHit(c.svc.Sensor.SweepDetect(capsule))
	c.UpdateBehavior(hit)

	if c.reachedTarget {
		c.goToBestTarget()
	}
}

// OnMoveCompleted is the completion callback of the movement layer. Results
// for requests other than the current one are ignored.
func (c *Controller) OnMoveCompleted(id RequestID, result MoveResult) {
	if !c.moving || id != c.request {
		return
	}
	c.moving = false
	c.reachedTarget = true
	c.debugf("move %d %s", id, result)
}

// Interrupt cancels the in-flight move and forces re-selection next tick.
func (c *Controller) Interrupt() {
	c.svc.Mover.StopMovement()
	c.moving = false
	c.reachedTarget = true
}

// Release drops the resource claim held by this controller. Call it when the
// pawn is destroyed.
func (c *Controller) Release() {
	c.releaseTarget()
	c.target = 0
	c.targetCategory = CategoryNone
	c.moving = false
	c.reachedTarget = true
	c.follower.Finish()
}

// dropResource releases and forgets the current target if it is a resource.
func (c *Controller) dropResource() {
	if c.targetCategory != CategoryResource {
		return
	}
	c.releaseTarget()
	c.target = 0
	c.targetCategory = CategoryNone
}

func (c *Controller) releaseTarget() {
	if c.target != 0 && c.targetCategory == CategoryResource {
		c.svc.Registry.Release(c.target, c.label)
	}
}

// threatActor looks the current threat up in the registry.
func (c *Controller) threatActor() (Actor, bool) {
	if c.threat == 0 {
		return Actor{}, false
	}
	for _, a := range c.svc.Registry.EnumerateActors(CategoryPlayer) {
		if a.ID == c.threat {
			return a, true
		}
	}
	return Actor{}, false
}

func (c *Controller) debugf(format string, args ...any) {
	if !c.cfg.Debug {
		return
	}
	log.Printf("ai: agent=%s %s", c.label, fmt.Sprintf(format, args...))
}
