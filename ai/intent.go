package ai

import "github.com/milk9111/pursuit/common"

// moveToTarget issues one move request toward dest and records the target.
// A request for the target and destination already in flight is not
// reissued.
func (c *Controller) moveToTarget(id ActorID, cat Category, dest common.Vec3) {
	if c.moving && c.target == id && c.targetCategory == cat && c.targetDest == dest {
		c.reachedTarget = false
		return
	}
	if c.target != id || c.targetCategory != cat {
		c.releaseTarget()
	}

	c.request = c.svc.Mover.RequestMove(MoveRequest{
		Goal:              dest,
		AcceptAnyDistance: true,
		ProjectGoal:       true,
	})
	c.moving = true
	c.reachedTarget = false
	c.target = id
	c.targetCategory = cat
	c.targetDest = dest
	c.debugf("move %d to %s %d at (%.0f, %.0f)", c.request, cat, id, dest.X, dest.Y)
}
