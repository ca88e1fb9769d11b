package ai

import "github.com/milk9111/pursuit/common"

// PathFollower overrides locomotion on jump segments. The movement layer
// calls SetMoveSegment whenever the active segment changes and
// FollowPathSegment every tick; segments that are not jumps go to the
// fallback follower.
//
// A segment starting at index i runs from path.Points[i] to path.Points[i+1].
type PathFollower struct {
	ctrl     *Controller
	fallback SegmentFollower
	end      common.Vec3
}

// SetFallback sets the follower used for ground segments.
func (f *PathFollower) SetFallback(s SegmentFollower) {
	f.fallback = s
}

// Jumping reports whether a jump arc is in progress.
func (f *PathFollower) Jumping() bool {
	return f.ctrl.jump.InJump
}

// SetMoveSegment is called when the path advances to the segment starting at
// start.
func (f *PathFollower) SetMoveSegment(path Path, start int) {
	c := f.ctrl
	pawn := c.svc.Pawn
	if pawn == nil {
		return
	}

	end, ok := jumpSegment(path, start)
	if !ok {
		if c.jump.InJump {
			c.debugf("jump landed")
		}
		pawn.SetLocomotionMode(LocomotionWalking)
		c.jump.InJump = false
		return
	}

	from := pawn.Location()
	heading := common.PlanarHeading(path.Points[start].Location, end)
	pawn.SetLocomotionMode(LocomotionFlying)
	pawn.SetOrientation(common.LookAt(heading))

	f.end = end
	c.jump = JumpState{
		InJump:   true,
		Duration: c.cfg.Jump.EffectiveDuration(),
		Start:    from,
		Heading:  heading,
	}
	c.debugf("jump from (%.0f, %.0f) to (%.0f, %.0f)", from.X, from.Y, end.X, end.Y)
}

// FollowPathSegment advances the pawn along the segment starting at start.
func (f *PathFollower) FollowPathSegment(path Path, start int, dt float64) {
	c := f.ctrl
	pawn := c.svc.Pawn
	if pawn == nil {
		return
	}
	if _, ok := jumpSegment(path, start); !ok || !c.jump.InJump {
		if f.fallback != nil {
			f.fallback.FollowPathSegment(dt)
		}
		return
	}

	c.jump.Elapsed += dt
	if c.jump.Duration > 0 {
		c.jump.Progress = common.Clamp01(c.jump.Elapsed / c.jump.Duration)
	} else {
		c.jump.Progress = 1
	}
	pawn.SetPosition(JumpPosition(c.jump.Start, f.end, c.jump.Progress, c.curve, c.cfg.Jump.ApexHeight))
}

// Finish is called when the path ends or is aborted.
func (f *PathFollower) Finish() {
	c := f.ctrl
	c.jump.InJump = false
	if c.svc.Pawn != nil {
		c.svc.Pawn.SetLocomotionMode(LocomotionWalking)
	}
}

// jumpSegment returns the end of the segment starting at start when that
// segment is a jump link. A jump flag on the final waypoint has no segment.
func jumpSegment(path Path, start int) (common.Vec3, bool) {
	if start < 0 || start+1 >= len(path.Points) {
		return common.Vec3{}, false
	}
	if !path.Points[start].Jump {
		return common.Vec3{}, false
	}
	return path.Points[start+1].Location, true
}

// JumpPosition samples the arc from start toward end: the ground position is
// interpolated by progress and the height rises apex*curve(progress) above
// the start.
func JumpPosition(start, end common.Vec3, progress float64, curve Curve, apex float64) common.Vec3 {
	t := common.Clamp01(progress)
	ground := start.Planar().Lerp(end.Planar(), t)
	return common.FromPlanar(ground, start.Z+apex*curve.Value(t))
}
