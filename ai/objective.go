package ai

// UpdateBehavior advances the objective machine from this tick's detection.
//
// A visible powered player makes the agent escape; if it already is
// escaping, the target is marked reached so a new flee point is chosen. A
// visible unpowered player is chased. Without a visible player the agent
// goes back to gathering once its current target is reached. Any change of
// objective interrupts the in-flight move, and leaving gathering drops the
// resource claim.
func (c *Controller) UpdateBehavior(hit DetectionHit) {
	prev := c.objective
	sawPlayer := false

	if hit.Kind == HitPlayer && c.svc.Pawn != nil && c.svc.Sensor.LineOfSight(c.svc.Pawn.Location(), hit.Location) {
		sawPlayer = true
		if c.svc.Registry.IsPoweredUp(hit.Actor) {
			if c.objective == ObjectiveEscapeThreat {
				c.reachedTarget = true
			} else {
				c.objective = ObjectiveEscapeThreat
			}
		} else {
			c.reachedTarget = true
			c.objective = ObjectiveChasePlayer
		}
		c.threat = hit.Actor
	}

	if !sawPlayer && c.reachedTarget {
		c.objective = ObjectiveGatherResources
	}

	if c.objective != prev {
		c.debugf("objective %s -> %s", prev, c.objective)
		if prev == ObjectiveGatherResources {
			c.dropResource()
		}
		c.Interrupt()
	}
}
