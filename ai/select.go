package ai

import (
	"math"
	"sort"

	"github.com/milk9111/pursuit/common"
)

func (c *Controller) goToBestTarget() {
	switch c.objective {
	case ObjectiveGatherResources:
		c.goToBestResource()
	case ObjectiveChasePlayer:
		c.goToThreat()
	case ObjectiveEscapeThreat:
		c.goToBestFleePoint()
	}
}

func (c *Controller) goToBestResource() {
	reg := c.svc.Registry
	best, ok := SelectResource(c.svc.Pawn.Location(), c.label, reg.EnumerateActors(CategoryResource), c.svc.Nav, reg)
	if !ok {
		// Nothing left to pursue; a stale claim would keep the resource from
		// the other agents.
		if !c.moving {
			c.dropResource()
		}
		return
	}
	if !reg.Claim(best.ID, c.label) {
		c.debugf("lost claim on resource %d", best.ID)
		return
	}
	c.moveToTarget(best.ID, CategoryResource, best.Location)
}

func (c *Controller) goToThreat() {
	threat, ok := c.threatActor()
	if !ok {
		return
	}
	c.moveToTarget(threat.ID, CategoryPlayer, threat.Location)
}

func (c *Controller) goToBestFleePoint() {
	threat, ok := c.threatActor()
	if !ok {
		return
	}
	points := c.svc.Registry.EnumerateActors(CategoryFleePoint)
	best, ok := SelectFleePoint(c.svc.Pawn.Location(), threat.Location, points, c.svc.Nav, c.cfg.FleeMaxThreatAngle)
	if !ok {
		return
	}
	c.moveToTarget(best.ID, CategoryFleePoint, best.Location)
}

// SelectResource returns the resource with the shortest navigation path
// from `from`, skipping resources that are on cooldown, claimed by someone
// other than self, or only partially reachable. Ties keep enumeration order.
func SelectResource(from common.Vec3, self string, resources []Actor, nav NavService, claims Registry) (Actor, bool) {
	var best Actor
	found := false
	minDist := math.MaxFloat64

	for _, r := range resources {
		if !r.Active {
			continue
		}
		if owner := claims.Claimant(r.ID); owner != "" && owner != self {
			continue
		}
		dist, ok := nav.PathLength(from, r.Location)
		if !ok || dist >= minDist {
			continue
		}
		path, ok := nav.FindPath(from, r.Location)
		if !ok || path.Partial {
			continue
		}
		best = r
		minDist = dist
		found = true
	}
	return best, found
}

// SelectFleePoint scans flee points from farthest to nearest (planar
// distance to the threat) and returns the first whose path starts off more
// than maxAngle degrees away from the direction of the threat. Paths with
// fewer than two waypoints are skipped.
//
// Only the first path step is checked; a path may still bend back toward the
// threat later on.
func SelectFleePoint(from, threat common.Vec3, points []Actor, nav NavService, maxAngle float64) (Actor, bool) {
	sorted := append([]Actor(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return common.DistSquared2D(threat, sorted[i].Location) > common.DistSquared2D(threat, sorted[j].Location)
	})

	toThreat := threat.Sub(from)
	for _, p := range sorted {
		path, ok := nav.FindPath(from, p.Location)
		if !ok || path.Len() < 2 {
			continue
		}
		fleeDir := path.Points[1].Location.Sub(from)
		if common.AngleDegrees(fleeDir, toThreat) > maxAngle {
			return p, true
		}
	}
	return Actor{}, false
}
