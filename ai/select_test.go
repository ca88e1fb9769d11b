package ai

import (
	"testing"

	"github.com/milk9111/pursuit/common"
)

func resource(id ActorID, x, y float64) Actor {
	return Actor{ID: id, Category: CategoryResource, Location: common.V3(x, y, 0), Active: true}
}

func fleePoint(id ActorID, x, y float64) Actor {
	return Actor{ID: id, Category: CategoryFleePoint, Location: common.V3(x, y, 0), Active: true}
}

func TestSelectResource(t *testing.T) {
	origin := common.V3(0, 0, 0)

	tests := []struct {
		name      string
		resources []Actor
		setup     func(nav *fakeNav, reg *fakeRegistry)
		wantID    ActorID
		wantOK    bool
	}{
		{
			name:      "nearest_wins",
			resources: []Actor{resource(1, 500, 0), resource(2, 200, 0), resource(3, 300, 0)},
			wantID:    2, wantOK: true,
		},
		{
			name:      "tie_keeps_first",
			resources: []Actor{resource(1, 0, 200), resource(2, 200, 0)},
			wantID:    1, wantOK: true,
		},
		{
			name:      "partial_path_excluded",
			resources: []Actor{resource(1, 100, 0), resource(2, 900, 0)},
			setup: func(nav *fakeNav, _ *fakeRegistry) {
				nav.set(common.V3(100, 0, 0), Path{
					Points:  []Waypoint{{Location: common.V3(0, 0, 0)}, {Location: common.V3(50, 0, 0)}},
					Partial: true,
				}, true)
			},
			wantID: 2, wantOK: true,
		},
		{
			name:      "unreachable_excluded",
			resources: []Actor{resource(1, 100, 0)},
			setup: func(nav *fakeNav, _ *fakeRegistry) {
				nav.set(common.V3(100, 0, 0), Path{}, false)
			},
			wantOK: false,
		},
		{
			name:      "inactive_excluded",
			resources: []Actor{{ID: 1, Category: CategoryResource, Location: common.V3(100, 0, 0)}, resource(2, 400, 0)},
			wantID:    2, wantOK: true,
		},
		{
			name:      "claimed_by_other_excluded",
			resources: []Actor{resource(1, 100, 0), resource(2, 400, 0)},
			setup:     func(_ *fakeNav, reg *fakeRegistry) { reg.claims[1] = "other" },
			wantID:    2, wantOK: true,
		},
		{
			name:      "own_claim_allowed",
			resources: []Actor{resource(1, 100, 0), resource(2, 400, 0)},
			setup:     func(_ *fakeNav, reg *fakeRegistry) { reg.claims[1] = "self" },
			wantID:    1, wantOK: true,
		},
		{
			name:   "empty",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nav := newFakeNav()
			reg := newFakeRegistry()
			if tc.setup != nil {
				tc.setup(nav, reg)
			}
			got, ok := SelectResource(origin, "self", tc.resources, nav, reg)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if ok && got.ID != tc.wantID {
				t.Fatalf("expected resource %d, got %d", tc.wantID, got.ID)
			}
		})
	}
}

func TestSelectResourceNeverPartial(t *testing.T) {
	nav := newFakeNav()
	reg := newFakeRegistry()
	var resources []Actor
	for i := 1; i <= 20; i++ {
		r := resource(ActorID(i), float64(i*37%11)*100, float64(i*13%7)*100)
		resources = append(resources, r)
		if i%3 != 0 {
			nav.set(r.Location, Path{
				Points:  []Waypoint{{Location: common.V3(0, 0, 0)}, {Location: r.Location.Scale(0.5)}},
				Partial: true,
			}, true)
		}
	}

	got, ok := SelectResource(common.V3(0, 0, 0), "self", resources, nav, reg)
	if !ok {
		t.Fatal("expected a fully reachable resource")
	}
	if got.ID%3 != 0 {
		t.Fatalf("selected resource %d has a partial path", got.ID)
	}
}

func TestSelectFleePoint(t *testing.T) {
	pawn := common.V3(0, 0, 0)
	threat := common.V3(100, 0, 0)

	tests := []struct {
		name   string
		points []Actor
		setup  func(nav *fakeNav)
		wantID ActorID
		wantOK bool
	}{
		{
			name:   "farthest_safe_wins",
			points: []Actor{fleePoint(1, -500, 0), fleePoint(2, 300, 800)},
			wantID: 2, wantOK: true,
		},
		{
			name:   "toward_threat_rejected",
			points: []Actor{fleePoint(1, 1500, 0), fleePoint(2, -500, 0)},
			wantID: 2, wantOK: true,
		},
		{
			name:   "first_step_decides",
			points: []Actor{fleePoint(1, 1500, 0), fleePoint(2, -300, 0)},
			setup: func(nav *fakeNav) {
				// Starts away from the threat and then doubles back past it.
				nav.set(common.V3(1500, 0, 0), Path{Points: []Waypoint{
					{Location: pawn},
					{Location: common.V3(0, -400, 0)},
					{Location: common.V3(1500, 0, 0)},
				}}, true)
			},
			wantID: 1, wantOK: true,
		},
		{
			name:   "single_waypoint_skipped",
			points: []Actor{fleePoint(1, -2000, 0), fleePoint(2, -500, 0)},
			setup: func(nav *fakeNav) {
				nav.set(common.V3(-2000, 0, 0), Path{Points: []Waypoint{{Location: pawn}}}, true)
			},
			wantID: 2, wantOK: true,
		},
		{
			name:   "unreachable_skipped",
			points: []Actor{fleePoint(1, -2000, 0), fleePoint(2, -500, 0)},
			setup: func(nav *fakeNav) {
				nav.set(common.V3(-2000, 0, 0), Path{}, false)
			},
			wantID: 2, wantOK: true,
		},
		{
			name:   "all_toward_threat",
			points: []Actor{fleePoint(1, 900, 100), fleePoint(2, 400, -50)},
			wantOK: false,
		},
		{
			name:   "none",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nav := newFakeNav()
			if tc.setup != nil {
				tc.setup(nav)
			}
			got, ok := SelectFleePoint(pawn, threat, tc.points, nav, 45)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if ok && got.ID != tc.wantID {
				t.Fatalf("expected flee point %d, got %d", tc.wantID, got.ID)
			}
		})
	}
}

func TestSelectFleePointKeepsInput(t *testing.T) {
	points := []Actor{fleePoint(1, -100, 0), fleePoint(2, -900, 0)}
	if _, ok := SelectFleePoint(common.V3(0, 0, 0), common.V3(100, 0, 0), points, newFakeNav(), 45); !ok {
		t.Fatal("expected a flee point")
	}
	if points[0].ID != 1 || points[1].ID != 2 {
		t.Fatalf("input reordered: %+v", points)
	}
}

func TestClaimExclusivity(t *testing.T) {
	reg := newFakeRegistry()
	reg.add(Actor{ID: playerID, Category: CategoryPlayer, Location: common.V3(-5000, 0, 0), Active: true})
	reg.add(resource(1, 300, 0))

	a := newRig(t, "a", reg)
	b := newRig(t, "b", reg)
	b.pawn.loc = common.V3(100, 0, 0)

	a.ctrl.Update(0.1)
	b.ctrl.Update(0.1)

	if got := reg.Claimant(1); got != "a" {
		t.Fatalf("expected a to hold the claim, got %q", got)
	}
	if len(a.mover.requests) != 1 {
		t.Fatalf("expected one request from a, got %d", len(a.mover.requests))
	}
	if len(b.mover.requests) != 0 {
		t.Fatalf("expected b to find nothing, got %d requests", len(b.mover.requests))
	}
	if reg.Claim(1, "b") {
		t.Fatal("claim by b should fail while a holds it")
	}

	// a is destroyed; b picks the resource up on its next tick.
	a.ctrl.Release()
	if got := reg.Claimant(1); got != "" {
		t.Fatalf("expected claim released, got %q", got)
	}
	b.ctrl.Update(0.1)
	if got := reg.Claimant(1); got != "b" {
		t.Fatalf("expected b to claim after release, got %q", got)
	}
}

func TestClaimReleasedOnReplace(t *testing.T) {
	r := newRig(t, "agent", nil)
	r.reg.add(resource(1, 300, 0))

	r.ctrl.Update(0.1)
	if r.reg.Claimant(1) != "agent" {
		t.Fatalf("expected claim on resource 1, got %q", r.reg.Claimant(1))
	}

	r.seePlayer(false)
	r.ctrl.Update(0.1)
	if r.ctrl.Objective() != ObjectiveChasePlayer {
		t.Fatalf("expected chase, got %s", r.ctrl.Objective())
	}
	if r.ctrl.Target() != playerID {
		t.Fatalf("expected player target, got %d", r.ctrl.Target())
	}
	if got := r.reg.Claimant(1); got != "" {
		t.Fatalf("expected resource released, got %q", got)
	}
}

func TestClaimReleasedOnAbandon(t *testing.T) {
	r := newRig(t, "agent", nil)
	r.reg.add(resource(1, 300, 0))

	r.ctrl.Update(0.1)
	r.complete()

	// The resource went on cooldown when collected.
	r.reg.actors[CategoryResource][0].Active = false
	r.ctrl.Update(0.1)

	if got := r.reg.Claimant(1); got != "" {
		t.Fatalf("expected claim dropped, got %q", got)
	}
	if r.ctrl.Target() != 0 {
		t.Fatalf("expected no target, got %d", r.ctrl.Target())
	}
}

func TestClaimReleasedOnEscapeWithoutFleePoint(t *testing.T) {
	reg := newFakeRegistry()
	reg.add(Actor{ID: playerID, Category: CategoryPlayer, Location: common.V3(-5000, 0, 0), Active: true})
	reg.add(resource(1, 300, 0))
	a := newRig(t, "a", reg)

	a.ctrl.Update(0.1)
	if got := reg.Claimant(1); got != "a" {
		t.Fatalf("expected claim on resource 1, got %q", got)
	}

	a.seePlayer(true)
	a.ctrl.Update(0.1)
	a.ctrl.Update(0.1)
	if a.ctrl.Objective() != ObjectiveEscapeThreat {
		t.Fatalf("expected escape, got %s", a.ctrl.Objective())
	}
	if got := reg.Claimant(1); got != "" {
		t.Fatalf("expected the abandoned resource released, got %q", got)
	}
	if a.ctrl.Target() != 0 {
		t.Fatalf("expected no target without a flee point, got %d", a.ctrl.Target())
	}

	b := newRig(t, "b", reg)
	b.ctrl.Update(0.1)
	if got := reg.Claimant(1); got != "b" || len(b.mover.requests) != 1 {
		t.Fatalf("expected b to take the resource, claimant=%q requests=%d", got, len(b.mover.requests))
	}
}

func TestDecisionIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *rig)
	}{
		{"gather", func(r *rig) { r.reg.add(resource(1, 300, 0)) }},
		{"chase", func(r *rig) { r.seePlayer(false) }},
		{"escape", func(r *rig) {
			r.reg.add(fleePoint(5, 5000, 0))
			r.seePlayer(true)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, "agent", nil)
			tc.setup(r)

			r.ctrl.Update(0)
			requests, stops := len(r.mover.requests), r.mover.stops
			claims := len(r.reg.claims)
			target, objective := r.ctrl.Target(), r.ctrl.Objective()

			r.ctrl.Update(0)

			if len(r.mover.requests) != requests {
				t.Fatalf("expected %d requests, got %d", requests, len(r.mover.requests))
			}
			if requests != 1 {
				t.Fatalf("expected a single request, got %d", requests)
			}
			if r.mover.stops != stops {
				t.Fatalf("expected %d stops, got %d", stops, r.mover.stops)
			}
			if len(r.reg.claims) != claims || r.ctrl.Target() != target || r.ctrl.Objective() != objective {
				t.Fatalf("state changed on repeat: claims %d->%d target %d->%d objective %s->%s",
					claims, len(r.reg.claims), target, r.ctrl.Target(), objective, r.ctrl.Objective())
			}
		})
	}
}

func TestStaleMoveCompletionIgnored(t *testing.T) {
	r := newRig(t, "agent", nil)
	r.reg.add(resource(1, 300, 0))

	r.ctrl.Update(0.1)
	first := r.mover.next

	r.seePlayer(false)
	r.ctrl.Update(0.1)
	if r.mover.next == first {
		t.Fatal("expected a new request for the chase")
	}

	r.ctrl.OnMoveCompleted(first, MoveAborted)
	if r.ctrl.TargetReached() {
		t.Fatal("stale completion should not mark the target reached")
	}

	r.complete()
	if !r.ctrl.TargetReached() {
		t.Fatal("current completion should mark the target reached")
	}
}

func TestMoveRequestShape(t *testing.T) {
	r := newRig(t, "agent", nil)
	r.reg.add(resource(1, 300, 40))

	r.ctrl.Update(0.1)

	if len(r.mover.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(r.mover.requests))
	}
	req := r.mover.requests[0]
	if req.Goal != common.V3(300, 40, 0) || !req.AcceptAnyDistance || !req.ProjectGoal || req.AllowPartial {
		t.Fatalf("unexpected request %+v", req)
	}
	if r.ctrl.TargetReached() {
		t.Fatal("expected target unreached after issuing a move")
	}
}
