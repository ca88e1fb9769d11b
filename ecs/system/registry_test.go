package system

import (
	"testing"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

func TestWorldRegistryEnumerate(t *testing.T) {
	a := newTestArena(t, ".....")
	p1 := a.addPickup(t, 1, 0)
	p2 := a.addPickup(t, 2, 0)
	player := a.addPlayer(t, 3, 0, true)
	flee := a.addFleePoint(t, 4, 0)
	if err := ecs.Add(a.w, p2, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: 5}); err != nil {
		t.Fatal(err)
	}

	res := a.registry.EnumerateActors(ai.CategoryResource)
	if len(res) != 2 || res[0].ID != ai.ActorID(p1) || !res[0].Active || res[1].Active {
		t.Fatalf("unexpected resources %+v", res)
	}
	if res[1].Location != a.center(2, 0) {
		t.Fatalf("expected location %v, got %v", a.center(2, 0), res[1].Location)
	}
	players := a.registry.EnumerateActors(ai.CategoryPlayer)
	if len(players) != 1 || players[0].ID != ai.ActorID(player) {
		t.Fatalf("unexpected players %+v", players)
	}
	points := a.registry.EnumerateActors(ai.CategoryFleePoint)
	if len(points) != 1 || points[0].ID != ai.ActorID(flee) {
		t.Fatalf("unexpected flee points %+v", points)
	}
	if got := a.registry.EnumerateActors(ai.CategoryNone); len(got) != 0 {
		t.Fatalf("expected nothing for CategoryNone, got %+v", got)
	}

	if !a.registry.IsPoweredUp(ai.ActorID(player)) {
		t.Fatal("expected powered player")
	}
	if a.registry.IsPoweredUp(ai.ActorID(p1)) {
		t.Fatal("a pickup is never powered")
	}
}

func TestWorldRegistryClaims(t *testing.T) {
	a := newTestArena(t, "...")
	p := a.addPickup(t, 1, 0)
	id := ai.ActorID(p)

	steps := []struct {
		name     string
		run      func() bool
		want     bool
		claimant string
	}{
		{name: "first_claim", run: func() bool { return a.registry.Claim(id, "a") }, want: true, claimant: "a"},
		{name: "reclaim_by_holder", run: func() bool { return a.registry.Claim(id, "a") }, want: true, claimant: "a"},
		{name: "claim_by_other_fails", run: func() bool { return a.registry.Claim(id, "b") }, want: false, claimant: "a"},
		{name: "release_by_other_ignored", run: func() bool { a.registry.Release(id, "b"); return true }, want: true, claimant: "a"},
		{name: "release_by_holder", run: func() bool { a.registry.Release(id, "a"); return true }, want: true, claimant: ""},
		{name: "other_claims_after_release", run: func() bool { return a.registry.Claim(id, "b") }, want: true, claimant: "b"},
		{name: "empty_claimant_rejected", run: func() bool { return a.registry.Claim(id, "") }, want: false, claimant: "b"},
		{name: "non_pickup_rejected", run: func() bool { return a.registry.Claim(ai.ActorID(99), "a") }, want: false, claimant: "b"},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			if got := s.run(); got != s.want {
				t.Fatalf("expected %v, got %v", s.want, got)
			}
			if got := a.registry.Claimant(id); got != s.claimant {
				t.Fatalf("expected claimant %q, got %q", s.claimant, got)
			}
		})
	}

	claims := eventsOf(a.w.Events().Drain(), ecs.EventClaimed)
	if len(claims) != 2 {
		t.Fatalf("expected one claimed event per new claim, got %+v", claims)
	}
}

func TestWorldRegistryDestroyedActor(t *testing.T) {
	a := newTestArena(t, "...")
	p := a.addPickup(t, 1, 0)
	a.registry.Claim(ai.ActorID(p), "a")
	ecs.DestroyEntity(a.w, p)

	if got := a.registry.Claimant(ai.ActorID(p)); got != "" {
		t.Fatalf("destroyed pickup should have no claimant, got %q", got)
	}
	if a.registry.Claim(ai.ActorID(p), "a") {
		t.Fatal("destroyed pickup cannot be claimed")
	}
	a.registry.Release(ai.ActorID(p), "a")
}
