package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

const testCell = 100.0

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// testArena is a grid world built from ASCII rows: '#' wall, '~' gap, any
// other glyph floor.
type testArena struct {
	w        *ecs.World
	nav      *NavGrid
	sensors  *SensorSpace
	movement *MovementSystem
	registry *WorldRegistry
}

func newTestArena(t *testing.T, rows ...string) *testArena {
	t.Helper()
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	nav, err := NewNavGrid(testCell, cols, len(rows))
	if err != nil {
		t.Fatalf("NewNavGrid: %v", err)
	}
	w := ecs.NewWorld()
	a := &testArena{
		w:        w,
		nav:      nav,
		sensors:  NewSensorSpace(),
		movement: NewMovementSystem(nav, 0),
		registry: NewWorldRegistry(w),
	}
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '#':
				lo := cp.Vector{X: float64(c) * testCell, Y: float64(r) * testCell}
				a.sensors.AddWall(lo, lo.Add(cp.Vector{X: testCell, Y: testCell}))
			case '~':
			default:
				nav.SetWalkable(c, r, true)
			}
		}
	}
	return a
}

func (a *testArena) center(col, row int) common.Vec3 {
	return a.nav.CellCenter(col, row)
}

func (a *testArena) addTransform(t *testing.T, e ecs.Entity, pos common.Vec3) {
	t.Helper()
	if err := ecs.Add(a.w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: common.QuatIdentity}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
}

func (a *testArena) addAgent(t *testing.T, name string, col, row int, speed float64) (ecs.Entity, *ai.Controller) {
	t.Helper()
	e := ecs.CreateEntity(a.w)
	a.addTransform(t, e, a.center(col, row))
	ctrl, err := ai.NewController(name, ai.Services{
		Nav:      a.nav,
		Sensor:   a.sensors,
		Registry: a.registry,
		Mover:    a.movement.Mover(a.w, e),
		Pawn:     NewEntityPawn(a.w, e),
	}, ai.DefaultConfig())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	ctrl.Follower().SetFallback(a.movement.GroundFollower(a.w, e))
	if err := ecs.Add(a.w, e, component.AIComponent.Kind(), &component.AI{Name: name, Controller: ctrl, MoveSpeed: speed}); err != nil {
		t.Fatalf("add ai: %v", err)
	}
	return e, ctrl
}

func (a *testArena) addPickup(t *testing.T, col, row int) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(a.w)
	a.addTransform(t, e, a.center(col, row))
	if err := ecs.Add(a.w, e, component.PickupComponent.Kind(), &component.Pickup{Radius: 50, Cooldown: 10}); err != nil {
		t.Fatalf("add pickup: %v", err)
	}
	if err := a.sensors.Attach(a.w, e, ai.CategoryResource, 50); err != nil {
		t.Fatalf("attach pickup: %v", err)
	}
	return e
}

func (a *testArena) addPlayer(t *testing.T, col, row int, powered bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(a.w)
	a.addTransform(t, e, a.center(col, row))
	if err := ecs.Add(a.w, e, component.PlayerComponent.Kind(), &component.Player{Powered: powered}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := a.sensors.Attach(a.w, e, ai.CategoryPlayer, 50); err != nil {
		t.Fatalf("attach player: %v", err)
	}
	return e
}

func (a *testArena) addFleePoint(t *testing.T, col, row int) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(a.w)
	a.addTransform(t, e, a.center(col, row))
	if err := ecs.Add(a.w, e, component.FleePointTagComponent.Kind(), &component.FleePointTag{}); err != nil {
		t.Fatalf("add flee point: %v", err)
	}
	return e
}

func (a *testArena) position(t *testing.T, e ecs.Entity) common.Vec3 {
	t.Helper()
	tr, ok := ecs.Get(a.w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %s has no transform", e)
	}
	return tr.Position
}

func eventsOf(events []ecs.Event, kind ecs.EventKind) []ecs.Event {
	var out []ecs.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
