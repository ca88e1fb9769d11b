package entity

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/prefabs"
)

// ScriptLoader resolves jump curve script names.
type ScriptLoader func(name string) ([]byte, error)

// Arena is a level loaded into a world together with the services its
// agents are wired to.
type Arena struct {
	World    *ecs.World
	Level    prefabs.LevelSpec
	Nav      *system.NavGrid
	Sensors  *system.SensorSpace
	Movement *system.MovementSystem
	Registry *system.WorldRegistry
	Player   ecs.Entity
	Agents   []ecs.Entity

	agentSpec  prefabs.AgentSpec
	overrides  map[ecs.Entity]map[string]any
	loadScript ScriptLoader
}

// BuildArena creates the world for level. Every 'A' cell gets an agent tuned
// by agent plus the overrides of the matching level agent entry.
func BuildArena(level prefabs.LevelSpec, agent prefabs.AgentSpec, loadScript ScriptLoader) (*Arena, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	cols, rows := level.Size()
	nav, err := system.NewNavGrid(level.CellSize, cols, rows)
	if err != nil {
		return nil, fmt.Errorf("arena: build nav: %w", err)
	}

	w := ecs.NewWorld()
	a := &Arena{
		World:      w,
		Level:      level,
		Nav:        nav,
		Sensors:    system.NewSensorSpace(),
		Movement:   system.NewMovementSystem(nav, level.Pickup.Radius),
		Registry:   system.NewWorldRegistry(w),
		agentSpec:  agent,
		overrides:  make(map[ecs.Entity]map[string]any),
		loadScript: loadScript,
	}

	for r := range rows {
		for c := range cols {
			switch g := level.Cell(c, r); g {
			case '#':
				a.addWall(c, r)
			case '~':
			default:
				nav.SetWalkable(c, r, true)
			}
		}
	}
	for _, link := range level.JumpLinks {
		if err := nav.AddJumpLink(link.From.Col, link.From.Row, link.To.Col, link.To.Row); err != nil {
			return nil, fmt.Errorf("arena: %w", err)
		}
		if link.Bidirectional {
			if err := nav.AddJumpLink(link.To.Col, link.To.Row, link.From.Col, link.From.Row); err != nil {
				return nil, fmt.Errorf("arena: %w", err)
			}
		}
	}

	agentIndex := 0
	for r := range rows {
		for c := range cols {
			pos := nav.CellCenter(c, r)
			switch level.Cell(c, r) {
			case 'C':
				if _, err := a.NewPickup(pos); err != nil {
					return nil, err
				}
			case 'F':
				if _, err := a.NewFleePoint(pos); err != nil {
					return nil, err
				}
			case 'P':
				if _, err := a.NewPlayer(pos); err != nil {
					return nil, err
				}
			case 'A':
				var ref prefabs.AgentRefSpec
				if agentIndex < len(level.Agents) {
					ref = level.Agents[agentIndex]
				}
				agentIndex++
				if _, err := a.SpawnAgent(ref, pos); err != nil {
					return nil, err
				}
			}
		}
	}

	return a, nil
}

func (a *Arena) addWall(col, row int) {
	cs := a.Level.CellSize
	lo := cp.Vector{X: float64(col) * cs, Y: float64(row) * cs}
	a.Sensors.AddWall(lo, lo.Add(cp.Vector{X: cs, Y: cs}))
}

func (a *Arena) NewPickup(pos common.Vec3) (ecs.Entity, error) {
	w := a.World
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: common.QuatIdentity}); err != nil {
		return 0, fmt.Errorf("pickup: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
		Radius:   a.Level.Pickup.Radius,
		Cooldown: a.Level.Pickup.Cooldown,
	}); err != nil {
		return 0, fmt.Errorf("pickup: add pickup: %w", err)
	}
	if err := a.Sensors.Attach(w, e, ai.CategoryResource, a.Level.Pickup.Radius); err != nil {
		return 0, fmt.Errorf("pickup: attach sensor: %w", err)
	}
	return e, nil
}

func (a *Arena) NewFleePoint(pos common.Vec3) (ecs.Entity, error) {
	w := a.World
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: common.QuatIdentity}); err != nil {
		return 0, fmt.Errorf("flee point: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.FleePointTagComponent.Kind(), &component.FleePointTag{}); err != nil {
		return 0, fmt.Errorf("flee point: add tag: %w", err)
	}
	return e, nil
}

func (a *Arena) NewPlayer(pos common.Vec3) (ecs.Entity, error) {
	w := a.World
	spec := a.Level.Player
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: common.QuatIdentity}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}

	patrol := make([]common.Vec3, 0, len(spec.Patrol))
	for _, c := range spec.Patrol {
		patrol = append(patrol, a.Nav.CellCenter(c.Col, c.Row))
	}
	if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    spec.MoveSpeed,
		Patrol:       patrol,
		Powered:      spec.StartPowered,
		PoweredFor:   spec.PoweredFor,
		UnpoweredFor: spec.UnpoweredFor,
	}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}

	radius := spec.Radius
	if radius <= 0 {
		radius = a.Level.CellSize * 0.5
	}
	if err := a.Sensors.Attach(w, e, ai.CategoryPlayer, radius); err != nil {
		return 0, fmt.Errorf("player: attach sensor: %w", err)
	}
	a.Player = e
	return e, nil
}

// SpawnAgent creates an agent at pos. An unnamed agent gets a random label.
func (a *Arena) SpawnAgent(ref prefabs.AgentRefSpec, pos common.Vec3) (ecs.Entity, error) {
	spec, err := a.agentSpec.WithOverrides(ref.Overrides)
	if err != nil {
		return 0, fmt.Errorf("agent %s: %w", ref.Name, err)
	}
	name := ref.Name

	w := a.World
	e := ecs.CreateEntity(w)
	fail := func(what string, err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("agent %s: %s: %w", name, what, err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: common.QuatIdentity}); err != nil {
		return fail("add transform", err)
	}
	if err := ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{Mode: ai.LocomotionWalking}); err != nil {
		return fail("add locomotion", err)
	}

	ctrl, err := ai.NewController(name, ai.Services{
		Nav:      a.Nav,
		Sensor:   a.Sensors,
		Registry: a.Registry,
		Mover:    a.Movement.Mover(w, e),
		Pawn:     system.NewEntityPawn(w, e),
	}, spec.AI)
	if err != nil {
		return fail("new controller", err)
	}
	curve, err := spec.AI.Jump.Curve.Build(a.loadScript)
	if err != nil {
		return fail("build jump curve", err)
	}
	ctrl.SetJumpCurve(curve)
	ctrl.Follower().SetFallback(a.Movement.GroundFollower(w, e))

	if err := ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{
		Name:       ctrl.Label(),
		Controller: ctrl,
		MoveSpeed:  spec.MoveSpeed,
	}); err != nil {
		return fail("add ai", err)
	}

	a.overrides[e] = ref.Overrides
	a.Agents = append(a.Agents, e)
	return e, nil
}

// DestroyAgent releases the agent's claim and removes it from the world.
func (a *Arena) DestroyAgent(e ecs.Entity) bool {
	w := a.World
	if agent, ok := ecs.Get(w, e, component.AIComponent.Kind()); ok && agent.Controller != nil {
		agent.Controller.Release()
	}
	a.Sensors.Detach(w, e)
	if !ecs.DestroyEntity(w, e) {
		return false
	}
	delete(a.overrides, e)
	for i, id := range a.Agents {
		if id == e {
			a.Agents = append(a.Agents[:i], a.Agents[i+1:]...)
			break
		}
	}
	return true
}

// ApplyAgentSpec retunes every agent with spec plus its own overrides. An
// agent whose retuned spec is invalid keeps its previous tuning.
func (a *Arena) ApplyAgentSpec(spec prefabs.AgentSpec) error {
	a.agentSpec = spec
	var firstErr error
	for _, e := range a.Agents {
		if err := a.retune(e); err != nil {
			log.Printf("arena: retune %s: %v", e, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ReloadCurves rebuilds every agent's jump curve, picking up script edits.
func (a *Arena) ReloadCurves() error {
	return a.ApplyAgentSpec(a.agentSpec)
}

func (a *Arena) retune(e ecs.Entity) error {
	agent, ok := ecs.Get(a.World, e, component.AIComponent.Kind())
	if !ok || agent.Controller == nil {
		return nil
	}
	spec, err := a.agentSpec.WithOverrides(a.overrides[e])
	if err != nil {
		return err
	}
	curve, err := spec.AI.Jump.Curve.Build(a.loadScript)
	if err != nil {
		return err
	}
	if err := agent.Controller.SetConfig(spec.AI); err != nil {
		return err
	}
	agent.Controller.SetJumpCurve(curve)
	agent.MoveSpeed = spec.MoveSpeed
	return nil
}
