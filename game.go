package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/ecs/entity"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/prefabs"
)

// Game runs one arena headless at a fixed step.
type Game struct {
	arena     *entity.Arena
	scheduler *ecs.Scheduler
	watcher   *prefabs.Watcher
	debug     bool

	counts map[ecs.EventKind]int
}

func NewGame(levelName string, debug bool) (*Game, error) {
	level, err := prefabs.LoadLevelSpec(levelName)
	if err != nil {
		return nil, err
	}
	agent, err := prefabs.LoadAgentSpec(level.AgentSpec)
	if err != nil {
		return nil, err
	}
	if debug {
		agent.AI.Debug = true
	}
	arena, err := entity.BuildArena(level, agent, prefabs.LoadScript)
	if err != nil {
		return nil, fmt.Errorf("game: build arena %s: %w", levelName, err)
	}

	return &Game{
		arena:     arena,
		scheduler: newScheduler(arena, debug),
		debug:     debug,
		counts:    make(map[ecs.EventKind]int),
	}, nil
}

// newScheduler orders the systems so that every decision of a tick sees the
// player where it stands this tick, and all decisions run before any agent
// moves.
func newScheduler(a *entity.Arena, debug bool) *ecs.Scheduler {
	players := system.NewPlayerSystem()
	players.Debug = debug
	agents := system.NewAISystem()
	agents.Debug = debug

	return ecs.NewScheduler(
		players,
		system.NewCooldownSystem(),
		a.Sensors,
		agents,
		a.Movement,
		system.NewPickupSystem(),
	)
}

// Watch starts hot reload of prefab edits found on disk.
func (g *Game) Watch() error {
	dirs := prefabs.DiskDirs()
	if len(dirs) == 0 {
		return fmt.Errorf("no prefabs directory on disk")
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Run(ticks int, dt float64) {
	for range ticks {
		g.applyReloads()
		g.scheduler.Update(g.arena.World, dt)
		g.drainEvents()
	}
}

// applyReloads consumes pending watcher events without blocking.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		if err := g.arena.ReloadCurves(); err != nil {
			log.Printf("reload: %s: %v", change.Path, err)
			return
		}
	case prefabs.ChangeSpec:
		agent, err := prefabs.LoadAgentSpec(g.arena.Level.AgentSpec)
		if err != nil {
			log.Printf("reload: %s: %v", change.Path, err)
			return
		}
		if g.debug {
			agent.AI.Debug = true
		}
		if err := g.arena.ApplyAgentSpec(agent); err != nil {
			log.Printf("reload: %s: %v", change.Path, err)
			return
		}
	}
	log.Printf("reload: applied %s", change.Path)
}

func (g *Game) drainEvents() {
	for _, evt := range g.arena.World.Events().Drain() {
		g.counts[evt.Kind]++
		if !g.debug {
			continue
		}
		switch evt.Kind {
		case ecs.EventMoveFinished:
		default:
			log.Printf("tick %d: %s %s %s", g.scheduler.Tick(), evt.Kind, evt.Subject, evt.Detail)
		}
	}
}

func (g *Game) LogSummary() {
	w := g.arena.World
	log.Printf("summary: %d ticks, %d collections, %d claims, %d objective changes, %d power changes",
		g.scheduler.Tick(),
		g.counts[ecs.EventCollected],
		g.counts[ecs.EventClaimed],
		g.counts[ecs.EventObjectiveChanged],
		g.counts[ecs.EventPowerChanged],
	)

	type row struct {
		name      string
		collected int
		objective string
	}
	var rows []row
	for _, e := range g.arena.Agents {
		agent, ok := ecs.Get(w, e, component.AIComponent.Kind())
		if !ok {
			continue
		}
		rows = append(rows, row{name: agent.Name, collected: agent.Collected, objective: agent.Controller.Objective().String()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	for _, r := range rows {
		log.Printf("summary: agent=%s collected=%d objective=%s", r.name, r.collected, r.objective)
	}
}
