package ai

import (
	"testing"

	"github.com/milk9111/pursuit/common"
)

type navResult struct {
	path Path
	ok   bool
}

// fakeNav answers with a straight two-point path unless a goal has an
// override.
type fakeNav struct {
	paths map[common.Vec3]navResult
	calls int
}

func newFakeNav() *fakeNav {
	return &fakeNav{paths: make(map[common.Vec3]navResult)}
}

func (n *fakeNav) set(goal common.Vec3, path Path, ok bool) {
	n.paths[goal] = navResult{path: path, ok: ok}
}

func (n *fakeNav) FindPath(from, to common.Vec3) (Path, bool) {
	n.calls++
	if r, ok := n.paths[to]; ok {
		return r.path, r.ok
	}
	return Path{Points: []Waypoint{{Location: from}, {Location: to}}}, true
}

func (n *fakeNav) PathLength(from, to common.Vec3) (float64, bool) {
	path, ok := n.FindPath(from, to)
	if !ok {
		return 0, false
	}
	return path.Length(), true
}

type fakeSensor struct {
	hits    []Hit
	blocked bool
	sweeps  []Capsule
}

func (s *fakeSensor) LineOfSight(from, to common.Vec3) bool {
	return !s.blocked
}

func (s *fakeSensor) SweepDetect(volume Capsule) []Hit {
	s.sweeps = append(s.sweeps, volume)
	return s.hits
}

type fakeRegistry struct {
	actors  map[Category][]Actor
	powered map[ActorID]bool
	claims  map[ActorID]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		actors:  make(map[Category][]Actor),
		powered: make(map[ActorID]bool),
		claims:  make(map[ActorID]string),
	}
}

func (r *fakeRegistry) add(a Actor) {
	r.actors[a.Category] = append(r.actors[a.Category], a)
}

func (r *fakeRegistry) EnumerateActors(c Category) []Actor {
	return r.actors[c]
}

func (r *fakeRegistry) IsPoweredUp(player ActorID) bool {
	return r.powered[player]
}

func (r *fakeRegistry) Claimant(resource ActorID) string {
	return r.claims[resource]
}

func (r *fakeRegistry) Claim(resource ActorID, claimant string) bool {
	if owner := r.claims[resource]; owner != "" && owner != claimant {
		return false
	}
	r.claims[resource] = claimant
	return true
}

func (r *fakeRegistry) Release(resource ActorID, claimant string) {
	if r.claims[resource] == claimant {
		delete(r.claims, resource)
	}
}

type fakeMover struct {
	next     RequestID
	requests []MoveRequest
	stops    int
}

func (m *fakeMover) RequestMove(req MoveRequest) RequestID {
	m.next++
	m.requests = append(m.requests, req)
	return m.next
}

func (m *fakeMover) StopMovement() {
	m.stops++
}

type fakePawn struct {
	loc       common.Vec3
	fwd       common.Vec3
	mode      LocomotionMode
	modes     []LocomotionMode
	positions []common.Vec3
	orient    common.Quat
}

func (p *fakePawn) Location() common.Vec3 { return p.loc }
func (p *fakePawn) Forward() common.Vec3  { return p.fwd }

func (p *fakePawn) SetLocomotionMode(m LocomotionMode) {
	p.mode = m
	p.modes = append(p.modes, m)
}

func (p *fakePawn) SetPosition(pos common.Vec3) {
	p.loc = pos
	p.positions = append(p.positions, pos)
}

func (p *fakePawn) SetOrientation(q common.Quat) {
	p.orient = q
}

type fakeFollower struct {
	calls int
}

func (f *fakeFollower) FollowPathSegment(dt float64) {
	f.calls++
}

type rig struct {
	nav    *fakeNav
	sensor *fakeSensor
	reg    *fakeRegistry
	mover  *fakeMover
	pawn   *fakePawn
	ctrl   *Controller
}

const playerID ActorID = 100

// newRig builds a controller at the origin facing +X with one unpowered
// player far behind it.
func newRig(t *testing.T, label string, reg *fakeRegistry) *rig {
	if reg == nil {
		reg = newFakeRegistry()
		reg.add(Actor{ID: playerID, Category: CategoryPlayer, Location: common.V3(-5000, 0, 0), Active: true})
	}
	r := &rig{
		nav:    newFakeNav(),
		sensor: &fakeSensor{},
		reg:    reg,
		mover:  &fakeMover{},
		pawn:   &fakePawn{fwd: common.V3(1, 0, 0)},
	}
	ctrl, err := NewController(label, Services{
		Nav:      r.nav,
		Sensor:   r.sensor,
		Registry: r.reg,
		Mover:    r.mover,
		Pawn:     r.pawn,
	}, DefaultConfig())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	r.ctrl = ctrl
	return r
}

func (r *rig) seePlayer(powered bool) {
	r.reg.powered[playerID] = powered
	r.sensor.hits = []Hit{{Actor: playerID, Category: CategoryPlayer, Location: r.player().Location}}
}

func (r *rig) player() Actor {
	for _, a := range r.reg.actors[CategoryPlayer] {
		if a.ID == playerID {
			return a
		}
	}
	return Actor{}
}

func (r *rig) complete() {
	r.ctrl.OnMoveCompleted(r.mover.next, MoveSucceeded)
}
