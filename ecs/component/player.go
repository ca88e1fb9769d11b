package component

import "github.com/milk9111/pursuit/common"

// Player is the threat agents react to. It walks its patrol loop and
// alternates between powered and unpowered phases.
type Player struct {
	MoveSpeed   float64
	Patrol      []common.Vec3
	PatrolIndex int

	Powered      bool
	PoweredFor   float64
	UnpoweredFor float64
	PhaseElapsed float64
}

var PlayerComponent = NewComponent[Player]()
