package component

import (
	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
)

// Movement is the active move order of an agent. Segment is the index of the
// waypoint the current segment starts from.
type Movement struct {
	Request ai.RequestID
	Goal    common.Vec3
	Path    ai.Path
	Segment int
	Active  bool
	// AcceptAnyDistance completes the move as soon as the agent overlaps
	// Goal.
	AcceptAnyDistance bool

	// Pending holds a completion that is delivered on the next update rather
	// than from inside the request call.
	Pending       bool
	PendingResult ai.MoveResult
}

var MovementComponent = NewComponent[Movement]()
