package component

import "github.com/milk9111/pursuit/ai"

// AI binds an entity to its decision controller.
type AI struct {
	Name       string
	Controller *ai.Controller
	MoveSpeed  float64
	Collected  int

	lastObjective ai.Objective
}

// ObjectiveChanged reports whether the controller objective differs from the
// one seen on the previous call.
func (a *AI) ObjectiveChanged() (prev, cur ai.Objective, changed bool) {
	if a.Controller == nil {
		return a.lastObjective, a.lastObjective, false
	}
	prev, cur = a.lastObjective, a.Controller.Objective()
	a.lastObjective = cur
	return prev, cur, prev != cur
}

var AIComponent = NewComponent[AI]()
