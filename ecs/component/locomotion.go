package component

import "github.com/milk9111/pursuit/ai"

type Locomotion struct {
	Mode ai.LocomotionMode
}

var LocomotionComponent = NewComponent[Locomotion]()
