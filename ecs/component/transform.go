package component

import "github.com/milk9111/pursuit/common"

type Transform struct {
	Position common.Vec3
	Rotation common.Quat
}

var TransformComponent = NewComponent[Transform]()
