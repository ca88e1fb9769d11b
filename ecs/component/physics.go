package component

import "github.com/jakecoffman/cp"

// PhysicsBody links an entity to its kinematic body in the sensing space.
// Static walls live in the space without an entity.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
