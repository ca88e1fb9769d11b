package component

// Pickup is a collectible resource. Claimant is the label of the agent
// currently pursuing it; at most one agent holds it.
type Pickup struct {
	Radius   float64
	Claimant string
	// Cooldown is the hidden time after a collection, in seconds.
	Cooldown    float64
	Collections int
}

var PickupComponent = NewComponent[Pickup]()
