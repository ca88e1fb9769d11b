package component

// Cooldown hides a pickup until Remaining reaches zero; the component is
// then removed.
type Cooldown struct {
	Remaining float64
}

var CooldownComponent = NewComponent[Cooldown]()
