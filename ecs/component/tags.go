package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// FleePointTag marks a point agents may escape to.
type FleePointTag struct{}

var FleePointTagComponent = NewComponent[FleePointTag]()
