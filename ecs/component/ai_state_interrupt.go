package component

// AIStateInterrupt is a one-shot request for the AISystem to interrupt an
// agent's current move. Systems add it when the agent's target disappears;
// the AISystem consumes it on its next update.
type AIStateInterrupt struct {
	Reason string
}

var AIStateInterruptComponent = NewComponent[AIStateInterrupt]()
