package interfaces

// EventPublisher delivers domain events to an external broker. Publishing is
// best-effort: the engine logs failures and never fails an operation on them.
type EventPublisher interface {
	Publish(topic string, event any) error
}
