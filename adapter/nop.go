package adapter

import "context"

// Nop discards every event. Used when no notification target is configured.
type Nop struct{}

// Publish implements Adapter.
func (Nop) Publish(context.Context, *BatchCompletedEvent) error { return nil }

// Close implements Adapter.
func (Nop) Close() error { return nil }

var _ Adapter = Nop{}
