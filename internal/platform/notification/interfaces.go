// Package notification delivers SMS messages to receivers, riders, and
// drivers. Dispatch is fire-and-forget: a failed send is logged and
// swallowed, never propagated into the state transition that triggered it.
package notification

import "context"

// Message is one SMS to one recipient
type Message struct {
	To   string
	Body string
}

// Sender performs a single blocking send
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher queues messages for asynchronous, best-effort delivery
type Dispatcher interface {
	// Dispatch hands the message off for delivery on a worker. Delivery
	// failures are logged, not returned.
	Dispatch(msg Message)

	// Shutdown drains the pool.
	Shutdown()
}
