package contracts

import "context"

// MessagePublisher pushes domain events onto a broker queue. Publishing is
// best effort from the booking core's point of view; delivery retries belong
// to the consumer side.
type MessagePublisher interface {
	Publish(ctx context.Context, queueName string, body interface{}) error
}
