package messaging

import (
	"context"
)

// Consumer drives a Handler from a Broker subscription.
type Consumer struct {
	broker  Broker
	onError func(payload []byte, err error)
}

func NewConsumer(broker Broker, onError func(payload []byte, err error)) *Consumer {
	if onError == nil {
		onError = func([]byte, error) {}
	}
	return &Consumer{broker: broker, onError: onError}
}

// Run blocks until ctx is cancelled or the subscription closes. Handler
// errors are reported through onError and do not stop consumption.
func (c *Consumer) Run(ctx context.Context, channel string, handler Handler) error {
	msgChan, err := c.broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgChan:
			if !ok {
				return nil
			}
			if err := handler(ctx, msg); err != nil {
				c.onError(msg, err)
			}
		}
	}
}
