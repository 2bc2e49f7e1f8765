package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanBroker struct {
	ch  chan []byte
	err error
}

func (b *chanBroker) Publish(context.Context, string, interface{}) error { return nil }

func (b *chanBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.ch, nil
}

func (b *chanBroker) Close() error { return nil }

func TestConsumerReportsHandlerErrorsAndContinues(t *testing.T) {
	b := &chanBroker{ch: make(chan []byte, 3)}
	b.ch <- []byte("a")
	b.ch <- []byte("bad")
	b.ch <- []byte("c")
	close(b.ch)

	var failed []string
	c := NewConsumer(b, func(payload []byte, err error) {
		failed = append(failed, string(payload))
	})

	var handled []string
	err := c.Run(context.Background(), "appointments", func(_ context.Context, payload []byte) error {
		handled = append(handled, string(payload))
		if string(payload) == "bad" {
			return errors.New("decode failed")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bad", "c"}, handled)
	assert.Equal(t, []string{"bad"}, failed)
}

func TestConsumerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsumer(&chanBroker{ch: make(chan []byte)}, nil)
	err := c.Run(ctx, "appointments", func(context.Context, []byte) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumerSubscribeError(t *testing.T) {
	c := NewConsumer(&chanBroker{err: errors.New("no connection")}, nil)
	err := c.Run(context.Background(), "appointments", func(context.Context, []byte) error { return nil })
	assert.EqualError(t, err, "no connection")
}
