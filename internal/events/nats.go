package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NatsPublisher publishes events as JSON on "<prefix>.<event type>".
type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsPublisher(nc *nats.Conn, prefix string) *NatsPublisher {
	return &NatsPublisher{nc: nc, prefix: prefix}
}

func (p *NatsPublisher) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: Subject(p.prefix, event.Type),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Content-Type", "application/json")

	return p.nc.PublishMsg(msg)
}

// Subject builds the subject an event type is published on.
func Subject(prefix string, t Type) string {
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}
