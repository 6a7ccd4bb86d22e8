// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/logging"
	"github.com/wallreel/scheduler/internal/metrics"
)

// Publisher is a resilient Watermill-over-NATS JetStream publisher for
// scheduling domain events.
type Publisher struct {
	publisher  message.Publisher
	streamName string
	mu         sync.RWMutex
	closed     bool
}

// NewPublisher connects to NATS JetStream per cfg. Returns nil, nil when
// cfg.Enabled is false so callers can treat a nil *Publisher as "event bus
// disabled" without a type switch.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	logger := watermill.NewStdLogger(false, false)

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.Timeout(cfg.ConnectTimeout),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("event bus: NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("event bus: NATS reconnected")
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("event bus: create watermill publisher: %w", err)
	}

	return &Publisher{publisher: pub, streamName: cfg.StreamName}, nil
}

// Publish serializes and publishes a domain event. Errors are the
// caller's to log-and-ignore; the event bus never blocks scheduling.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("event bus: publisher is closed")
	}
	p.mu.RUnlock()

	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("event bus: marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("type", event.Type)
	msg.Metadata.Set("display_id", event.DisplayID)
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	err = p.publisher.Publish(event.Subject(p.streamName), msg)
	metrics.RecordEventBusPublish(err)
	return err
}

// Close gracefully shuts down the publisher's NATS connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
