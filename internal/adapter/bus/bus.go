package bus

import (
	"context"
	"fmt"

	"cinema-wallet/config"
	"cinema-wallet/internal/core/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Topics connecting the wallet side and the show side.
const (
	TopicWalletEvents = "wallet-events"
	TopicShowEvents   = "show-events"
)

// MetadataEventType carries the variant wire name on bus messages.
const MetadataEventType = "event_type"

// NewGoChannel creates the in-process watermill Pub/Sub.
func NewGoChannel(cfg config.BusConfig, log zerolog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.Buffer,
	}, NewLoggerAdapter(log))
}

// WalletPublisher implements ports.WalletEventPublisher on a watermill
// publisher.
type WalletPublisher struct {
	pub message.Publisher
}

// NewWalletPublisher creates a new WalletPublisher.
func NewWalletPublisher(pub message.Publisher) *WalletPublisher {
	return &WalletPublisher{pub: pub}
}

// PublishWalletEvent publishes one wallet event on the wallet-events topic.
func (p *WalletPublisher) PublishWalletEvent(ctx context.Context, event domain.WalletEvent) error {
	data, err := domain.MarshalWalletEvent(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataEventType, event.EventType())
	msg.SetContext(ctx)
	if err := p.pub.Publish(TopicWalletEvents, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	return nil
}

// ShowPublisher publishes show-side events; in production those arrive from
// the cinema-show service's own publisher, here it feeds tests and local runs.
type ShowPublisher struct {
	pub message.Publisher
}

// NewShowPublisher creates a new ShowPublisher.
func NewShowPublisher(pub message.Publisher) *ShowPublisher {
	return &ShowPublisher{pub: pub}
}

// PublishShowEvent publishes one show event on the show-events topic.
func (p *ShowPublisher) PublishShowEvent(ctx context.Context, event domain.ShowEvent) error {
	data, err := domain.MarshalShowEvent(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataEventType, event.EventType())
	msg.SetContext(ctx)
	if err := p.pub.Publish(TopicShowEvents, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	return nil
}

// ConsumeWalletEvents subscribes to wallet-events and dispatches each message
// to the handler until ctx is cancelled. A handler error nacks the message
// for redelivery; an undecodable message is acked and dropped.
func ConsumeWalletEvents(ctx context.Context, sub message.Subscriber, handler func(context.Context, domain.WalletEvent) error, log zerolog.Logger) error {
	msgs, err := sub.Subscribe(ctx, TopicWalletEvents)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicWalletEvents, err)
	}
	go consume(msgs, TopicWalletEvents, log, func(msgCtx context.Context, payload []byte) error {
		event, err := domain.UnmarshalWalletEvent(payload)
		if err != nil {
			return errUndecodable{err}
		}
		return handler(msgCtx, event)
	})
	return nil
}

// ConsumeShowEvents subscribes to show-events; same delivery contract as
// ConsumeWalletEvents.
func ConsumeShowEvents(ctx context.Context, sub message.Subscriber, handler func(context.Context, domain.ShowEvent) error, log zerolog.Logger) error {
	msgs, err := sub.Subscribe(ctx, TopicShowEvents)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicShowEvents, err)
	}
	go consume(msgs, TopicShowEvents, log, func(msgCtx context.Context, payload []byte) error {
		event, err := domain.UnmarshalShowEvent(payload)
		if err != nil {
			return errUndecodable{err}
		}
		return handler(msgCtx, event)
	})
	return nil
}

type errUndecodable struct{ err error }

func (e errUndecodable) Error() string { return e.err.Error() }

func consume(msgs <-chan *message.Message, topic string, log zerolog.Logger, handle func(context.Context, []byte) error) {
	for msg := range msgs {
		err := handle(msg.Context(), msg.Payload)
		switch err.(type) {
		case nil:
			msg.Ack()
		case errUndecodable:
			// Poison message; redelivery cannot fix it.
			log.Error().Err(err).
				Str("topic", topic).
				Str("message_id", msg.UUID).
				Msg("dropping undecodable message")
			msg.Ack()
		default:
			log.Warn().Err(err).
				Str("topic", topic).
				Str("message_id", msg.UUID).
				Msg("message handling failed, redelivering")
			msg.Nack()
		}
	}
}
