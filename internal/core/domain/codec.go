package domain

import (
	"encoding/json"
	"fmt"
)

// eventEnvelope is the JSON frame used on the bus: the variant's wire name
// plus its payload.
type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// UnmarshalWalletEventPayload decodes a single event payload given its wire
// name. The event store keeps the type in its own column, so it decodes at
// this level; the bus wraps it in an envelope.
func UnmarshalWalletEventPayload(eventType string, payload []byte) (WalletEvent, error) {
	switch eventType {
	case EventTypeWalletCreated:
		var e WalletCreated
		return e, json.Unmarshal(payload, &e)
	case EventTypeWalletCharged:
		var e WalletCharged
		return e, json.Unmarshal(payload, &e)
	case EventTypeWalletRefunded:
		var e WalletRefunded
		return e, json.Unmarshal(payload, &e)
	case EventTypeFundsDeposited:
		var e FundsDeposited
		return e, json.Unmarshal(payload, &e)
	case EventTypeWalletChargeRejected:
		var e WalletChargeRejected
		return e, json.Unmarshal(payload, &e)
	default:
		return nil, fmt.Errorf("unknown wallet event type %q", eventType)
	}
}

// MarshalWalletEvent encodes an event into its bus envelope.
func MarshalWalletEvent(e WalletEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(eventEnvelope{EventType: e.EventType(), Payload: payload})
}

// UnmarshalWalletEvent decodes a bus envelope back into its event variant.
func UnmarshalWalletEvent(data []byte) (WalletEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal wallet event envelope: %w", err)
	}
	return UnmarshalWalletEventPayload(env.EventType, env.Payload)
}

// MarshalShowEvent encodes a show-side event into its bus envelope.
func MarshalShowEvent(e ShowEvent) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(eventEnvelope{EventType: e.EventType(), Payload: payload})
}

// UnmarshalShowEvent decodes a bus envelope back into its show event variant.
func UnmarshalShowEvent(data []byte) (ShowEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal show event envelope: %w", err)
	}
	switch env.EventType {
	case EventTypeSeatReservationRequested:
		var e SeatReservationRequested
		return e, json.Unmarshal(env.Payload, &e)
	case EventTypeSeatReservationCancelled:
		var e SeatReservationCancelled
		return e, json.Unmarshal(env.Payload, &e)
	default:
		return nil, fmt.Errorf("unknown show event type %q", env.EventType)
	}
}
