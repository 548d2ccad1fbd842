package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
	Action        string
	ActorID       string
}

type correlationKey struct{}

// WithCorrelationID attaches the correlation id of the incoming request (e.g. X-Request-ID) to ctx.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation id attached to ctx, or "".
func CorrelationIDFrom(ctx context.Context) CorrelationID {
	correlationID, _ := ctx.Value(correlationKey{}).(CorrelationID)

	return correlationID
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// EventMetadataForOperation builds the metadata of one event of an operation set.
// All events of a set share the causation id. The correlation id comes from ctx, else it is the causation id.
func EventMetadataForOperation(ctx context.Context, causationID CausationID, action string, actorID string) EventMetadata {
	correlationID := CorrelationIDFrom(ctx)
	if correlationID == "" {
		correlationID = causationID
	}

	return EventMetadata{
		MessageID:     uuid.New().String(),
		CausationID:   causationID,
		CorrelationID: correlationID,
		Action:        action,
		ActorID:       actorID,
	}
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
