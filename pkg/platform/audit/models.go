package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// Stores and relays use it for routing and retention.
type EventCategory string

const (
	// CategoryOwnership covers events that move, mint or burn tokens on behalf of a holder.
	CategoryOwnership EventCategory = "ownership"

	// CategoryAdmin covers owner-only configuration changes such as item
	// registration and URI setter authorisation.
	CategoryAdmin EventCategory = "admin"

	// CategoryOperations covers routine render pipeline activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Actor is the principal that performed the action.
	Actor   string
	Subject string
	Action  string
	// Detail carries the action payload, e.g. the encoded attributes of a
	// customized token or the URI recorded for a render key.
	Detail    string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	// Registry events
	EventItemRegistered AuditEvent = "item_registered"

	// Customization events
	EventEquippableCustomized AuditEvent = "equippable_customized"
	EventItemReturned         AuditEvent = "item_returned"
	EventItemAbsorbed         AuditEvent = "item_absorbed"
	EventItemFilled           AuditEvent = "item_filled"

	// Render events
	EventRenderEnqueued      AuditEvent = "render_enqueued"
	EventRenderURISet        AuditEvent = "render_uri_set"
	EventURISetterAuthorized AuditEvent = "uri_setter_authorized"
	EventRenderURIMissing    AuditEvent = "render_uri_missing"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventItemRegistered:      CategoryAdmin,
	EventURISetterAuthorized: CategoryAdmin,

	EventEquippableCustomized: CategoryOwnership,
	EventItemReturned:         CategoryOwnership,
	EventItemAbsorbed:         CategoryOwnership,
	EventItemFilled:           CategoryOwnership,

	EventRenderEnqueued:   CategoryOperations,
	EventRenderURISet:     CategoryOperations,
	EventRenderURIMissing: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
