package domain

import "time"

// EntityKind identifies which catalog table an interaction points at.
type EntityKind string

const (
	EntityBusiness EntityKind = "business"
	EntityJob      EntityKind = "job"
	EntityEvent    EntityKind = "event"
)

// InteractionKind classifies an analytics event.
type InteractionKind string

const (
	InteractionView         InteractionKind = "View"
	InteractionClick        InteractionKind = "Click"
	InteractionWebsiteClick InteractionKind = "WebsiteClick"
	InteractionContactClick InteractionKind = "ContactClick"
)

// Interaction is an append-only analytics record.
type Interaction struct {
	ID         string
	EntityKind EntityKind
	EntityID   string
	Kind       InteractionKind
	CreatedAt  time.Time
}
