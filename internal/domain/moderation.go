package domain

import "fmt"

// ModerationStatus is the lifecycle state of a user submitted record.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "Pending"
	StatusApproved ModerationStatus = "Approved"
	StatusRejected ModerationStatus = "Rejected"
)

// Terminal reports whether no further transition is permitted.
func (s ModerationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// RecordKind names a moderatable record variant.
type RecordKind string

const (
	KindBusinessListing RecordKind = "business-listing"
	KindBusinessEdit    RecordKind = "business-edit"
	KindBusinessClaim   RecordKind = "business-claim"
	KindJob             RecordKind = "job"
	KindEvent           RecordKind = "event"
	KindNews            RecordKind = "news"
	KindCharity         RecordKind = "charity"
)

// RecordKinds lists every moderatable variant in queue display order.
var RecordKinds = []RecordKind{
	KindBusinessListing,
	KindBusinessEdit,
	KindBusinessClaim,
	KindJob,
	KindEvent,
	KindNews,
	KindCharity,
}

// ParseRecordKind validates a kind supplied by a caller.
func ParseRecordKind(raw string) (RecordKind, error) {
	for _, kind := range RecordKinds {
		if string(kind) == raw {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", raw)
}

// Moderatable is implemented by every submission record.
type Moderatable interface {
	RecordID() string
	ModerationStatus() ModerationStatus
}

// Pending wraps a record that was observed in the Pending state while locked.
// Materializers only accept this type, so a terminal record cannot be published.
type Pending[T Moderatable] struct {
	record T
}

// AsPending returns the wrapped record when it is still Pending.
func AsPending[T Moderatable](record T) (Pending[T], bool) {
	if record.ModerationStatus() != StatusPending {
		return Pending[T]{}, false
	}
	return Pending[T]{record: record}, true
}

// Record exposes the underlying submission.
func (p Pending[T]) Record() T {
	return p.record
}

// ID returns the submission identifier.
func (p Pending[T]) ID() string {
	return p.record.RecordID()
}
