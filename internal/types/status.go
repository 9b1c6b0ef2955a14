package types

// Status is a type for the lifecycle status of a persisted resource in the database.
// It tracks soft deletion and archival, not business state; business state lives on
// the entity itself (e.g. InvoiceStatus).
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}
