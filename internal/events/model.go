package events

import "time"

const (
	TableName  = "outbox_events"
	EntityName = "outbox_event"

	FieldID          = "id"
	FieldCreatedAt   = "created_at"
	FieldPublishedAt = "published_at"
)

// OutboxEvent is one stored event. Seq is assigned by the database and fixes relay order.
type OutboxEvent struct {
	Seq         int64      `db:"seq"`
	ID          string     `db:"id"`
	Topic       string     `db:"topic"`
	EventKey    string     `db:"event_key"`
	Payload     []byte     `db:"payload"`
	Headers     []byte     `db:"headers"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	PublishedAt *time.Time `db:"published_at"`
}
