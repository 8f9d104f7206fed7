package record

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a new time-based record id.
var NewID = func() string { // mockable
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Record is anything identified by a unique id within its collection.
type Record interface {
	RecordID() string
}

// Meta holds the fields every stored record carries.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (m Meta) RecordID() string { return m.ID }

// NewMeta returns the Meta of a record created at now.
// An empty id is replaced with NewID().
func NewMeta(id string, now time.Time) Meta {
	if id == "" {
		id = NewID()
	}
	now = now.UTC()
	return Meta{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Touched returns a copy of m updated at now.
func (m Meta) Touched(now time.Time) Meta {
	m.UpdatedAt = now.UTC()
	return m
}
