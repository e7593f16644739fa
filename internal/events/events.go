// Package events publishes record lifecycle events so downstream consumers
// (notification fanout, sync jobs) can react to writes without polling.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classdesk/pkg/domain"
)

// Type classifies an event.
type Type string

const (
	// TypeRecordWritten fires on every record create or update.
	TypeRecordWritten Type = "record_written"
	// TypeRelationshipChanged fires on enrollment, guardianship, and class
	// assignment writes.
	TypeRelationshipChanged Type = "relationship_changed"
	// TypeConflictDetected fires when detection flags new findings.
	TypeConflictDetected Type = "conflict_detected"
)

// Event is one emitted record lifecycle event. DataVersion is the tenant
// version after the write it describes, so consumers can order and dedupe.
type Event struct {
	Type        Type            `json:"type"`
	TenantID    domain.TenantID `json:"tenant_id"`
	EntityType  string          `json:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id"`
	DataVersion uint64          `json:"data_version"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Publisher emits events to a transport.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close()                               {}
