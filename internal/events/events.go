// Package events defines the scan pipeline's domain events. In-process
// consumers subscribe through the platform event bus.
package events

import (
	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/platform/events"
)

const (
	TypeScanQueued         = "scan.queued"
	TypeScanProgressed     = "scan.progressed"
	TypeScanCompleted      = "scan.completed"
	TypeScanFailed         = "scan.failed"
	TypeProspectDiscovered = "prospect.discovered"
)

// ScanQueued fires when a scan is accepted and its queue row persisted.
type ScanQueued struct {
	events.BaseEvent
	ScanID   uuid.UUID
	UserID   uuid.UUID
	SourceID uuid.UUID
}

func (ScanQueued) EventName() string { return TypeScanQueued }

func NewScanQueued(scanID, userID, sourceID uuid.UUID) ScanQueued {
	return ScanQueued{
		BaseEvent: events.NewBaseEvent(),
		ScanID:    scanID,
		UserID:    userID,
		SourceID:  sourceID,
	}
}

// ScanProgressed fires on every state machine transition.
type ScanProgressed struct {
	events.BaseEvent
	ScanID  uuid.UUID
	UserID  uuid.UUID
	State   string
	Percent float64
}

func (ScanProgressed) EventName() string { return TypeScanProgressed }

func NewScanProgressed(scanID, userID uuid.UUID, state string, percent float64) ScanProgressed {
	return ScanProgressed{
		BaseEvent: events.NewBaseEvent(),
		ScanID:    scanID,
		UserID:    userID,
		State:     state,
		Percent:   percent,
	}
}

// ScanCompleted fires once a scan reaches its terminal COMPLETE state.
type ScanCompleted struct {
	events.BaseEvent
	ScanID    uuid.UUID
	UserID    uuid.UUID
	Prospects int
}

func (ScanCompleted) EventName() string { return TypeScanCompleted }

func NewScanCompleted(scanID, userID uuid.UUID, prospects int) ScanCompleted {
	return ScanCompleted{
		BaseEvent: events.NewBaseEvent(),
		ScanID:    scanID,
		UserID:    userID,
		Prospects: prospects,
	}
}

// ScanFailed fires when a scan ends in ERROR.
type ScanFailed struct {
	events.BaseEvent
	ScanID uuid.UUID
	UserID uuid.UUID
	State  string
	Reason string
}

func (ScanFailed) EventName() string { return TypeScanFailed }

func NewScanFailed(scanID, userID uuid.UUID, state, reason string) ScanFailed {
	return ScanFailed{
		BaseEvent: events.NewBaseEvent(),
		ScanID:    scanID,
		UserID:    userID,
		State:     state,
		Reason:    reason,
	}
}

// ProspectDiscovered fires when a scan creates a new canonical entity.
type ProspectDiscovered struct {
	events.BaseEvent
	ScanID   uuid.UUID
	UserID   uuid.UUID
	EntityID uuid.UUID
}

func (ProspectDiscovered) EventName() string { return TypeProspectDiscovered }

func NewProspectDiscovered(scanID, userID, entityID uuid.UUID) ProspectDiscovered {
	return ProspectDiscovered{
		BaseEvent: events.NewBaseEvent(),
		ScanID:    scanID,
		UserID:    userID,
		EntityID:  entityID,
	}
}
