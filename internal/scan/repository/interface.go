package repository

import (
	"context"

	"github.com/google/uuid"
)

// Segregated interfaces so each pipeline stage and the service layer
// depend only on the operations they use.

// SourceStore manages ingested source batches.
type SourceStore interface {
	CreateSource(ctx context.Context, params CreateSourceParams) (ProspectSource, error)
	GetSource(ctx context.Context, id uuid.UUID) (ProspectSource, error)
	MarkSourceProcessed(ctx context.Context, id uuid.UUID) error
}

// QueueStore tracks queued scans through to a terminal status.
type QueueStore interface {
	CreateQueueEntry(ctx context.Context, params CreateQueueEntryParams) (ScanQueueEntry, error)
	GetQueueEntry(ctx context.Context, id uuid.UUID) (ScanQueueEntry, error)
	MarkQueueRunning(ctx context.Context, id uuid.UUID) error
	MarkQueueCompleted(ctx context.Context, id uuid.UUID) error
	MarkQueueFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// SnapshotStore persists the per-transition working context.
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, params UpsertSnapshotParams) error
	GetSnapshot(ctx context.Context, scanID uuid.UUID) (ScanSnapshot, error)
}

// EntityReader provides read access to the contact graph.
type EntityReader interface {
	GetEntity(ctx context.Context, userID, id uuid.UUID) (ProspectEntity, error)
	ListEntitiesForMatching(ctx context.Context, userID uuid.UUID) ([]ProspectEntity, error)
	ListEntities(ctx context.Context, params ListEntitiesParams) ([]EntityWithIntel, int, error)
	SearchEntities(ctx context.Context, userID uuid.UUID, query string, limit int) ([]EntityWithIntel, error)
}

// EntityWriter creates and merges canonical entities.
type EntityWriter interface {
	CreateEntity(ctx context.Context, params UpsertEntityParams) (ProspectEntity, error)
	UpdateEntity(ctx context.Context, id uuid.UUID, params UpsertEntityParams) (ProspectEntity, error)
}

// IntelStore holds the rolling AI analysis per entity.
type IntelStore interface {
	UpsertIntel(ctx context.Context, params UpsertIntelParams) error
	GetIntel(ctx context.Context, userID, entityID uuid.UUID) (ProspectIntel, error)
}

// HistoryStore appends and reads the per-entity event log.
type HistoryStore interface {
	AddHistory(ctx context.Context, params AddHistoryParams) error
	ListHistory(ctx context.Context, userID, entityID uuid.UUID) ([]HistoryEntry, error)
}

// AgentResultStore audits raw and parsed model output.
type AgentResultStore interface {
	InsertAgentResult(ctx context.Context, params InsertAgentResultParams) error
}

// LearningStore maintains per-user aggregate scan statistics.
type LearningStore interface {
	GetLearningProfile(ctx context.Context, userID uuid.UUID) (LearningProfile, error)
	RecordScanOutcome(ctx context.Context, userID uuid.UUID, prospects int, learningData []byte) (LearningProfile, error)
}

// WalletReader exposes the energy balance gating the premium model tier.
type WalletReader interface {
	GetWalletEnergy(ctx context.Context, userID uuid.UUID) (int, error)
}
