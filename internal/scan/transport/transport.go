// Package transport defines the request and response shapes of the scan
// API. Handlers bind and validate these; the service maps them to and
// from repository models.
package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StartScanRequest starts a scan over one raw payload. The fronting
// layer authenticates the user and passes the id through.
type StartScanRequest struct {
	UserID     string          `json:"userId" binding:"required,uuid"`
	SourceType string          `json:"sourceType" binding:"required"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
}

type StartScanResponse struct {
	ScanID string `json:"scanId"`
	Status string `json:"status"`
}

// ScanStatusResponse merges the queue row and the latest state machine
// snapshot. A scan that has not started reports unknown/IDLE defaults.
type ScanStatusResponse struct {
	ScanID  string          `json:"scanId"`
	Status  string          `json:"status"`
	State   string          `json:"state"`
	Label   string          `json:"label"`
	Percent float64         `json:"percent"`
	Context json.RawMessage `json:"context,omitempty"`
	Error   *string         `json:"error,omitempty"`
}

type SocialHandlesResponse struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// ProspectResponse carries an entity with its latest intel joined in.
// Intel is null for a prospect that has not been deep-scanned yet.
type ProspectResponse struct {
	ID          uuid.UUID             `json:"id"`
	DisplayName string                `json:"displayName"`
	FirstName   string                `json:"firstName,omitempty"`
	LastName    string                `json:"lastName,omitempty"`
	Emails      []string              `json:"emails"`
	Phones      []string              `json:"phones"`
	Handles     SocialHandlesResponse `json:"handles"`
	Intel       *IntelResponse        `json:"intel"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type ProspectListResponse struct {
	Items  []ProspectResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type IntelResponse struct {
	Score        int             `json:"score"`
	Confidence   float64         `json:"confidence"`
	Analysis     json.RawMessage `json:"analysis"`
	ModelUsed    string          `json:"modelUsed,omitempty"`
	AgentVersion string          `json:"agentVersion"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type HistoryEventResponse struct {
	Event     string    `json:"event"`
	ScanID    uuid.UUID `json:"scanId"`
	SourceID  uuid.UUID `json:"sourceId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProspectIntelResponse bundles the three independent reads behind the
// intel endpoint. Intel and history may be empty for a prospect that has
// not been deep-scanned yet.
type ProspectIntelResponse struct {
	Entity  ProspectResponse       `json:"entity"`
	Intel   *IntelResponse         `json:"intel"`
	History []HistoryEventResponse `json:"history"`
}

// ScanCaptureResponse returns the archived raw payload of a scan.
type ScanCaptureResponse struct {
	ScanID  string          `json:"scanId"`
	Payload json.RawMessage `json:"payload"`
}

// LearningProfileResponse reports the per-user aggregate scan statistics
// maintained by the learning loop. A user who has never scanned gets a
// zero-valued profile.
type LearningProfileResponse struct {
	TotalScans          int        `json:"totalScans"`
	TotalProspects      int        `json:"totalProspects"`
	AvgProspectsPerScan float64    `json:"avgProspectsPerScan"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}
