// Package domain holds the core types of the prospect ingestion pipeline:
// source classification, pipeline states, draft prospects and the scan
// working context. It has no dependencies on persistence or transport.
package domain

import (
	"github.com/google/uuid"
)

// SourceType identifies where a scanned payload came from.
type SourceType string

const (
	SourcePasteText      SourceType = "paste_text"
	SourceCSV            SourceType = "csv"
	SourceImage          SourceType = "image"
	SourceOCR            SourceType = "ocr"
	SourceWebCrawl       SourceType = "web_crawl"
	SourceBrowserCapture SourceType = "browser_capture"
	SourceChatbot        SourceType = "chatbot_conversation"
	SourceFBDataFile     SourceType = "fb_data_file"
	SourceLinkedInExport SourceType = "linkedin_export"
	SourceManualInput    SourceType = "manual_input"
)

// SourceTypes lists every recognized source type.
var SourceTypes = []SourceType{
	SourcePasteText, SourceCSV, SourceImage, SourceOCR, SourceWebCrawl,
	SourceBrowserCapture, SourceChatbot, SourceFBDataFile,
	SourceLinkedInExport, SourceManualInput,
}

// Valid reports whether t is one of the recognized source types.
func (t SourceType) Valid() bool {
	for _, known := range SourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Structure is the structural hint the preprocessor hands to the parser
// dispatcher.
type Structure string

const (
	StructureCSV        Structure = "csv"
	StructureHTML       Structure = "html"
	StructureList       Structure = "list"
	StructureParagraphs Structure = "paragraphs"
	StructureOCR        Structure = "ocr"
	StructureUnknown    Structure = ""
)

// Language is the detected language of a source's raw text.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageFilipino Language = "fil"
	LanguageTaglish  Language = "taglish"
	LanguageUnknown  Language = "unknown"
)

// SocialHandles holds the per-platform handles a prospect is known by.
type SocialHandles struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// Empty reports whether no handle is set.
func (h SocialHandles) Empty() bool {
	return h.Facebook == "" && h.Instagram == "" && h.LinkedIn == "" && h.TikTok == ""
}

// DraftProspect is a transient candidate record extracted by a parser.
// It exists only within one scan's working context and is never persisted
// directly.
type DraftProspect struct {
	DisplayName string        `json:"displayName,omitempty"`
	FirstName   string        `json:"firstName,omitempty"`
	LastName    string        `json:"lastName,omitempty"`
	Emails      []string      `json:"emails,omitempty"`
	Phones      []string      `json:"phones,omitempty"`
	Handles     SocialHandles `json:"handles,omitempty"`

	// MatchedEntityID references the existing entity this draft resolved to,
	// set by the entity matcher. Nil means the draft is a new prospect.
	MatchedEntityID *uuid.UUID `json:"matchedEntityId,omitempty"`
}

// Empty reports whether the draft carries no usable field.
func (d DraftProspect) Empty() bool {
	return d.DisplayName == "" && d.FirstName == "" && d.LastName == "" &&
		len(d.Emails) == 0 && len(d.Phones) == 0 && d.Handles.Empty()
}

// ScanContext is the pipeline's working state for one scan. Stages receive
// a context value and return a new one; nothing mutates a shared copy, so
// concurrent scans can never interfere through it. A serialized snapshot is
// persisted at every state transition.
type ScanContext struct {
	ScanID   uuid.UUID `json:"scanId"`
	UserID   uuid.UUID `json:"userId"`
	SourceID uuid.UUID `json:"sourceId"`

	State ScanState `json:"state"`
	Error string    `json:"error,omitempty"`

	Language  Language  `json:"language,omitempty"`
	Structure Structure `json:"structure,omitempty"`
	RawText   string    `json:"rawText,omitempty"`

	Drafts     []DraftProspect `json:"drafts,omitempty"`
	Normalized []DraftProspect `json:"normalized,omitempty"`
	EntityIDs  []uuid.UUID     `json:"entityIds,omitempty"`
}

// NewScanContext creates the initial context for a scan run.
func NewScanContext(scanID, userID, sourceID uuid.UUID) ScanContext {
	return ScanContext{
		ScanID:   scanID,
		UserID:   userID,
		SourceID: sourceID,
		State:    StateIdle,
	}
}
