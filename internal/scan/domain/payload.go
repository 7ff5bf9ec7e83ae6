package domain

import (
	"encoding/json"
	"fmt"
)

// Payload is the typed form of a source's raw JSON payload. One variant
// exists per SourceType so the preprocessor can dispatch exhaustively
// instead of probing untyped fields.
type Payload interface {
	sourceType() SourceType
}

// PastePayload is free text pasted by the user.
type PastePayload struct {
	Text string `json:"text"`
}

// CSVPayload is a CSV export, carried verbatim.
type CSVPayload struct {
	CSVText  string `json:"csv_text"`
	Filename string `json:"filename,omitempty"`
}

// OCRPayload is text recognized from an image by the (external) OCR step.
// Image sources arrive in the same shape once OCR has run.
type OCRPayload struct {
	ExtractedText string `json:"extracted_text"`
	ImageRef      string `json:"image_ref,omitempty"`
}

// HTMLCapturePayload is captured markup from a crawl or browser extension.
type HTMLCapturePayload struct {
	HTML      string `json:"html"`
	SourceURL string `json:"source_url,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// ChatPayload is a chatbot conversation transcript.
type ChatPayload struct {
	Transcript string `json:"transcript"`
}

// DataExportPayload is a platform data export (Facebook data file,
// LinkedIn connections export) already flattened to CSV-ish text.
type DataExportPayload struct {
	CSVText  string `json:"csv_text"`
	Platform string `json:"platform,omitempty"`
}

// ManualPayload is a single manually keyed-in prospect line.
type ManualPayload struct {
	Text string `json:"text"`
}

func (PastePayload) sourceType() SourceType       { return SourcePasteText }
func (CSVPayload) sourceType() SourceType         { return SourceCSV }
func (OCRPayload) sourceType() SourceType         { return SourceOCR }
func (HTMLCapturePayload) sourceType() SourceType { return SourceBrowserCapture }
func (ChatPayload) sourceType() SourceType        { return SourceChatbot }
func (DataExportPayload) sourceType() SourceType  { return SourceFBDataFile }
func (ManualPayload) sourceType() SourceType      { return SourceManualInput }

// DecodePayload parses a source's raw JSON payload into its typed variant.
// Image sources share the OCR shape, crawls and captures share the HTML
// shape, and both platform exports share the data-export shape.
func DecodePayload(t SourceType, raw []byte) (Payload, error) {
	decode := func(v Payload) (Payload, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", t, err)
		}
		return v, nil
	}

	switch t {
	case SourcePasteText:
		return decode(&PastePayload{})
	case SourceCSV:
		return decode(&CSVPayload{})
	case SourceImage, SourceOCR:
		return decode(&OCRPayload{})
	case SourceWebCrawl, SourceBrowserCapture:
		return decode(&HTMLCapturePayload{})
	case SourceChatbot:
		return decode(&ChatPayload{})
	case SourceFBDataFile, SourceLinkedInExport:
		return decode(&DataExportPayload{})
	case SourceManualInput:
		return decode(&ManualPayload{})
	default:
		return nil, fmt.Errorf("unrecognized source type %q", t)
	}
}
