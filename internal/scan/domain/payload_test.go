package domain

import "testing"

func TestDecodePayloadDispatchesByType(t *testing.T) {
	tests := []struct {
		sourceType SourceType
		raw        string
		check      func(t *testing.T, p Payload)
	}{
		{SourcePasteText, `{"text":"Juan Dela Cruz"}`, func(t *testing.T, p Payload) {
			if p.(*PastePayload).Text != "Juan Dela Cruz" {
				t.Fatal("paste text not decoded")
			}
		}},
		{SourceCSV, `{"csv_text":"name,email","filename":"leads.csv"}`, func(t *testing.T, p Payload) {
			if p.(*CSVPayload).Filename != "leads.csv" {
				t.Fatal("csv filename not decoded")
			}
		}},
		{SourceImage, `{"extracted_text":"Maria Santos"}`, func(t *testing.T, p Payload) {
			if p.(*OCRPayload).ExtractedText != "Maria Santos" {
				t.Fatal("image sources must decode as OCR payloads")
			}
		}},
		{SourceWebCrawl, `{"html":"<p>hi</p>","source_url":"https://example.com"}`, func(t *testing.T, p Payload) {
			if p.(*HTMLCapturePayload).SourceURL != "https://example.com" {
				t.Fatal("crawl source url not decoded")
			}
		}},
		{SourceLinkedInExport, `{"csv_text":"First Name,Last Name"}`, func(t *testing.T, p Payload) {
			if p.(*DataExportPayload).CSVText == "" {
				t.Fatal("linkedin exports must decode as data exports")
			}
		}},
		{SourceManualInput, `{"text":"Pedro Reyes 09171234567"}`, func(t *testing.T, p Payload) {
			if p.(*ManualPayload).Text == "" {
				t.Fatal("manual text not decoded")
			}
		}},
	}

	for _, tc := range tests {
		t.Run(string(tc.sourceType), func(t *testing.T) {
			p, err := DecodePayload(tc.sourceType, []byte(tc.raw))
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			tc.check(t, p)
		})
	}
}

func TestDecodePayloadRejectsUnknownType(t *testing.T) {
	if _, err := DecodePayload(SourceType("carrier_pigeon"), []byte(`{}`)); err == nil {
		t.Fatal("expected error for unrecognized source type")
	}
}

func TestDecodePayloadRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodePayload(SourcePasteText, []byte(`{"text":`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestSourceTypeValid(t *testing.T) {
	for _, s := range SourceTypes {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if SourceType("").Valid() || SourceType("bogus").Valid() {
		t.Fatal("unknown types must not be valid")
	}
}
