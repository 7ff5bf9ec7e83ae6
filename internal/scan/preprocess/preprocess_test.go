package preprocess

import (
	"testing"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

func TestClassifyStructures(t *testing.T) {
	tests := []struct {
		name      string
		payload   domain.Payload
		wantText  string
		wantShape domain.Structure
	}{
		{"paste", &domain.PastePayload{Text: "Juan Dela Cruz"}, "Juan Dela Cruz", domain.StructureParagraphs},
		{"csv", &domain.CSVPayload{CSVText: "name,email"}, "name,email", domain.StructureCSV},
		{"ocr", &domain.OCRPayload{ExtractedText: "Maria Santos"}, "Maria Santos", domain.StructureOCR},
		{"html", &domain.HTMLCapturePayload{HTML: "<p>hi</p>"}, "<p>hi</p>", domain.StructureHTML},
		{"chat", &domain.ChatPayload{Transcript: "kumusta"}, "kumusta", domain.StructureParagraphs},
		{"export", &domain.DataExportPayload{CSVText: "name\nPedro"}, "name\nPedro", domain.StructureCSV},
		{"manual", &domain.ManualPayload{Text: "Pedro Reyes"}, "Pedro Reyes", domain.StructureList},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Classify(tc.payload)
			if res.RawText != tc.wantText {
				t.Fatalf("RawText = %q, want %q", res.RawText, tc.wantText)
			}
			if res.Structure != tc.wantShape {
				t.Fatalf("Structure = %q, want %q", res.Structure, tc.wantShape)
			}
		})
	}
}

func TestClassifyNilPayload(t *testing.T) {
	res := Classify(nil)
	if res.RawText != "" || res.Structure != domain.StructureUnknown {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if res.Language != domain.LanguageUnknown {
		t.Fatalf("Language = %q, want unknown", res.Language)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Language
	}{
		{"english", "the quick brown fox is here", domain.LanguageEnglish},
		{"filipino", "kumusta po kayo", domain.LanguageFilipino},
		{"taglish", "kumusta po naman the meeting is today", domain.LanguageTaglish},
		{"empty", "   ", domain.LanguageUnknown},
		{"digits only", "0917 1234 567", domain.LanguageUnknown},
		{"punctuation stripped", "Salamat, po!", domain.LanguageFilipino},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLanguage(tc.text); got != tc.want {
				t.Fatalf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyDetectsLanguageFromPayload(t *testing.T) {
	res := Classify(&domain.ChatPayload{Transcript: "kumusta po, salamat sa lahat"})
	if res.Language != domain.LanguageFilipino {
		t.Fatalf("Language = %q, want filipino", res.Language)
	}
}
