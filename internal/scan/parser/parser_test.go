package parser

import (
	"testing"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

func TestParseDispatchNeverPanics(t *testing.T) {
	agent := NewAgent(DefaultAliases())

	structures := []domain.Structure{
		domain.StructureCSV,
		domain.StructureHTML,
		domain.StructureList,
		domain.StructureParagraphs,
		domain.StructureOCR,
		domain.Structure(""),
		domain.Structure("bogus"),
	}
	inputs := []string{"", "   ", "x", "a,b\nc", "<html", "\x00\xff"}

	for _, s := range structures {
		for _, in := range inputs {
			agent.Parse(in, s)
		}
	}
}

func TestParseUnknownStructure(t *testing.T) {
	agent := NewAgent(DefaultAliases())

	if drafts := agent.Parse("Juan Dela Cruz", "bogus"); drafts != nil {
		t.Fatalf("expected nil, got %v", drafts)
	}
}

func TestParseEmptyInput(t *testing.T) {
	agent := NewAgent(DefaultAliases())

	if drafts := agent.Parse("   \n  ", domain.StructureCSV); drafts != nil {
		t.Fatalf("expected nil, got %v", drafts)
	}
}
