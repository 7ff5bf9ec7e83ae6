// Package parser extracts draft prospects from preprocessed source text.
// Three format-specific agents (CSV, free text, HTML) share one contract:
// given raw text and a structural hint, return zero or more drafts and
// never fail. Unparseable input degrades to omitted records.
package parser

import (
	"strings"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

// Agent dispatches to the format-specific parsers by structural hint.
type Agent struct {
	aliases AliasTable
}

// NewAgent creates a parser agent with the given CSV header alias table.
func NewAgent(aliases AliasTable) *Agent {
	return &Agent{aliases: aliases}
}

// Parse extracts draft prospects from raw text. Unknown structures and
// empty input yield an empty list, never an error.
func (a *Agent) Parse(rawText string, structure domain.Structure) []domain.DraftProspect {
	if strings.TrimSpace(rawText) == "" {
		return nil
	}

	switch structure {
	case domain.StructureCSV:
		return a.parseCSV(rawText)
	case domain.StructureHTML:
		return parseHTML(rawText)
	case domain.StructureList, domain.StructureParagraphs, domain.StructureOCR:
		return parseText(rawText)
	default:
		return nil
	}
}
