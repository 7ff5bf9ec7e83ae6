package parser

import (
	"strings"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

// csvField identifies a logical prospect field a CSV column can map to.
type csvField int

const (
	fieldNone csvField = iota
	fieldName
	fieldFirst
	fieldLast
	fieldEmail
	fieldPhone
	fieldFacebook
	fieldInstagram
	fieldLinkedIn
	fieldTikTok
)

// parseCSV treats the first non-empty line as a header, resolves column
// indices against the alias table, and extracts one draft per data row.
// Rows producing no usable field are dropped. Ragged and partially quoted
// rows are tolerated; this is why the splitter is hand-rolled rather than
// encoding/csv, which rejects them outright.
func (a *Agent) parseCSV(rawText string) []domain.DraftProspect {
	lines := strings.Split(rawText, "\n")

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	columns := a.resolveColumns(splitCSVRow(lines[headerIdx]))
	if len(columns) == 0 {
		return nil
	}

	var drafts []domain.DraftProspect
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := splitCSVRow(line)
		draft := buildDraft(columns, cells)
		if draft.Empty() {
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts
}

// resolveColumns maps column index -> logical field. More specific fields
// (first/last name) are checked before the generic name aliases so a
// "First Name" header never lands on the display-name field. Each logical
// field claims at most one column.
func (a *Agent) resolveColumns(header []string) map[int]csvField {
	match := func(cell string, aliases []string) bool {
		for _, alias := range aliases {
			if strings.Contains(cell, alias) {
				return true
			}
		}
		return false
	}

	columns := make(map[int]csvField)
	claimed := make(map[csvField]bool)

	checks := []struct {
		field   csvField
		aliases []string
	}{
		{fieldFirst, a.aliases.First},
		{fieldLast, a.aliases.Last},
		{fieldEmail, a.aliases.Email},
		{fieldPhone, a.aliases.Phone},
		{fieldFacebook, a.aliases.Facebook},
		{fieldInstagram, a.aliases.Instagram},
		{fieldLinkedIn, a.aliases.LinkedIn},
		{fieldTikTok, a.aliases.TikTok},
		{fieldName, a.aliases.Name},
	}

	for idx, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, check := range checks {
			if claimed[check.field] || !match(cell, check.aliases) {
				continue
			}
			columns[idx] = check.field
			claimed[check.field] = true
			break
		}
	}

	return columns
}

func buildDraft(columns map[int]csvField, cells []string) domain.DraftProspect {
	var draft domain.DraftProspect

	for idx, field := range columns {
		if idx >= len(cells) {
			continue
		}
		value := strings.TrimSpace(cells[idx])
		if value == "" {
			continue
		}

		switch field {
		case fieldName:
			draft.DisplayName = value
		case fieldFirst:
			draft.FirstName = value
		case fieldLast:
			draft.LastName = value
		case fieldEmail:
			draft.Emails = append(draft.Emails, value)
		case fieldPhone:
			draft.Phones = append(draft.Phones, value)
		case fieldFacebook:
			draft.Handles.Facebook = value
		case fieldInstagram:
			draft.Handles.Instagram = value
		case fieldLinkedIn:
			draft.Handles.LinkedIn = value
		case fieldTikTok:
			draft.Handles.TikTok = value
		}
	}

	if draft.DisplayName == "" && (draft.FirstName != "" || draft.LastName != "") {
		draft.DisplayName = strings.TrimSpace(draft.FirstName + " " + draft.LastName)
	}

	return draft
}

// splitCSVRow splits one CSV line on commas, honoring double-quoted fields
// containing commas and doubled quotes.
func splitCSVRow(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))

	return fields
}
