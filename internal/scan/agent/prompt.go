package agent

import (
	"fmt"
	"strings"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
)

const systemPrompt = `You are a sales intelligence analyst for a prospecting platform.
Given a prospect's known profile and the source text they were discovered in,
produce a structured assessment of their sales potential.

Respond with ONLY a JSON object, no prose, matching exactly:
{
  "score": <integer 0-100, overall sales potential>,
  "confidence": <number 0-1, how well the source text supports the assessment>,
  "personalityProfile": <string>,
  "painPoints": [<string>, ...],
  "financialSignals": [<string>, ...],
  "businessInterest": <string>,
  "lifeEvents": [<string>, ...],
  "emotionalState": <string>,
  "engagementPrediction": <string>,
  "upsellReadiness": <string>,
  "closingLikelihood": <string>,
  "topOpportunities": [<string>, ...]
}

If the source text gives no signal for a field, use "unknown" or an empty list.
The source text may be in English, Filipino, or a mix of both.`

// buildPrompt assembles the analysis request from the entity's known
// profile and an excerpt of the source it was discovered in.
func buildPrompt(entity repository.ProspectEntity, excerpt string, language domain.Language) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\n## Prospect profile\n")
	fmt.Fprintf(&b, "Name: %s\n", orUnknown(entity.DisplayName))
	if len(entity.Emails) > 0 {
		fmt.Fprintf(&b, "Emails: %s\n", strings.Join(entity.Emails, ", "))
	}
	if len(entity.Phones) > 0 {
		fmt.Fprintf(&b, "Phones: %s\n", strings.Join(entity.Phones, ", "))
	}
	handles := []struct{ platform, handle string }{
		{"Facebook", entity.Facebook},
		{"Instagram", entity.Instagram},
		{"LinkedIn", entity.LinkedIn},
		{"TikTok", entity.TikTok},
	}
	for _, h := range handles {
		if h.handle != "" {
			fmt.Fprintf(&b, "%s: %s\n", h.platform, h.handle)
		}
	}

	if language != "" && language != domain.LanguageUnknown {
		fmt.Fprintf(&b, "\nSource language: %s\n", language)
	}

	b.WriteString("\n## Source text\n")
	if strings.TrimSpace(excerpt) == "" {
		b.WriteString("(no source text available)\n")
	} else {
		b.WriteString(excerpt)
		b.WriteString("\n")
	}

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
