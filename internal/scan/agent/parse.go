package agent

import (
	"encoding/json"
	"strings"
)

// parseResult extracts a DeepIntelResult from raw model output. Models
// wrap JSON in markdown fences or prose often enough that the parser
// looks for the outermost object rather than trusting the whole string.
// Out-of-range values are clamped; anything unparseable yields the
// default result and ok=false.
func parseResult(raw string) (DeepIntelResult, bool) {
	body := extractObject(raw)
	if body == "" {
		return DefaultResult(), false
	}

	result := DefaultResult()
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return DefaultResult(), false
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	if result.PainPoints == nil {
		result.PainPoints = []string{}
	}
	if result.FinancialSignals == nil {
		result.FinancialSignals = []string{}
	}
	if result.LifeEvents == nil {
		result.LifeEvents = []string{}
	}
	if result.TopOpportunities == nil {
		result.TopOpportunities = []string{}
	}

	return result, true
}

// extractObject returns the substring from the first '{' to the last '}',
// which survives markdown fences and leading or trailing prose.
func extractObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
