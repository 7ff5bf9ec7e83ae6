package agent

import (
	"testing"
)

func TestParseResultPlainJSON(t *testing.T) {
	result, ok := parseResult(`{"score": 75, "confidence": 0.8, "businessInterest": "retail"}`)
	if !ok {
		t.Fatal("expected ok")
	}
	if result.Score != 75 || result.Confidence != 0.8 {
		t.Fatalf("result = %+v", result)
	}
	if result.BusinessInterest != "retail" {
		t.Fatalf("businessInterest = %q", result.BusinessInterest)
	}
	// Fields the model omitted keep their neutral defaults.
	if result.PersonalityProfile != "unknown" {
		t.Fatalf("personalityProfile = %q", result.PersonalityProfile)
	}
}

func TestParseResultMarkdownFence(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"score\": 60, \"confidence\": 0.7}\n```\nLet me know if you need more."
	result, ok := parseResult(raw)
	if !ok {
		t.Fatal("expected ok")
	}
	if result.Score != 60 {
		t.Fatalf("score = %d", result.Score)
	}
}

func TestParseResultClampsRanges(t *testing.T) {
	result, ok := parseResult(`{"score": 250, "confidence": -3}`)
	if !ok {
		t.Fatal("expected ok")
	}
	if result.Score != 100 {
		t.Fatalf("score = %d", result.Score)
	}
	if result.Confidence != 0 {
		t.Fatalf("confidence = %v", result.Confidence)
	}
}

func TestParseResultGarbage(t *testing.T) {
	for _, raw := range []string{"", "no json here", "{broken", "}{"} {
		result, ok := parseResult(raw)
		if ok {
			t.Fatalf("expected failure for %q", raw)
		}
		if result.Score != 50 || result.Confidence != 0.5 {
			t.Fatalf("default result = %+v", result)
		}
	}
}

func TestParseResultNullListsBecomeEmpty(t *testing.T) {
	result, ok := parseResult(`{"score": 40, "painPoints": null, "topOpportunities": null}`)
	if !ok {
		t.Fatal("expected ok")
	}
	if result.PainPoints == nil || result.TopOpportunities == nil {
		t.Fatalf("lists = %v / %v", result.PainPoints, result.TopOpportunities)
	}
}
