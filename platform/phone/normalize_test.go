package phone

import "testing"

func TestNormalizeE164LocalZeroPrefix(t *testing.T) {
	got := NormalizeE164("09171234567", "PH")
	if got != "+639171234567" {
		t.Fatalf("expected +639171234567, got %q", got)
	}
}

func TestNormalizeE164LocalZeroPrefixWithSeparators(t *testing.T) {
	got := NormalizeE164("0917-123-4567", "PH")
	if got != "+639171234567" {
		t.Fatalf("expected +639171234567, got %q", got)
	}
}

func TestNormalizeE164ZeroPrefixRewrittenEvenWhenInvalid(t *testing.T) {
	// 0 + 10 digits always becomes the region's country code + same digits.
	got := NormalizeE164("09999999999", "PH")
	if got != "+639999999999" {
		t.Fatalf("expected +639999999999, got %q", got)
	}
}

func TestNormalizeE164InternationalPassthrough(t *testing.T) {
	got := NormalizeE164("+14155552671", "PH")
	if got != "+14155552671" {
		t.Fatalf("expected +14155552671, got %q", got)
	}
}

func TestNormalizeE164RegionParameter(t *testing.T) {
	// The leading-zero rule follows the configured region, not a constant.
	got := NormalizeE164("0612345678", "NL")
	if got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
}

func TestNormalizeE164GarbageKeepsDialCharacters(t *testing.T) {
	got := NormalizeE164("call me at 123", "PH")
	if got != "123" {
		t.Fatalf("expected \"123\", got %q", got)
	}
}

func TestNormalizeE164EmptyInput(t *testing.T) {
	if got := NormalizeE164("   ", "PH"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
