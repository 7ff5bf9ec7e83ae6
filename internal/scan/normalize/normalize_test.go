package normalize

import (
	"reflect"
	"testing"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

func TestDraftNames(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{
		DisplayName: "  juan   DELA cruz ",
		FirstName:   "juan",
		LastName:    "DELA CRUZ",
	})
	if d.DisplayName != "Juan Dela Cruz" {
		t.Fatalf("display name = %q", d.DisplayName)
	}
	if d.FirstName != "Juan" || d.LastName != "Dela Cruz" {
		t.Fatalf("first/last = %q/%q", d.FirstName, d.LastName)
	}
}

func TestDraftEmails(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{
		Emails: []string{" Juan@X.COM ", "not-an-email", "missing@dot", "juan@x.com"},
	})
	if !reflect.DeepEqual(d.Emails, []string{"juan@x.com"}) {
		t.Fatalf("emails = %v", d.Emails)
	}
}

func TestDraftLocalPhoneRewrite(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{Phones: []string{"09171234567"}})
	if !reflect.DeepEqual(d.Phones, []string{"+639171234567"}) {
		t.Fatalf("phones = %v", d.Phones)
	}
}

func TestDraftPhoneDedupeAcrossForms(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{Phones: []string{"09171234567", "+639171234567"}})
	if !reflect.DeepEqual(d.Phones, []string{"+639171234567"}) {
		t.Fatalf("phones = %v", d.Phones)
	}
}

func TestDraftHandles(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{
		Handles: domain.SocialHandles{
			Facebook:  "https://facebook.com/JuanDC/",
			Instagram: "@juandc",
			LinkedIn:  "linkedin.com/in/juandc",
			TikTok:    "juandc",
		},
	})
	want := domain.SocialHandles{
		Facebook:  "juandc",
		Instagram: "juandc",
		LinkedIn:  "juandc",
		TikTok:    "juandc",
	}
	if d.Handles != want {
		t.Fatalf("handles = %+v", d.Handles)
	}
}

func TestDraftIdempotent(t *testing.T) {
	n := New("PH")

	once := n.Draft(domain.DraftProspect{
		DisplayName: "maria SANTOS",
		Emails:      []string{"Maria@X.com"},
		Phones:      []string{"09171234567", "555-123-4567"},
		Handles:     domain.SocialHandles{Instagram: "@Maria.Santos"},
	})
	twice := n.Draft(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDraftDoesNotInventFields(t *testing.T) {
	n := New("PH")

	d := n.Draft(domain.DraftProspect{})
	if !d.Empty() {
		t.Fatalf("empty draft gained fields: %+v", d)
	}
}

func TestDraftsPreservesInput(t *testing.T) {
	n := New("PH")

	in := []domain.DraftProspect{{DisplayName: "juan dela cruz"}}
	out := n.Drafts(in)

	if in[0].DisplayName != "juan dela cruz" {
		t.Fatalf("input mutated: %q", in[0].DisplayName)
	}
	if out[0].DisplayName != "Juan Dela Cruz" {
		t.Fatalf("output = %q", out[0].DisplayName)
	}
}
