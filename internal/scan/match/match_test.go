package match

import (
	"testing"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
)

func entity(name string, emails, phones []string) repository.ProspectEntity {
	return repository.ProspectEntity{
		ID:          uuid.New(),
		DisplayName: name,
		Emails:      emails,
		Phones:      phones,
	}
}

func TestResolveByEmail(t *testing.T) {
	existing := entity("Juan Dela Cruz", []string{"a@b.com"}, nil)

	drafts := Resolve(
		[]domain.DraftProspect{{DisplayName: "JUAN DELA CRUZ", Emails: []string{"a@b.com"}}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != existing.ID {
		t.Fatalf("matched = %v, want %v", drafts[0].MatchedEntityID, existing.ID)
	}
}

func TestResolveEmailBeatsName(t *testing.T) {
	// The draft's name matches one entity and its email another; email is
	// the earlier check so it wins regardless of candidate order.
	byName := entity("Maria Santos", nil, nil)
	byEmail := entity("M. Santos", []string{"maria@x.com"}, nil)

	drafts := Resolve(
		[]domain.DraftProspect{{DisplayName: "Maria Santos", Emails: []string{"maria@x.com"}}},
		[]repository.ProspectEntity{byName, byEmail},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != byEmail.ID {
		t.Fatalf("matched = %v, want email match %v", drafts[0].MatchedEntityID, byEmail.ID)
	}
}

func TestResolveByPhone(t *testing.T) {
	existing := entity("Pedro Reyes", nil, []string{"+639171234567"})

	drafts := Resolve(
		[]domain.DraftProspect{{Phones: []string{"+639171234567"}}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != existing.ID {
		t.Fatalf("matched = %v", drafts[0].MatchedEntityID)
	}
}

func TestResolveByHandle(t *testing.T) {
	existing := repository.ProspectEntity{ID: uuid.New(), Instagram: "juandc"}

	drafts := Resolve(
		[]domain.DraftProspect{{Handles: domain.SocialHandles{Instagram: "juandc"}}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != existing.ID {
		t.Fatalf("matched = %v", drafts[0].MatchedEntityID)
	}
}

func TestResolveByNameCaseInsensitive(t *testing.T) {
	existing := entity("Juan Dela Cruz", nil, nil)

	drafts := Resolve(
		[]domain.DraftProspect{{DisplayName: "juan dela cruz"}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != existing.ID {
		t.Fatalf("matched = %v", drafts[0].MatchedEntityID)
	}
}

func TestResolveFirstCandidateWinsOnTie(t *testing.T) {
	// Two candidates satisfy the same check; the one earlier in the list
	// (most recently updated) is chosen.
	first := entity("Ana Lim", []string{"ana@x.com"}, nil)
	second := entity("Ana L.", []string{"ana@x.com"}, nil)

	drafts := Resolve(
		[]domain.DraftProspect{{Emails: []string{"ana@x.com"}}},
		[]repository.ProspectEntity{first, second},
	)
	if drafts[0].MatchedEntityID == nil || *drafts[0].MatchedEntityID != first.ID {
		t.Fatalf("matched = %v, want first candidate %v", drafts[0].MatchedEntityID, first.ID)
	}
}

func TestResolveNoMatch(t *testing.T) {
	existing := entity("Juan Dela Cruz", []string{"a@b.com"}, nil)

	drafts := Resolve(
		[]domain.DraftProspect{{DisplayName: "Someone Else", Emails: []string{"z@z.com"}}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID != nil {
		t.Fatalf("matched = %v, want nil", drafts[0].MatchedEntityID)
	}
}

func TestResolveEmptyFieldsNeverMatch(t *testing.T) {
	// An entity with empty handles must not match a draft with empty
	// handles; absence is not equality.
	existing := repository.ProspectEntity{ID: uuid.New(), DisplayName: "Juan Dela Cruz"}

	drafts := Resolve(
		[]domain.DraftProspect{{Emails: []string{"x@y.com"}}},
		[]repository.ProspectEntity{existing},
	)
	if drafts[0].MatchedEntityID != nil {
		t.Fatalf("matched = %v, want nil", drafts[0].MatchedEntityID)
	}
}
