// Package match resolves normalized drafts against a user's existing
// contact graph. Checks run in a fixed order per draft (email, phone,
// facebook handle, instagram handle, linkedin handle, exact
// case-insensitive display name) and the first candidate satisfying any
// check wins. Candidates are expected in updated_at DESC, id ASC order so
// a tie resolves to the most recently updated entity.
package match

import (
	"strings"

	"github.com/google/uuid"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/internal/scan/repository"
)

// Resolve returns copies of the drafts, each annotated with the id of the
// first candidate it matched, if any. Drafts and candidates are not
// modified.
func Resolve(drafts []domain.DraftProspect, candidates []repository.ProspectEntity) []domain.DraftProspect {
	if len(drafts) == 0 {
		return nil
	}

	out := make([]domain.DraftProspect, 0, len(drafts))
	for _, draft := range drafts {
		if id := resolveOne(draft, candidates); id != nil {
			draft.MatchedEntityID = id
		}
		out = append(out, draft)
	}
	return out
}

func resolveOne(draft domain.DraftProspect, candidates []repository.ProspectEntity) *uuid.UUID {
	checks := []func(domain.DraftProspect, repository.ProspectEntity) bool{
		matchEmail,
		matchPhone,
		matchFacebook,
		matchInstagram,
		matchLinkedIn,
		matchName,
	}

	for _, check := range checks {
		for _, candidate := range candidates {
			if check(draft, candidate) {
				id := candidate.ID
				return &id
			}
		}
	}
	return nil
}

func matchEmail(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return intersects(d.Emails, e.Emails)
}

func matchPhone(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return intersects(d.Phones, e.Phones)
}

func matchFacebook(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return d.Handles.Facebook != "" && d.Handles.Facebook == e.Facebook
}

func matchInstagram(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return d.Handles.Instagram != "" && d.Handles.Instagram == e.Instagram
}

func matchLinkedIn(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return d.Handles.LinkedIn != "" && d.Handles.LinkedIn == e.LinkedIn
}

func matchName(d domain.DraftProspect, e repository.ProspectEntity) bool {
	return d.DisplayName != "" && strings.EqualFold(d.DisplayName, e.DisplayName)
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
