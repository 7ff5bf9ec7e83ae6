// Package normalize canonicalizes draft prospect fields before matching.
// Names are title-cased, emails lowercased and shape-checked, phones
// rewritten to E.164 with a configurable default region, and social
// handles reduced to a bare lowercase handle. The normalizer only
// rewrites what a parser extracted; it never invents fields, and running
// it twice produces the same draft.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
	"github.com/msoyaph/nexscout-sub003/platform/phone"
)

// Normalizer canonicalizes drafts for a single default phone region.
type Normalizer struct {
	region string
	titler cases.Caser
}

// New creates a normalizer. region is an ISO 3166-1 alpha-2 code used to
// resolve local phone number prefixes.
func New(region string) *Normalizer {
	return &Normalizer{
		region: region,
		titler: cases.Title(language.Und),
	}
}

// Drafts returns a new slice of normalized copies; the input is not
// modified.
func (n *Normalizer) Drafts(drafts []domain.DraftProspect) []domain.DraftProspect {
	if len(drafts) == 0 {
		return nil
	}
	out := make([]domain.DraftProspect, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, n.Draft(d))
	}
	return out
}

// Draft returns a normalized copy of one draft.
func (n *Normalizer) Draft(d domain.DraftProspect) domain.DraftProspect {
	out := d

	out.DisplayName = n.name(d.DisplayName)
	out.FirstName = n.name(d.FirstName)
	out.LastName = n.name(d.LastName)
	out.Emails = normalizeEmails(d.Emails)
	out.Phones = n.normalizePhones(d.Phones)
	out.Handles = domain.SocialHandles{
		Facebook:  normalizeHandle(d.Handles.Facebook),
		Instagram: normalizeHandle(d.Handles.Instagram),
		LinkedIn:  normalizeHandle(d.Handles.LinkedIn),
		TikTok:    normalizeHandle(d.Handles.TikTok),
	}

	return out
}

func (n *Normalizer) name(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return n.titler.String(strings.ToLower(s))
}

// normalizeEmails lowercases, trims and dedupes. Strings without both an
// "@" and a "." are dropped rather than carried forward malformed.
func normalizeEmails(emails []string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || !strings.Contains(e, "@") || !strings.Contains(e, ".") {
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}

	return out
}

func (n *Normalizer) normalizePhones(phones []string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, p := range phones {
		p = phone.NormalizeE164(p, n.region)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	return out
}

// normalizeHandle reduces profile URLs, "@name" mentions and bare handles
// to one lowercase form so handle equality works across capture formats.
func normalizeHandle(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}

	h = strings.TrimRight(h, "/")
	if i := strings.LastIndex(h, "/"); i >= 0 {
		h = h[i+1:]
	}
	h = strings.TrimPrefix(h, "@")
	h = strings.TrimSpace(h)

	return strings.ToLower(h)
}
