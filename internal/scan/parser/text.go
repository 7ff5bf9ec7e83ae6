package parser

import (
	"regexp"
	"strings"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Local 11-digit numbers starting 0, their +63 international form, and
	// generic NNN-NNN-NNNN shaped tokens.
	phoneRe = regexp.MustCompile(`\+63\d{10}|0\d{10}|\d{3}-\d{3}-\d{4}`)

	// One handle per recognized platform URL pattern.
	facebookRe  = regexp.MustCompile(`(?:facebook\.com|fb\.me)/([A-Za-z0-9_.\-]+)`)
	instagramRe = regexp.MustCompile(`instagram\.com/([A-Za-z0-9_.\-]+)`)
	linkedinRe  = regexp.MustCompile(`linkedin\.com/in/([A-Za-z0-9_.\-]+)`)
	tiktokRe    = regexp.MustCompile(`tiktok\.com/@([A-Za-z0-9_.\-]+)`)

	// "Capitalized Word Capitalized Word..." at line start.
	displayNameRe = regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
)

// parseText scans line by line, extracting emails, phone-like tokens,
// social handles and an opportunistic display name. Lines yielding nothing
// are dropped. A substring captured as an email is removed before the
// phone scan so the same literal text is never read twice.
func parseText(rawText string) []domain.DraftProspect {
	var drafts []domain.DraftProspect

	for _, line := range strings.Split(rawText, "\n") {
		draft := parseLine(line)
		if draft.Empty() {
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts
}

func parseLine(line string) domain.DraftProspect {
	var draft domain.DraftProspect

	line = strings.TrimSpace(line)
	if line == "" {
		return draft
	}

	if m := displayNameRe.FindStringSubmatch(line); m != nil {
		draft.DisplayName = strings.Join(strings.Fields(m[1]), " ")
	}

	remainder := line
	for _, email := range emailRe.FindAllString(remainder, -1) {
		draft.Emails = append(draft.Emails, email)
	}
	remainder = emailRe.ReplaceAllString(remainder, " ")

	draft.Handles = extractHandles(remainder)
	remainder = stripHandleURLs(remainder)

	for _, phone := range phoneRe.FindAllString(remainder, -1) {
		draft.Phones = append(draft.Phones, phone)
	}

	return draft
}

// extractHandles pulls at most one handle per recognized platform.
func extractHandles(text string) domain.SocialHandles {
	var handles domain.SocialHandles

	if m := facebookRe.FindStringSubmatch(text); m != nil {
		handles.Facebook = m[1]
	}
	if m := instagramRe.FindStringSubmatch(text); m != nil {
		handles.Instagram = m[1]
	}
	if m := linkedinRe.FindStringSubmatch(text); m != nil {
		handles.LinkedIn = m[1]
	}
	if m := tiktokRe.FindStringSubmatch(text); m != nil {
		handles.TikTok = m[1]
	}

	return handles
}

// stripHandleURLs blanks recognized platform URLs so digits inside them
// are not misread as phone numbers.
func stripHandleURLs(text string) string {
	for _, re := range []*regexp.Regexp{linkedinRe, tiktokRe, facebookRe, instagramRe} {
		text = re.ReplaceAllString(text, " ")
	}
	return text
}
