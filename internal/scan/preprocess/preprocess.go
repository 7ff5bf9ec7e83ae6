// Package preprocess classifies a raw prospect source into the pipeline's
// canonical working form: extracted raw text, a structural hint for the
// parser dispatcher, and a detected language. It is pure and makes no
// external calls.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/msoyaph/nexscout-sub003/internal/scan/domain"
)

// Result is the preprocessor's contribution to the scan context.
type Result struct {
	RawText   string
	Structure domain.Structure
	Language  domain.Language
}

// Classify extracts text and a structural hint from a typed payload.
// A nil payload (unrecognized source type) yields an empty result, which
// downstream parsers treat as "nothing to extract".
func Classify(payload domain.Payload) Result {
	var res Result

	switch p := payload.(type) {
	case *domain.PastePayload:
		res.RawText = p.Text
		res.Structure = domain.StructureParagraphs
	case *domain.CSVPayload:
		res.RawText = p.CSVText
		res.Structure = domain.StructureCSV
	case *domain.OCRPayload:
		res.RawText = p.ExtractedText
		res.Structure = domain.StructureOCR
	case *domain.HTMLCapturePayload:
		res.RawText = p.HTML
		res.Structure = domain.StructureHTML
	case *domain.ChatPayload:
		res.RawText = p.Transcript
		res.Structure = domain.StructureParagraphs
	case *domain.DataExportPayload:
		res.RawText = p.CSVText
		res.Structure = domain.StructureCSV
	case *domain.ManualPayload:
		res.RawText = p.Text
		res.Structure = domain.StructureList
	}

	res.Language = DetectLanguage(res.RawText)
	return res
}

// filipinoWords is a fixed list of Filipino function words used by the
// language heuristic.
var filipinoWords = map[string]bool{
	"ang": true, "ng": true, "mga": true, "sa": true, "ay": true,
	"ako": true, "ikaw": true, "siya": true, "kami": true, "tayo": true,
	"kayo": true, "sila": true, "ito": true, "iyan": true, "iyon": true,
	"hindi": true, "oo": true, "po": true, "opo": true, "naman": true,
	"lang": true, "din": true, "rin": true, "kasi": true, "pero": true,
	"kung": true, "para": true, "wala": true, "meron": true, "may": true,
	"na": true, "pa": true, "ba": true, "daw": true, "raw": true,
	"kumusta": true, "salamat": true,
}

var englishTokenRe = regexp.MustCompile(`^[a-z]+$`)

// englishWords is a small set of common English function words; any other
// purely alphabetic token also counts as English-looking.
var englishWords = map[string]bool{
	"the": true, "and": true, "is": true, "are": true, "was": true,
	"of": true, "to": true, "in": true, "for": true, "with": true,
	"you": true, "i": true, "we": true, "he": true, "she": true,
	"this": true, "that": true, "have": true, "from": true, "will": true,
}

const taglishThreshold = 2

// DetectLanguage applies a lightweight word-count heuristic: Filipino
// function words vs. generic English-looking tokens. Both present in
// number yields taglish; neither yields unknown.
func DetectLanguage(text string) domain.Language {
	if strings.TrimSpace(text) == "" {
		return domain.LanguageUnknown
	}

	filipino := 0
	english := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'()[]")
		if token == "" {
			continue
		}
		if filipinoWords[token] {
			filipino++
			continue
		}
		if englishWords[token] || englishTokenRe.MatchString(token) {
			english++
		}
	}

	switch {
	case filipino >= taglishThreshold && english >= taglishThreshold:
		return domain.LanguageTaglish
	case filipino > english:
		return domain.LanguageFilipino
	case english > 0:
		return domain.LanguageEnglish
	default:
		return domain.LanguageUnknown
	}
}
