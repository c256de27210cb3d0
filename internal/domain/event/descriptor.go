package event

import (
	"regexp"
	"strings"
)

// descSynonyms collapses multi-word stylistic phrases onto single tokens so
// "pull up" and "pull-up" land on the same style flag.
var descSynonyms = map[string]string{
	"step back":   "stepback",
	"alley oop":   "alleyoop",
	"finger roll": "fingerroll",
	"pull up":     "pullup",
	"fade away":   "fadeaway",
	"put back":    "putback",
	"tip":         "tipin",
	"tip in":      "tipin",
}

// styleTokens is the closed set of style modifiers split off the descriptor core.
var styleTokens = map[string]struct{}{
	"driving":    {},
	"running":    {},
	"pullup":     {},
	"stepback":   {},
	"floating":   {},
	"fadeaway":   {},
	"bank":       {},
	"reverse":    {},
	"alleyoop":   {},
	"fingerroll": {},
	"tipin":      {},
	"putback":    {},
	"cutting":    {},
}

var collapseRe = regexp.MustCompile(`[-\s]+`)

// Canon lowercases a descriptor and collapses whitespace and hyphen runs to
// single spaces. It is the shared normalization key for signature matching.
func Canon(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return ""
	}
	return strings.TrimSpace(collapseRe.ReplaceAllString(lowered, " "))
}

// NormalizeDescriptor splits a raw free-text descriptor into a core token and
// an ordered, de-duplicated list of style flags.
func NormalizeDescriptor(raw string) (string, []string) {
	normalized := Canon(raw)
	if normalized == "" {
		return "", nil
	}

	// Multi-word synonyms first, so "pull up jump shot" becomes
	// "pullup jump shot" before tokenization.
	for phrase, token := range descSynonyms {
		if strings.Contains(phrase, " ") {
			normalized = strings.ReplaceAll(normalized, phrase, token)
		}
	}

	var styles []string
	var remaining []string
	seen := make(map[string]struct{}, 4)
	for _, tok := range strings.Fields(normalized) {
		if mapped, ok := descSynonyms[tok]; ok {
			tok = mapped
		}
		if _, isStyle := styleTokens[tok]; isStyle {
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				styles = append(styles, tok)
			}
			continue
		}
		remaining = append(remaining, tok)
	}
	return strings.Join(remaining, " "), styles
}
