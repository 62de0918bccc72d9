package event

import (
	"regexp"
	"strings"
)

var angleAddrRe = regexp.MustCompile(`<([^<>]+)>`)

// ExtractAttendees pulls attendee emails out of free text. Angle-bracketed
// addresses ("Jo Doe <jo@example.com>") win when present; otherwise the text
// is treated as a comma-separated list. Order is preserved, duplicates and
// blanks are dropped. The tokens are not validated as addresses; garbage in,
// garbage out is the caller's problem.
func ExtractAttendees(text string) []string {
	var tokens []string
	if matches := angleAddrRe.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		for _, m := range matches {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = strings.Split(text, ",")
	}

	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
