// Package persist classifies retrieved payloads and writes the per-case
// artifacts: binaries, extracted text and the raw docket response.
package persist

import (
	"bytes"
	"regexp"
	"strings"
)

var rtfSignature = []byte(`{\rtf`)

// IsRTF reports whether a payload is RTF rather than PDF. The service
// labels everything as a document and ships the occasional RTF with no
// warning, so detection is by content: the literal signature first, then a
// permissive scan of the first kilobyte for an RTF control marker alongside
// an opening brace. Anything else is treated as PDF.
func IsRTF(data []byte) bool {
	if bytes.HasPrefix(data, rtfSignature) {
		return true
	}
	head := data
	if len(head) > 1000 {
		head = head[:1000]
	}
	s := strings.ToLower(string(head))
	return strings.Contains(s, `\rtf`) && strings.Contains(s, "{")
}

var (
	reservedChars = regexp.MustCompile(`[<>|"?*]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a label safe as a filename: path separators and
// reserved characters become hyphens, whitespace runs collapse to one
// space, surrounding whitespace is trimmed.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "-", `\`, "-", ":", "-").Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	s = reservedChars.ReplaceAllString(s, "-")
	return strings.TrimSpace(s)
}
