package persist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	rtfControlWord = regexp.MustCompile(`\\[a-z]+-?\d*`)
	rtfBraces      = regexp.MustCompile(`[{}]`)
)

// RTFToText decodes an RTF payload permissively and strips control markers
// for readability; this is plain-text salvage, not an RTF renderer.
func RTFToText(data []byte) string {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	if strings.HasPrefix(text, `{\rtf`) {
		text = rtfControlWord.ReplaceAllString(text, " ")
		text = rtfBraces.ReplaceAllString(text, "")
		text = whitespace.ReplaceAllString(text, " ")
		text = strings.TrimSpace(text)
	}
	return text
}
