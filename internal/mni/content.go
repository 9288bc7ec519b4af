package mni

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// Content blocks are pulled straight out of the response text. The download
// responses are large and the surrounding structure is irrelevant, so this
// deliberately skips a full parse.
var contentPattern = regexp.MustCompile(`(?s)<ns2:conteudo>(.*?)</ns2:conteudo>`)

// ExtractContents returns the inner text of every content block in response
// order, still base64-encoded.
func ExtractContents(responseBody string) []string {
	matches := contentPattern.FindAllStringSubmatch(responseBody, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// DecodePayload decodes one content block. The service wraps long blocks
// with whitespace, which the decoder does not tolerate.
func DecodePayload(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, encoded)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content block: %w", err)
	}
	return data, nil
}

// IndicatesSuccess reports whether a docket response carries the service's
// success flag.
func IndicatesSuccess(responseBody string) bool {
	return strings.Contains(responseBody, "<sucesso>true</sucesso>")
}

// HasDocuments reports whether a docket response mentions any document
// element at all, used for logging before extraction runs.
func HasDocuments(responseBody string) bool {
	return strings.Contains(strings.ToLower(responseBody), "<documento")
}
