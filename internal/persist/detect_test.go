package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRTFSignature(t *testing.T) {
	assert.True(t, IsRTF([]byte(`{\rtf1\ansi\deff0 hello}`)))
}

func TestIsRTFMarkerInHead(t *testing.T) {
	// Marker buried past a junk preamble but inside the first kilobyte.
	payload := append([]byte("junk preamble "), []byte(`{ \RTF1 body}`)...)
	assert.True(t, IsRTF(payload))
}

func TestIsRTFMarkerBeyondHeadIgnored(t *testing.T) {
	payload := append(bytes.Repeat([]byte("x"), 1200), []byte(`{\rtf1}`)...)
	assert.False(t, IsRTF(payload))
}

func TestIsRTFPDFPayload(t *testing.T) {
	assert.False(t, IsRTF([]byte("%PDF-1.4\n1 0 obj")))
	assert.False(t, IsRTF(nil))
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1. Petição Inicial", "1. Petição Inicial"},
		{"2. Decisão: liminar/urgente", "2. Decisão- liminar-urgente"},
		{`3. laudo\anexo`, "3. laudo-anexo"},
		{"  4.   Sentença \t com   espaços  ", "4. Sentença com espaços"},
		{`5. "quem?" <ofício> *anexo*`, "5. -quem-- -ofício- -anexo-"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}
