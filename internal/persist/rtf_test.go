package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTFToTextStripsMarkup(t *testing.T) {
	payload := []byte(`{\rtf1\ansi\deff0 {\fonttbl {\f0 Times;}} Despacho proferido \par nos autos.}`)
	got := RTFToText(payload)
	assert.NotContains(t, got, `\rtf`)
	assert.NotContains(t, got, "{")
	assert.Contains(t, got, "Despacho proferido")
	assert.Contains(t, got, "nos autos.")
}

func TestRTFToTextPassthroughWithoutSignature(t *testing.T) {
	assert.Equal(t, "texto simples", RTFToText([]byte("texto simples")))
}

func TestRTFToTextInvalidUTF8(t *testing.T) {
	payload := append([]byte(`{\rtf1 conte`), 0xff, 0xfe)
	payload = append(payload, []byte(`udo}`)...)
	got := RTFToText(payload)
	assert.Contains(t, got, "conteudo")
}
