package mni

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContentsKeepsResponseOrder(t *testing.T) {
	body := `<resposta>
		<ns2:documento idDocumento="1"><ns2:conteudo>QQ==</ns2:conteudo></ns2:documento>
		<ns2:documento idDocumento="2"><ns2:conteudo>Qg==</ns2:conteudo></ns2:documento>
	</resposta>`

	blocks := ExtractContents(body)
	require.Len(t, blocks, 2)
	assert.Equal(t, "QQ==", blocks[0])
	assert.Equal(t, "Qg==", blocks[1])
}

func TestExtractContentsEmptyResponse(t *testing.T) {
	assert.Empty(t, ExtractContents("<resposta><sucesso>true</sucesso></resposta>"))
}

func TestDecodePayloadToleratesWrapping(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 payload"))
	wrapped := "\n  " + encoded[:8] + "\r\n\t" + encoded[8:] + " \n"

	data, err := DecodePayload(wrapped)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 payload"), data)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, err := DecodePayload("not base64 at all!!")
	assert.Error(t, err)
}

func TestIndicatesSuccess(t *testing.T) {
	assert.True(t, IndicatesSuccess("<r><sucesso>true</sucesso></r>"))
	assert.False(t, IndicatesSuccess("<r><sucesso>false</sucesso></r>"))
	assert.False(t, IndicatesSuccess("<r/>"))
}

func TestHasDocuments(t *testing.T) {
	assert.True(t, HasDocuments(`<r><Documento idDocumento="1"/></r>`))
	assert.False(t, HasDocuments("<r><movimento/></r>"))
}
