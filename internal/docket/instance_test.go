package docket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTierFirstInstance(t *testing.T) {
	body := `<r>
	  <dadosBasicos numero="123" competencia="Fazenda" codigoLocalidade="0001" classeProcessual="1116"/>
	  <movimento>Juntada de petição</movimento>
	  <movimento>Conclusos para despacho</movimento>
	</r>`
	info, err := ClassifyTier(body)
	require.NoError(t, err)
	assert.Equal(t, TierFirst, info.Tier)
	assert.Equal(t, "Primeira Instância", info.Description())
	assert.Equal(t, "123", info.Number)
	assert.Equal(t, "Fazenda", info.Competencia)
	assert.Equal(t, "0001", info.LocalityCode)
}

func TestClassifyTierSuperiorOnAppealTerms(t *testing.T) {
	body := `<r>
	  <dadosBasicos numero="456"/>
	  <movimento>Recebidos os autos no Tribunal de Justiça</movimento>
	  <movimento>Recurso de Apelação interposto</movimento>
	</r>`
	info, err := ClassifyTier(body)
	require.NoError(t, err)
	assert.Equal(t, TierSuperior, info.Tier)
	assert.Equal(t, 2, info.AppealMovements)
	assert.Equal(t, "Instância Superior (2ª ou Superior)", info.Description())
}

func TestClassifyTierMalformed(t *testing.T) {
	_, err := ClassifyTier("<r><broken")
	assert.Error(t, err)
}
