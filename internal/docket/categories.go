package docket

import "fmt"

// CategoryLabels maps the service's category codes (cdcategoria, reported
// as tipoDocumento on document records) to human-readable labels. Used for
// selection and for output filenames.
var CategoryLabels = map[string]string{
	"6":    "Despacho",
	"8":    "Sentença",
	"15":   "Decisões Interlocutórias",
	"21":   "Peças da Defensoria",
	"34":   "Acórdãos",
	"54":   "Sentença do Juiz Leigo",
	"8305": "Contrarrazões de Apelação",
	"8333": "Manifestação do Ministério Público",
	"8335": "Recurso de Apelação",
	"8338": "Manifestação do Procurador da Fazenda Pública Estadual",
	"8426": "Manifestação do Procurador da Fazenda Pública Municipal",
	"9500": "Petição",
}

// CategoryLabel resolves a code to its label; unrecognized codes render as
// a generic document label.
func CategoryLabel(code string) string {
	if code == "" {
		code = "documento"
	}
	if label, ok := CategoryLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Documento %s", code)
}
