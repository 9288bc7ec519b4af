package mni

import (
	"fmt"
	"strings"
)

// The consultarProcesso envelope doubles as docket query and content
// download: with no documento elements the service returns metadata,
// movements and document records; with documento elements it returns
// base64 content blocks instead.
const envelopeTemplate = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ser="http://www.cnj.jus.br/servico-intercomunicacao-2.2.2/" xmlns:tip="http://www.cnj.jus.br/tipos-servico-intercomunicacao-2.2.2">
    <soapenv:Header/>
    <soapenv:Body>
        <ser:consultarProcesso>
            <tip:idConsultante>%s</tip:idConsultante>
            <tip:senhaConsultante>%s</tip:senhaConsultante>
            <tip:numeroProcesso>%s</tip:numeroProcesso>
%s        </ser:consultarProcesso>
    </soapenv:Body>
</soapenv:Envelope>`

func queryEnvelope(user, password, caseNumber string) string {
	extra := "            <tip:movimentos>true</tip:movimentos>\n" +
		"            <tip:incluirDocumentos>true</tip:incluirDocumentos>\n"
	return fmt.Sprintf(envelopeTemplate, user, password, caseNumber, extra)
}

func contentEnvelope(user, password, caseNumber string, ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "            <tip:documento>%s</tip:documento>\n", id)
	}
	return fmt.Sprintf(envelopeTemplate, user, password, caseNumber, b.String())
}
