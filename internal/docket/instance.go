package docket

import (
	"encoding/xml"
	"strings"

	"github.com/pge-tools/docketflow/internal/errs"
)

// Judicial tiers as estimated from a docket response.
const (
	TierFirst    = 1
	TierSuperior = 2
)

// Appeal-related terms in movement narratives that hint the case sits at an
// appellate or superior tier.
var tierKeywords = []string{
	"recurso",
	"apelação",
	"segunda instância",
	"tribunal",
}

// TierInfo describes where a case appears to sit. The classification is
// advisory, used for logging only; it never alters retrieval behavior.
type TierInfo struct {
	Number           string
	Competencia      string
	LocalityCode     string
	ClasseProcessual string
	Tier             int
	AppealMovements  int
}

// Description renders the tier estimate for the run log.
func (t TierInfo) Description() string {
	if t.Tier >= TierSuperior {
		return "Instância Superior (2ª ou Superior)"
	}
	return "Primeira Instância"
}

// ClassifyTier scans a docket response for basic case data and for movement
// narratives carrying appeal-related terms.
func ClassifyTier(responseBody string) (TierInfo, error) {
	var root node
	if err := xml.Unmarshal([]byte(responseBody), &root); err != nil {
		return TierInfo{}, errs.Wrap(err, errs.ErrParse.Code, errs.ErrParse.Message)
	}

	info := TierInfo{Tier: TierFirst}

	basicsSeen := false
	root.walk(func(n *node) {
		switch {
		case !basicsSeen && strings.HasSuffix(n.localName(), "dadosbasicos"):
			basicsSeen = true
			info.Number = n.attr("numero")
			info.Competencia = n.attr("competencia")
			info.LocalityCode = n.attr("codigoLocalidade")
			info.ClasseProcessual = n.attr("classeProcessual")
		case strings.HasSuffix(n.localName(), "movimento"):
			text := strings.ToLower(n.Text)
			for _, kw := range tierKeywords {
				if strings.Contains(text, kw) {
					info.AppealMovements++
					break
				}
			}
		}
	})

	if info.AppealMovements > 0 {
		info.Tier = TierSuperior
	}
	return info, nil
}
