package docket

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/pge-tools/docketflow/internal/errs"
)

// node is a generic element tree. The service reports the same field as an
// attribute in one response and as a child element in another, so
// extraction works over the raw tree with a small list of lookup
// strategies instead of a typed schema.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// localName returns the unqualified tag name, lowercased. The decoder has
// already split the namespace off into XMLName.Space.
func (n *node) localName() string {
	return strings.ToLower(n.XMLName.Local)
}

// attr returns the value of the attribute with the given local name, or "".
func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// walk visits n and every descendant in document order.
func (n *node) walk(visit func(*node)) {
	visit(n)
	for i := range n.Children {
		n.Children[i].walk(visit)
	}
}

// firstDescText returns the first non-empty text of any node in n's subtree
// (n included) whose unqualified name ends in suffix, case-insensitively.
func (n *node) firstDescText(suffix string) string {
	suffix = strings.ToLower(suffix)
	var found string
	n.walk(func(d *node) {
		if found != "" {
			return
		}
		if strings.HasSuffix(d.localName(), suffix) {
			if text := strings.TrimSpace(d.Text); text != "" {
				found = text
			}
		}
	})
	return found
}

// Timestamp fields tried in precedence order: attachment with time,
// attachment, inclusion with time, inclusion, generic time, generic date.
var timestampFields = []string{
	"dataHoraJuntada",
	"dataJuntada",
	"dataHoraInclusao",
	"dataInclusao",
	"dataHora",
	"data",
}

// Extract parses one docket response into the deduplicated record list.
// A node denotes a document when it carries an identifier either as a
// direct attribute or as a descendant field. Extraction is all-or-nothing:
// malformed input fails with a parse error and returns no records.
func Extract(responseBody string) ([]Record, error) {
	var root node
	if err := xml.Unmarshal([]byte(responseBody), &root); err != nil {
		return nil, errs.Wrap(err, errs.ErrParse.Code, errs.ErrParse.Message)
	}

	var raw []Record
	scanPosition := 0
	root.walk(func(n *node) {
		id := n.attr("idDocumento")
		if id == "" {
			id = n.attr("id")
		}
		if id == "" {
			id = n.firstDescText("idDocumento")
		}
		if id == "" {
			return
		}

		// Assigned before dedup: position of the occurrence, not of
		// the merged record.
		scanPosition++

		category := n.attr("tipoDocumento")
		if category == "" {
			category = n.firstDescText("tipoDocumento")
		}

		var order *int
		ordText := n.attr("ordem")
		if ordText == "" {
			ordText = n.firstDescText("ordem")
		}
		if ordText != "" && isDigits(ordText) {
			if v, err := strconv.Atoi(ordText); err == nil {
				order = &v
			}
		}

		rawTime := ""
		for _, field := range timestampFields {
			if text := n.firstDescText(field); text != "" {
				rawTime = text
				break
			}
		}
		if rawTime == "" {
			for _, field := range timestampFields {
				if v := n.attr(field); v != "" {
					rawTime = v
					break
				}
			}
		}

		rec := Record{
			ID:               id,
			CategoryCode:     category,
			InsertionOrder:   order,
			InsertionTimeRaw: rawTime,
			ScanPosition:     scanPosition,
		}
		if t, ok := ParseTimestamp(rawTime); ok {
			rec.InsertionTime = &t
		}
		raw = append(raw, rec)
	})

	return mergeDuplicates(raw), nil
}

// mergeDuplicates collapses records sharing an id. The first occurrence
// wins; later occurrences only fill fields the first one lacked. Order of
// first occurrence is preserved.
func mergeDuplicates(raw []Record) []Record {
	seen := make(map[string]int, len(raw))
	merged := make([]Record, 0, len(raw))
	for _, rec := range raw {
		idx, ok := seen[rec.ID]
		if !ok {
			merged = append(merged, rec)
			seen[rec.ID] = len(merged) - 1
			continue
		}
		prev := &merged[idx]
		if prev.CategoryCode == "" && rec.CategoryCode != "" {
			prev.CategoryCode = rec.CategoryCode
		}
		if prev.InsertionOrder == nil && rec.InsertionOrder != nil {
			prev.InsertionOrder = rec.InsertionOrder
		}
		if prev.InsertionTime == nil && rec.InsertionTime != nil {
			prev.InsertionTime = rec.InsertionTime
		}
		if prev.InsertionTimeRaw == "" && rec.InsertionTimeRaw != "" {
			prev.InsertionTimeRaw = rec.InsertionTimeRaw
		}
	}
	return merged
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
