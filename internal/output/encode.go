package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

// renderJSON emits an array of objects, one per record. Field order
// within each object follows the projection order, which rules out
// marshalling a map; the object layer is built by hand and only the
// scalars go through encoding/json. Single-value fields encode as a
// string, multi-value fields as an array of strings, absent fields as
// the empty string.
func renderJSON(records []ripedb.ProjectedRecord) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for ri, rec := range records {
		if ri > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, field := range rec.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			// Marshalling strings cannot fail.
			key, _ := json.Marshal(field)
			buf.Write(key)
			buf.WriteByte(':')
			vals := rec.Values[i]
			var enc []byte
			switch len(vals) {
			case 0:
				enc, _ = json.Marshal("")
			case 1:
				enc, _ = json.Marshal(vals[0])
			default:
				enc, _ = json.Marshal(vals)
			}
			buf.Write(enc)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return buf.String() + "\n"
	}
	out.WriteByte('\n')
	return out.String()
}

// renderXML wraps the records in a <Targets> root with one <Target>
// per record and one child element per field value; multi-value
// fields repeat the element. Field names get normalized into legal
// element names first.
func renderXML(records []ripedb.ProjectedRecord) (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	var tokens []xml.Token
	root := xml.StartElement{Name: xml.Name{Local: "Targets"}}
	tokens = append(tokens, root)
	for _, rec := range records {
		target := xml.StartElement{Name: xml.Name{Local: "Target"}}
		tokens = append(tokens, target)
		for i, field := range rec.Fields {
			name := elementName(field)
			vals := rec.Values[i]
			if len(vals) == 0 {
				vals = []string{""}
			}
			for _, v := range vals {
				el := xml.StartElement{Name: xml.Name{Local: name}}
				tokens = append(tokens, el, xml.CharData(v), el.End())
			}
		}
		tokens = append(tokens, target.End())
	}
	tokens = append(tokens, root.End())

	for _, tok := range tokens {
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// elementName maps a registry field name onto a well-formed XML
// element name: anything outside [A-Za-z0-9] becomes "_", and a
// leading digit gets an underscore prefix.
func elementName(field string) string {
	var b strings.Builder
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
