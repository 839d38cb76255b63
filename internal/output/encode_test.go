package output

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

func TestRenderJSONRoundTrip(t *testing.T) {
	records := []ripedb.ProjectedRecord{
		rec([]string{"netname", "inetnum", "descr"},
			[]string{"NET-A"},
			[]string{"10.0.0.0/28"},
			[]string{"first", "second"}),
		rec([]string{"netname", "inetnum", "descr"},
			nil,
			[]string{"10.0.1.0/24"},
			nil),
	}

	got, err := Render(records, ModeJSON, Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	var parsed []map[string]any
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d objects, want 2", len(parsed))
	}
	if parsed[0]["netname"] != "NET-A" {
		t.Errorf("netname = %v", parsed[0]["netname"])
	}
	if parsed[1]["netname"] != "" {
		t.Errorf("missing field = %v, want empty string", parsed[1]["netname"])
	}

	descr, ok := parsed[0]["descr"].([]any)
	if !ok || len(descr) != 2 || descr[0] != "first" || descr[1] != "second" {
		t.Errorf("multi-value field = %v, want [first second]", parsed[0]["descr"])
	}
}

func TestRenderJSONPreservesFieldOrder(t *testing.T) {
	records := []ripedb.ProjectedRecord{
		rec([]string{"zzz", "aaa", "mmm"}, []string{"1"}, []string{"2"}, []string{"3"}),
	}
	got, err := Render(records, ModeJSON, Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	zi := strings.Index(got, `"zzz"`)
	ai := strings.Index(got, `"aaa"`)
	mi := strings.Index(got, `"mmm"`)
	if zi < 0 || ai < 0 || mi < 0 || !(zi < ai && ai < mi) {
		t.Errorf("field order not preserved:\n%s", got)
	}
}

func TestRenderJSONEmptySet(t *testing.T) {
	got, err := Render(nil, ModeJSON, Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.TrimSpace(got) != "[]" {
		t.Errorf("empty set = %q, want []", got)
	}
}

func TestRenderXML(t *testing.T) {
	records := []ripedb.ProjectedRecord{
		rec([]string{"netname", "admin-c", "descr"},
			[]string{"NET <&> A"},
			[]string{"XX123-RIPE"},
			[]string{"first", "second"}),
	}

	got, err := Render(records, ModeXML, Options{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// Must parse as well-formed XML.
	type target struct {
		Netname string   `xml:"netname"`
		AdminC  string   `xml:"admin_c"`
		Descr   []string `xml:"descr"`
	}
	var doc struct {
		XMLName xml.Name `xml:"Targets"`
		Targets []target `xml:"Target"`
	}
	if err := xml.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v\n%s", err, got)
	}
	if len(doc.Targets) != 1 {
		t.Fatalf("parsed %d targets, want 1", len(doc.Targets))
	}
	if doc.Targets[0].Netname != "NET <&> A" {
		t.Errorf("netname = %q, special characters not escaped correctly", doc.Targets[0].Netname)
	}
	if doc.Targets[0].AdminC != "XX123-RIPE" {
		t.Errorf("admin-c not found under sanitized tag: %q", doc.Targets[0].AdminC)
	}
	if len(doc.Targets[0].Descr) != 2 {
		t.Errorf("multi-value field produced %d elements, want 2", len(doc.Targets[0].Descr))
	}
}

func TestElementName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"netname", "netname"},
		{"admin-c", "admin_c"},
		{"mnt-by", "mnt_by"},
		{"weird field!", "weird_field_"},
		{"123abc", "_123abc"},
		{"", "field"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := elementName(tt.in); got != tt.want {
				t.Errorf("elementName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
