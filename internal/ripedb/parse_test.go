package ripedb

import (
	"errors"
	"testing"
)

func TestParseBlocks(t *testing.T) {
	raw := "% This is the RIPE Database query service.\n" +
		"% The objects are in RPSL format.\n" +
		"\n" +
		"inetnum:        10.0.0.0 - 10.0.0.255\n" +
		"netname:        NET-A\n" +
		"descr:          first line\n" +
		"descr:          second line\n" +
		"\n" +
		"\n" +
		"# trailing banner comment\n" +
		"inetnum:        10.0.1.0 - 10.0.1.255\n" +
		"country:        DE\n"

	set, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("Parse returned %d records, want 2", len(set))
	}

	first := set[0]
	wantKeys := []string{"inetnum", "netname", "descr"}
	gotKeys := first.Keys()
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("first record has keys %v, want %v", gotKeys, wantKeys)
	}
	for i, k := range wantKeys {
		if gotKeys[i] != k {
			t.Errorf("key[%d] = %q, want %q", i, gotKeys[i], k)
		}
	}

	descr := first.Values("descr")
	if len(descr) != 2 || descr[0] != "first line" || descr[1] != "second line" {
		t.Errorf("repeated key values = %v, want [first line, second line]", descr)
	}

	if got := set[1].Values("country"); len(got) != 1 || got[0] != "DE" {
		t.Errorf("second record country = %v, want [DE]", got)
	}
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		records int
	}{
		{"empty input", "", 0},
		{"only blank lines", "\n\n\n", 0},
		{"only comments", "% banner\n# remark\n\n% more\n", 0},
		{"comment-only block between records", "a: 1\n\n% nothing here\n\nb: 2\n", 2},
		{"line without colon skipped", "inetnum: 10.0.0.0 - 10.0.0.255\nmalformed line\n", 1},
		{"empty key skipped", ": orphan value\nnetname: NET-A\n", 1},
		{"multiple blank separators", "a: 1\n\n\n\nb: 2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(set) != tt.records {
				t.Fatalf("Parse returned %d records, want %d", len(set), tt.records)
			}
		})
	}
}

func TestParseNormalizesKeys(t *testing.T) {
	set, err := Parse("NetName:   NET-A\nAdmin-C:  XX123-RIPE\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("Parse returned %d records, want 1", len(set))
	}
	if got := set[0].Values("netname"); len(got) != 1 || got[0] != "NET-A" {
		t.Errorf("netname = %v, want [NET-A]", got)
	}
	if got := set[0].Values("admin-c"); len(got) != 1 || got[0] != "XX123-RIPE" {
		t.Errorf("admin-c = %v, want [XX123-RIPE]", got)
	}
}

func TestParseValueKeepsColons(t *testing.T) {
	set, err := Parse("remarks: see http://example.org:8080/info\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := set[0].Values("remarks"); got[0] != "see http://example.org:8080/info" {
		t.Errorf("value split on wrong colon: %q", got[0])
	}
}

func TestParseRejectsBinary(t *testing.T) {
	_, err := Parse("inetnum: 10.0.0.0\xff\xfe - 10.0.0.255\n")
	if err == nil {
		t.Fatal("Parse accepted invalid UTF-8")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
}
