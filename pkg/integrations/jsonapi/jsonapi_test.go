package jsonapi

import (
	"testing"
)

const releases = `{
  "description": "A custom mirror",
  "latest": "3.0.0",
  "releases": [
    {"version": "3.0.0", "tag": "v3"},
    {"version": "2.1.0", "tag": "v2.1"},
    "2.0.0",
    {"other": true}
  ]
}`

func TestVersions(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    []string
		wantErr bool
	}{
		{"array of mixed entries", "$.releases", []string{"3.0.0", "2.1.0", "2.0.0"}, false},
		{"single string", "$.latest", []string{"3.0.0"}, false},
		{"single object", "$.releases[0]", []string{"3.0.0"}, false},
		{"number selects nothing", "$.releases[3].other", []string{}, false},
		{"empty expression", "  ", nil, true},
		{"missing key", "$.nope", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Versions([]byte(releases), tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Versions(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Versions(%q) = %v, want %v", tt.expr, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Versions(%q)[%d] = %q, want %q", tt.expr, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVersionsWildcard(t *testing.T) {
	raw := []byte(`{"tags":[{"name":"v3"},{"name":"v2.1"}]}`)
	got, err := Versions(raw, "$.tags[*].name")
	if err != nil {
		t.Fatalf("Versions() error: %v", err)
	}
	if len(got) != 2 || got[0] != "v3" || got[1] != "v2.1" {
		t.Errorf("Versions() = %v, want [v3 v2.1]", got)
	}
}

func TestVersionsInvalidJSON(t *testing.T) {
	if _, err := Versions([]byte("<html>"), "$.x"); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestParseSearch(t *testing.T) {
	info, err := ParseSearch([]byte(releases), "mylib", "mirror", "$.releases")
	if err != nil {
		t.Fatalf("ParseSearch() error: %v", err)
	}
	if info.Version != "3.0.0" || info.CDN != "mirror" || info.Description != "A custom mirror" {
		t.Errorf("ParseSearch() = %+v", info)
	}

	info, err = ParseSearch([]byte(`{"releases":[]}`), "mylib", "mirror", "$.releases")
	if err != nil || info != nil {
		t.Errorf("ParseSearch(empty) = %v, %v", info, err)
	}
}

func TestParseVersionsTruncates(t *testing.T) {
	raw := []byte(`{"v":["1","2","3","4","5","6","7","8","9","10","11","12","13","14","15","16","17","18","19","20","21","22"]}`)
	got, err := ParseVersions(raw, "$.v")
	if err != nil {
		t.Fatalf("ParseVersions() error: %v", err)
	}
	if len(got) != 20 {
		t.Errorf("len = %d, want 20", len(got))
	}
}
