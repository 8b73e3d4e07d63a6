package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "lodash", false},
		{"scoped", "@vue/runtime-core", false},
		{"dotted", "lodash.get", false},
		{"mixed case", "React", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length", strings.Repeat("a", 256), false},
		{"parent dir", "../etc/passwd", true},
		{"double slash", "@scope//pkg", true},
		{"backslash", "pkg\\evil", true},
		{"null byte", "pkg\x00", true},
		{"newline", "pkg\nname", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidIdentifier) {
				t.Errorf("code = %v, want INVALID_IDENTIFIER", GetCode(err))
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		tmpl    string
		wantErr bool
	}{
		{"https://cdn.jsdelivr.net/npm/{package}@{version}", false},
		{"http://mirror.local/{package}", false},
		{"https://esm.sh/{package}", false},
		{"", true},
		{"ftp://cdn.example/{package}", true},
		{"cdn.example/{package}", true},
		{"https://cdn.example/lodash@{version}", true},
	}
	for _, tt := range tests {
		err := ValidateTemplate(tt.tmpl)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTemplate(%q) error = %v, wantErr %v", tt.tmpl, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateTemplate(%q) code = %v", tt.tmpl, GetCode(err))
		}
	}
}
