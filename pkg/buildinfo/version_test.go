package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	v, c, d := Version, Commit, Date
	defer func() { Version, Commit, Date = v, c, d }()

	Version = "dev"
	if got := Short(); got != "dev (built from source)" {
		t.Errorf("Short() = %q", got)
	}

	Version, Commit, Date = "v1.2.0", "abc123", "2026-01-02"
	if got := Short(); got != "v1.2.0 (commit: abc123, built: 2026-01-02)" {
		t.Errorf("Short() = %q", got)
	}
	if !strings.HasPrefix(UserAgent(), "cdnfetch/v1.2.0") {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
