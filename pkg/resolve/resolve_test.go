package resolve

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdnfetch/pkg/observability"
)

type stubSource struct {
	name     string
	versions []string
	err      error
	calls    int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Versions(ctx context.Context, name string) ([]string, error) {
	s.calls++
	return s.versions, s.err
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestResolve(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		requested string
		primary   *stubSource
		fallback  *stubSource
		want      string
		wantCalls [2]int
	}{
		{
			name:      "latest uses primary",
			requested: "latest",
			primary:   &stubSource{versions: []string{"2.0.0", "1.9.0"}},
			fallback:  &stubSource{versions: []string{"9.9.9"}},
			want:      "2.0.0",
			wantCalls: [2]int{1, 0},
		},
		{
			name:      "empty is latest",
			requested: "",
			primary:   &stubSource{versions: []string{"2.0.0"}},
			fallback:  &stubSource{},
			want:      "2.0.0",
			wantCalls: [2]int{1, 0},
		},
		{
			name:      "primary error falls through",
			requested: "latest",
			primary:   &stubSource{err: boom},
			fallback:  &stubSource{versions: []string{"1.5.0", "1.4.0"}},
			want:      "1.5.0",
			wantCalls: [2]int{1, 1},
		},
		{
			name:      "primary empty falls through",
			requested: "latest",
			primary:   &stubSource{versions: []string{}},
			fallback:  &stubSource{versions: []string{"1.5.0"}},
			want:      "1.5.0",
			wantCalls: [2]int{1, 1},
		},
		{
			name:      "all fail yields latest",
			requested: "latest",
			primary:   &stubSource{err: boom},
			fallback:  &stubSource{err: boom},
			want:      "latest",
			wantCalls: [2]int{1, 1},
		},
		{
			name:      "concrete version passes through",
			requested: "4.17.21",
			primary:   &stubSource{versions: []string{"5.0.0"}},
			fallback:  &stubSource{},
			want:      "4.17.21",
			wantCalls: [2]int{0, 0},
		},
		{
			name:      "prerelease tag passes through",
			requested: "next",
			primary:   &stubSource{versions: []string{"5.0.0"}},
			fallback:  &stubSource{},
			want:      "next",
			wantCalls: [2]int{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(quietLogger(), tt.primary, tt.fallback)
			if got := r.Resolve(context.Background(), "lodash", tt.requested); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if tt.primary.calls != tt.wantCalls[0] || tt.fallback.calls != tt.wantCalls[1] {
				t.Errorf("calls = [%d %d], want %v", tt.primary.calls, tt.fallback.calls, tt.wantCalls)
			}
		})
	}
}

func TestResolveNoSources(t *testing.T) {
	if got := New(nil).Resolve(context.Background(), "x", ""); got != "latest" {
		t.Errorf("Resolve() = %q, want latest", got)
	}
}

func TestResolveCancelledStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &stubSource{err: context.Canceled}
	fallback := &stubSource{versions: []string{"1.0.0"}}
	if got := New(quietLogger(), primary, fallback).Resolve(ctx, "x", "latest"); got != "latest" {
		t.Errorf("Resolve() = %q, want latest", got)
	}
	if fallback.calls != 0 {
		t.Error("fallback queried after cancellation")
	}
}

type resolveHooks struct {
	observability.NoopImportHooks
	resolved string
	err      error
}

func (h *resolveHooks) OnResolve(_ context.Context, _, _, resolved string, err error) {
	h.resolved, h.err = resolved, err
}

func TestResolveReportsHooks(t *testing.T) {
	hooks := &resolveHooks{}
	observability.SetImportHooks(hooks)
	defer observability.Reset()

	New(quietLogger(), &stubSource{err: errors.New("down")}).Resolve(context.Background(), "x", "")
	if hooks.resolved != "latest" || hooks.err == nil {
		t.Errorf("hook saw %q, %v", hooks.resolved, hooks.err)
	}
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc{Label: "fixed", Fn: func(context.Context, string) ([]string, error) {
		return []string{"3.0.0"}, nil
	}}
	if src.Name() != "fixed" {
		t.Errorf("Name() = %q", src.Name())
	}
	if got := New(quietLogger(), src).Resolve(context.Background(), "x", "latest"); got != "3.0.0" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestNewDefaultSources(t *testing.T) {
	r := NewDefault(nil, 0, quietLogger())
	if len(r.sources) != 2 || r.sources[0].Name() != "jsdelivr" || r.sources[1].Name() != "npm" {
		t.Errorf("default sources = %v", r.sources)
	}
}
