package policy_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/depcache/internal/policy"
)

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "policies.yaml", `policies:
  - query: list_users
    ttl: 10m
    dependencies: [users]
  - query: recent_posts
    ttl: 30s
    mode: sliding
    dependencies: [posts, comments]
    quiet: true
  - query: dashboard
`)

	policies, err := policy.LoadFiles([]string{path})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}

	want := map[string]policy.Policy{
		"list_users": {
			TTL:          10 * time.Minute,
			Mode:         policy.ModeAbsolute,
			Dependencies: []string{"users"},
		},
		"recent_posts": {
			TTL:          30 * time.Second,
			Mode:         policy.ModeSliding,
			Dependencies: []string{"posts", "comments"},
			Quiet:        true,
		},
		"dashboard": policy.Default(),
	}
	if diff := cmp.Diff(want, policies); diff != "" {
		t.Errorf("LoadFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFilesErrors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "missing query name",
			content: "policies:\n  - ttl: 5m\n",
			wantSub: "missing a query name",
		},
		{
			name:    "invalid ttl",
			content: "policies:\n  - query: q\n    ttl: soon\n",
			wantSub: "invalid ttl",
		},
		{
			name:    "negative ttl",
			content: "policies:\n  - query: q\n    ttl: -5m\n",
			wantSub: "must be positive",
		},
		{
			name:    "unsupported mode",
			content: "policies:\n  - query: q\n    mode: eventually\n",
			wantSub: "unsupported mode",
		},
		{
			name:    "duplicate query",
			content: "policies:\n  - query: q\n  - query: q\n",
			wantSub: "duplicate policy",
		},
		{
			name:    "malformed yaml",
			content: "policies: [\n",
			wantSub: "yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tc.name, " ", "_")+".yaml", tc.content)
			_, err := policy.LoadFiles([]string{path})
			if err == nil {
				t.Fatal("LoadFiles succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadFilesDuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "policies:\n  - query: q\n")
	b := writeFile(t, dir, "b.yaml", "policies:\n  - query: q\n")

	if _, err := policy.LoadFiles([]string{a, b}); err == nil {
		t.Fatal("LoadFiles succeeded with a query declared in two files, want error")
	}
}

func TestLoadFilesNone(t *testing.T) {
	policies, err := policy.LoadFiles(nil)
	if err != nil {
		t.Fatalf("LoadFiles(nil): %v", err)
	}
	if len(policies) != 0 {
		t.Errorf("expected no policies, got %v", policies)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
