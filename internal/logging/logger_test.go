package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewDefaultLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	logger.Debug("resolution diagnostics")
	if buf.Len() != 0 {
		t.Fatalf("debug output at default level: %q", buf.String())
	}

	logger.Info("purge issued")
	if out := buf.String(); !strings.Contains(out, "purge issued") {
		t.Fatalf("info output missing message: %q", out)
	}
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, Writer: &buf})

	logger.Debug("resolution diagnostics")
	if out := buf.String(); !strings.Contains(out, "resolution diagnostics") {
		t.Fatalf("debug output missing when verbose: %q", out)
	}
}

func TestSlogAdapterForwardsAttributes(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Debug("resolved dependencies", "tags", "Products")
	adapter.Info("invalidated cache tags", "owner", "shop")
	adapter.Warn("slow enumeration")
	adapter.Error("enumeration failed", "err", "connection refused")

	out := buf.String()
	for _, want := range []string{
		"resolved dependencies", "tags=Products",
		"invalidated cache tags", "owner=shop",
		"slow enumeration",
		"enumeration failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	child := adapter.With("instance", "abc")
	child.Info("invalidated cache tags")

	if out := buf.String(); !strings.Contains(out, "instance=abc") {
		t.Errorf("output missing inherited attribute: %q", out)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	if child := logger.With("k", "v"); child != logger {
		t.Error("With allocated a new NopLogger")
	}
}
