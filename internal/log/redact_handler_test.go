package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestMaskEmails tests local-part masking.
func TestMaskEmails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single address",
			input: "found jane.doe@example.com on page",
			want:  "found j***@example.com on page",
		},
		{
			name:  "multiple addresses",
			input: "a@example.com b@example.org",
			want:  "a***@example.com b***@example.org",
		},
		{
			name:  "no address is untouched",
			input: "fetch failed for https://example.com",
			want:  "fetch failed for https://example.com",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MaskEmails(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestRedactHandler verifies masking of messages and string attributes.
func TestRedactHandler(t *testing.T) {
	t.Parallel()

	t.Run("message and attributes are masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("discovered jane@example.com",
			"address", "john.smith@example.org",
			"url", "https://example.com/contact",
		)

		out := buf.String()
		if strings.Contains(out, "jane@") {
			t.Error("expected message local part to be masked")
		}
		if strings.Contains(out, "john.smith@") {
			t.Error("expected attribute local part to be masked")
		}
		if !strings.Contains(out, "j***@example.com") {
			t.Errorf("expected masked message address, got %q", out)
		}
		if !strings.Contains(out, "j***@example.org") {
			t.Errorf("expected masked attribute address, got %q", out)
		}
		if !strings.Contains(out, "https://example.com/contact") {
			t.Error("expected non-address values to pass through")
		}
	})

	t.Run("WithAttrs masks pre-bound attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
		logger = logger.With("contact", "admin@example.com")

		logger.Info("run finished")

		out := buf.String()
		if strings.Contains(out, "admin@") {
			t.Error("expected pre-bound attribute to be masked")
		}
		if !strings.Contains(out, "a***@example.com") {
			t.Errorf("expected masked pre-bound address, got %q", out)
		}
	})

	t.Run("non-string attributes are untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("stats", "pages", 42, "ok", true)

		out := buf.String()
		if !strings.Contains(out, "pages=42") || !strings.Contains(out, "ok=true") {
			t.Errorf("expected numeric and bool attributes to pass through, got %q", out)
		}
	})
}

// TestNewLogger tests the level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("debug line")
		logger.Info("info line")
		logger.Warn("warn line")

		out := buf.String()
		if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
			t.Error("expected debug and info to be suppressed")
		}
		if !strings.Contains(out, "warn line") {
			t.Error("expected warning to be logged")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug line")
		if !strings.Contains(buf.String(), "debug line") {
			t.Error("expected debug to be logged in verbose mode")
		}
	})
}
