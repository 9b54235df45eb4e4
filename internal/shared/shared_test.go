package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestBearerToken(t *testing.T) {
	tc := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bare token", header: "abc123", want: "abc123"},
		{name: "bearer prefix", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase prefix", header: "bearer abc123", want: "abc123"},
		{name: "surrounding whitespace", header: "  Bearer   abc123  ", want: "abc123"},
		{name: "empty", header: "", want: ""},
		{name: "scheme without token", header: "Bearer", want: ""},
		{name: "scheme with trailing space", header: "Bearer   ", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := BearerToken(tt.header)
			if got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevelString", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		SetLogLevelString(logger, "debug")
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		SetLogLevelString(logger, "nonsense")
		if logger.GetLevel() != log.InfoLevel {
			t.Errorf("expected info level fallback, got %v", logger.GetLevel())
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "request_id", "abc")
		logger.Info("hello")

		if !bytes.Contains(buf.Bytes(), []byte("request_id=abc")) {
			t.Errorf("expected child logger fields in output, got %s", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", a, err)
	}
}
