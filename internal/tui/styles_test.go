package tui

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/hardy/onion/internal/errors"
)

func TestFormatError_Nil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}

func TestFormatError_UpstreamDetail(t *testing.T) {
	err := apierrors.NewUpstreamError(429, "AI request failed", "rate limited")
	out := FormatError(err)

	if !strings.Contains(out, "AI request failed") {
		t.Errorf("output missing message:\n%s", out)
	}
	if !strings.Contains(out, "429") {
		t.Errorf("output missing status:\n%s", out)
	}
	if !strings.Contains(out, "rate limited") {
		t.Errorf("output missing detail:\n%s", out)
	}
}

func TestFormatError_TransportHint(t *testing.T) {
	err := apierrors.NewTransportError("proxy unreachable", errors.New("connection refused"))
	out := FormatError(err)

	if !strings.Contains(out, "onion serve") {
		t.Errorf("transport errors should hint at starting the proxy:\n%s", out)
	}
}
