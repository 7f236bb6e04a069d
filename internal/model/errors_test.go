package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindInvalidLocator, ErrInvalidLocator},
		{KindResourceUnavailable, ErrResourceUnavailable},
		{KindResolutionFailed, ErrResolutionFailed},
		{KindMissingCapability, ErrMissingCapability},
		{KindTransferFailed, ErrTransferFailed},
		{KindInvalidIntent, ErrInvalidIntent},
	}

	for _, test := range tests {
		err := fmt.Errorf("wrapped: %w", NewError(test.kind, OpDownload, "loc", errors.New("detail")))
		if !errors.Is(err, test.sentinel) {
			t.Errorf("errors.Is(%v, %v) = false", err, test.sentinel)
		}
		if KindOf(err) != test.kind {
			t.Errorf("KindOf = %v, expected %v", KindOf(err), test.kind)
		}
	}
}

func TestError_ResolveAlwaysMatchesResolutionFailed(t *testing.T) {
	err := NewError(KindInvalidLocator, OpResolve, "not a url", errors.New("bad"))

	if !errors.Is(err, ErrInvalidLocator) {
		t.Error("expected ErrInvalidLocator")
	}
	if !errors.Is(err, ErrResolutionFailed) {
		t.Error("expected resolve error to match ErrResolutionFailed")
	}

	dl := NewError(KindInvalidLocator, OpDownload, "not a url", errors.New("bad"))
	if errors.Is(dl, ErrResolutionFailed) {
		t.Error("download error must not match ErrResolutionFailed")
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("HTTP Error 403")
	err := NewError(KindTransferFailed, OpDownload, "https://youtu.be/abc", cause)

	msg := err.Error()
	for _, part := range []string{"download", "https://youtu.be/abc", "transfer failed", "HTTP Error 403"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestHintFor(t *testing.T) {
	if HintFor(errors.New("plain")) != "" {
		t.Error("plain errors have no hint")
	}
	hint := HintFor(NewError(KindMissingCapability, OpDownload, "", nil))
	if !strings.Contains(hint, "FFmpeg") {
		t.Errorf("missing capability hint should mention FFmpeg, got %q", hint)
	}
}
