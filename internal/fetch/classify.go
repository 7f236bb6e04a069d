package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ytget/ytgrab/internal/model"
)

// Diagnostics printed by yt-dlp, lowercased
var (
	invalidLocatorMarkers = []string{
		"is not a valid url",
		"unsupported url",
		"incomplete youtube id",
	}
	unavailableMarkers = []string{
		"video unavailable",
		"is unavailable",
		"private video",
		"has been removed",
		"blocked it in your country",
		"available in your country",
		"sign in to confirm your age",
		"age-restricted",
		"members-only",
		"join this channel",
		"this live event will begin",
	}
)

// Classify maps a failed tool run onto the error taxonomy. It returns a
// *model.Error whose Op is "download"; callers re-tag it as needed.
func Classify(locator, stderr string, err error) error {
	if err == nil && stderr == "" {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return model.NewError(model.KindTransferFailed, model.OpDownload, locator, err)
	}

	msg := lastErrorLine(stderr)
	lower := strings.ToLower(stderr)
	cause := err
	if msg != "" {
		cause = errors.New(msg)
		if err != nil {
			cause = fmt.Errorf("%s: %w", msg, err)
		}
	}

	switch {
	case containsAny(lower, invalidLocatorMarkers):
		return model.NewError(model.KindInvalidLocator, model.OpDownload, locator, cause)
	case containsAny(lower, unavailableMarkers):
		return model.NewError(model.KindResourceUnavailable, model.OpDownload, locator, cause)
	}
	return model.NewError(model.KindTransferFailed, model.OpDownload, locator, cause)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// lastErrorLine returns the last "ERROR:" line of stderr, or the last
// non-empty line when there is none.
func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		if last == "" {
			last = line
		}
	}
	return last
}
