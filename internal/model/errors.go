package model

import (
	"errors"
	"strings"
)

// Kind classifies a failure surfaced by the public operations
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidLocator
	KindResourceUnavailable
	KindResolutionFailed
	KindMissingCapability
	KindTransferFailed
	KindInvalidIntent
)

// Operation names recorded on errors
const (
	OpResolve  = "resolve"
	OpDownload = "download"
)

// Sentinel errors, one per kind. Match them with errors.Is.
var (
	// ErrInvalidLocator is returned when the locator does not identify a resource.
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrResourceUnavailable is returned when the resource is removed, private or blocked.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrResolutionFailed is returned when no metadata provider could describe the resource.
	ErrResolutionFailed = errors.New("metadata resolution failed")

	// ErrMissingCapability is returned when the transcoder needed for audio is absent.
	ErrMissingCapability = errors.New("missing capability")

	// ErrTransferFailed is returned when the download itself fails.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInvalidIntent is returned for a format intent outside the supported set.
	ErrInvalidIntent = errors.New("invalid format intent")
)

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidLocator:
		return "InvalidLocator"
	case KindResourceUnavailable:
		return "ResourceUnavailable"
	case KindResolutionFailed:
		return "ResolutionFailed"
	case KindMissingCapability:
		return "MissingCapability"
	case KindTransferFailed:
		return "TransferFailed"
	case KindInvalidIntent:
		return "InvalidIntent"
	}
	return "Unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidLocator:
		return ErrInvalidLocator
	case KindResourceUnavailable:
		return ErrResourceUnavailable
	case KindResolutionFailed:
		return ErrResolutionFailed
	case KindMissingCapability:
		return ErrMissingCapability
	case KindTransferFailed:
		return ErrTransferFailed
	case KindInvalidIntent:
		return ErrInvalidIntent
	}
	return nil
}

// Error is the only error type crossing the resolve and download boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Locator string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	if e.Locator != "" {
		b.WriteString("[" + e.Locator + "] ")
	}
	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("failed")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind. Every failed resolve also
// matches ErrResolutionFailed, whatever its more specific kind.
func (e *Error) Is(target error) bool {
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	return e.Op == OpResolve && target == ErrResolutionFailed
}

// Hint returns remediation guidance for the user
func (e *Error) Hint() string {
	switch e.Kind {
	case KindInvalidLocator:
		return "Invalid link. Please enter a valid video URL."
	case KindResourceUnavailable:
		return "The video is not available. Try another link."
	case KindResolutionFailed:
		return "Could not load the video details. The download may still work."
	case KindMissingCapability:
		return "FFmpeg is not installed. Install it to convert audio to mp3 or choose another format."
	case KindTransferFailed:
		return "If the error persists, check your connection or update yt-dlp."
	case KindInvalidIntent:
		return "Choose one of: video, audio, video_only."
	}
	return ""
}

// NewError creates a new Error.
func NewError(kind Kind, op, locator string, err error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Locator: locator,
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HintFor returns remediation guidance for err, or an empty string
func HintFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint()
	}
	return ""
}
