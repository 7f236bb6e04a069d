package metadata

import (
	"context"

	"github.com/ytget/ytgrab/internal/model"
)

// Provider looks up metadata for a locator. Implementations map their
// native failures onto *model.Error before returning.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, locator string) (model.VideoMetadata, error)
}
