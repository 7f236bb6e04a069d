package metadata

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ytget/ytgrab/internal/model"
)

// DefaultPrimaryTimeout bounds the watch-page provider
const DefaultPrimaryTimeout = 15 * time.Second

// Resolver tries the primary provider and falls back to the secondary
type Resolver struct {
	primary        Provider
	secondary      Provider
	primaryTimeout time.Duration
	logger         *slog.Logger
}

// NewResolver creates a resolver. primaryTimeout of zero disables the bound.
func NewResolver(primary, secondary Provider, primaryTimeout time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		primary:        primary,
		secondary:      secondary,
		primaryTimeout: primaryTimeout,
		logger:         logger,
	}
}

// Resolve returns metadata for locator. The secondary provider runs only
// when the primary fails. Every returned error matches
// model.ErrResolutionFailed; an InvalidLocator or ResourceUnavailable
// classification from either provider is kept as the error's kind.
func (r *Resolver) Resolve(ctx context.Context, locator string) (model.VideoMetadata, error) {
	log := r.logger.With("locator", locator)

	m, err := r.lookupPrimary(ctx, locator)
	if err == nil {
		log.Debug("metadata resolved", "provider", r.primary.Name())
		return m, nil
	}
	if ctx.Err() != nil {
		return model.VideoMetadata{}, model.NewError(model.KindResolutionFailed, model.OpResolve, locator, ctx.Err())
	}
	log.Warn("primary metadata provider failed, falling back",
		"provider", r.primary.Name(),
		"error", err,
	)

	primaryErr := err
	m, err = r.secondary.Lookup(ctx, locator)
	if err == nil {
		log.Debug("metadata resolved", "provider", r.secondary.Name())
		return m, nil
	}
	log.Warn("secondary metadata provider failed",
		"provider", r.secondary.Name(),
		"error", err,
	)
	return model.VideoMetadata{}, resolveError(locator, primaryErr, err)
}

func (r *Resolver) lookupPrimary(ctx context.Context, locator string) (model.VideoMetadata, error) {
	if r.primaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.primaryTimeout)
		defer cancel()
	}
	return r.primary.Lookup(ctx, locator)
}

// resolveError re-tags a secondary failure as a resolve error. The kind
// comes from whichever provider classified the locator, the secondary
// first. The cause is always the secondary's.
func resolveError(locator string, primaryErr, secondaryErr error) error {
	kind, ok := locatorKind(secondaryErr)
	if !ok {
		kind, ok = locatorKind(primaryErr)
	}
	if !ok {
		kind = model.KindResolutionFailed
	}

	cause := secondaryErr
	var e *model.Error
	if errors.As(secondaryErr, &e) && e.Err != nil {
		cause = e.Err
	}
	return model.NewError(kind, model.OpResolve, locator, cause)
}

// locatorKind reports a classification that describes the locator itself
func locatorKind(err error) (model.Kind, bool) {
	var e *model.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case model.KindInvalidLocator, model.KindResourceUnavailable:
			return e.Kind, true
		}
	}
	return model.KindResolutionFailed, false
}
