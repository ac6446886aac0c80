package revalidate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/cache"
)

// RoutePinger asks the rendering frontend to re-render one static route.
type RoutePinger interface {
	Revalidate(ctx context.Context, path string) error
}

// Revalidator applies a Target: it drops the cache tags and pings the
// frontend for each dependent route. Route failures are logged and
// swallowed; a missed re-render self-heals at the cache TTL.
type Revalidator struct {
	cache  cache.TagStore
	routes RoutePinger
	log    zerolog.Logger
}

// New constructs a Revalidator. routes may be nil when no frontend is wired.
func New(c cache.TagStore, routes RoutePinger, log zerolog.Logger) *Revalidator {
	return &Revalidator{cache: c, routes: routes, log: log}
}

// Apply invalidates the target's tags, then fires route revalidations.
// The returned error reflects tag invalidation only; tags invalidated
// before a failure stay invalidated.
func (r *Revalidator) Apply(ctx context.Context, t Target) error {
	for _, tag := range t.Tags {
		if err := r.cache.InvalidateTag(ctx, tag); err != nil {
			return err
		}
	}
	if r.routes == nil {
		return nil
	}
	for _, route := range t.Routes {
		if err := r.routes.Revalidate(ctx, route); err != nil {
			r.log.Warn().Err(err).Str("route", route).Msg("route revalidation failed")
		}
	}
	return nil
}
