package domain

import "context"

// ImageLocator finds real survey imagery for a planet's host-star field.
// Implementations are best-effort: an unreachable survey contributes nothing
// rather than an error.
type ImageLocator interface {
	// LocateImages returns references to available observations, in a fixed
	// source order. The slice may be empty, never nil on success.
	LocateImages(ctx context.Context, planetName string, star HostStar) []ImageRef
}
