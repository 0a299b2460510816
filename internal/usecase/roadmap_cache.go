package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoadmapCache is the read-through cache in front of the active-roadmap
// fetch. Implementations are best-effort; a nil or unreachable cache must
// never fail the request.
type RoadmapCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ActiveRoadmapCacheKey is invalidated whenever the user's tree or progress
// changes, so a fetch after a task toggle always reflects current status.
func ActiveRoadmapCacheKey(userID uuid.UUID) string {
	return "roadmap:active:" + userID.String()
}
