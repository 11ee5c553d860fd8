package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "customer:%d:profile"
	SongsKey         = "songs:all"
	MoviesKey        = "movies:all"
)

const (
	ProfileTTL = 2 * time.Minute
	SongsTTL   = 5 * time.Minute
	MoviesTTL  = 5 * time.Minute
)

func ProfileKey(customerID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, customerID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateProfiles drops cached profiles, e.g. after a follow changes counts.
func InvalidateProfiles(ctx context.Context, customerIDs ...uint) {
	keys := make([]string, 0, len(customerIDs))
	for _, id := range customerIDs {
		keys = append(keys, ProfileKey(id))
	}
	Invalidate(ctx, keys...)
}
