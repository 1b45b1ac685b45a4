package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	IndexFeedKeyPrefix = "feed:index:"
	UserKeyPrefix      = "user:%d"
	GroupKeyPrefix     = "group:%s"
)

const (
	// IndexFeedTTL bounds how long a rendered index page is replayed
	// before the feed is recomputed.
	IndexFeedTTL = 20 * time.Second

	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
)

// IndexFeedKey builds the cache key for one rendered page of the global
// feed. The prefix is namespaced so group/profile pages can never collide.
func IndexFeedKey(page int) string {
	return fmt.Sprintf("%spage:%d", IndexFeedKeyPrefix, page)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

// InvalidateIndexFeed drops every cached index page so the next request
// recomputes the feed from the store.
func InvalidateIndexFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, IndexFeedKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
