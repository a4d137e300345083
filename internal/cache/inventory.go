package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	AmenityKeyPrefix  = "post:%d:amenity"
	CommentsKeyPrefix = "post:%d:comments"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 10 * time.Minute
	AmenityTTL  = 30 * time.Minute
	CommentsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func AmenityKey(postID uint) string {
	return fmt.Sprintf(AmenityKeyPrefix, postID)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post row and everything derived from it. Called
// on every moderation transition and comment mutation so public reads never
// serve a stale status or aggregate.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, AmenityKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}
