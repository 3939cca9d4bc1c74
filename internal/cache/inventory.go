package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%s"
	// PasteListKey caches the unfiltered candidate set for listings. The
	// ranking engine re-applies expiry filtering after every cache read, so
	// an expired paste in a cached snapshot still never reaches a client.
	PasteListKey = "pastes:candidates"
)

const (
	UserTTL = 5 * time.Minute
	// ListTTL is deliberately short: view counters drift inside the window.
	ListTTL = 15 * time.Second
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePasteList(ctx context.Context) {
	Invalidate(ctx, PasteListKey)
}
