package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the ingresso application.
// Pattern: ingresso:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour
	TTL_STATIC_SHORT  = 6 * time.Hour
	TTL_SEMI_STATIC   = 2 * time.Hour
	TTL_SEMI_QUICK    = 15 * time.Minute
	TTL_DYNAMIC       = 10 * time.Minute
	TTL_DYNAMIC_SHORT = 5 * time.Minute
)

// Draft configurations live server-side while a producer edits; the TTL is
// refreshed on every command.
const TTL_CONFIG_DRAFT = 12 * time.Hour

// ================== REDIS KEY PREFIXES ==================

const CACHE_PREFIX = "ingresso"

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST     = CACHE_PREFIX + ":events:list"     // + :page:X:limit:Y:status:Z
	CACHE_KEY_EVENTS_UPCOMING = CACHE_PREFIX + ":events:upcoming" // + :limit:X
	CACHE_KEY_EVENT_DETAIL    = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST     = TTL_SEMI_QUICK
	TTL_EVENT_UPCOMING = TTL_SEMI_QUICK
	TTL_EVENT_DETAIL   = TTL_SEMI_STATIC
)

// ================== CONFIGURATION MODULE ==================

const (
	CACHE_KEY_CONFIG_DETAIL = CACHE_PREFIX + ":config:detail:event:" // + event-id
	CACHE_KEY_CONFIG_DRAFT  = CACHE_PREFIX + ":config:draft:event:"  // + event-id:user:user-id
)

const TTL_CONFIG_DETAIL = TTL_SEMI_STATIC

// ================== FAVORITES MODULE ==================

const CACHE_KEY_USER_FAVORITES = CACHE_PREFIX + ":favorites:user:uuid:" // + user-id

const TTL_USER_FAVORITES = TTL_DYNAMIC

// ================== AUTH MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:uuid:" // + user-id
)

const TTL_USER_PROFILE = TTL_STATIC_SHORT

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_ALL    = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_EVENT_DETAIL = CACHE_PREFIX + ":events:*:uuid:" // + event-id + *
	PATTERN_INVALIDATE_CONFIG       = CACHE_PREFIX + ":config:detail:event:" // + event-id + *
	PATTERN_INVALIDATE_FAVORITES    = CACHE_PREFIX + ":favorites:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventListKey(page, limit int, status string) string {
	if status != "" {
		return fmt.Sprintf("%s:page:%d:limit:%d:status:%s", CACHE_KEY_EVENTS_LIST, page, limit, status)
	}
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildConfigDetailKey(eventID string) string {
	return CACHE_KEY_CONFIG_DETAIL + eventID
}

func BuildConfigDraftKey(eventID, userID string) string {
	return CACHE_KEY_CONFIG_DRAFT + eventID + ":user:" + userID
}

func BuildUserFavoritesKey(userID string) string {
	return CACHE_KEY_USER_FAVORITES + userID
}
