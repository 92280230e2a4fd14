package conversation

import "time"

const (
	LogPrefix = "conversation"

	// DefaultMaxTurns keeps the last three user/assistant pairs.
	DefaultMaxTurns   = 6
	DefaultHistoryTTL = 30 * time.Minute

	DefaultCacheCapacity = 1000

	DefaultUpdaterWorkers    = 4
	DefaultUpdaterQueueSize  = 256
	DefaultUpdaterJobTimeout = 5 * time.Second

	// Cache key derivation.
	KeyQueryPrefixRunes    = 100
	KeyHistoryTurns        = 2
	KeyHistoryContentRunes = 50
)
