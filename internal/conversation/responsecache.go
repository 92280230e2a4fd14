package conversation

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"goodwish-chatbot/internal/model"
)

// ResponseCache maps a request fingerprint to a generated answer.
// It is a bounded LRU; a positive ttl also expires entries. Concurrent Puts on one key: last write wins.
type ResponseCache struct {
	entries *expirable.LRU[string, string]
}

// NewResponseCache creates a cache holding at most capacity answers. ttl <= 0 disables expiry.
func NewResponseCache(capacity int, ttl time.Duration) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ResponseCache{
		entries: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (c *ResponseCache) Get(key string) (string, bool) {
	return c.entries.Get(key)
}

func (c *ResponseCache) Put(key, answer string) {
	c.entries.Add(key, answer)
}

func (c *ResponseCache) Len() int {
	return c.entries.Len()
}

// ComputeKey fingerprints a request from the first KeyQueryPrefixRunes runes of the trimmed query,
// the image flag, and role plus the first KeyHistoryContentRunes runes of at most the last
// KeyHistoryTurns history turns.
//
// recent must be the history read before this request's own turns are appended, so a repeated
// exchange in an unchanged context maps to the same key. Different sessions sharing the same
// prefix and recent turns share an entry.
func ComputeKey(query string, hasImage bool, recent []model.Turn) string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(truncateRunes(strings.TrimSpace(query), KeyQueryPrefixRunes))
	if hasImage {
		b.WriteString("|img=1")
	} else {
		b.WriteString("|img=0")
	}
	b.WriteString("|h=")

	if len(recent) > KeyHistoryTurns {
		recent = recent[len(recent)-KeyHistoryTurns:]
	}
	for i, t := range recent {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(string(t.Role))
		b.WriteByte(':')
		b.WriteString(truncateRunes(t.Content, KeyHistoryContentRunes))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
