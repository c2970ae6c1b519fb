package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "wikiquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizDetailKey is the key of a fully denormalized quiz response.
func QuizDetailKey(quizID string) string {
	return GenerateCacheKey("quiz", "detail", quizID)
}

// ArticleKey is the key of an extracted article. URLs are hashed to keep keys short and free of ':'.
func ArticleKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return GenerateCacheKey("scraper", "article", hex.EncodeToString(sum[:]))
}
