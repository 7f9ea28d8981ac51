package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// AnalysisCache stores parsed model replies keyed by the exact request sent.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (models.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, result models.AnalysisResult) error
}

type redisAnalysisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisAnalysisCache(client redis.UniversalClient, ttl time.Duration) AnalysisCache {
	return &redisAnalysisCache{
		client: client,
		ttl:    ttl,
		prefix: "resume-analyzer:analysis:",
	}
}

// AnalysisCacheKey hashes everything that determines the model's input.
func AnalysisCacheKey(model, systemInstruction, prompt string) string {
	h := sha256.New()
	for _, part := range []string{model, systemInstruction, prompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *redisAnalysisCache) Get(ctx context.Context, key string) (models.AnalysisResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached analysis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return result, true, nil
}

func (c *redisAnalysisCache) Set(ctx context.Context, key string, result models.AnalysisResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}
	return nil
}
