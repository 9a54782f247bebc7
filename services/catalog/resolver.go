package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	chunkRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/chunk"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatalogResolver resolves price queries against the knowledge chunk
// catalog. Results are cached in Redis per normalized query so repeated
// drafts for the same enquiry do not re-run text search.
type CatalogResolver struct {
	Chunks      chunkRepo.ChunkRepository
	Cache       *redis.Client
	CacheTTL    time.Duration
	SearchLimit int64
	// MaxPrice filters out chunks whose price is implausibly large for a
	// unit price, such as project totals ingested from past quotations.
	MaxPrice float64
}

// Resolve implements engine.PriceResolver. The context map refines the
// query with descriptive answers (material, height) already collected.
func (r *CatalogResolver) Resolve(ctx context.Context, query string, queryContext map[string]string) ([]engine.PriceCandidate, error) {
	normalized := normalizeQuery(query, queryContext)
	if normalized == "" {
		return nil, nil
	}

	if cached, ok := r.fromCache(ctx, normalized); ok {
		return cached, nil
	}

	limit := r.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	chunks, err := r.Chunks.Search(ctx, normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog search for %q failed: %w", normalized, err)
	}

	candidates := make([]engine.PriceCandidate, 0, len(chunks))
	for _, c := range chunks {
		if c.BasePrice <= 0 {
			continue
		}
		if r.MaxPrice > 0 && c.BasePrice > r.MaxPrice {
			utils.GetLogger().Debug("skipping implausible catalog price",
				zap.String("chunkId", c.ID), zap.Float64("price", c.BasePrice))
			continue
		}
		candidates = append(candidates, engine.PriceCandidate{
			Content:    c.Content,
			Price:      c.BasePrice,
			Unit:       c.PriceUnit,
			Conditions: c.Conditions,
			Source:     c.Source,
		})
	}

	r.toCache(ctx, normalized, candidates)
	return candidates, nil
}

// normalizeQuery joins the query with its context values in a stable order
// so equal inputs always produce the same search string and cache key.
func normalizeQuery(query string, queryContext map[string]string) string {
	parts := []string{strings.TrimSpace(strings.ToLower(query))}

	keys := make([]string, 0, len(queryContext))
	for k := range queryContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := strings.TrimSpace(strings.ToLower(queryContext[k])); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func cacheKey(normalized string) string {
	sum := sha1.Sum([]byte(normalized))
	return "price:" + hex.EncodeToString(sum[:])
}

func (r *CatalogResolver) fromCache(ctx context.Context, normalized string) ([]engine.PriceCandidate, bool) {
	if r.Cache == nil {
		return nil, false
	}
	raw, err := r.Cache.Get(ctx, cacheKey(normalized)).Result()
	if err != nil {
		return nil, false
	}
	var candidates []engine.PriceCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (r *CatalogResolver) toCache(ctx context.Context, normalized string, candidates []engine.PriceCandidate) {
	if r.Cache == nil {
		return
	}
	b, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	ttl := r.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := r.Cache.Set(ctx, cacheKey(normalized), b, ttl).Err(); err != nil {
		utils.GetLogger().Warn("price cache write failed", zap.Error(err))
	}
}
