package catalog

import (
	"context"
	"testing"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memChunkRepo struct {
	chunks  []models.KnowledgeChunk
	queries []string
}

func (m *memChunkRepo) Create(ctx context.Context, c *models.KnowledgeChunk) error { return nil }

func (m *memChunkRepo) GetByID(ctx context.Context, id string) (*models.KnowledgeChunk, error) {
	return nil, nil
}

func (m *memChunkRepo) Search(ctx context.Context, query string, limit int64) ([]models.KnowledgeChunk, error) {
	m.queries = append(m.queries, query)
	return m.chunks, nil
}

func (m *memChunkRepo) List(ctx context.Context, skip, limit int64) ([]models.KnowledgeChunk, error) {
	return m.chunks, nil
}

func (m *memChunkRepo) Delete(ctx context.Context, id string) error { return nil }

func TestResolveFiltersUnpricedAndImplausibleChunks(t *testing.T) {
	repo := &memChunkRepo{chunks: []models.KnowledgeChunk{
		{ID: "a", Content: "timber fence per metre", BasePrice: 85, PriceUnit: "per metre", Source: "pricelist.pdf"},
		{ID: "b", Content: "fencing overview", BasePrice: 0},
		{ID: "c", Content: "full project quotation", BasePrice: 45000},
	}}
	r := &CatalogResolver{Chunks: repo, MaxPrice: 10000}

	candidates, err := r.Resolve(context.Background(), "timber fence", nil)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 85.0, candidates[0].Price)
	assert.Equal(t, "per metre", candidates[0].Unit)
	assert.Equal(t, "pricelist.pdf", candidates[0].Source)
}

func TestResolveIncludesContextInSearchQuery(t *testing.T) {
	repo := &memChunkRepo{}
	r := &CatalogResolver{Chunks: repo}

	_, err := r.Resolve(context.Background(), "Fence", map[string]string{
		"material": "Timber",
		"height":   "1.8m",
	})
	require.NoError(t, err)
	require.Len(t, repo.queries, 1)
	assert.Equal(t, "fence 1.8m timber", repo.queries[0])
}

func TestResolveEmptyQueryShortCircuits(t *testing.T) {
	repo := &memChunkRepo{}
	r := &CatalogResolver{Chunks: repo}

	candidates, err := r.Resolve(context.Background(), "  ", nil)
	require.NoError(t, err)
	assert.Nil(t, candidates)
	assert.Empty(t, repo.queries)
}

func TestNormalizeQueryIsOrderStable(t *testing.T) {
	a := normalizeQuery("fence", map[string]string{"material": "timber", "height": "2m"})
	b := normalizeQuery("fence", map[string]string{"height": "2m", "material": "timber"})
	assert.Equal(t, a, b)
}
