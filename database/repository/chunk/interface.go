package chunkRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// ChunkRepository reads and writes priced catalog chunks. Search is a
// relevance-ranked text query over chunk content and item names.
type ChunkRepository interface {
	Create(ctx context.Context, chunk *models.KnowledgeChunk) error
	GetByID(ctx context.Context, id string) (*models.KnowledgeChunk, error)
	Search(ctx context.Context, query string, limit int64) ([]models.KnowledgeChunk, error)
	List(ctx context.Context, skip, limit int64) ([]models.KnowledgeChunk, error)
	Delete(ctx context.Context, id string) error
}
