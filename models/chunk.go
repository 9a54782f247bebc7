package models

import "time"

// KnowledgeChunk is one priced record from the catalog. Chunks are produced
// by document ingestion (outside this service) and read by the price
// resolver.
type KnowledgeChunk struct {
	ID         string    `bson:"id" json:"id"`
	DocumentID string    `bson:"documentId,omitempty" json:"document_id,omitempty"`
	Content    string    `bson:"content" json:"content"`
	ItemName   string    `bson:"itemName,omitempty" json:"item_name,omitempty"`
	BasePrice  float64   `bson:"basePrice" json:"base_price"`
	PriceUnit  string    `bson:"priceUnit,omitempty" json:"price_unit,omitempty"`
	Conditions []string  `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Source     string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
}
