package store

import "context"

// Document collections for semantic retrieval.
const (
	CollectionGuidelines  = "guidelines"
	CollectionUserDetails = "user_details"
)

// DocumentEmbedding represents an embedded retrieval document.
type DocumentEmbedding struct {
	ID         int32
	DocID      string // stable per-collection identifier, e.g. "guideline_3"
	Collection string
	Content    string
	Embedding  []float32
	Source     string // origin of the document, e.g. "appointments"
	CreatedTs  int64
}

// FindDocumentEmbedding is the find condition for document embeddings.
type FindDocumentEmbedding struct {
	DocID      *string
	Collection *string
}

// DeleteDocumentEmbedding is the delete request for document embeddings.
// A nil DocID deletes the whole collection.
type DeleteDocumentEmbedding struct {
	Collection string
	DocID      *string
}

// UpsertDocumentEmbedding inserts or updates a document embedding.
func (s *Store) UpsertDocumentEmbedding(ctx context.Context, upsert *DocumentEmbedding) (*DocumentEmbedding, error) {
	return s.driver.UpsertDocumentEmbedding(ctx, upsert)
}

// ListDocumentEmbeddings lists document embeddings.
func (s *Store) ListDocumentEmbeddings(ctx context.Context, find *FindDocumentEmbedding) ([]*DocumentEmbedding, error) {
	return s.driver.ListDocumentEmbeddings(ctx, find)
}

// DeleteDocumentEmbeddings deletes document embeddings.
func (s *Store) DeleteDocumentEmbeddings(ctx context.Context, delete *DeleteDocumentEmbedding) error {
	return s.driver.DeleteDocumentEmbeddings(ctx, delete)
}

// SearchDocumentsByVector performs semantic search within a collection.
func (s *Store) SearchDocumentsByVector(ctx context.Context, collection string, embedding []float32, limit int) ([]*DocumentEmbedding, []float32, error) {
	return s.driver.SearchDocumentsByVector(ctx, collection, embedding, limit)
}
