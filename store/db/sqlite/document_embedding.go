package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

// SQLite has no vector extension, so embeddings are stored JSON-encoded
// and similarity search ranks in process. The document corpus (guidelines
// plus user details) is small, so a full scan per query is acceptable.
// PostgreSQL installations get pgvector-backed search instead.

func (d *DB) UpsertDocumentEmbedding(ctx context.Context, upsert *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	encoded, err := json.Marshal(upsert.Embedding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode embedding")
	}

	stmt := `
		INSERT INTO document_embedding (doc_id, collection, content, embedding, source)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, source = EXCLUDED.source
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DocID, upsert.Collection, upsert.Content, string(encoded), upsert.Source,
	).Scan(&upsert.ID, &upsert.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert document embedding")
	}
	return upsert, nil
}

func (d *DB) ListDocumentEmbeddings(ctx context.Context, find *store.FindDocumentEmbedding) ([]*store.DocumentEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DocID; v != nil {
		where, args = append(where, "doc_id = ?"), append(args, *v)
	}
	if v := find.Collection; v != nil {
		where, args = append(where, "collection = ?"), append(args, *v)
	}

	query := `
		SELECT id, doc_id, collection, content, embedding, source, created_ts
		FROM document_embedding WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list document embeddings")
	}
	defer rows.Close()

	list := []*store.DocumentEmbedding{}
	for rows.Next() {
		var doc store.DocumentEmbedding
		var encoded string
		var source sql.NullString
		if err := rows.Scan(&doc.ID, &doc.DocID, &doc.Collection, &doc.Content, &encoded, &source, &doc.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan document embedding")
		}
		if err := json.Unmarshal([]byte(encoded), &doc.Embedding); err != nil {
			return nil, errors.Wrapf(err, "failed to decode embedding for document %s", doc.DocID)
		}
		if source.Valid {
			doc.Source = source.String
		}
		list = append(list, &doc)
	}
	return list, rows.Err()
}

func (d *DB) DeleteDocumentEmbeddings(ctx context.Context, delete *store.DeleteDocumentEmbedding) error {
	if delete.DocID != nil {
		if _, err := d.db.ExecContext(ctx,
			"DELETE FROM document_embedding WHERE collection = ? AND doc_id = ?",
			delete.Collection, *delete.DocID,
		); err != nil {
			return errors.Wrap(err, "failed to delete document embedding")
		}
		return nil
	}
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM document_embedding WHERE collection = ?", delete.Collection,
	); err != nil {
		return errors.Wrap(err, "failed to delete document embeddings")
	}
	return nil
}

func (d *DB) SearchDocumentsByVector(ctx context.Context, collection string, embedding []float32, limit int) ([]*store.DocumentEmbedding, []float32, error) {
	docs, err := d.ListDocumentEmbeddings(ctx, &store.FindDocumentEmbedding{Collection: &collection})
	if err != nil {
		return nil, nil, err
	}

	type scored struct {
		doc   *store.DocumentEmbedding
		score float32
	}
	ranked := make([]scored, 0, len(docs))
	for _, doc := range docs {
		ranked = append(ranked, scored{doc: doc, score: cosineSimilarity(embedding, doc.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	resultDocs := make([]*store.DocumentEmbedding, len(ranked))
	scores := make([]float32, len(ranked))
	for i, r := range ranked {
		resultDocs[i] = r.doc
		scores[i] = r.score
	}
	return resultDocs, scores, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
