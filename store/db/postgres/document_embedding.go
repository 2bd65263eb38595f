package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/babynest/babynest/store"
)

func (d *DB) UpsertDocumentEmbedding(ctx context.Context, upsert *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	vector := pgvector.NewVector(upsert.Embedding)
	stmt := `
		INSERT INTO document_embedding (doc_id, collection, content, embedding, source)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, source = EXCLUDED.source
		RETURNING id, created_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DocID, upsert.Collection, upsert.Content, vector, upsert.Source,
	).Scan(&upsert.ID, &upsert.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert document embedding")
	}
	return upsert, nil
}

func (d *DB) ListDocumentEmbeddings(ctx context.Context, find *store.FindDocumentEmbedding) ([]*store.DocumentEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DocID; v != nil {
		where, args = append(where, "doc_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Collection; v != nil {
		where, args = append(where, "collection = "+placeholder(len(args)+1)), append(args, *v)
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
		var vector pgvector.Vector
		var source sql.NullString
		if err := rows.Scan(&doc.ID, &doc.DocID, &doc.Collection, &doc.Content, &vector, &source, &doc.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan document embedding")
		}
		doc.Embedding = vector.Slice()
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
			"DELETE FROM document_embedding WHERE collection = $1 AND doc_id = $2",
			delete.Collection, *delete.DocID,
		); err != nil {
			return errors.Wrap(err, "failed to delete document embedding")
		}
		return nil
	}
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM document_embedding WHERE collection = $1", delete.Collection,
	); err != nil {
		return errors.Wrap(err, "failed to delete document embeddings")
	}
	return nil
}

// SearchDocumentsByVector ranks by cosine distance using pgvector. The
// returned score is 1 - distance so larger means more similar, matching
// the SQLite driver.
func (d *DB) SearchDocumentsByVector(ctx context.Context, collection string, embedding []float32, limit int) ([]*store.DocumentEmbedding, []float32, error) {
	vector := pgvector.NewVector(embedding)
	query := `
		SELECT id, doc_id, collection, content, source, created_ts, embedding <=> $1 AS distance
		FROM document_embedding
		WHERE collection = $2
		ORDER BY distance ASC
		LIMIT $3
	`
	rows, err := d.db.QueryContext(ctx, query, vector, collection, limit)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to search document embeddings")
	}
	defer rows.Close()

	docs := []*store.DocumentEmbedding{}
	scores := []float32{}
	for rows.Next() {
		var doc store.DocumentEmbedding
		var source sql.NullString
		var distance float64
		if err := rows.Scan(&doc.ID, &doc.DocID, &doc.Collection, &doc.Content, &source, &doc.CreatedTs, &distance); err != nil {
			return nil, nil, errors.Wrap(err, "failed to scan document embedding")
		}
		if source.Valid {
			doc.Source = source.String
		}
		docs = append(docs, &doc)
		scores = append(scores, float32(1-distance))
	}
	return docs, scores, rows.Err()
}
