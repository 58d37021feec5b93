package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinirec/clinical-api/internal/docstore"
	"github.com/clinirec/clinical-api/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	fields     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
`

// Config holds connection parameters for the backing database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Store is a document store backed by a single Postgres table. Every
// document write is one row upsert, which gives the per-document atomic,
// last-write-wins semantics the workflow assumes.
type Store struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewStore(cfg Config, m *metrics.Metrics) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure documents table: %w", err)
	}

	return &Store{db: db, metrics: m}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		status = "error"
	}
	s.metrics.StoreOperations.WithLabelValues(op, status).Inc()
	s.metrics.StoreLatency.With(prometheus.Labels{"operation": op}).Observe(time.Since(start).Seconds())
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	start := time.Now()
	doc, err := s.get(ctx, path)
	s.observe("get", start, err)
	return doc, err
}

// get carries the whole fetch, including decoding, so the caller records
// one observation covering it.
func (s *Store) get(ctx context.Context, path string) (*docstore.Document, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT fields FROM documents WHERE path = $1`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := docstore.Fields{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", path, err)
	}

	_, id := docstore.Split(path)
	return &docstore.Document{Path: path, ID: id, Fields: fields}, nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields) error {
	start := time.Now()
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}

	collection, _ := docstore.Split(path)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, collection, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE
		SET fields = EXCLUDED.fields, updated_at = now()`,
		path, collection, raw,
	)
	s.observe("set", start, err)
	return err
}

func (s *Store) Update(ctx context.Context, path string, fields docstore.Fields) error {
	start := time.Now()
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET fields = fields || $2, updated_at = now()
		WHERE path = $1`,
		path, raw,
	)
	if err == nil {
		if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
			err = docstore.ErrNotFound
		}
	}
	s.observe("update", start, err)
	return err
}

func (s *Store) Delete(ctx context.Context, path string) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = $1`, path)
	s.observe("delete", start, err)
	return err
}

func (s *Store) Query(ctx context.Context, collection, field string, value interface{}, limit int) ([]*docstore.Document, error) {
	start := time.Now()
	val, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query value: %w", err)
	}

	query := `SELECT path, fields FROM documents WHERE collection = $1 AND fields->$2 = $3::jsonb ORDER BY path`
	args := []interface{}{collection, field, val}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	docs, err := s.selectDocuments(ctx, query, args...)
	s.observe("query", start, err)
	return docs, err
}

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]*docstore.Document, error) {
	start := time.Now()
	docs, err := s.selectDocuments(ctx,
		`SELECT path, fields FROM documents WHERE collection = $1 ORDER BY path`, collection)
	s.observe("list_documents", start, err)
	return docs, err
}

func (s *Store) ListChildren(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	var children []string
	err := s.db.SelectContext(ctx, &children, `
		SELECT DISTINCT split_part(substr(path, length($1) + 2), '/', 1)
		FROM documents
		WHERE path LIKE $1 || '/%'
		ORDER BY 1`,
		path,
	)
	s.observe("list_children", start, err)
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (s *Store) selectDocuments(ctx context.Context, query string, args ...interface{}) ([]*docstore.Document, error) {
	rows := []struct {
		Path   string `db:"path"`
		Fields []byte `db:"fields"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	docs := make([]*docstore.Document, 0, len(rows))
	for _, row := range rows {
		fields := docstore.Fields{}
		if err := json.Unmarshal(row.Fields, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", row.Path, err)
		}
		_, id := docstore.Split(row.Path)
		docs = append(docs, &docstore.Document{Path: row.Path, ID: id, Fields: fields})
	}
	return docs, nil
}
