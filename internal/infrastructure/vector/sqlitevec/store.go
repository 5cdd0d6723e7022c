// Package sqlitevec is a local persistent vector index: one sqlite
// database per (persist path, collection), embeddings stored as
// float32 blobs, brute-force cosine search. A collection is either
// built once from a full chunk set or reopened from disk; the two
// paths are retrieval-equivalent for a fixed embedder.
package sqlitevec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"github.com/raglab/docchat/internal/core/domain"
	"github.com/raglab/docchat/internal/core/ports"
)

type Config struct {
	PersistPath string
	Collection  string

	// EmbedBatchSize chunks are embedded per backend call during a
	// build; EmbedBatchesPerSec throttles those calls (0 = unlimited).
	EmbedBatchSize     int
	EmbedBatchesPerSec float64
}

type Store struct {
	db     *sql.DB
	path   string
	reused bool
}

// Exists reports whether a persisted collection is present. Presence
// of the database file is the sole build-vs-load signal.
func Exists(cfg Config) bool {
	_, err := os.Stat(collectionPath(cfg))
	return err == nil
}

// OpenOrBuild reopens the persisted collection when it exists
// (chunks are ignored), otherwise builds it from chunks via the
// embedder. Builds are staged in a scratch database and atomically
// renamed into place; an exclusive lock file serializes concurrent
// builders, the loser failing fast with domain.ErrIndexLocked.
func OpenOrBuild(ctx context.Context, cfg Config, chunks []domain.Chunk, embedder ports.Embedder, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	dbPath := collectionPath(cfg)

	if _, err := os.Stat(dbPath); err == nil {
		log.Info("reopening vector index", "path", dbPath)
		return open(dbPath, true, embedder, log)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat index %s: %w", dbPath, err)
	}

	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrIndexMissing, "open index",
			fmt.Errorf("no persisted index at %s and no chunks to build from", dbPath))
	}

	if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
		return nil, fmt.Errorf("create persist dir: %w", err)
	}

	unlock, err := acquireLock(dbPath + ".lock")
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-check under the lock: another builder may have finished
	// between the stat above and acquiring the lock.
	if _, err := os.Stat(dbPath); err == nil {
		log.Info("reopening vector index built concurrently", "path", dbPath)
		return open(dbPath, true, embedder, log)
	}

	log.Info("building vector index", "path", dbPath, "chunks", len(chunks), "embedding_model", embedder.ModelID())
	if err := build(ctx, cfg, dbPath, chunks, embedder); err != nil {
		return nil, err
	}
	return open(dbPath, false, embedder, log)
}

func collectionPath(cfg Config) string {
	return filepath.Join(cfg.PersistPath, cfg.Collection+".db")
}

func acquireLock(lockPath string) (func(), error) {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, domain.WrapError(domain.ErrIndexLocked, "acquire build lock",
				fmt.Errorf("lock file %s exists", lockPath))
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	_ = f.Close()
	return func() { _ = os.Remove(lockPath) }, nil
}

func build(ctx context.Context, cfg Config, dbPath string, chunks []domain.Chunk, embedder ports.Embedder) error {
	staging := dbPath + ".building"
	// A stale staging database from a crashed build is discarded.
	_ = os.Remove(staging)

	db, err := openDB(staging)
	if err != nil {
		return err
	}
	if err := populate(ctx, cfg, db, chunks, embedder); err != nil {
		_ = db.Close()
		_ = os.Remove(staging)
		return err
	}
	if err := db.Close(); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("close staging index: %w", err)
	}

	if err := os.Rename(staging, dbPath); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("promote staged index: %w", err)
	}
	return nil
}

func populate(ctx context.Context, cfg Config, db *sql.DB, chunks []domain.Chunk, embedder ports.Embedder) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create index schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO collection_meta (key, value) VALUES ('embedding_model', ?), ('collection', ?)`,
		embedder.ModelID(), cfg.Collection,
	); err != nil {
		return fmt.Errorf("write collection meta: %w", err)
	}

	batchSize := cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 16
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.EmbedBatchesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.EmbedBatchesPerSec), 1)
	}

	insert, err := db.PrepareContext(ctx,
		`INSERT INTO chunks (id, ord, source, page, seq, content, embedding) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	ord := 0
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("embed rate limit: %w", err)
		}
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunk batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(batch))
		}

		for i, c := range batch {
			if _, err := insert.ExecContext(ctx,
				uuid.NewString(), ord, c.Metadata.Source, c.Metadata.Page, c.Seq, c.Content,
				float32SliceToBytes(vectors[i]),
			); err != nil {
				return fmt.Errorf("insert chunk: %w", err)
			}
			ord++
		}
	}
	return nil
}

func open(dbPath string, reused bool, embedder ports.Embedder, log *slog.Logger) (*Store, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	var storedModel string
	err = db.QueryRow(`SELECT value FROM collection_meta WHERE key = 'embedding_model'`).Scan(&storedModel)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read collection meta (corrupted index?): %w", err)
	}
	if embedder != nil && storedModel != embedder.ModelID() {
		// Query vectors from a different model make every similarity
		// score meaningless, but the index itself is intact.
		log.Warn("index was built with a different embedding model",
			"stored", storedModel, "configured", embedder.ModelID())
	}

	return &Store{db: db, path: dbPath, reused: reused}, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE collection_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE chunks (
	id        TEXT PRIMARY KEY,
	ord       INTEGER NOT NULL UNIQUE,
	source    TEXT NOT NULL,
	page      INTEGER NOT NULL,
	seq       INTEGER NOT NULL,
	content   TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

// Reused reports whether the store was reopened from persisted state
// rather than freshly built.
func (s *Store) Reused() bool {
	return s.reused
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Search ranks all stored chunks by cosine similarity to the query
// vector, descending, with ties broken by insertion order. An empty
// collection yields an empty result, not an error.
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, page, seq, content, embedding FROM chunks ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}
	defer rows.Close()

	var out []domain.RetrievedChunk
	for rows.Next() {
		var (
			chunk domain.RetrievedChunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.Metadata.Source, &chunk.Metadata.Page, &chunk.Seq, &chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		chunk.Score = cosineSimilarity(queryVector, bytesToFloat32Slice(blob))
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
