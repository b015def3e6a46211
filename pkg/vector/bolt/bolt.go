// Package bolt provides a BoltDB-backed vector driver.
//
// Search is brute force over an in-memory copy of the vectors, which is
// fine for single-document corpora. Distance is 1 - cosine similarity.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/vector"
)

var bucketChunks = []byte("chunks")

// BoltDriver implements vector.Driver using BoltDB for persistence.
type BoltDriver struct {
	db     *bbolt.DB
	logger *zap.Logger

	mu sync.RWMutex
	// In-memory copy of all stored documents for brute-force search.
	docs map[string]vector.Document
}

// Config holds configuration for the Bolt driver.
type Config struct {
	// DBPath is the path to the Bolt database file.
	DBPath string
}

type storedChunk struct {
	Text      string    `json:"t"`
	Source    string    `json:"s"`
	Seq       int       `json:"q"`
	Embedding []float32 `json:"v"`
}

// NewBoltDriver opens (or creates) a Bolt database at the configured path.
func NewBoltDriver(c Config, logger *zap.Logger) (*BoltDriver, error) {
	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := bbolt.Open(c.DBPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketChunks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks bucket: %w", err)
	}

	d := &BoltDriver{
		db:     db,
		logger: logger,
		docs:   make(map[string]vector.Document),
	}

	if err := d.loadDocs(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading documents: %w", err)
	}

	logger.Info("bolt vector driver initialized",
		zap.String("db_path", c.DBPath),
		zap.Int("documents", len(d.docs)),
	)

	return d, nil
}

func (d *BoltDriver) loadDocs() error {
	return d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedChunk
			if err := json.Unmarshal(v, &stored); err != nil {
				// Skip corrupted entries
				return nil
			}
			d.docs[string(k)] = vector.Document{
				ID:        string(k),
				Text:      stored.Text,
				Source:    stored.Source,
				Seq:       stored.Seq,
				Embedding: stored.Embedding,
			}
			return nil
		})
	})
}

// Add stores documents with their embeddings, updating existing IDs.
func (d *BoltDriver) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return fmt.Errorf("chunks bucket not found")
		}

		for _, doc := range docs {
			data, err := json.Marshal(storedChunk{
				Text:      doc.Text,
				Source:    doc.Source,
				Seq:       doc.Seq,
				Embedding: doc.Embedding,
			})
			if err != nil {
				return fmt.Errorf("marshaling document %s: %w", doc.ID, err)
			}

			if err := b.Put([]byte(doc.ID), data); err != nil {
				return fmt.Errorf("storing document %s: %w", doc.ID, err)
			}

			d.docs[doc.ID] = doc
		}

		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Debug("added documents to bolt",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK closest documents via brute-force cosine distance.
func (d *BoltDriver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.docs) == 0 {
		return nil, nil
	}

	results := make([]vector.QueryResult, 0, len(d.docs))
	for _, doc := range d.docs {
		dist := 1 - cosineSimilarity(embedding, doc.Embedding)
		results = append(results, vector.QueryResult{
			Document: doc,
			Score:    float32(dist),
		})
	}

	// Ascending distance, then ID for deterministic ties.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if topK < len(results) {
		results = results[:topK]
	}

	d.logger.Debug("queried bolt",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Count reports the number of documents in the store.
func (d *BoltDriver) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs), nil
}

// Reset removes every document from the store.
func (d *BoltDriver) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketChunks); err != nil {
			return fmt.Errorf("deleting chunks bucket: %w", err)
		}
		_, err := tx.CreateBucket(bucketChunks)
		return err
	})
	if err != nil {
		return err
	}

	d.docs = make(map[string]vector.Document)

	d.logger.Debug("reset bolt store")

	return nil
}

// Close releases resources held by the driver.
func (d *BoltDriver) Close() error {
	return d.db.Close()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ vector.Driver = (*BoltDriver)(nil)
