package compress

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"campusfaq/internal/port"
)

var bucketCompressions = []byte("compressions")

// CachedCompressor wraps another compressor with a bbolt-backed cache keyed
// by content hash, so re-ingesting the same document does not call the
// external service again. Only genuine service results are cached; fallback
// output is cheap to recompute and caching it would pin a degraded result.
type CachedCompressor struct {
	inner port.Compressor
	db    *bbolt.DB
}

type cachedEntry struct {
	Text  string  `json:"text"`
	Ratio float64 `json:"ratio"`
}

// NewCachedCompressor opens (or creates) the cache database at path.
func NewCachedCompressor(path string, inner port.Compressor) (*CachedCompressor, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open compression cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCompressions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &CachedCompressor{inner: inner, db: db}, nil
}

// Compress returns a cached result when one exists, otherwise delegates and
// caches service-produced results.
func (c *CachedCompressor) Compress(text string) (port.CompressResult, error) {
	key := cacheKey(text)

	var hit *cachedEntry
	_ = c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCompressions).Get(key)
		if data == nil {
			return nil
		}
		var entry cachedEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil // corrupt entry, treat as miss
		}
		hit = &entry
		return nil
	})
	if hit != nil {
		return port.CompressResult{Text: hit.Text, Ratio: hit.Ratio}, nil
	}

	result, err := c.inner.Compress(text)
	if err != nil || result.Fallback {
		return result, err
	}

	data, err := json.Marshal(cachedEntry{Text: result.Text, Ratio: result.Ratio})
	if err == nil {
		_ = c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketCompressions).Put(key, data)
		})
	}

	return result, nil
}

// Close closes the underlying database.
func (c *CachedCompressor) Close() error {
	return c.db.Close()
}

func cacheKey(text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return sum[:]
}
