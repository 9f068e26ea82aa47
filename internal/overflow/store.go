package overflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
)

const (
	// DefaultMaxRecordBytes matches the primary store's per-record hard limit
	DefaultMaxRecordBytes = 1048576
	// DefaultSafetyMargin triggers overflow handling before the hard limit
	DefaultSafetyMargin = 0.80

	// refMarker flags a field whose value was replaced by a StorageReference
	refMarker = "_storage_ref"

	// Fields smaller than this are never worth offloading on their own
	minOffloadBytes = 1024

	maxAttempts = 3
	baseBackoff = 200 * time.Millisecond

	blobContentType = "application/json"
)

// Config tunes the overflow thresholds
type Config struct {
	MaxRecordBytes int
	SafetyMargin   float64
}

// Store wraps a primary RecordStore and transparently offloads any field whose
// serialized size would push the record over the store's per-record limit into
// the blob store, replacing it with a small reference. Callers never need to
// know whether a given field was offloaded.
type Store struct {
	records   db.RecordStore
	blobs     db.BlobStore
	maxBytes  int
	threshold int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an overflow store over the given primary and blob stores
func New(records db.RecordStore, blobs db.BlobStore, cfg Config) *Store {
	maxBytes := cfg.MaxRecordBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRecordBytes
	}
	margin := cfg.SafetyMargin
	if margin <= 0 || margin > 1 {
		margin = DefaultSafetyMargin
	}

	return &Store{
		records:   records,
		blobs:     blobs,
		maxBytes:  maxBytes,
		threshold: int(float64(maxBytes) * margin),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Put persists the document under key, offloading oversized fields first.
// Writes for the same key serialize; the fallback chain is full document,
// blob-offloaded document, truncated minimal document, in that order.
func (s *Store) Put(ctx context.Context, key string, doc map[string]interface{}) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", key, err)
	}

	if len(data) <= s.threshold {
		return s.putPrimary(ctx, key, doc)
	}

	offloaded, err := s.offload(ctx, key, doc)
	if err != nil {
		logger.Warning("Blob offload failed for %s, writing truncated document: %v", key, err)
		return s.putPrimary(ctx, key, truncateDocument(doc))
	}

	if err := s.putPrimary(ctx, key, offloaded); err != nil {
		logger.Warning("Offloaded write failed for %s, writing truncated document: %v", key, err)
		return s.putPrimary(ctx, key, truncateDocument(doc))
	}
	return nil
}

// Get reads the document and splices every offloaded field back in place.
// When fields are given, only those are rehydrated; other references are
// returned as-is.
func (s *Store) Get(ctx context.Context, key string, fields ...string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	err := s.withRetry(ctx, func() error {
		var getErr error
		doc, getErr = s.records.Get(ctx, key)
		return getErr
	})
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(fields))
	for _, field := range fields {
		requested[field] = true
	}

	for field, value := range doc {
		if len(fields) > 0 && !requested[field] {
			continue
		}
		ref, ok := referenceOf(value)
		if !ok {
			continue
		}

		var data []byte
		err := s.withRetry(ctx, func() error {
			var dlErr error
			data, dlErr = s.blobs.Download(ctx, ref)
			return dlErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to rehydrate field %s of %s: %w", field, key, err)
		}

		var restored interface{}
		if err := json.Unmarshal(data, &restored); err != nil {
			return nil, fmt.Errorf("failed to decode offloaded field %s of %s: %w", field, key, err)
		}
		doc[field] = restored
	}

	return doc, nil
}

// putPrimary writes to the primary store with bounded retries. A transient
// resource-exhausted error triggers one retry with a minimal-field version of
// the document before giving up.
func (s *Store) putPrimary(ctx context.Context, key string, doc map[string]interface{}) error {
	err := s.withRetry(ctx, func() error {
		return s.records.Put(ctx, key, doc)
	})
	if err == nil {
		return nil
	}

	if db.IsResourceExhausted(err) {
		logger.Warning("Primary store exhausted for %s, retrying with minimal document", key)
		if minErr := s.records.Put(ctx, key, minimalDocument(doc)); minErr == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to write document %s: %w", key, err)
}

// offload moves the largest fields to the blob store until the remaining
// document fits under the operating threshold
func (s *Store) offload(ctx context.Context, key string, doc map[string]interface{}) (map[string]interface{}, error) {
	type fieldSize struct {
		name string
		data []byte
	}

	out := make(map[string]interface{}, len(doc))
	remaining := 2 // enclosing braces
	var candidates []fieldSize

	for field, value := range doc {
		out[field] = value
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize field %s: %w", field, err)
		}
		remaining += len(field) + len(data) + 4
		if len(data) >= minOffloadBytes {
			candidates = append(candidates, fieldSize{name: field, data: data})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i].data) > len(candidates[j].data)
	})

	for _, candidate := range candidates {
		if remaining <= s.threshold {
			break
		}

		path := fmt.Sprintf("overflow/%s/%s-%s.json", key, candidate.name, uuid.NewString())
		var ref *models.StorageReference
		err := s.withRetry(ctx, func() error {
			var upErr error
			ref, upErr = s.blobs.Upload(ctx, path, blobContentType, candidate.data)
			return upErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload field %s: %w", candidate.name, err)
		}

		out[candidate.name] = referenceDocument(ref)
		remaining -= len(candidate.data)
		logger.Debug("Offloaded field %s of %s (%d bytes) to %s", candidate.name, key, len(candidate.data), path)
	}

	return out, nil
}

func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(baseBackoff << (attempt - 1)):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		// Resource exhaustion is handled by the caller's fallback, and a
		// missing document never becomes present by retrying.
		if db.IsResourceExhausted(err) || err == db.ErrNotFound {
			return err
		}
	}
	return err
}

// keyLock returns the mutex guarding one record key. The map holds one mutex
// per key for the life of the store; keys are session and snapshot ids, so its
// size is bounded by the number of records the store has touched.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
