package overflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/overflow"
)

type fakeRecords struct {
	mu     sync.Mutex
	docs   map[string]map[string]interface{}
	putErr func(doc map[string]interface{}) error
	puts   int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{docs: make(map[string]map[string]interface{})}
}

func (f *fakeRecords) Put(ctx context.Context, key string, doc map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		if err := f.putErr(doc); err != nil {
			return err
		}
	}
	f.docs[key] = doc
	return nil
}

func (f *fakeRecords) Get(ctx context.Context, key string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[key]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRecords) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, key)
	return nil
}

func (f *fakeRecords) stored(key string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[key]
}

type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Upload(ctx context.Context, path, contentType string, data []byte) (*models.StorageReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.objects[path] = data
	return &models.StorageReference{
		StoragePath:     path,
		DownloadLocator: path,
		Size:            int64(len(data)),
		ContentType:     contentType,
		UploadedAt:      time.Now().UTC(),
	}, nil
}

func (f *fakeBlobs) Download(ctx context.Context, ref *models.StorageReference) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[ref.DownloadLocator]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", ref.DownloadLocator, db.ErrNotFound)
	}
	return data, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, ref *models.StorageReference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, ref.DownloadLocator)
	return nil
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func TestStorePutSmallDocumentStaysPrimary(t *testing.T) {
	records := newFakeRecords()
	blobs := newFakeBlobs()
	store := overflow.New(records, blobs, overflow.Config{})
	ctx := context.Background()

	doc := map[string]interface{}{"brand_id": "b1", "note": "small"}
	require.NoError(t, store.Put(ctx, "k1", doc))

	assert.Equal(t, 0, blobs.count())

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got["brand_id"])
	assert.Equal(t, "small", got["note"])
}

func TestStorePutOversizedOffloadsLargestField(t *testing.T) {
	records := newFakeRecords()
	blobs := newFakeBlobs()
	store := overflow.New(records, blobs, overflow.Config{MaxRecordBytes: 4096, SafetyMargin: 0.5})
	ctx := context.Background()

	big := strings.Repeat("x", 5000)
	doc := map[string]interface{}{"brand_id": "b1", "payload": big}
	require.NoError(t, store.Put(ctx, "k1", doc))

	assert.Equal(t, 1, blobs.count())

	stored := records.stored("k1")
	require.NotNil(t, stored)
	assert.Equal(t, "b1", stored["brand_id"])
	_, isString := stored["payload"].(string)
	assert.False(t, isString, "oversized field is replaced by a reference")

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, big, got["payload"], "offloaded field rehydrates transparently")
}

func TestStorePutBlobFailureFallsBackToTruncation(t *testing.T) {
	records := newFakeRecords()
	blobs := newFakeBlobs()
	blobs.uploadErr = errors.New("bucket unavailable")
	store := overflow.New(records, blobs, overflow.Config{MaxRecordBytes: 4096, SafetyMargin: 0.5})
	ctx := context.Background()

	entries := make([]interface{}, 120)
	for i := range entries {
		entries[i] = fmt.Sprintf("entry-%03d-%s", i, strings.Repeat("y", 40))
	}
	longText := strings.Repeat("z", 12000)
	doc := map[string]interface{}{
		"brand_id": "b1",
		"history":  entries,
		"summary":  longText,
	}

	require.NoError(t, store.Put(ctx, "k1", doc))

	stored := records.stored("k1")
	require.NotNil(t, stored)

	truncated, ok := stored["history"].([]interface{})
	require.True(t, ok)
	assert.Len(t, truncated, 50)
	assert.Equal(t, entries[70], truncated[0], "most recent entries are kept")

	summary, ok := stored["summary"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(summary, "...[truncated]"))
	assert.Less(t, len(summary), len(longText))
}

func TestStorePutResourceExhaustedRetriesMinimal(t *testing.T) {
	records := newFakeRecords()
	records.putErr = func(doc map[string]interface{}) error {
		if _, ok := doc["payload"]; ok {
			return &db.ResourceExhaustedError{Err: errors.New("document too large")}
		}
		return nil
	}
	store := overflow.New(records, newFakeBlobs(), overflow.Config{})
	ctx := context.Background()

	doc := map[string]interface{}{
		"brand_id": "b1",
		"payload":  strings.Repeat("x", 2048),
	}
	require.NoError(t, store.Put(ctx, "k1", doc))

	stored := records.stored("k1")
	require.NotNil(t, stored)
	assert.Equal(t, "b1", stored["brand_id"])
	_, hasPayload := stored["payload"]
	assert.False(t, hasPayload, "minimal retry drops large fields")
}

func TestStoreGetFieldSubsetRehydration(t *testing.T) {
	records := newFakeRecords()
	blobs := newFakeBlobs()
	store := overflow.New(records, blobs, overflow.Config{MaxRecordBytes: 2048, SafetyMargin: 0.5})
	ctx := context.Background()

	doc := map[string]interface{}{
		"first":  strings.Repeat("a", 3000),
		"second": strings.Repeat("b", 3000),
	}
	require.NoError(t, store.Put(ctx, "k1", doc))
	require.Equal(t, 2, blobs.count())

	got, err := store.Get(ctx, "k1", "first")
	require.NoError(t, err)
	assert.Equal(t, doc["first"], got["first"])
	_, secondIsString := got["second"].(string)
	assert.False(t, secondIsString, "unrequested fields keep their reference form")

	full, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, doc["second"], full["second"])
}

func TestStoreGetMissingKey(t *testing.T) {
	store := overflow.New(newFakeRecords(), newFakeBlobs(), overflow.Config{})
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDocumentRoundTrip(t *testing.T) {
	qr := &models.QueryResult{
		Query:               "best widgets",
		ProcessingSessionID: "s1",
		Results: models.ProviderAnswerSet{
			ChatGPT: &models.ChatGPTAnswer{Response: "Acme wins."},
		},
	}

	doc, err := overflow.ToDocument(qr)
	require.NoError(t, err)
	assert.Equal(t, "best widgets", doc["query"])

	var back models.QueryResult
	require.NoError(t, overflow.FromDocument(doc, &back))
	assert.Equal(t, qr.Query, back.Query)
	require.NotNil(t, back.Results.ChatGPT)
	assert.Equal(t, "Acme wins.", back.Results.ChatGPT.Response)
}
