package mongodb

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/models"
)

// blobStore implements the blob store over a GridFS bucket, which has no
// per-record size ceiling
type blobStore struct {
	bucket *gridfs.Bucket
}

// Blobs returns the blob store backed by the named GridFS bucket
func (m *MongoDB) Blobs(bucketName string) (db.BlobStore, error) {
	if m.database == nil {
		return nil, fmt.Errorf("not connected to database")
	}

	opts := options.GridFSBucket()
	if bucketName != "" {
		opts.SetName(bucketName)
	}

	bucket, err := gridfs.NewBucket(m.database, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob bucket: %w", err)
	}

	return &blobStore{bucket: bucket}, nil
}

// Upload stores data under path and returns the reference to splice into the
// primary document
func (b *blobStore) Upload(ctx context.Context, path, contentType string, data []byte) (*models.StorageReference, error) {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{"content_type": contentType})

	stream, err := b.bucket.OpenUploadStream(path, uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload stream for %s: %w", path, err)
	}

	if _, err := stream.Write(data); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to upload blob %s: %w", path, err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize blob %s: %w", path, err)
	}

	locator := ""
	if oid, ok := stream.FileID.(primitive.ObjectID); ok {
		locator = oid.Hex()
	}

	return &models.StorageReference{
		StoragePath:     path,
		DownloadLocator: locator,
		Size:            int64(len(data)),
		ContentType:     contentType,
		UploadedAt:      time.Now().UTC(),
	}, nil
}

// Download fetches a blob by its reference, preferring the file id locator and
// falling back to the storage path
func (b *blobStore) Download(ctx context.Context, ref *models.StorageReference) ([]byte, error) {
	var buf bytes.Buffer

	if ref.DownloadLocator != "" {
		oid, err := primitive.ObjectIDFromHex(ref.DownloadLocator)
		if err == nil {
			if _, err := b.bucket.DownloadToStream(oid, &buf); err != nil {
				return nil, fmt.Errorf("failed to download blob %s: %w", ref.StoragePath, err)
			}
			return buf.Bytes(), nil
		}
	}

	if _, err := b.bucket.DownloadToStreamByName(ref.StoragePath, &buf); err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", ref.StoragePath, err)
	}
	return buf.Bytes(), nil
}

// Delete removes a blob; unused references from superseded snapshots are kept
// as an audit trail, so this is only called by explicit cleanup
func (b *blobStore) Delete(ctx context.Context, ref *models.StorageReference) error {
	if ref.DownloadLocator == "" {
		return fmt.Errorf("blob %s has no download locator", ref.StoragePath)
	}

	oid, err := primitive.ObjectIDFromHex(ref.DownloadLocator)
	if err != nil {
		return fmt.Errorf("invalid download locator for %s: %w", ref.StoragePath, err)
	}

	if err := b.bucket.Delete(oid); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", ref.StoragePath, err)
	}
	return nil
}
