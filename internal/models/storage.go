package models

import (
	"time"
)

// StorageReference replaces an oversized field inside a persisted document after
// its value has been offloaded to the blob store.
type StorageReference struct {
	StoragePath     string    `json:"storage_path" bson:"storage_path"`
	DownloadLocator string    `json:"download_locator" bson:"download_locator"`
	Size            int64     `json:"size" bson:"size"`
	ContentType     string    `json:"content_type" bson:"content_type"`
	UploadedAt      time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// BrandHistory is the per-brand append-only history document. It lives in the
// primary store under the brand id and is overflow-managed: the query_results
// field is the one that grows without bound.
type BrandHistory struct {
	BrandID      string         `json:"brand_id" bson:"brand_id"`
	QueryResults []*QueryResult `json:"query_results" bson:"query_results"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}
