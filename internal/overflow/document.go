package overflow

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/brandlens/brandlens/internal/models"
)

// Truncation policy applied when blob offload is unavailable
const (
	// truncateArrayKeep keeps the N most recent entries of an oversized array
	truncateArrayKeep = 50
	// truncateTextBudget caps long text fields, marker appended
	truncateTextBudget = 10000
	truncationMarker   = "...[truncated]"

	// minimalFieldBytes is the per-field ceiling for the minimal-document retry
	minimalFieldBytes = 1024
)

// ToDocument converts a typed value into the loosely-typed document shape the
// overflow store works with
func ToDocument(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize value: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert value to document: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a document back into a typed value
func FromDocument(doc map[string]interface{}, target interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// referenceDocument renders a StorageReference as the marker document that
// replaces an offloaded field
func referenceDocument(ref *models.StorageReference) map[string]interface{} {
	return map[string]interface{}{
		refMarker: map[string]interface{}{
			"storage_path":     ref.StoragePath,
			"download_locator": ref.DownloadLocator,
			"size":             ref.Size,
			"content_type":     ref.ContentType,
			"uploaded_at":      ref.UploadedAt.Format(time.RFC3339Nano),
		},
	}
}

// referenceOf recognizes a marker document and decodes its StorageReference
func referenceOf(value interface{}) (*models.StorageReference, bool) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	raw, ok := m[refMarker]
	if !ok {
		return nil, false
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false
	}

	ref := &models.StorageReference{
		StoragePath:     stringField(fields, "storage_path"),
		DownloadLocator: stringField(fields, "download_locator"),
		ContentType:     stringField(fields, "content_type"),
	}
	switch size := fields["size"].(type) {
	case float64:
		ref.Size = int64(size)
	case int64:
		ref.Size = size
	case int32:
		ref.Size = int64(size)
	case int:
		ref.Size = int64(size)
	}
	if uploaded, err := time.Parse(time.RFC3339Nano, stringField(fields, "uploaded_at")); err == nil {
		ref.UploadedAt = uploaded
	}
	return ref, true
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// truncateDocument applies the documented truncation policy: oversized array
// fields drop to their most recent entries and long text fields are cut to a
// fixed character budget with a marker appended.
func truncateDocument(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for field, value := range doc {
		switch v := value.(type) {
		case []interface{}:
			if len(v) > truncateArrayKeep {
				out[field] = v[len(v)-truncateArrayKeep:]
			} else {
				out[field] = v
			}
		case string:
			if len(v) > truncateTextBudget {
				out[field] = truncateText(v) + truncationMarker
			} else {
				out[field] = v
			}
		default:
			out[field] = value
		}
	}
	return out
}

// truncateText cuts s to the text budget, backing off to a rune boundary so
// the stored string stays valid UTF-8
func truncateText(s string) string {
	cut := truncateTextBudget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// minimalDocument keeps only the small scalar fields, for the last-resort
// retry after a resource-exhausted write
func minimalDocument(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for field, value := range doc {
		data, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if len(data) <= minimalFieldBytes {
			out[field] = value
		}
	}
	return out
}
