package services

import (
	"fmt"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/overflow"
)

// LegacySessionID marks query results recovered from the predecessor system's
// archive, which predates processing sessions
const LegacySessionID = "legacy"

// ConvertLegacyRecord converts one loosely-typed record from the legacy
// archive into the current QueryResult shape. The archive predates this
// system, so field names vary; a record that cannot be mapped returns an
// error and the caller skips it.
func ConvertLegacyRecord(doc map[string]interface{}) (*models.QueryResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil legacy record")
	}

	// Older archives stored the query text under "prompt"
	if _, ok := doc["query"]; !ok {
		if prompt, ok := doc["prompt"].(string); ok {
			doc["query"] = prompt
		}
	}
	if _, ok := doc["date"]; !ok {
		if created, ok := doc["created_at"]; ok {
			doc["date"] = created
		}
	}

	var qr models.QueryResult
	if err := overflow.FromDocument(doc, &qr); err != nil {
		return nil, fmt.Errorf("malformed legacy record: %w", err)
	}

	if qr.Query == "" {
		return nil, fmt.Errorf("legacy record has no query text")
	}
	if !qr.Results.Has(models.ProviderChatGPT) && !qr.Results.Has(models.ProviderGoogleAI) && !qr.Results.Has(models.ProviderPerplexity) {
		return nil, fmt.Errorf("legacy record %q has no provider results", qr.Query)
	}

	if qr.ProcessingSessionID == "" {
		qr.ProcessingSessionID = LegacySessionID
	}

	return &qr, nil
}
