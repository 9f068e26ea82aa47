package models

import (
	"time"
)

// TopProviderNone is the sentinel used when a session produced no brand mention
// or domain citation at all.
const TopProviderNone = "none"

// BrandAnalysisResult holds the per-provider outcome of brand mention analysis
// for a single query. Derived, never mutated after creation.
type BrandAnalysisResult struct {
	Provider                Provider   `json:"provider" bson:"provider"`
	BrandMentioned          bool       `json:"brand_mentioned" bson:"brand_mentioned"`
	DomainCited             bool       `json:"domain_cited" bson:"domain_cited"`
	CitationCount           int        `json:"citation_count" bson:"citation_count"`
	Citations               []Citation `json:"citations,omitempty" bson:"citations,omitempty"`
	BrandMentionCount       int        `json:"brand_mention_count" bson:"brand_mention_count"`
	DomainCitationCount     int        `json:"domain_citation_count" bson:"domain_citation_count"`
	CompetitorMentioned     bool       `json:"competitor_mentioned" bson:"competitor_mentioned"`
	CompetitorCited         bool       `json:"competitor_cited" bson:"competitor_cited"`
	CompetitorMentionCount  int        `json:"competitor_mention_count" bson:"competitor_mention_count"`
	CompetitorCitationCount int        `json:"competitor_citation_count" bson:"competitor_citation_count"`
}

// MentionTotals accumulates analysis counters across providers or queries
type MentionTotals struct {
	BrandMentions             int `json:"brand_mentions" bson:"brand_mentions"`
	DomainCitations           int `json:"domain_citations" bson:"domain_citations"`
	Citations                 int `json:"citations" bson:"citations"`
	CompetitorMentions        int `json:"competitor_mentions" bson:"competitor_mentions"`
	CompetitorCitations       int `json:"competitor_citations" bson:"competitor_citations"`
	ProvidersWithBrandMention int `json:"providers_with_brand_mention" bson:"providers_with_brand_mention"`
	ProvidersConsidered       int `json:"providers_considered" bson:"providers_considered"`
}

// Add folds another totals block into t
func (t *MentionTotals) Add(other MentionTotals) {
	t.BrandMentions += other.BrandMentions
	t.DomainCitations += other.DomainCitations
	t.Citations += other.Citations
	t.CompetitorMentions += other.CompetitorMentions
	t.CompetitorCitations += other.CompetitorCitations
	t.ProvidersWithBrandMention += other.ProvidersWithBrandMention
	t.ProvidersConsidered += other.ProvidersConsidered
}

// BrandMentionAnalysis is the full analysis of one query across all providers
// that answered it. Provider entries follow the canonical provider order.
type BrandMentionAnalysis struct {
	Providers []*BrandAnalysisResult `json:"providers" bson:"providers"`
	Totals    MentionTotals          `json:"totals" bson:"totals"`
}

// Result returns the analysis entry for the given provider, or nil
func (a *BrandMentionAnalysis) Result(provider Provider) *BrandAnalysisResult {
	for _, r := range a.Providers {
		if r.Provider == provider {
			return r
		}
	}
	return nil
}

// ProviderSessionStats accumulates per-provider counters across a session
type ProviderSessionStats struct {
	Provider            Provider `json:"provider" bson:"provider"`
	QueriesProcessed    int      `json:"queries_processed" bson:"queries_processed"`
	BrandMentions       int      `json:"brand_mentions" bson:"brand_mentions"`
	DomainCitations     int      `json:"domain_citations" bson:"domain_citations"`
	Citations           int      `json:"citations" bson:"citations"`
	CompetitorMentions  int      `json:"competitor_mentions" bson:"competitor_mentions"`
	CompetitorCitations int      `json:"competitor_citations" bson:"competitor_citations"`
	// AvgResponseTimeMs is omitted entirely when the provider never reported a
	// response time, rather than defaulting to 0.
	AvgResponseTimeMs *float64 `json:"avg_response_time_ms,omitempty" bson:"avg_response_time_ms,omitempty"`
}

// ProviderRanking is one row of the top-provider ranking detail
type ProviderRanking struct {
	Provider            Provider `json:"provider" bson:"provider"`
	BrandMentions       int      `json:"brand_mentions" bson:"brand_mentions"`
	DomainCitationRatio float64  `json:"domain_citation_ratio" bson:"domain_citation_ratio"`
	Citations           int      `json:"citations" bson:"citations"`
}

// SessionInsights carries the top-provider determination for a session
type SessionInsights struct {
	TopPerformingProvider string            `json:"top_performing_provider" bson:"top_performing_provider"`
	TopProviders          []string          `json:"top_providers" bson:"top_providers"`
	Ranking               []ProviderRanking `json:"ranking,omitempty" bson:"ranking,omitempty"`
}

// SessionAnalytics is the write-once analytics record for one processing session
type SessionAnalytics struct {
	ID              string                           `json:"id" bson:"_id"`
	BrandID         string                           `json:"brand_id" bson:"brand_id"`
	SessionID       string                           `json:"session_id" bson:"session_id"`
	SessionDate     time.Time                        `json:"session_date" bson:"session_date"`
	QueriesTotal    int                              `json:"queries_total" bson:"queries_total"`
	Totals          MentionTotals                    `json:"totals" bson:"totals"`
	VisibilityScore float64                          `json:"visibility_score" bson:"visibility_score"`
	ProviderStats   map[Provider]*ProviderSessionStats `json:"provider_stats" bson:"provider_stats"`
	Insights        SessionInsights                  `json:"insights" bson:"insights"`
	CreatedAt       time.Time                        `json:"created_at" bson:"created_at"`
}

// CitationRecord is one historical citation with full provenance, used for the
// lifetime drill-down list
type CitationRecord struct {
	URL            string    `json:"url" bson:"url"`
	Text           string    `json:"text,omitempty" bson:"text,omitempty"`
	Source         string    `json:"source,omitempty" bson:"source,omitempty"`
	Type           string    `json:"type,omitempty" bson:"type,omitempty"`
	Provider       Provider  `json:"provider" bson:"provider"`
	Query          string    `json:"query" bson:"query"`
	Keyword        string    `json:"keyword,omitempty" bson:"keyword,omitempty"`
	SessionID      string    `json:"session_id" bson:"session_id"`
	Date           time.Time `json:"date" bson:"date"`
	IsBrandDomain  bool      `json:"is_brand_domain" bson:"is_brand_domain"`
	CompetitorName string    `json:"competitor_name,omitempty" bson:"competitor_name,omitempty"`
}

// LifetimeAnalytics is a snapshot of the brand's entire history at the moment of
// calculation. Snapshots are recomputed wholesale and superseded versions are kept
// as an audit trail.
type LifetimeAnalytics struct {
	ID               string                           `json:"id" bson:"_id"`
	BrandID          string                           `json:"brand_id" bson:"brand_id"`
	QueriesTotal     int                              `json:"queries_total" bson:"queries_total"`
	SessionsTotal    int                              `json:"sessions_total" bson:"sessions_total"`
	Totals           MentionTotals                    `json:"totals" bson:"totals"`
	VisibilityScore  float64                          `json:"visibility_score" bson:"visibility_score"`
	ProviderStats    map[Provider]*ProviderSessionStats `json:"provider_stats" bson:"provider_stats"`
	Insights         SessionInsights                  `json:"insights" bson:"insights"`
	AllCitations     []CitationRecord                 `json:"all_citations" bson:"all_citations"`
	FirstProcessedAt *time.Time                       `json:"first_processed_at,omitempty" bson:"first_processed_at,omitempty"`
	LastProcessedAt  *time.Time                       `json:"last_processed_at,omitempty" bson:"last_processed_at,omitempty"`
	ComputedAt       time.Time                        `json:"computed_at" bson:"computed_at"`
}
