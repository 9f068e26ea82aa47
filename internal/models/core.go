package models

import (
	"time"
)

// Core domain models

// Provider identifies one of the integrated AI answer engines
type Provider string

const (
	ProviderChatGPT    Provider = "chatgpt"
	ProviderGoogleAI   Provider = "googleAI"
	ProviderPerplexity Provider = "perplexity"
)

// AllProviders lists the integrated providers in canonical order
var AllProviders = []Provider{ProviderChatGPT, ProviderGoogleAI, ProviderPerplexity}

// Valid reports whether p is one of the integrated providers
func (p Provider) Valid() bool {
	switch p {
	case ProviderChatGPT, ProviderGoogleAI, ProviderPerplexity:
		return true
	}
	return false
}

// Citation represents a normalized reference extracted from an AI answer.
// Citations are immutable once extracted from a given answer.
type Citation struct {
	URL    string `json:"url" bson:"url"`
	Text   string `json:"text" bson:"text"`
	Source string `json:"source,omitempty" bson:"source,omitempty"`
	Type   string `json:"type,omitempty" bson:"type,omitempty"`
	Index  int    `json:"index,omitempty" bson:"index,omitempty"`
}

// ChatGPTAnswer is the raw payload returned by the ChatGPT dispatch collaborator.
// Citations here, when present, is a count reported by the dispatcher; the actual
// citation list is re-derived from the response text by the extractor.
type ChatGPTAnswer struct {
	Response       string   `json:"response" bson:"response"`
	Citations      int      `json:"citations,omitempty" bson:"citations,omitempty"`
	ResponseTimeMs *float64 `json:"response_time_ms,omitempty" bson:"response_time_ms,omitempty"`
}

// AIOverviewReference is one structured reference attached to a Google AI Overview
type AIOverviewReference struct {
	Domain string `json:"domain" bson:"domain"`
	URL    string `json:"url" bson:"url"`
	Title  string `json:"title,omitempty" bson:"title,omitempty"`
	Text   string `json:"text,omitempty" bson:"text,omitempty"`
}

// GoogleAIAnswer is the raw payload returned by the Google AI Overview dispatch collaborator
type GoogleAIAnswer struct {
	AIOverview           string                `json:"ai_overview,omitempty" bson:"ai_overview,omitempty"`
	AIOverviewReferences []AIOverviewReference `json:"ai_overview_references,omitempty" bson:"ai_overview_references,omitempty"`
	HasAIOverview        bool                  `json:"has_ai_overview" bson:"has_ai_overview"`
	OrganicResultsCount  int                   `json:"organic_results_count,omitempty" bson:"organic_results_count,omitempty"`
	PeopleAlsoAskCount   int                   `json:"people_also_ask_count,omitempty" bson:"people_also_ask_count,omitempty"`
	ResponseTimeMs       *float64              `json:"response_time_ms,omitempty" bson:"response_time_ms,omitempty"`
}

// PerplexityAnswer is the raw payload returned by the Perplexity dispatch collaborator.
// CitationsData items are joined by "|||"; SearchResultsData items are "title|||url"
// pairs joined by "###".
type PerplexityAnswer struct {
	Response                string   `json:"response" bson:"response"`
	CitationsData           string   `json:"citations_data,omitempty" bson:"citations_data,omitempty"`
	SearchResultsData       string   `json:"search_results_data,omitempty" bson:"search_results_data,omitempty"`
	StructuredCitationsData string   `json:"structured_citations_data,omitempty" bson:"structured_citations_data,omitempty"`
	ResponseTimeMs          *float64 `json:"response_time_ms,omitempty" bson:"response_time_ms,omitempty"`
}

// ProviderAnswerSet holds the up-to-three provider payloads for one query attempt.
// A nil entry means the provider was not triggered for that query.
type ProviderAnswerSet struct {
	ChatGPT    *ChatGPTAnswer    `json:"chatgpt,omitempty" bson:"chatgpt,omitempty"`
	GoogleAI   *GoogleAIAnswer   `json:"googleAI,omitempty" bson:"googleAI,omitempty"`
	Perplexity *PerplexityAnswer `json:"perplexity,omitempty" bson:"perplexity,omitempty"`
}

// Body returns the free-text answer body for the given provider, or "" when absent
func (s *ProviderAnswerSet) Body(provider Provider) string {
	switch provider {
	case ProviderChatGPT:
		if s.ChatGPT != nil {
			return s.ChatGPT.Response
		}
	case ProviderGoogleAI:
		if s.GoogleAI != nil {
			return s.GoogleAI.AIOverview
		}
	case ProviderPerplexity:
		if s.Perplexity != nil {
			return s.Perplexity.Response
		}
	}
	return ""
}

// Has reports whether the given provider produced an answer for this query
func (s *ProviderAnswerSet) Has(provider Provider) bool {
	switch provider {
	case ProviderChatGPT:
		return s.ChatGPT != nil
	case ProviderGoogleAI:
		return s.GoogleAI != nil
	case ProviderPerplexity:
		return s.Perplexity != nil
	}
	return false
}

// ResponseTime returns the reported response time for the given provider, or nil
func (s *ProviderAnswerSet) ResponseTime(provider Provider) *float64 {
	switch provider {
	case ProviderChatGPT:
		if s.ChatGPT != nil {
			return s.ChatGPT.ResponseTimeMs
		}
	case ProviderGoogleAI:
		if s.GoogleAI != nil {
			return s.GoogleAI.ResponseTimeMs
		}
	case ProviderPerplexity:
		if s.Perplexity != nil {
			return s.Perplexity.ResponseTimeMs
		}
	}
	return nil
}

// QueryResult represents one tracked query processed in one session.
// ProcessingSessionID never changes after creation; reprocessing the same query
// creates a new QueryResult under a new session id.
type QueryResult struct {
	Query               string                `json:"query" bson:"query"`
	Keyword             string                `json:"keyword,omitempty" bson:"keyword,omitempty"`
	Category            string                `json:"category,omitempty" bson:"category,omitempty"`
	Date                time.Time             `json:"date" bson:"date"`
	ProcessingSessionID string                `json:"processing_session_id" bson:"processing_session_id"`
	Results             ProviderAnswerSet     `json:"results" bson:"results"`
	Analysis            *BrandMentionAnalysis `json:"analysis,omitempty" bson:"analysis,omitempty"`
}

// Brand represents a tracked brand and its competitor list
type Brand struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Domain      string       `json:"domain"`
	Competitors []Competitor `json:"competitors,omitempty"`
	CronExpr    string       `json:"cron_expr,omitempty"`
	Enabled     bool         `json:"enabled"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Competitor is a competitor tracked alongside a brand
type Competitor struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// TrackedQuery is one search query monitored for a brand
type TrackedQuery struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Text      string    `json:"text"`
	Keyword   string    `json:"keyword,omitempty"`
	Category  string    `json:"category,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
