package domain

const unknownDescription = "Unknown"

// SearchMode selects how a query is matched against messages.
type SearchMode string

// Available search modes.
const (
	// SearchModeKeyword matches any query token as a case-insensitive substring.
	SearchModeKeyword SearchMode = "keyword"

	// SearchModeSentiment buckets scored messages by polarity.
	SearchModeSentiment SearchMode = "sentiment"

	// SearchModeFinancial ranks messages by weighted money-related patterns.
	SearchModeFinancial SearchMode = "financial"

	// SearchModeSemantic delegates to the summarizer and falls back to keyword search.
	SearchModeSemantic SearchMode = "semantic"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeKeyword, SearchModeSentiment, SearchModeFinancial, SearchModeSemantic:
		return true
	default:
		return false
	}
}

// RequiresSummarizer returns true if this mode calls the external summarizer.
func (m SearchMode) RequiresSummarizer() bool {
	return m == SearchModeSemantic
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeKeyword:
		return "Keyword (any term, case-insensitive)"
	case SearchModeSentiment:
		return "Sentiment (positive / negative / neutral)"
	case SearchModeFinancial:
		return "Financial (weighted money mentions)"
	case SearchModeSemantic:
		return "Semantic (AI summary, keyword fallback)"
	default:
		return unknownDescription
	}
}

// AllSearchModes returns all available search modes.
func AllSearchModes() []SearchMode {
	return []SearchMode{
		SearchModeKeyword,
		SearchModeSentiment,
		SearchModeFinancial,
		SearchModeSemantic,
	}
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit caps the number of returned messages. Zero means no cap
	// beyond the mode's own limit.
	Limit int
}

// FinancialMention is a message matched by the financial patterns.
type FinancialMention struct {
	Message Message `json:"message"`

	// Score is the sum of matched pattern weights.
	Score int `json:"score"`

	// Keywords are the names of the patterns that matched.
	Keywords []string `json:"keywords"`

	// Amounts are the monetary amounts found in the body.
	Amounts []string `json:"amounts,omitempty"`
}

// SentimentBuckets counts scored messages by polarity.
type SentimentBuckets struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// SearchResult is the outcome of a search over a message set.
type SearchResult struct {
	// Mode is the mode that produced the messages. When a fallback ran this is
	// the fallback mode and FallbackFrom holds the requested one.
	Mode SearchMode `json:"mode"`

	Query string `json:"query"`

	// Messages are the matches in mode-specific order.
	Messages []Message `json:"messages"`

	// Mentions carries scoring detail for financial searches.
	Mentions []FinancialMention `json:"mentions,omitempty"`

	// Summary is a human-readable description of the outcome.
	Summary string `json:"summary"`

	// TotalMatches counts matches before any truncation.
	TotalMatches int `json:"totalMatches"`

	// Sentiment is set for sentiment searches.
	Sentiment *SentimentBuckets `json:"sentiment,omitempty"`

	// Analysis is the summarizer's prose for semantic searches.
	Analysis string `json:"analysis,omitempty"`

	// FallbackFrom is the requested mode when a fallback produced the result.
	FallbackFrom SearchMode `json:"fallbackFrom,omitempty"`

	// Warnings are non-fatal problems met while searching.
	Warnings []string `json:"warnings,omitempty"`
}
