package models

// SearchResult is one page of a filter search.
type SearchResult struct {
	Listings   []Listing     `json:"listings"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Filters    ListingFilter `json:"filters"`
	Sort       Sort          `json:"sort"`
}

// SearchOutcome names the terminal state a natural-language search ended in.
type SearchOutcome string

const (
	// OutcomeTranslated means the translated statement produced the results.
	OutcomeTranslated SearchOutcome = "translated"
	// OutcomeFallback means the filter search produced the results.
	OutcomeFallback SearchOutcome = "fallback"
	// OutcomeEmpty means both paths failed and the result is empty.
	OutcomeEmpty SearchOutcome = "empty"
)

// NLSearchResult is the response of a natural-language search. It is
// always well formed: failures are reported in Error, never raised.
type NLSearchResult struct {
	Query        string        `json:"query"`
	Listings     []Listing     `json:"listings"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	Outcome      SearchOutcome `json:"outcome"`
	FallbackUsed bool          `json:"fallback_used"`
	Error        *string       `json:"error"`
	GeneratedSQL string        `json:"generated_sql,omitempty"`
}
