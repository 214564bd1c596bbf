// Package search indexes trades for the dashboard search box. Meilisearch
// serves queries when available; PostgreSQL full-text search is the fallback.
package search

// Result is a single search hit returned to the caller.
type Result struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// Query describes a search request.
type Query struct {
	Text   string
	Limit  int
	Offset int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search over trades.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// TradeRecord is the data we index for a trade: its name plus the field
// values of its documents, flattened to text.
type TradeRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Body      string `json:"body"`
	UpdatedAt int64  `json:"updatedAt"`
}
