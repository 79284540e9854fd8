package domain

// AskOptions configures a single question.
type AskOptions struct {
	// TopK is the number of passages to retrieve. Zero uses the configured default.
	TopK int
}

// SearchOptions configures a retrieval-only query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero uses the configured default.
	Limit int
}
