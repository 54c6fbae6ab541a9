package types

// QuerySummary contains summary statistics for a query over graphs.
type QuerySummary struct {
	GraphsProcessed int  `json:"graphs_processed"`
	GraphsMatched   int  `json:"graphs_matched"`
	TotalValues     int  `json:"total_values"`
	UniqueValues    int  `json:"unique_values,omitempty"`
	Deduplicated    bool `json:"deduplicated"`
	Truncated       bool `json:"truncated,omitempty"`
}

// QueryResponse contains the full response from a graph query.
type QueryResponse struct {
	Summary     QuerySummary   `json:"summary"`
	Values      []any          `json:"values,omitzero"`
	LabelCounts map[string]int `json:"label_counts,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
	Hints       []string       `json:"hints,omitempty"`
}
