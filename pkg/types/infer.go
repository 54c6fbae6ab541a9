package types

import "github.com/usestring/jsongraph-mcp/pkg/infer"

// InferSchemaOutput is the output type for the jsongraph_infer_schema tool.
type InferSchemaOutput struct {
	// Draft-4 JSON Schema describing the sampled graphs
	Schema any `json:"schema"`

	// Per-property statistics, when requested
	Fields []infer.FieldStat `json:"fields,omitzero"`

	// Summary of the inference process
	Summary InferSchemaSummary `json:"summary"`

	// Hint for the next step
	Hint string `json:"hint,omitempty"`
}

// InferSchemaSummary describes the inference process.
type InferSchemaSummary struct {
	DocumentsRequested int  `json:"documents_requested"`
	DocumentsProcessed int  `json:"documents_processed"`
	DocumentsSkipped   int  `json:"documents_skipped"`
	GraphsSampled      int  `json:"graphs_sampled"`
	AllMatch           bool `json:"all_match"`
	SchemaValid        bool `json:"schema_valid"` // Passes the Draft-4 meta-schema
}
