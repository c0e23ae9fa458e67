package models

// ParseError describes a row-level defect found while ingesting a file. Rows
// with defects are degraded (field set to null) or skipped, never fatal.
type ParseError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}
