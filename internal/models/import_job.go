package models

import (
	"fmt"
	"strings"
	"time"
)

// ImportStatus represents the state of an import job.
type ImportStatus string

const (
	ImportStatusParsing  ImportStatus = "parsing"
	ImportStatusSaving   ImportStatus = "saving"
	ImportStatusComplete ImportStatus = "complete"
	ImportStatusError    ImportStatus = "error"
)

// DuplicatePolicy decides what an import does with a row whose date already
// has an entry.
type DuplicatePolicy string

const (
	DuplicateUpsert DuplicatePolicy = "upsert"
	DuplicateAppend DuplicatePolicy = "append"
	DuplicateSkip   DuplicatePolicy = "skip"
)

// ParseDuplicatePolicy validates s. An empty string yields fallback.
func ParseDuplicatePolicy(s string, fallback DuplicatePolicy) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case DuplicateUpsert:
		return DuplicateUpsert, nil
	case DuplicateAppend:
		return DuplicateAppend, nil
	case DuplicateSkip:
		return DuplicateSkip, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (want upsert, append or skip)", s)
}

// ImportJob tracks one file import.
type ImportJob struct {
	ID          string          `json:"id"`
	FileName    string          `json:"fileName"`
	Parser      string          `json:"parser"`
	Policy      DuplicatePolicy `json:"policy"`
	Status      ImportStatus    `json:"status"`
	Parsed      int             `json:"parsed"`
	Inserted    int             `json:"inserted"`
	Updated     int             `json:"updated"`
	Skipped     int             `json:"skipped"` // dropped rows plus rows skipped as duplicates
	Coerced     int             `json:"coerced"`
	ArchiveID   string          `json:"archiveId,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// ImportStats is what the store reports after persisting a batch.
type ImportStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Removed  int `json:"removed"`
}
