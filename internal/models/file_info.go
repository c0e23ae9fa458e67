package models

import "time"

// FileInfo is the sidecar record of one archived upload.
type FileInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
	// Status is "uploaded" until the import finishes, then "imported" or
	// "failed".
	Status     string     `json:"status"`
	UploadedAt time.Time  `json:"uploadedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
