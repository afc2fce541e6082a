package models

import "strings"

// RemoteBlob describes one object in a storage container as returned by
// the listing API. Comparison against local files uses SizeKB, rounded to
// two decimal places; SizeBytes is kept for reporting totals.
type RemoteBlob struct {
	Name      string
	SizeKB    float64
	SizeBytes int64
	URL       string
}

// LocalFile is one file in the destination directory, sized the same way
// as RemoteBlob so the two compare directly.
type LocalFile struct {
	Name   string
	SizeKB float64
}

// Outcome is the per-blob result of a sync decision.
type Outcome string

const (
	OutcomeDownloaded  Outcome = "Downloaded"
	OutcomeSkipped     Outcome = "Skipped"
	OutcomeOverwritten Outcome = "Overwritten"
)

const outcomeErrorPrefix = "Error: "

// OutcomeError wraps a transfer failure message as an Outcome value.
func OutcomeError(message string) Outcome {
	return Outcome(outcomeErrorPrefix + message)
}

func (o Outcome) IsError() bool {
	return strings.HasPrefix(string(o), outcomeErrorPrefix)
}

type ResultRow struct {
	Name      string  `json:"name" yaml:"name"`
	SizeKB    string  `json:"size_kb" yaml:"size_kb"`
	URL       string  `json:"url" yaml:"url"`
	Path      string  `json:"path" yaml:"path"`
	Operation Outcome `json:"operation" yaml:"operation"`
}

type SyncResult struct {
	ContainerURL   string      `json:"container_url" yaml:"container_url"`
	Destination    string      `json:"destination" yaml:"destination"`
	Items          []ResultRow `json:"items" yaml:"items"`
	TotalBlobs     int         `json:"total_blobs" yaml:"total_blobs"`
	Downloaded     int         `json:"downloaded" yaml:"downloaded"`
	Skipped        int         `json:"skipped" yaml:"skipped"`
	Overwritten    int         `json:"overwritten" yaml:"overwritten"`
	Errors         int         `json:"errors" yaml:"errors"`
	TotalSizeBytes int64       `json:"total_size_bytes" yaml:"total_size_bytes"`
	TotalSizeHuman string      `json:"total_size_human" yaml:"total_size_human"`
	OperationTime  string      `json:"operation_time" yaml:"operation_time"`
	SyncDuration   string      `json:"sync_duration" yaml:"sync_duration"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
