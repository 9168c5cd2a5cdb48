package notification

import "fmt"

// Message is a composed notification ready to publish.
type Message struct {
	Subject string
	Body    string
}

// BatchResult accumulates the outcome of a processed batch of upload records.
// Entries keep the order in which the records were encountered.
type BatchResult struct {
	ProcessedFiles []string `json:"processed_files"`
	Errors         []string `json:"errors"`
}

// ProcessedCount returns the number of files notified successfully.
func (r BatchResult) ProcessedCount() int {
	return len(r.ProcessedFiles)
}

// MissingFieldError reports file metadata that arrived without a field the
// notification message needs.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field in file metadata: %s", e.Field)
}
