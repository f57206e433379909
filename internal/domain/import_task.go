package domain

import "time"

type ImportTaskStatus string

const (
	ImportQueued     ImportTaskStatus = "queued"
	ImportProcessing ImportTaskStatus = "processing"
	ImportCompleted  ImportTaskStatus = "completed"
	ImportFailed     ImportTaskStatus = "failed"
)

// ImportTask tracks one spreadsheet import into the catalog.
type ImportTask struct {
	ID            string            `json:"id"`
	Status        ImportTaskStatus  `json:"status"`
	SpreadsheetID string            `json:"spreadsheet_id"`
	SheetRange    string            `json:"sheet_range"`
	Imported      int               `json:"imported"`
	Rejected      []ImportRejection `json:"rejected,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ImportRejection explains why a spreadsheet row was not imported.
type ImportRejection struct {
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
