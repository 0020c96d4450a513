package importer

// RowError describes one rejected row of an import batch.
type RowError struct {
	Row     int    `json:"row"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Result summarizes one import batch. A batch is best-effort: bad rows are
// reported and skipped, good rows are committed.
type Result struct {
	BatchID        string     `json:"batch_id"`
	TotalProcessed int        `json:"total_processed"`
	SuccessCount   int        `json:"success_count"`
	Failures       []RowError `json:"failures"`
}
