package bridge

// Notice is the per-entity result record appended during an import run.
// Errors is either false or the structured validation payload; fields
// additionally report settings errors under errors_alt.
type Notice struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Result    bool   `json:"result"`
	Errors    any    `json:"errors"`
	ErrorsAlt any    `json:"errors_alt,omitempty"`
}

// ImportResult is the ordered notice list for one run.
type ImportResult struct {
	RunID   string   `json:"run_id"`
	Notices []Notice `json:"notices"`
}
