package harness

// CaseResult is the observed outcome of one scenario case.
type CaseResult struct {
	// Filter is the input text.
	Filter string `json:"filter"`

	// Kind is the root query type, empty when the filter was rejected.
	Kind string `json:"kind,omitempty"`

	// Query is the rendering of the assembled tree.
	Query string `json:"query,omitempty"`

	// Fingerprint is the content hash of the assembled tree.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Error is the error code the filter was rejected with.
	Error string `json:"error,omitempty"`

	// IDs are the fixture rows matched, in id order. Only set when the
	// scenario has rows.
	IDs []int64 `json:"ids,omitempty"`
}

// Rejected reports whether the filter failed to assemble.
func (c CaseResult) Rejected() bool {
	return c.Error != ""
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case matched its expectation.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
