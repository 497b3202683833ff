package harness

// TraceEvent records one flow step and its outcome.
type TraceEvent struct {
	Step    int    `json:"step"`
	Op      string `json:"op"`
	Kind    string `json:"kind"`
	Agent   int    `json:"agent"`
	At      int64  `json:"at"`
	Ref     string `json:"ref,omitempty"`
	Outcome string `json:"outcome"` // "ok" or a protocol error code
}

// OutcomeOK marks a step that succeeded.
const OutcomeOK = "ok"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step matched its expected outcome and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each mismatch. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
