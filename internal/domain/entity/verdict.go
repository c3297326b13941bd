package entity

import "time"

// DecisionThreshold separates legitimate from fraudulent probabilities. A
// probability equal to the threshold is legitimate.
const DecisionThreshold = 0.5

// Verdict is the categorical outcome for a client.
type Verdict string

const (
	VerdictFraudulent Verdict = "fraudulent"
	VerdictLegitimate Verdict = "legitimate"
)

// Sentence renders the verdict the way it is shown to analysts.
func (v Verdict) Sentence() string {
	return "client is " + string(v)
}

// ClientVerdict is the scoring outcome of one client.
type ClientVerdict struct {
	ClientID    ClientID `json:"client_id"`
	Probability float64  `json:"probability"`
	Verdict     Verdict  `json:"verdict"`
	RecordCount int      `json:"record_count"`
	Label       *int     `json:"label,omitempty"`
}

// ScoringReport aggregates the verdicts of one run for presentation and export.
type ScoringReport struct {
	RunID        string          `json:"run_id"`
	AccountID    string          `json:"account_id,omitempty"`
	Sources      []string        `json:"sources"`
	Mode         string          `json:"mode"`
	Model        string          `json:"model"`
	GeneratedAt  time.Time       `json:"generated_at"`
	RecordCount  int             `json:"record_count"`
	Verdicts     []ClientVerdict `json:"verdicts"`
	ClassBalance map[string]int  `json:"class_balance"`
	Fraudulent   int             `json:"fraudulent"`
	Legitimate   int             `json:"legitimate"`
}
