package models

import "time"

// CallRecord is one entry of a run's call log.
type CallRecord struct {
	Kind      ToolKind   `json:"kind"`
	Ticker    string     `json:"ticker,omitempty"`
	At        time.Time  `json:"at"`
	CostUnits int        `json:"cost_units"` // language-model calls consumed
	Status    ToolStatus `json:"status"`
}

// RankedEntry is one ticker's position in the final ranking.
type RankedEntry struct {
	Ticker    string   `json:"ticker"`
	Score     float64  `json:"score"`
	Scored    bool     `json:"scored"` // false when the ticker lacked usable metrics
	Rationale []string `json:"rationale"`
}

// Ranking is the ordered recommendation derived from a completed run.
// Entries are sorted by descending score, ties broken by ticker.
type Ranking struct {
	Entries []RankedEntry `json:"entries"`
	Partial bool          `json:"partial"`
}

// Report is the result surface returned to callers for every run.
type Report struct {
	Ranking   Ranking      `json:"ranking"`
	Narrative string       `json:"narrative"`
	CallLog   []CallRecord `json:"call_log"`
	Partial   bool         `json:"partial"`
}
