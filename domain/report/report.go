// Package report provides severity-tagged message aggregation for command
// invocations. Each invocation produces exactly one summary message; per-bone
// info messages are optional detail on top.
package report

import "fmt"

// Severity classifies a message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is one human-readable line with a severity tag.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Report accumulates the outcome of a single command invocation.
type Report struct {
	Matched   int       `json:"matched"`
	Unmatched []string  `json:"unmatched,omitempty"`
	Removed   int       `json:"removed"`
	Messages  []Message `json:"messages,omitempty"`
}

// Infof appends an informational message.
func (r *Report) Infof(format string, args ...any) {
	r.Messages = append(r.Messages, Message{Severity: SeverityInfo, Text: fmt.Sprintf(format, args...)})
}

// Warnf appends a warning message.
func (r *Report) Warnf(format string, args ...any) {
	r.Messages = append(r.Messages, Message{Severity: SeverityWarning, Text: fmt.Sprintf(format, args...)})
}

// Errorf appends an error message.
func (r *Report) Errorf(format string, args ...any) {
	r.Messages = append(r.Messages, Message{Severity: SeverityError, Text: fmt.Sprintf(format, args...)})
}

// HasSeverity reports whether any message carries the given severity.
func (r *Report) HasSeverity(s Severity) bool {
	for _, m := range r.Messages {
		if m.Severity == s {
			return true
		}
	}
	return false
}

// Summarize appends the single summary message for a match-style operation:
// a warning when nothing matched, otherwise an info line with the count.
// Precondition failures are reported by the caller via Errorf before any
// mutation and never reach this point.
func (r *Report) Summarize(verb string) {
	if r.Matched == 0 {
		r.Warnf("no matching bones found between rigs")
		return
	}
	r.Infof("%s %d bone(s)", verb, r.Matched)
}
