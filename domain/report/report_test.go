package report_test

import (
	"testing"

	"github.com/maylog/bonealign/domain/report"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		matched int
		want    report.Severity
		text    string
	}{
		{"zero matches warns", 0, report.SeverityWarning, "no matching bones found between rigs"},
		{"matches inform", 3, report.SeverityInfo, "aligned 3 bone(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := report.Report{Matched: tt.matched}
			rep.Summarize("aligned")

			if len(rep.Messages) != 1 {
				t.Fatalf("got %d messages, want exactly one summary", len(rep.Messages))
			}
			m := rep.Messages[0]
			if m.Severity != tt.want {
				t.Errorf("severity = %q, want %q", m.Severity, tt.want)
			}
			if m.Text != tt.text {
				t.Errorf("text = %q, want %q", m.Text, tt.text)
			}
		})
	}
}

func TestHasSeverity(t *testing.T) {
	var rep report.Report
	rep.Infof("detail")
	rep.Warnf("careful")

	if !rep.HasSeverity(report.SeverityInfo) {
		t.Error("info message not found")
	}
	if !rep.HasSeverity(report.SeverityWarning) {
		t.Error("warning message not found")
	}
	if rep.HasSeverity(report.SeverityError) {
		t.Error("error severity reported without an error message")
	}
}

func TestMessageFormatting(t *testing.T) {
	var rep report.Report
	rep.Errorf("rig %q has no bones", "empty")

	if got := rep.Messages[0].Text; got != `rig "empty" has no bones` {
		t.Errorf("text = %q", got)
	}
}
