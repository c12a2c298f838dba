package doctor

import "testing"

type stubCheck struct {
	name   string
	status Severity
}

func (c *stubCheck) Name() string     { return c.name }
func (c *stubCheck) Category() string { return "stub" }

func (c *stubCheck) Run() *CheckResult {
	return &CheckResult{Name: c.name, Category: "stub", Status: c.status}
}

func TestRunner_Aggregates(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&stubCheck{name: "a", status: SeverityPass})
	r.AddCheck(&stubCheck{name: "b", status: SeverityWarning})
	r.AddCheck(&stubCheck{name: "c", status: SeverityError})
	r.AddCheck(&stubCheck{name: "d", status: SeverityInfo})

	report := r.Run()

	if len(report.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(report.Results))
	}
	if report.Summary.Passed != 1 || report.Summary.Warnings != 1 || report.Summary.Errors != 1 || report.Summary.Info != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if !report.HasErrors() {
		t.Error("expected HasErrors")
	}
	if !report.HasWarnings() {
		t.Error("expected HasWarnings")
	}
	if report.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestRunner_Empty(t *testing.T) {
	report := NewRunner().Run()
	if report.HasErrors() || report.HasWarnings() {
		t.Errorf("empty report should be clean: %+v", report.Summary)
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
