package models

import (
	"encoding/json"
	"testing"
)

func TestSeverityJSONUsesStringLiterals(t *testing.T) {
	cases := []struct {
		severity Severity
		want     string
	}{
		{SeverityLow, `"LOW"`},
		{SeverityMedium, `"MEDIUM"`},
		{SeverityHigh, `"HIGH"`},
		{SeverityCritical, `"CRITICAL"`},
	}

	for _, tc := range cases {
		data, err := json.Marshal(tc.severity)
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.severity, err)
		}
		if string(data) != tc.want {
			t.Errorf("marshal %s: got %s, want %s", tc.severity, data, tc.want)
		}

		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != tc.severity {
			t.Errorf("round trip: got %s, want %s", back, tc.severity)
		}
	}
}

func TestSeverityUnmarshalRejectsUnknown(t *testing.T) {
	var s Severity
	if err := json.Unmarshal([]byte(`"SEVERE"`), &s); err == nil {
		t.Error("unknown severity literal must be rejected")
	}
	if err := json.Unmarshal([]byte(`2`), &s); err == nil {
		t.Error("numeric severities must be rejected")
	}
}

func TestParseDialect(t *testing.T) {
	cases := []struct {
		name    string
		want    Dialect
		wantErr bool
	}{
		{"ioredis", DialectIoredis, false},
		{"node-redis", DialectNodeRedis, false},
		{"", "", true},
		{"IORedis", "", true}, // no case folding, no defaulting
		{"jedis", "", true},
	}

	for _, tc := range cases {
		got, err := ParseDialect(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDialect(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDialect(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDialect(%q): got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestStrategyApplies(t *testing.T) {
	strategy := ConversionStrategy{AppliesTo: []Dialect{DialectIoredis}}

	if !strategy.Applies(DialectIoredis) {
		t.Error("strategy should apply to its declared dialect")
	}
	if strategy.Applies(DialectNodeRedis) {
		t.Error("strategy should not apply to an undeclared dialect")
	}
	if (ConversionStrategy{}).Applies(DialectIoredis) {
		t.Error("empty applicability matches nothing")
	}
}

func TestEffortBreakdownSum(t *testing.T) {
	b := EffortBreakdown{Analysis: 1, Conversion: 2, Testing: 3, Validation: 4, Documentation: 5}
	if got := b.Sum(); got != 15 {
		t.Errorf("sum: got %v, want 15", got)
	}
}

func TestSourceAnalysisAccessors(t *testing.T) {
	analysis := SourceAnalysis{
		Patterns: []DetectedPattern{
			{Type: PatternConnection, Occurrences: make([]PatternOccurrence, 2)},
			{Type: PatternPipeline, Occurrences: make([]PatternOccurrence, 3)},
		},
	}

	if got := analysis.TotalOccurrences(); got != 5 {
		t.Errorf("total occurrences: got %d, want 5", got)
	}

	pattern, ok := analysis.PatternOfType(PatternPipeline)
	if !ok || pattern.Type != PatternPipeline {
		t.Error("expected to find the pipeline pattern")
	}
	if _, ok := analysis.PatternOfType(PatternCluster); ok {
		t.Error("absent pattern type should not be found")
	}
}

func TestProjectReportScore(t *testing.T) {
	report := NewProjectReport()
	report.CalculateScore()
	if report.MigrationScore != 100 {
		t.Errorf("empty report score: got %d, want 100", report.MigrationScore)
	}

	report.AddAnalysis(SourceAnalysis{
		File: "a.js",
		Patterns: []DetectedPattern{
			{Type: PatternConnection, Complexity: ComplexitySimple},
			{Type: PatternTransaction, Complexity: ComplexityComplex},
		},
		Complexity: CodeComplexity{Bucket: BucketMedium},
	})
	report.CalculateScore()

	// 100 - (3 simple + 15 complex + 5 medium bucket) = 77
	if report.MigrationScore != 77 {
		t.Errorf("score: got %d, want 77", report.MigrationScore)
	}
	if report.TotalPatterns != 2 {
		t.Errorf("total patterns: got %d, want 2", report.TotalPatterns)
	}
	if report.PatternsByType["transaction"] != 1 {
		t.Errorf("patterns by type: got %v", report.PatternsByType)
	}
}

func TestProjectReportScoreFloorsAtZero(t *testing.T) {
	report := NewProjectReport()
	for i := 0; i < 10; i++ {
		report.AddAnalysis(SourceAnalysis{
			Patterns:   []DetectedPattern{{Type: PatternCluster, Complexity: ComplexityComplex}},
			Complexity: CodeComplexity{Bucket: BucketVeryHigh},
		})
	}
	report.CalculateScore()

	if report.MigrationScore != 0 {
		t.Errorf("score: got %d, want floor at 0", report.MigrationScore)
	}
}
