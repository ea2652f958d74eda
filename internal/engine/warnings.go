package engine

import (
	"fmt"

	"kvshift/internal/models"
)

// validationTestsByType is the fixed list of suggested validation tests per
// pattern type. Pattern types without a predefined list get an empty list
// rather than a guess.
var validationTestsByType = map[models.PatternType][]string{
	models.PatternConnection: {
		"verify the client connects with the migrated configuration",
		"verify reconnect behavior after a dropped connection",
	},
	models.PatternPipeline: {
		"verify execution order of batched commands",
		"verify error handling for partial batch failures",
		"verify the result-array shape",
	},
	models.PatternTransaction: {
		"verify atomicity of the converted transaction",
		"verify behavior when a watched key is modified",
	},
	models.PatternCluster: {
		"verify commands route to the correct cluster nodes",
		"verify behavior during a slot migration",
	},
	models.PatternPubSub: {
		"verify message delivery on all migrated channels",
		"verify unsubscribe behavior",
	},
	models.PatternStreaming: {
		"verify stream entries retain their field maps",
		"verify consumer-group delivery and acknowledgement",
	},
}

// WarningGenerator derives severity-tagged warnings and suggested
// validation tests for one (pattern, strategy) pair.
type WarningGenerator struct{}

func NewWarningGenerator() *WarningGenerator {
	return &WarningGenerator{}
}

// Generate emits one manual-review warning when the pattern is rated
// complex, regardless of occurrence count, plus one behavior-change warning
// per named risk in the selected strategy.
func (g *WarningGenerator) Generate(pattern models.DetectedPattern, strategy models.ConversionStrategy) []models.Warning {
	warnings := make([]models.Warning, 0, len(strategy.Risks)+1)

	if pattern.Complexity == models.ComplexityComplex {
		warnings = append(warnings, models.Warning{
			Kind:     models.WarningManualReview,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("%s usage is complex; converted code requires manual review", pattern.Type),
		})
	}

	for _, risk := range strategy.Risks {
		warnings = append(warnings, models.Warning{
			Kind:     models.WarningBehaviorChange,
			Severity: models.SeverityMedium,
			Message:  risk,
		})
	}

	return warnings
}

// ValidationTests returns the fixed suggested tests for a pattern type and
// appends the selected strategy's own validation tests.
func (g *WarningGenerator) ValidationTests(t models.PatternType, strategy models.ConversionStrategy) []string {
	tests := make([]string, 0)
	tests = append(tests, validationTestsByType[t]...)
	tests = append(tests, strategy.ValidationTests...)
	return tests
}
