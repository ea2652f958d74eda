package engine_test

import (
	"strings"
	"testing"

	"kvshift/internal/catalog"
	"kvshift/internal/engine"
	"kvshift/internal/models"
)

func detectedPattern(t *testing.T, patternType models.PatternType) models.DetectedPattern {
	t.Helper()
	sig, ok := catalog.Default().Get(patternType)
	if !ok {
		t.Fatalf("signature missing for %s", patternType)
	}
	return models.DetectedPattern{
		Type:         sig.Type,
		Confidence:   0.8,
		Occurrences:  []models.PatternOccurrence{{Snippet: "stub"}},
		Complexity:   sig.Complexity,
		Requirements: sig.Requirements,
		Strategies:   sig.Strategies,
	}
}

func TestConvertReplacesEveryLiteralOccurrence(t *testing.T) {
	// Replacement is whole-text: occurrences outside the detected window
	// are rewritten too.
	source := `const a = new Redis({ host: 'one' });
function helper() {
  return new Redis({ host: 'two' });
}
const b = new Redis({ host: 'three' });`

	converter := engine.NewConverter()
	result, ok := converter.Convert(source, detectedPattern(t, models.PatternConnection), models.DialectIoredis)
	if !ok {
		t.Fatal("conversion should produce a result")
	}

	if result.Strategy.Name != "connection-conversion" {
		t.Errorf("strategy: got %s, want connection-conversion", result.Strategy.Name)
	}
	if strings.Contains(result.ConvertedText, "new Redis(") {
		t.Error("every literal 'new Redis(' occurrence should be replaced")
	}
	if got := strings.Count(result.ConvertedText, "await GlideClient.createClient("); got != 3 {
		t.Errorf("expected 3 factory call sites, got %d", got)
	}
	if result.OriginalText != source {
		t.Error("original text must be preserved")
	}
}

func TestConvertCountsSkippedSteps(t *testing.T) {
	// No import lines present, so the import-rewrite steps cannot apply.
	source := `const client = new Redis();`

	converter := engine.NewConverter()
	result, ok := converter.Convert(source, detectedPattern(t, models.PatternConnection), models.DialectIoredis)
	if !ok {
		t.Fatal("conversion should produce a result")
	}

	if result.StepsApplied != 1 {
		t.Errorf("steps applied: got %d, want 1", result.StepsApplied)
	}
	if result.StepsSkipped != 2 {
		t.Errorf("steps skipped: got %d, want 2", result.StepsSkipped)
	}
}

func TestConvertAppliesStepsInOrder(t *testing.T) {
	pattern := models.DetectedPattern{
		Type:        models.PatternConnection,
		Occurrences: []models.PatternOccurrence{{}},
		Complexity:  models.ComplexitySimple,
		Strategies: []models.ConversionStrategy{{
			Name:      "ordered",
			AppliesTo: []models.Dialect{models.DialectIoredis},
			Steps: []models.ConversionStep{
				// Declared out of order on purpose
				{Order: 2, Action: models.ActionReplace, Target: "beta", NewCode: "gamma"},
				{Order: 1, Action: models.ActionReplace, Target: "alpha", NewCode: "beta"},
			},
		}},
	}

	converter := engine.NewConverter()
	result, ok := converter.Convert("alpha", pattern, models.DialectIoredis)
	if !ok {
		t.Fatal("conversion should produce a result")
	}

	// Step 1 turns alpha into beta; step 2 then observes beta.
	if result.ConvertedText != "gamma" {
		t.Errorf("converted text: got %q, want %q", result.ConvertedText, "gamma")
	}
}

func TestSelectStrategyPrefersDialectMatch(t *testing.T) {
	converter := engine.NewConverter()
	pattern := detectedPattern(t, models.PatternConnection)

	strategy, ok := converter.SelectStrategy(pattern, models.DialectNodeRedis)
	if !ok {
		t.Fatal("expected a strategy")
	}
	if strategy.Name != "client-factory-conversion" {
		t.Errorf("strategy: got %s, want client-factory-conversion", strategy.Name)
	}
}

func TestSelectStrategyFallsBackToFirst(t *testing.T) {
	converter := engine.NewConverter()
	pattern := models.DetectedPattern{
		Type:        models.PatternPipeline,
		Occurrences: []models.PatternOccurrence{{}},
		Strategies: []models.ConversionStrategy{
			{Name: "first", AppliesTo: []models.Dialect{models.DialectIoredis}},
			{Name: "second", AppliesTo: []models.Dialect{models.DialectIoredis}},
		},
	}

	// node-redis matches neither declared applicability; first wins.
	strategy, ok := converter.SelectStrategy(pattern, models.DialectNodeRedis)
	if !ok {
		t.Fatal("expected fallback strategy")
	}
	if strategy.Name != "first" {
		t.Errorf("fallback strategy: got %s, want first", strategy.Name)
	}
}

func TestSelectStrategyAbsentWhenNoCandidates(t *testing.T) {
	converter := engine.NewConverter()
	pattern := models.DetectedPattern{Type: models.PatternPipeline}

	if _, ok := converter.SelectStrategy(pattern, models.DialectIoredis); ok {
		t.Error("pattern without strategies should return absent")
	}
}

func TestConvertComplexPatternAlwaysWarnsManualReview(t *testing.T) {
	source := `await redis.watch(key);`

	converter := engine.NewConverter()
	result, ok := converter.Convert(source, detectedPattern(t, models.PatternTransaction), models.DialectIoredis)
	if !ok {
		t.Fatal("conversion should produce a result")
	}

	found := false
	for _, warning := range result.Warnings {
		if warning.Kind == models.WarningManualReview {
			found = true
		}
	}
	if !found {
		t.Error("complex pattern conversion must carry a manual-review warning")
	}
}

func TestConvertCarriesValidationTestsAndNotes(t *testing.T) {
	converter := engine.NewConverter()
	result, ok := converter.Convert("redis.pipeline()", detectedPattern(t, models.PatternPipeline), models.DialectIoredis)
	if !ok {
		t.Fatal("conversion should produce a result")
	}

	if len(result.ValidationTests) == 0 {
		t.Error("pipeline conversion should suggest validation tests")
	}
	if len(result.Notes) == 0 {
		t.Error("migration requirements should surface as notes")
	}
	if result.CreatedAt == "" {
		t.Error("result should carry a creation timestamp")
	}
	if result.ID == "" {
		t.Error("result should carry an ID")
	}
}

func TestConvertAllAppliesPatternsCumulatively(t *testing.T) {
	source := `const Redis = require('ioredis');
const redis = new Redis();
const pipeline = redis.pipeline();
await pipeline.exec();`

	patterns := []models.DetectedPattern{
		detectedPattern(t, models.PatternConnection),
		detectedPattern(t, models.PatternPipeline),
	}

	converter := engine.NewConverter()
	final, results := converter.ConvertAll(source, patterns, models.DialectIoredis)

	if len(results) != 2 {
		t.Fatalf("expected 2 conversion results, got %d", len(results))
	}
	if strings.Contains(final, "new Redis(") || strings.Contains(final, ".pipeline()") {
		t.Errorf("both patterns should be rewritten, got:\n%s", final)
	}
	// The second result starts from the first result's output.
	if results[1].OriginalText != results[0].ConvertedText {
		t.Error("cumulative conversion should chain texts")
	}
}
