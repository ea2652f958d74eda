package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kvshift/internal/models"
)

// Converter selects the best-fit conversion strategy for a detected pattern
// and applies its ordered edit steps. Transformation uses literal whole-text
// substring replacement: every occurrence of a step's target string is
// replaced, not just the one inside the detected window. The imprecision is
// deliberate and is flagged through manual-review warnings on complex
// patterns.
type Converter struct {
	warnings *WarningGenerator
	now      func() time.Time
}

func NewConverter() *Converter {
	return &Converter{
		warnings: NewWarningGenerator(),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source. Intended for tests.
func (c *Converter) WithClock(now func() time.Time) *Converter {
	c.now = now
	return c
}

// SelectStrategy picks the first strategy in the pattern's candidate list
// whose applicability includes the dialect, falling back to the first
// strategy when none declares a match. The fallback is a documented
// heuristic, not a correctness guarantee. A pattern with no candidate
// strategies returns an explicit absent value.
func (c *Converter) SelectStrategy(pattern models.DetectedPattern, dialect models.Dialect) (models.ConversionStrategy, bool) {
	if len(pattern.Strategies) == 0 {
		return models.ConversionStrategy{}, false
	}
	for _, strategy := range pattern.Strategies {
		if strategy.Applies(dialect) {
			return strategy, true
		}
	}
	return pattern.Strategies[0], true
}

// Convert applies the selected strategy's steps to the source text in
// ascending step order; later steps observe the output of earlier ones.
// Steps whose target is absent from the text are skipped silently, but
// every skip is counted so partial application stays visible to the caller.
// The second return value is false when the pattern has no strategy.
func (c *Converter) Convert(sourceText string, pattern models.DetectedPattern, dialect models.Dialect) (models.ConversionResult, bool) {
	strategy, ok := c.SelectStrategy(pattern, dialect)
	if !ok {
		return models.ConversionResult{}, false
	}

	steps := make([]models.ConversionStep, len(strategy.Steps))
	copy(steps, strategy.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })

	converted := sourceText
	applied, skipped := 0, 0
	notes := make([]string, 0, len(pattern.Requirements))

	for _, step := range steps {
		if step.Target == "" || !strings.Contains(converted, step.Target) {
			skipped++
			continue
		}
		converted = strings.ReplaceAll(converted, step.Target, step.NewCode)
		applied++
	}

	for _, req := range pattern.Requirements {
		notes = append(notes, req.Description)
	}

	return models.ConversionResult{
		ID:              uuid.NewString(),
		OriginalText:    sourceText,
		ConvertedText:   converted,
		Pattern:         pattern,
		Strategy:        strategy,
		StepsApplied:    applied,
		StepsSkipped:    skipped,
		Warnings:        c.warnings.Generate(pattern, strategy),
		ValidationTests: c.warnings.ValidationTests(pattern.Type, strategy),
		Notes:           notes,
		CreatedAt:       c.now().UTC().Format(time.RFC3339),
	}, true
}

// ConvertAll applies every detected pattern's strategy cumulatively, in the
// order the patterns were detected, and returns the final text together
// with one result per converted pattern. Each result's original text is the
// text as it stood before that pattern's conversion.
func (c *Converter) ConvertAll(sourceText string, patterns []models.DetectedPattern, dialect models.Dialect) (string, []models.ConversionResult) {
	current := sourceText
	results := make([]models.ConversionResult, 0, len(patterns))

	for _, pattern := range patterns {
		result, ok := c.Convert(current, pattern, dialect)
		if !ok {
			continue
		}
		current = result.ConvertedText
		results = append(results, result)
	}

	return current, results
}
