package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"kvshift/internal/models"
)

// PlanInput carries everything the orchestrator merges into one report. The
// dependency and optimization analyses are externally produced and treated
// as opaque beyond their phase/risk/recommendation lists.
type PlanInput struct {
	SourceText         string
	Dialect            string
	Dependency         *models.DependencyAnalysis
	Optimization       *models.OptimizationAnalysis
	IncludeConversions bool
}

// Orchestrator composes pattern analysis with externally supplied analyses
// into one comprehensive migration report.
type Orchestrator struct {
	analyzer  *Analyzer
	converter *Converter
	now       func() time.Time
}

func NewOrchestrator(analyzer *Analyzer, converter *Converter) *Orchestrator {
	return &Orchestrator{
		analyzer:  analyzer,
		converter: converter,
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source. Intended for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Plan builds the migration report. An unrecognized dialect fails fast; a
// missing dialect is only an error when source text was supplied, because
// callers may request dependency/optimization merging alone. With no source
// text the report still carries a valid, empty source analysis.
func (o *Orchestrator) Plan(input PlanInput) (*models.MigrationReport, error) {
	var dialect models.Dialect
	if input.Dialect != "" || input.SourceText != "" {
		parsed, err := models.ParseDialect(input.Dialect)
		if err != nil {
			return nil, err
		}
		dialect = parsed
	}

	analysis := o.analyzer.Analyze(input.SourceText, dialect)

	report := &models.MigrationReport{
		ID:        uuid.NewString(),
		Analysis:  analysis,
		CreatedAt: o.now().UTC().Format(time.RFC3339),
	}

	report.Phases = o.mergePhases(analysis, input.Dependency)
	report.Risks = o.mergeRisks(analysis, input.Dependency)
	report.Recommendations = o.mergeRecommendations(analysis, input.Optimization)

	if input.IncludeConversions {
		report.Conversions = o.convertPatterns(input.SourceText, analysis, dialect)
	}

	return report, nil
}

// mergePhases appends the dependency analyzer's phases after the engine's
// own phase skeleton, preserving both input orders.
func (o *Orchestrator) mergePhases(analysis models.SourceAnalysis, dep *models.DependencyAnalysis) []models.MigrationPhase {
	phases := make([]models.MigrationPhase, 0, len(analysis.Strategy.Phases))
	phases = append(phases, analysis.Strategy.Phases...)
	if dep != nil {
		phases = append(phases, dep.MigrationPlan.Phases...)
	}
	return phases
}

func (o *Orchestrator) mergeRisks(analysis models.SourceAnalysis, dep *models.DependencyAnalysis) []string {
	risks := make([]string, 0, len(analysis.Strategy.RiskFactors))
	risks = append(risks, analysis.Strategy.RiskFactors...)
	if dep != nil {
		risks = append(risks, dep.Risks...)
	}
	return risks
}

// mergeRecommendations combines pattern-derived recommendations with the
// optimization analyzer's, ranked by priority with a stable sort so ties
// keep their input order.
func (o *Orchestrator) mergeRecommendations(analysis models.SourceAnalysis, opt *models.OptimizationAnalysis) []models.Recommendation {
	recommendations := patternRecommendations(analysis)
	if opt != nil {
		recommendations = append(recommendations, opt.Recommendations...)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})

	return recommendations
}

// patternRecommendations derives one recommendation per detected pattern,
// prioritized by the pattern's complexity rating.
func patternRecommendations(analysis models.SourceAnalysis) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(analysis.Patterns))

	for _, pattern := range analysis.Patterns {
		priority := models.SeverityLow
		switch pattern.Complexity {
		case models.ComplexityModerate:
			priority = models.SeverityMedium
		case models.ComplexityComplex:
			priority = models.SeverityHigh
		}

		items := make([]string, 0, len(pattern.Requirements))
		for _, req := range pattern.Requirements {
			items = append(items, req.Description)
		}

		recommendations = append(recommendations, models.Recommendation{
			Title:       "migrate " + string(pattern.Type) + " usage",
			Description: describePattern(pattern),
			Priority:    priority,
			ActionItems: items,
		})
	}

	return recommendations
}

func describePattern(pattern models.DetectedPattern) string {
	plural := "s"
	if len(pattern.Occurrences) == 1 {
		plural = ""
	}
	return fmt.Sprintf("%s detected at %d call site%s", pattern.Type, len(pattern.Occurrences), plural)
}

// convertPatterns produces one independent conversion result per detected
// pattern, each applied to the original text.
func (o *Orchestrator) convertPatterns(sourceText string, analysis models.SourceAnalysis, dialect models.Dialect) []models.ConversionResult {
	results := make([]models.ConversionResult, 0, len(analysis.Patterns))
	for _, pattern := range analysis.Patterns {
		if result, ok := o.converter.Convert(sourceText, pattern, dialect); ok {
			results = append(results, result)
		}
	}
	return results
}
