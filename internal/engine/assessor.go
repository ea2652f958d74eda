package engine

import (
	"fmt"

	"kvshift/internal/config"
	"kvshift/internal/models"
)

// Assessor computes the bounded complexity score of a source unit,
// classifies it into a bucket, and derives the migration-strategy skeleton
// and effort estimate from that bucket.
type Assessor struct {
	complexity config.ComplexityConfig
	effort     config.EffortConfig
}

func NewAssessor(cfg *config.Config) *Assessor {
	return &Assessor{
		complexity: cfg.Complexity,
		effort:     cfg.Effort,
	}
}

// AssessComplexity scores the detected-pattern mix against the unit's line
// counts. The score is clamped to [0,100] and bucketed at exact cut points,
// inclusive on the lower bound.
func (a *Assessor) AssessComplexity(patterns []models.DetectedPattern, totalLines, relevantLines int) models.CodeComplexity {
	score := 0.0
	factors := make([]string, 0, len(patterns)+2)

	for _, pattern := range patterns {
		weight := a.ratingWeight(pattern.Complexity)
		occurrences := len(pattern.Occurrences)
		score += weight + a.complexity.OccurrenceWeight*float64(occurrences)
		factors = append(factors, fmt.Sprintf("%s pattern (%s, %d occurrences)", pattern.Type, pattern.Complexity, occurrences))
	}

	if totalLines > 0 {
		lineScore := float64(totalLines) / a.complexity.LineDivisor
		if lineScore > a.complexity.LineCap {
			lineScore = a.complexity.LineCap
		}
		score += lineScore
		factors = append(factors, fmt.Sprintf("%d source lines", totalLines))

		relevance := float64(relevantLines) / float64(totalLines)
		score += relevance * a.complexity.RelevanceWeight
		factors = append(factors, fmt.Sprintf("%d dialect-relevant lines", relevantLines))
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.CodeComplexity{
		TotalLines:    totalLines,
		RelevantLines: relevantLines,
		Score:         score,
		Bucket:        a.BucketFor(score),
		Factors:       factors,
	}
}

func (a *Assessor) ratingWeight(rating models.ComplexityRating) float64 {
	switch rating {
	case models.ComplexityComplex:
		return a.complexity.ComplexWeight
	case models.ComplexityModerate:
		return a.complexity.ModerateWeight
	default:
		return a.complexity.SimpleWeight
	}
}

// BucketFor classifies a complexity score. Cut points are inclusive on the
// lower bound: a score exactly at a threshold lands in the higher bucket.
func (a *Assessor) BucketFor(score float64) models.ComplexityBucket {
	b := a.complexity.Buckets
	switch {
	case score < b.Medium:
		return models.BucketLow
	case score < b.High:
		return models.BucketMedium
	case score < b.VeryHigh:
		return models.BucketHigh
	default:
		return models.BucketVeryHigh
	}
}

// BuildStrategy chooses the migration approach purely from the bucket.
// Incremental migrations get three canned phases ordered by rising pattern
// complexity; parallel migrations carry no canned phases and the caller
// supplies its own plan.
func (a *Assessor) BuildStrategy(complexity models.CodeComplexity, patterns []models.DetectedPattern) models.MigrationStrategy {
	strategy := models.MigrationStrategy{
		Phases:      []models.MigrationPhase{},
		RiskFactors: a.riskFactors(complexity, patterns),
	}

	switch complexity.Bucket {
	case models.BucketLow:
		strategy.Approach = models.ApproachBigBang
	case models.BucketMedium:
		strategy.Approach = models.ApproachIncremental
		strategy.Phases = []models.MigrationPhase{
			{
				Name:         "simple patterns",
				Actions:      []string{"convert connection setup and other simple call sites"},
				Dependencies: []string{},
			},
			{
				Name:         "moderate patterns",
				Actions:      []string{"convert pipelines and other moderate call sites"},
				Dependencies: []string{"simple patterns"},
			},
			{
				Name:         "complex patterns",
				Actions:      []string{"convert transactions, cluster, pub/sub and streaming call sites"},
				Dependencies: []string{"moderate patterns"},
			},
		}
	default:
		strategy.Approach = models.ApproachParallel
	}

	return strategy
}

func (a *Assessor) riskFactors(complexity models.CodeComplexity, patterns []models.DetectedPattern) []string {
	risks := make([]string, 0)

	for _, pattern := range patterns {
		if pattern.Complexity == models.ComplexityComplex {
			risks = append(risks, fmt.Sprintf("%s migration requires manual review", pattern.Type))
		}
	}

	if complexity.Bucket == models.BucketHigh || complexity.Bucket == models.BucketVeryHigh {
		risks = append(risks, "large dialect-touching surface area")
	}

	return risks
}

// EstimateEffort derives hours from the bucket's base plus a per-pattern
// charge scaled by occurrence count. The breakdown splits the total into
// fixed proportions that sum back to the total.
func (a *Assessor) EstimateEffort(complexity models.CodeComplexity, patterns []models.DetectedPattern) models.EffortEstimate {
	total := a.baseHours(complexity.Bucket)

	complexCount := 0
	for _, pattern := range patterns {
		hours := a.patternHours(pattern.Complexity)
		total += hours * float64(len(pattern.Occurrences))
		if pattern.Complexity == models.ComplexityComplex {
			complexCount++
		}
	}

	bd := a.effort.Breakdown
	return models.EffortEstimate{
		TotalHours: total,
		Breakdown: models.EffortBreakdown{
			Analysis:      total * bd.Analysis,
			Conversion:    total * bd.Conversion,
			Testing:       total * bd.Testing,
			Validation:    total * bd.Validation,
			Documentation: total * bd.Documentation,
		},
		Confidence:  effortConfidence(complexity.Bucket, complexCount),
		Assumptions: effortAssumptions(),
	}
}

func (a *Assessor) baseHours(bucket models.ComplexityBucket) float64 {
	switch bucket {
	case models.BucketLow:
		return a.effort.BaseHours.Low
	case models.BucketMedium:
		return a.effort.BaseHours.Medium
	case models.BucketHigh:
		return a.effort.BaseHours.High
	default:
		return a.effort.BaseHours.VeryHigh
	}
}

func (a *Assessor) patternHours(rating models.ComplexityRating) float64 {
	switch rating {
	case models.ComplexityComplex:
		return a.effort.PatternHours.Complex
	case models.ComplexityModerate:
		return a.effort.PatternHours.Moderate
	default:
		return a.effort.PatternHours.Simple
	}
}

func effortConfidence(bucket models.ComplexityBucket, complexPatterns int) string {
	switch {
	case bucket == models.BucketVeryHigh || complexPatterns > 2:
		return "low"
	case complexPatterns > 0 || bucket == models.BucketHigh:
		return "medium"
	default:
		return "high"
	}
}

func effortAssumptions() []string {
	return []string{
		"estimates assume working familiarity with both client APIs",
		"hours scale with detected occurrence counts, not file counts",
		"validation hours cover suggested tests only, not full regression runs",
	}
}
