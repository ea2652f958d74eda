package engine

import (
	"strings"

	"kvshift/internal/catalog"
	"kvshift/internal/config"
	"kvshift/internal/models"
)

// Scorer converts raw occurrence counts and context-keyword overlap into a
// single confidence value per pattern type. Repetition is rewarded up to a
// cap and contextual corroboration is rewarded once, not cumulatively, so
// neither signal can dominate the score.
type Scorer struct {
	scoring config.ScoringConfig
}

func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{scoring: cfg.Scoring}
}

// Score computes the confidence for a set of occurrences of one signature.
// The result always lies in [0,1]. The scorer never discards low-scoring
// patterns; filtering against a minimum threshold is the caller's decision.
func (s *Scorer) Score(sig catalog.Signature, occurrences []models.PatternOccurrence) float64 {
	confidence := s.scoring.BaseConfidence

	occurrenceBoost := float64(len(occurrences)) * s.scoring.OccurrenceWeight
	if occurrenceBoost > s.scoring.OccurrenceCap {
		occurrenceBoost = s.scoring.OccurrenceCap
	}
	confidence += occurrenceBoost

	if s.hasContextKeyword(sig.ContextKeywords, occurrences) {
		confidence += s.scoring.ContextBonus
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// hasContextKeyword reports whether any occurrence snippet contains one of
// the signature's required context keywords, case-insensitive.
func (s *Scorer) hasContextKeyword(keywords []string, occurrences []models.PatternOccurrence) bool {
	for _, occ := range occurrences {
		snippet := strings.ToLower(occ.Snippet)
		for _, keyword := range keywords {
			if strings.Contains(snippet, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}
