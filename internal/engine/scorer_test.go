package engine_test

import (
	"math"
	"testing"

	"kvshift/internal/catalog"
	"kvshift/internal/config"
	"kvshift/internal/engine"
	"kvshift/internal/models"
)

func testSignature() catalog.Signature {
	return catalog.Signature{
		Type:            models.PatternPipeline,
		ContextKeywords: []string{"pipeline", "batch"},
	}
}

func occurrencesWithSnippets(snippets ...string) []models.PatternOccurrence {
	occs := make([]models.PatternOccurrence, len(snippets))
	for i, s := range snippets {
		occs[i] = models.PatternOccurrence{Snippet: s}
	}
	return occs
}

func TestScoreSingleOccurrenceNoContext(t *testing.T) {
	scorer := engine.NewScorer(config.DefaultConfig())

	score := scorer.Score(testSignature(), occurrencesWithSnippets("redis.mget(keys)"))

	// 0.5 base + 1*0.1 occurrence boost, no keyword in the snippet
	if math.Abs(score-0.6) > 1e-9 {
		t.Errorf("score: got %v, want 0.6", score)
	}
}

func TestScoreOccurrenceBoostIsCapped(t *testing.T) {
	scorer := engine.NewScorer(config.DefaultConfig())

	snippets := make([]string, 10)
	for i := range snippets {
		snippets[i] = "redis.mget(keys)"
	}
	score := scorer.Score(testSignature(), occurrencesWithSnippets(snippets...))

	// 0.5 base + capped 0.3 boost
	if math.Abs(score-0.8) > 1e-9 {
		t.Errorf("score: got %v, want 0.8", score)
	}
}

func TestScoreContextBonusAppliedOnce(t *testing.T) {
	scorer := engine.NewScorer(config.DefaultConfig())

	// Two snippets both carrying a keyword must add the bonus only once.
	score := scorer.Score(testSignature(), occurrencesWithSnippets(
		"const p = redis.PIPELINE();",
		"send batch of commands",
	))

	// 0.5 base + 2*0.1 boost + 0.2 bonus
	if math.Abs(score-0.9) > 1e-9 {
		t.Errorf("score: got %v, want 0.9", score)
	}
}

func TestScoreKeywordMatchIsCaseInsensitive(t *testing.T) {
	scorer := engine.NewScorer(config.DefaultConfig())

	withBonus := scorer.Score(testSignature(), occurrencesWithSnippets("BATCH write"))
	withoutBonus := scorer.Score(testSignature(), occurrencesWithSnippets("plain write"))

	if math.Abs((withBonus-withoutBonus)-0.2) > 1e-9 {
		t.Errorf("case-insensitive keyword should add exactly the bonus: %v vs %v", withBonus, withoutBonus)
	}
}

func TestScoreClampedToUnitInterval(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.BaseConfidence = 0.9
	scorer := engine.NewScorer(cfg)

	snippets := make([]string, 20)
	for i := range snippets {
		snippets[i] = "pipeline"
	}
	score := scorer.Score(testSignature(), occurrencesWithSnippets(snippets...))

	if score > 1.0 {
		t.Errorf("score must clamp to 1.0, got %v", score)
	}
	if score != 1.0 {
		t.Errorf("0.9+0.3+0.2 should clamp to exactly 1.0, got %v", score)
	}
}

func TestScoreZeroOccurrencesIsBase(t *testing.T) {
	scorer := engine.NewScorer(config.DefaultConfig())

	score := scorer.Score(testSignature(), nil)
	if math.Abs(score-0.5) > 1e-9 {
		t.Errorf("score with no occurrences: got %v, want base 0.5", score)
	}
}
