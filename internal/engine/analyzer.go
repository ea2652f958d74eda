package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kvshift/internal/catalog"
	"kvshift/internal/config"
	"kvshift/internal/models"
)

// Analyzer composes the scanner, scorer and assessor into per-unit source
// analysis. The catalog is read-only after construction and the analyzer
// holds no cross-unit mutable state, so units may be analyzed concurrently.
type Analyzer struct {
	catalog  *catalog.Catalog
	cfg      *config.Config
	scanner  *Scanner
	scorer   *Scorer
	assessor *Assessor
	log      *logrus.Logger
	now      func() time.Time
}

func NewAnalyzer(cat *catalog.Catalog, cfg *config.Config) *Analyzer {
	log := logrus.New()
	if cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	return &Analyzer{
		catalog:  cat,
		cfg:      cfg,
		scanner:  NewScanner(cat, cfg),
		scorer:   NewScorer(cfg),
		assessor: NewAssessor(cfg),
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source. Intended for tests.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze produces the full SourceAnalysis for one source unit. The dialect
// must already be validated; empty source text yields a well-formed empty
// analysis with a zero-hour estimate rather than an error.
func (a *Analyzer) Analyze(sourceText string, dialect models.Dialect) models.SourceAnalysis {
	analyzedAt := a.now().UTC().Format(time.RFC3339)

	if sourceText == "" {
		return emptyAnalysis(dialect, analyzedAt)
	}

	scan := a.scanner.Scan(sourceText, dialect)
	patterns := a.detectPatterns(scan)

	complexity := a.assessor.AssessComplexity(patterns, scan.TotalLines, scan.RelevantLines)
	strategy := a.assessor.BuildStrategy(complexity, patterns)
	effort := a.assessor.EstimateEffort(complexity, patterns)

	a.log.WithFields(logrus.Fields{
		"dialect":  dialect,
		"patterns": len(patterns),
		"lines":    scan.TotalLines,
		"bucket":   complexity.Bucket,
	}).Debug("source unit analyzed")

	return models.SourceAnalysis{
		Dialect:    dialect,
		Patterns:   patterns,
		Complexity: complexity,
		Strategy:   strategy,
		Effort:     effort,
		AnalyzedAt: analyzedAt,
	}
}

// detectPatterns scores each pattern type that produced occurrences and
// drops those below the configured minimum confidence. Every emitted
// pattern carries at least one occurrence by construction.
func (a *Analyzer) detectPatterns(scan ScanResult) []models.DetectedPattern {
	patterns := make([]models.DetectedPattern, 0, len(scan.Occurrences))

	for _, sig := range a.catalog.All() {
		occurrences := scan.Occurrences[sig.Type]
		if len(occurrences) == 0 {
			continue
		}

		confidence := a.scorer.Score(sig, occurrences)
		if confidence < a.cfg.Analysis.MinConfidence {
			a.log.WithFields(logrus.Fields{
				"pattern":    sig.Type,
				"confidence": confidence,
			}).Debug("pattern filtered below minimum confidence")
			continue
		}

		patterns = append(patterns, models.DetectedPattern{
			Type:         sig.Type,
			Confidence:   confidence,
			Occurrences:  occurrences,
			Complexity:   sig.Complexity,
			Requirements: sig.Requirements,
			Strategies:   sig.Strategies,
		})
	}

	return patterns
}

func emptyAnalysis(dialect models.Dialect, analyzedAt string) models.SourceAnalysis {
	return models.SourceAnalysis{
		Dialect:  dialect,
		Patterns: []models.DetectedPattern{},
		Complexity: models.CodeComplexity{
			Bucket:  models.BucketLow,
			Factors: []string{},
		},
		Strategy: models.MigrationStrategy{
			Approach:    models.ApproachBigBang,
			Phases:      []models.MigrationPhase{},
			RiskFactors: []string{},
		},
		Effort: models.EffortEstimate{
			Confidence:  "high",
			Assumptions: []string{"no source text supplied"},
		},
		AnalyzedAt: analyzedAt,
	}
}

// SourceUnit is one named piece of source text to analyze. Reading files is
// the hosting layer's job; the engine never touches the file system.
type SourceUnit struct {
	Name string
	Text string
}

// AnalyzeUnits analyzes multiple source units with a bounded worker pool
// and merges the results deterministically: output order follows input
// order regardless of completion order.
func (a *Analyzer) AnalyzeUnits(units []SourceUnit, dialect models.Dialect) *models.ProjectReport {
	startTime := time.Now()
	report := models.NewProjectReport()

	workers := a.cfg.Analysis.MaxWorkers
	if workers > len(units) {
		workers = len(units)
	}
	if workers < 1 {
		workers = 1
	}

	analyses := make([]models.SourceAnalysis, len(units))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				analysis := a.Analyze(units[i].Text, dialect)
				analysis.File = units[i].Name
				analyses[i] = analysis
			}
		}()
	}

	for i := range units {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, analysis := range analyses {
		report.AddAnalysis(analysis)
	}

	report.AnalysisDuration = time.Since(startTime).String()
	report.CalculateScore()
	return report
}

// CatalogSize returns the number of signatures the analyzer scans against.
func (a *Analyzer) CatalogSize() int {
	return a.catalog.Count()
}
