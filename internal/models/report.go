package models

// DependencyAnalysis is supplied by an external dependency-manifest
// analyzer. The engine only iterates its phases and risks when merging; it
// never inspects the internals beyond that.
type DependencyAnalysis struct {
	MigrationPlan struct {
		Phases []MigrationPhase `json:"phases"`
	} `json:"migration_plan"`
	Risks []string `json:"risks"`
}

// Recommendation is one prioritized suggestion from an external
// optimization/compatibility analyzer.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Severity `json:"priority"`
	ActionItems []string `json:"action_items"`
}

// OptimizationAnalysis is supplied by an external optimization advisor and
// merged by priority only.
type OptimizationAnalysis struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// MigrationReport is the orchestrator's comprehensive output for one source
// unit: the pattern analysis plus externally supplied analyses merged into
// one ranked recommendation list and one multi-phase plan.
type MigrationReport struct {
	ID              string             `json:"id"`
	Analysis        SourceAnalysis     `json:"analysis"`
	Phases          []MigrationPhase   `json:"phases"`
	Risks           []string           `json:"risks"`
	Recommendations []Recommendation   `json:"recommendations"`
	Conversions     []ConversionResult `json:"conversions,omitempty"`
	CreatedAt       string             `json:"created_at"` // RFC 3339
}

// ProjectReport aggregates per-file analyses across one analyzer run.
type ProjectReport struct {
	Files            []string         `json:"files_analyzed"`
	Analyses         []SourceAnalysis `json:"analyses"`
	TotalPatterns    int              `json:"total_patterns"`
	PatternsByType   map[string]int   `json:"patterns_by_type"`
	MigrationScore   int              `json:"migration_score"` // 0-100, higher is easier
	AnalysisDuration string           `json:"analysis_duration"`
}

func NewProjectReport() *ProjectReport {
	return &ProjectReport{
		Files:          make([]string, 0),
		Analyses:       make([]SourceAnalysis, 0),
		PatternsByType: make(map[string]int),
	}
}

// AddAnalysis appends one file's analysis and updates the aggregates.
func (pr *ProjectReport) AddAnalysis(analysis SourceAnalysis) {
	if analysis.File != "" {
		pr.Files = append(pr.Files, analysis.File)
	}
	pr.Analyses = append(pr.Analyses, analysis)
	for _, p := range analysis.Patterns {
		pr.TotalPatterns++
		pr.PatternsByType[string(p.Type)]++
	}
}

// CalculateScore derives a 0-100 migration-readiness score. A clean project
// with no detected legacy patterns scores 100; penalties grow with pattern
// complexity and with the complexity bucket of each analyzed unit.
func (pr *ProjectReport) CalculateScore() {
	if pr.TotalPatterns == 0 {
		pr.MigrationScore = 100
		return
	}

	penalty := 0
	for _, analysis := range pr.Analyses {
		for _, pattern := range analysis.Patterns {
			switch pattern.Complexity {
			case ComplexitySimple:
				penalty += 3
			case ComplexityModerate:
				penalty += 8
			case ComplexityComplex:
				penalty += 15
			}
		}
		switch analysis.Complexity.Bucket {
		case BucketMedium:
			penalty += 5
		case BucketHigh:
			penalty += 10
		case BucketVeryHigh:
			penalty += 20
		}
	}

	score := max(100-penalty, 0)
	pr.MigrationScore = score
}
