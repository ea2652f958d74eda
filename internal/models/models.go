package models

import (
	"encoding/json"
	"fmt"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Severities cross process boundaries as fixed string literals, not ints.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "LOW":
		*s = SeverityLow
	case "MEDIUM":
		*s = SeverityMedium
	case "HIGH":
		*s = SeverityHigh
	case "CRITICAL":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity: %s", raw)
	}
	return nil
}

// Dialect identifies the legacy client library a source file is written
// against. The conversion target is always valkey-glide.
type Dialect string

const (
	DialectIoredis   Dialect = "ioredis"
	DialectNodeRedis Dialect = "node-redis"
)

// ParseDialect validates a user-supplied dialect name. An unrecognized
// dialect is an input error and is surfaced to the caller, never defaulted.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case DialectIoredis, DialectNodeRedis:
		return Dialect(name), nil
	case "":
		return "", fmt.Errorf("source dialect is required (ioredis or node-redis)")
	default:
		return "", fmt.Errorf("unrecognized source dialect: %s (valid: ioredis, node-redis)", name)
	}
}

// AllDialects returns the supported source dialects in stable order.
func AllDialects() []Dialect {
	return []Dialect{DialectIoredis, DialectNodeRedis}
}

type PatternType string

const (
	PatternConnection  PatternType = "connection"
	PatternPipeline    PatternType = "pipeline"
	PatternTransaction PatternType = "transaction"
	PatternCluster     PatternType = "cluster"
	PatternPubSub      PatternType = "pubsub"
	PatternStreaming   PatternType = "streaming"
)

type ComplexityRating string

const (
	ComplexitySimple   ComplexityRating = "simple"
	ComplexityModerate ComplexityRating = "moderate"
	ComplexityComplex  ComplexityRating = "complex"
)

type ComplexityBucket string

const (
	BucketLow      ComplexityBucket = "low"
	BucketMedium   ComplexityBucket = "medium"
	BucketHigh     ComplexityBucket = "high"
	BucketVeryHigh ComplexityBucket = "very-high"
)

type StepAction string

const (
	ActionReplace StepAction = "replace"
	ActionAdd     StepAction = "add"
	ActionRemove  StepAction = "remove"
	ActionModify  StepAction = "modify"
	ActionWrap    StepAction = "wrap"
)

// MigrationRequirement is a severity-tagged note attached to a signature,
// inherited by every pattern detected from it.
type MigrationRequirement struct {
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// ConversionStep is one ordered edit in a conversion strategy. Steps are
// applied in ascending Order; later steps observe earlier output.
type ConversionStep struct {
	Order     int        `json:"order"`
	Action    StepAction `json:"action"`
	Target    string     `json:"target"`
	NewCode   string     `json:"new_code"`
	Rationale string     `json:"rationale"`
}

// ConversionStrategy is an ordered recipe of text edits that rewrites one
// dialect's idiom into the target client's.
type ConversionStrategy struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	AppliesTo       []Dialect        `json:"applies_to"`
	Steps           []ConversionStep `json:"steps"`
	Risks           []string         `json:"risks"`
	ValidationTests []string         `json:"validation_tests"`
}

// Applies reports whether the strategy declares applicability to the dialect.
func (s ConversionStrategy) Applies(d Dialect) bool {
	for _, candidate := range s.AppliesTo {
		if candidate == d {
			return true
		}
	}
	return false
}

// ContextFlags captures the control-flow context surrounding an occurrence.
type ContextFlags struct {
	Async         bool `json:"async"`
	ErrorHandling bool `json:"error_handling"`
	Loop          bool `json:"loop"`
	Conditional   bool `json:"conditional"`
}

// PatternOccurrence is one located instance of a pattern signature, with a
// bounded context window and metadata extracted from it. Line indices are
// zero-based and inclusive.
type PatternOccurrence struct {
	LineStart int          `json:"line_start"`
	LineEnd   int          `json:"line_end"`
	Snippet   string       `json:"snippet"`
	Methods   []string     `json:"methods"`
	Variables []string     `json:"variables"`
	Imports   []string     `json:"imports"`
	Context   ContextFlags `json:"context"`
}

// DetectedPattern groups the occurrences of one pattern type in a source
// unit. It is only emitted when at least one occurrence was found, and its
// confidence always lies in [0,1].
type DetectedPattern struct {
	Type         PatternType            `json:"type"`
	Confidence   float64                `json:"confidence"`
	Occurrences  []PatternOccurrence    `json:"occurrences"`
	Complexity   ComplexityRating       `json:"complexity"`
	Requirements []MigrationRequirement `json:"requirements"`
	Strategies   []ConversionStrategy   `json:"strategies"`
}

type WarningKind string

const (
	WarningManualReview   WarningKind = "manual-review"
	WarningBehaviorChange WarningKind = "behavior-change"
)

type Warning struct {
	Kind     WarningKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// ConversionResult records one applied conversion: the text before and
// after, the pattern and strategy used, and everything a reviewer needs to
// validate the change. Immutable after creation.
type ConversionResult struct {
	ID              string             `json:"id"`
	OriginalText    string             `json:"original_text"`
	ConvertedText   string             `json:"converted_text"`
	Pattern         DetectedPattern    `json:"pattern"`
	Strategy        ConversionStrategy `json:"strategy"`
	StepsApplied    int                `json:"steps_applied"`
	StepsSkipped    int                `json:"steps_skipped"`
	Warnings        []Warning          `json:"warnings"`
	ValidationTests []string           `json:"validation_tests"`
	Notes           []string           `json:"notes"`
	CreatedAt       string             `json:"created_at"` // RFC 3339
}

// CodeComplexity is the deterministic complexity assessment of one source
// unit. Score is clamped to [0,100].
type CodeComplexity struct {
	TotalLines    int              `json:"total_lines"`
	RelevantLines int              `json:"relevant_lines"`
	Score         float64          `json:"score"`
	Bucket        ComplexityBucket `json:"bucket"`
	Factors       []string         `json:"factors"`
}

type MigrationApproach string

const (
	ApproachBigBang     MigrationApproach = "big-bang"
	ApproachIncremental MigrationApproach = "incremental"
	ApproachParallel    MigrationApproach = "parallel"
)

type MigrationPhase struct {
	Name         string   `json:"name"`
	Actions      []string `json:"actions"`
	Dependencies []string `json:"dependencies"`
}

// MigrationStrategy is the phased migration skeleton derived from the
// complexity bucket. Parallel migrations carry no canned phases; the caller
// supplies its own phase plan.
type MigrationStrategy struct {
	Approach    MigrationApproach `json:"approach"`
	Phases      []MigrationPhase  `json:"phases"`
	RiskFactors []string          `json:"risk_factors"`
}

type EffortBreakdown struct {
	Analysis      float64 `json:"analysis"`
	Conversion    float64 `json:"conversion"`
	Testing       float64 `json:"testing"`
	Validation    float64 `json:"validation"`
	Documentation float64 `json:"documentation"`
}

// Sum returns the combined hours across all breakdown components.
func (b EffortBreakdown) Sum() float64 {
	return b.Analysis + b.Conversion + b.Testing + b.Validation + b.Documentation
}

type EffortEstimate struct {
	TotalHours  float64         `json:"total_hours"`
	Breakdown   EffortBreakdown `json:"breakdown"`
	Confidence  string          `json:"confidence"` // low, medium, high
	Assumptions []string        `json:"assumptions"`
}

// SourceAnalysis is the aggregate result of analyzing one source unit.
type SourceAnalysis struct {
	File       string            `json:"file,omitempty"`
	Dialect    Dialect           `json:"dialect"`
	Patterns   []DetectedPattern `json:"patterns"`
	Complexity CodeComplexity    `json:"complexity"`
	Strategy   MigrationStrategy `json:"strategy"`
	Effort     EffortEstimate    `json:"effort"`
	AnalyzedAt string            `json:"analyzed_at"` // RFC 3339
}

// PatternOfType returns the detected pattern of the given type, if present.
func (a *SourceAnalysis) PatternOfType(t PatternType) (DetectedPattern, bool) {
	for _, p := range a.Patterns {
		if p.Type == t {
			return p, true
		}
	}
	return DetectedPattern{}, false
}

// TotalOccurrences counts occurrences across all detected patterns.
func (a *SourceAnalysis) TotalOccurrences() int {
	total := 0
	for _, p := range a.Patterns {
		total += len(p.Occurrences)
	}
	return total
}
