package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"kvshift/internal/config"
	"kvshift/internal/models"
)

// Generator handles formatting and displaying analysis results.
type Generator struct {
	format string
	config *config.Config
}

// NewGenerator creates a report generator for the given format.
func NewGenerator(format string) *Generator {
	return &Generator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	return &Generator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from a project analysis.
func (g *Generator) Generate(result *models.ProjectReport) string {
	switch g.format {
	case "json":
		return g.generateJSON(result)
	default:
		return g.generateConsole(result)
	}
}

func (g *Generator) generateJSON(result *models.ProjectReport) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

func (g *Generator) generateConsole(result *models.ProjectReport) string {
	var report strings.Builder

	useColors := true
	showOccurrences := false
	if g.config != nil {
		useColors = g.config.Output.Colors
		showOccurrences = g.config.Output.ShowOccurrences
	}

	// Header
	if useColors {
		report.WriteString(color.CyanString("🔄 kvshift Migration Analysis\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("kvshift Migration Analysis\n")
		report.WriteString("=======================================\n\n")
	}

	g.writeSummary(&report, result, useColors)
	g.writeMigrationScore(&report, result, useColors)

	if result.TotalPatterns > 0 {
		g.writePatternsByType(&report, result, useColors)
		report.WriteString("\n")
		for _, analysis := range result.Analyses {
			if len(analysis.Patterns) == 0 {
				continue
			}
			g.writeAnalysisDetail(&report, analysis, useColors, showOccurrences)
		}
	} else {
		if useColors {
			report.WriteString(color.GreenString("🎉 No legacy client patterns detected! Nothing to migrate.\n\n"))
		} else {
			report.WriteString("No legacy client patterns detected! Nothing to migrate.\n\n")
		}
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

func (g *Generator) writeSummary(report *strings.Builder, result *models.ProjectReport, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", len(result.Files)))
	report.WriteString(fmt.Sprintf("   Patterns found: %d\n", result.TotalPatterns))

	totalHours := 0.0
	for _, analysis := range result.Analyses {
		totalHours += analysis.Effort.TotalHours
	}
	report.WriteString(fmt.Sprintf("   Estimated effort: %.1f hours\n", totalHours))
	report.WriteString("\n")
}

// writeMigrationScore writes the readiness score with color coding.
func (g *Generator) writeMigrationScore(report *strings.Builder, result *models.ProjectReport, useColors bool) {
	score := result.MigrationScore
	var scoreColor func(a ...interface{}) string
	var emoji string

	switch {
	case score >= 90:
		scoreColor = color.New(color.FgGreen).SprintFunc()
		emoji = "🌟"
	case score >= 75:
		scoreColor = color.New(color.FgYellow).SprintFunc()
		emoji = "⚡"
	case score >= 50:
		scoreColor = color.New(color.FgHiYellow).SprintFunc()
		emoji = "⚠️"
	default:
		scoreColor = color.New(color.FgRed).SprintFunc()
		emoji = "🚨"
	}

	if useColors {
		scoreText := scoreColor(fmt.Sprintf("%d", score))
		report.WriteString(fmt.Sprintf("%s Migration Readiness: %s/100\n\n", emoji, scoreText))
	} else {
		report.WriteString(fmt.Sprintf("Migration Readiness: %d/100\n\n", score))
	}
}

func (g *Generator) writePatternsByType(report *strings.Builder, result *models.ProjectReport, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Patterns by Type:\n"))
	} else {
		report.WriteString("Patterns by Type:\n")
	}

	types := make([]string, 0, len(result.PatternsByType))
	for t := range result.PatternsByType {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		count := result.PatternsByType[t]
		if useColors {
			report.WriteString(fmt.Sprintf("   %s: %s\n", t, color.CyanString("%d", count)))
		} else {
			report.WriteString(fmt.Sprintf("   %s: %d\n", t, count))
		}
	}
}

func (g *Generator) writeAnalysisDetail(report *strings.Builder, analysis models.SourceAnalysis, useColors, showOccurrences bool) {
	name := analysis.File
	if name == "" {
		name = "(inline source)"
	}

	if useColors {
		report.WriteString(color.WhiteString("\n🔍 %s\n", name))
		report.WriteString(color.CyanString("   Dialect: %s   Complexity: %s (%.1f)   Approach: %s\n",
			analysis.Dialect, analysis.Complexity.Bucket, analysis.Complexity.Score, analysis.Strategy.Approach))
		report.WriteString(color.YellowString("   Effort: %.1f hours (%s confidence)\n",
			analysis.Effort.TotalHours, analysis.Effort.Confidence))
	} else {
		report.WriteString(fmt.Sprintf("\n%s\n", name))
		report.WriteString(fmt.Sprintf("   Dialect: %s   Complexity: %s (%.1f)   Approach: %s\n",
			analysis.Dialect, analysis.Complexity.Bucket, analysis.Complexity.Score, analysis.Strategy.Approach))
		report.WriteString(fmt.Sprintf("   Effort: %.1f hours (%s confidence)\n",
			analysis.Effort.TotalHours, analysis.Effort.Confidence))
	}

	for _, pattern := range analysis.Patterns {
		g.writePatternDetail(report, pattern, useColors, showOccurrences)
	}

	for _, risk := range analysis.Strategy.RiskFactors {
		if useColors {
			report.WriteString(color.RedString("   ⚠ %s\n", risk))
		} else {
			report.WriteString(fmt.Sprintf("   Risk: %s\n", risk))
		}
	}
}

func (g *Generator) writePatternDetail(report *strings.Builder, pattern models.DetectedPattern, useColors, showOccurrences bool) {
	emoji := complexityEmoji(pattern.Complexity)
	if useColors {
		report.WriteString(fmt.Sprintf("   %s %s: %s occurrences, confidence %s\n",
			emoji,
			color.WhiteString(string(pattern.Type)),
			color.CyanString("%d", len(pattern.Occurrences)),
			color.CyanString("%.2f", pattern.Confidence)))
	} else {
		report.WriteString(fmt.Sprintf("   %s: %d occurrences, confidence %.2f\n",
			pattern.Type, len(pattern.Occurrences), pattern.Confidence))
	}

	if !showOccurrences {
		return
	}

	for _, occ := range pattern.Occurrences {
		report.WriteString(fmt.Sprintf("      lines %d-%d", occ.LineStart+1, occ.LineEnd+1))
		if len(occ.Methods) > 0 {
			report.WriteString(fmt.Sprintf("  methods: %s", strings.Join(occ.Methods, ", ")))
		}
		report.WriteString("\n")
	}
}

func complexityEmoji(rating models.ComplexityRating) string {
	switch rating {
	case models.ComplexityComplex:
		return "🚨"
	case models.ComplexityModerate:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
