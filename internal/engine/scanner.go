package engine

import (
	"regexp"
	"strings"

	"kvshift/internal/catalog"
	"kvshift/internal/config"
	"kvshift/internal/models"
)

// Secondary expressions applied to context windows to extract occurrence
// metadata. These are dialect-independent.
var (
	methodCallRe  = regexp.MustCompile(`\.([A-Za-z_$][\w$]*)\s*\(`)
	declaredVarRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	requireRe     = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	importFromRe  = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)

	asyncContextRe = regexp.MustCompile(`\b(?:async|await)\b`)
	errorContextRe = regexp.MustCompile(`\b(?:try|catch|finally)\b|\.catch\s*\(`)
	loopContextRe  = regexp.MustCompile(`\b(?:for|while|do)\b|\.forEach\s*\(|\.map\s*\(`)
	condContextRe  = regexp.MustCompile(`\b(?:if|else|switch)\b|\?\s*.+\s*:`)
)

// Scanner walks source text line-by-line against the catalog's signatures
// for one dialect and extracts bounded context windows for every match.
// Scanning is a pure function of its inputs; a Scanner is safe for
// concurrent use.
type Scanner struct {
	catalog *catalog.Catalog
	window  int
}

func NewScanner(cat *catalog.Catalog, cfg *config.Config) *Scanner {
	return &Scanner{
		catalog: cat,
		window:  cfg.Analysis.ContextWindow,
	}
}

// ScanResult groups the occurrences of one scan by pattern type, in catalog
// registration order, together with the line counts the assessor needs.
type ScanResult struct {
	Dialect       models.Dialect
	TotalLines    int
	RelevantLines int
	Occurrences   map[models.PatternType][]models.PatternOccurrence
}

// Scan locates every signature occurrence in the source text. Multiple
// expression matches on the same line for the same pattern type produce at
// most one occurrence (first match wins). Empty source text yields no
// occurrences for any pattern.
func (s *Scanner) Scan(sourceText string, dialect models.Dialect) ScanResult {
	result := ScanResult{
		Dialect:     dialect,
		Occurrences: make(map[models.PatternType][]models.PatternOccurrence),
	}

	if sourceText == "" {
		return result
	}

	lines := strings.Split(sourceText, "\n")
	result.TotalLines = len(lines)
	relevant := make(map[int]struct{})

	for _, sig := range s.catalog.All() {
		expressions := s.catalog.ExpressionsFor(sig.Type, dialect)
		if len(expressions) == 0 {
			continue
		}

		for i, line := range lines {
			matched := false
			for _, re := range expressions {
				if re.MatchString(line) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			relevant[i] = struct{}{}
			occurrence := s.buildOccurrence(lines, i)
			result.Occurrences[sig.Type] = append(result.Occurrences[sig.Type], occurrence)
		}
	}

	result.RelevantLines = len(relevant)
	return result
}

// buildOccurrence captures the context window around a matched line and
// derives occurrence metadata from it.
func (s *Scanner) buildOccurrence(lines []string, matchLine int) models.PatternOccurrence {
	start := max(matchLine-s.window, 0)
	end := min(matchLine+s.window, len(lines)-1)
	snippet := strings.Join(lines[start:end+1], "\n")

	return models.PatternOccurrence{
		LineStart: start,
		LineEnd:   end,
		Snippet:   snippet,
		Methods:   extractGroups(methodCallRe, snippet),
		Variables: extractGroups(declaredVarRe, snippet),
		Imports:   append(extractGroups(requireRe, snippet), extractGroups(importFromRe, snippet)...),
		Context: models.ContextFlags{
			Async:         asyncContextRe.MatchString(snippet),
			ErrorHandling: errorContextRe.MatchString(snippet),
			Loop:          loopContextRe.MatchString(snippet),
			Conditional:   condContextRe.MatchString(snippet),
		},
	}
}

// extractGroups returns the first capture group of every match, deduplicated
// in order of first appearance.
func extractGroups(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}
