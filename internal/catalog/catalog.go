// Package catalog holds the immutable registry of pattern signatures the
// engine scans for. The catalog is built once at startup and never mutated
// during analysis, so it is safe to share across concurrent workers.
package catalog

import (
	"fmt"
	"regexp"

	"kvshift/internal/models"
)

// Signature is one catalog entry: a pattern type, its per-dialect regular
// expressions, contextual keywords that corroborate a match, and the
// migration knowledge attached to the pattern.
type Signature struct {
	Type            models.PatternType            `json:"type"`
	Expressions     map[models.Dialect][]string   `json:"expressions"`
	ContextKeywords []string                      `json:"context_keywords"`
	Complexity      models.ComplexityRating       `json:"complexity"`
	Requirements    []models.MigrationRequirement `json:"requirements"`
	Strategies      []models.ConversionStrategy   `json:"strategies"`
}

// Catalog is a read-only signature registry. Regular expressions are
// compiled once at construction.
type Catalog struct {
	ordered  []Signature
	byType   map[models.PatternType]Signature
	compiled map[models.PatternType]map[models.Dialect][]*regexp.Regexp
}

// New builds a catalog from the given signatures. A duplicate pattern type
// or a malformed expression is a programmer error and panics at startup
// rather than surfacing at analysis time.
func New(signatures ...Signature) *Catalog {
	c := &Catalog{
		ordered:  make([]Signature, 0, len(signatures)),
		byType:   make(map[models.PatternType]Signature, len(signatures)),
		compiled: make(map[models.PatternType]map[models.Dialect][]*regexp.Regexp, len(signatures)),
	}

	for _, sig := range signatures {
		if _, exists := c.byType[sig.Type]; exists {
			panic(fmt.Sprintf("catalog: pattern type registered twice: %s", sig.Type))
		}

		perDialect := make(map[models.Dialect][]*regexp.Regexp, len(sig.Expressions))
		for dialect, exprs := range sig.Expressions {
			compiled := make([]*regexp.Regexp, 0, len(exprs))
			for _, expr := range exprs {
				re, err := regexp.Compile(expr)
				if err != nil {
					panic(fmt.Sprintf("catalog: bad expression for %s/%s: %v", sig.Type, dialect, err))
				}
				compiled = append(compiled, re)
			}
			perDialect[dialect] = compiled
		}

		c.ordered = append(c.ordered, sig)
		c.byType[sig.Type] = sig
		c.compiled[sig.Type] = perDialect
	}

	return c
}

// Default returns the catalog of built-in signatures.
func Default() *Catalog {
	return New(builtinSignatures()...)
}

// Get looks up a signature by pattern type. An unknown type returns an
// explicit absent value, never an error.
func (c *Catalog) Get(t models.PatternType) (Signature, bool) {
	sig, ok := c.byType[t]
	return sig, ok
}

// All returns the signatures in registration order.
func (c *Catalog) All() []Signature {
	out := make([]Signature, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ExpressionsFor returns the compiled expressions for a pattern type under
// the given dialect. The result is empty when the pattern has no signature
// for that dialect.
func (c *Catalog) ExpressionsFor(t models.PatternType, d models.Dialect) []*regexp.Regexp {
	perDialect, ok := c.compiled[t]
	if !ok {
		return nil
	}
	return perDialect[d]
}

// Count returns the number of registered signatures.
func (c *Catalog) Count() int {
	return len(c.ordered)
}

// Types returns all registered pattern types in registration order.
func (c *Catalog) Types() []models.PatternType {
	types := make([]models.PatternType, len(c.ordered))
	for i, sig := range c.ordered {
		types[i] = sig.Type
	}
	return types
}
