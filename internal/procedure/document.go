// Package procedure models a markdown procedure document: its heading
// sections, its numbered steps and its {NAME} template placeholders.
//
// A Document is built once from text and variables and is read-only after
// that, so independent Documents can be used from any number of goroutines.
package procedure

import (
	"math"
	"strings"
)

// Document is an immutable procedure text together with its variables.
type Document struct {
	text     string
	vars     Vars
	sections []Section
	index    map[string]int
	steps    []Step
}

// New parses text into a Document. vars are kept for Substitute.
func New(text string, vars Vars) *Document {
	sections := ExtractSections(text)
	index := make(map[string]int, len(sections))
	for i, s := range sections {
		index[s.Title] = i
	}
	return &Document{
		text:     text,
		vars:     vars.clone(),
		sections: sections,
		index:    index,
		steps:    stepsFrom(sections),
	}
}

// Text returns the raw document text.
func (d *Document) Text() string { return d.text }

// Vars returns a copy of the document variables.
func (d *Document) Vars() Vars { return d.vars.clone() }

// Substitute returns the document text with every placeholder resolved.
func (d *Document) Substitute() (string, error) {
	return Substitute(d.text, d.vars)
}

// Placeholders returns the distinct placeholder names in the document.
func (d *Document) Placeholders() []string {
	return Placeholders(d.text)
}

// MissingVariables returns placeholder names the document variables do not define.
func (d *Document) MissingVariables() []string {
	return MissingVariables(d.text, d.vars)
}

// Sections returns a copy of the sections in document order.
func (d *Document) Sections() []Section {
	return append([]Section(nil), d.sections...)
}

// Section returns the body of the section with exactly this title.
func (d *Document) Section(title string) (string, bool) {
	i, ok := d.index[title]
	if !ok {
		return "", false
	}
	return d.sections[i].Body, true
}

// FindSections returns every section whose title or body contains keyword,
// ignoring case, in document order.
func (d *Document) FindSections(keyword string) []Section {
	kw := strings.ToLower(keyword)
	var matches []Section
	for _, s := range d.sections {
		if strings.Contains(strings.ToLower(s.Title), kw) || strings.Contains(strings.ToLower(s.Body), kw) {
			matches = append(matches, s)
		}
	}
	return matches
}

// Steps returns a copy of the numbered steps, sorted by number.
func (d *Document) Steps() []Step {
	return append([]Step(nil), d.steps...)
}

// Step returns the first step numbered n.
func (d *Document) Step(n int) (Step, bool) {
	for _, s := range d.steps {
		if s.Number == n {
			return s, true
		}
	}
	return Step{}, false
}

// NextStep returns the step numbered current+1. A gap in numbering ends
// the walk even when higher numbers exist.
func (d *Document) NextStep(current int) (Step, bool) {
	if current == math.MaxInt {
		return Step{}, false
	}
	return d.Step(current + 1)
}

// StepsSummary lists every step as "N. Title" under a heading.
func (d *Document) StepsSummary() string {
	return summarizeSteps(d.steps)
}
