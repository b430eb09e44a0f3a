package procedure

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Step is a section whose title reads "N. Title".
type Step struct {
	Number int
	Title  string
	Body   string
}

var stepTitleRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

const noStepsMessage = "No numbered steps found in procedure."

// ExtractSteps returns the numbered sections of text sorted by step number.
// Numbers are not checked for gaps or duplicates; equal numbers keep section order.
func ExtractSteps(text string) []Step {
	return stepsFrom(ExtractSections(text))
}

func stepsFrom(sections []Section) []Step {
	var steps []Step
	for _, s := range sections {
		m := stepTitleRe.FindStringSubmatch(s.Title)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// out of int range
			continue
		}
		steps = append(steps, Step{
			Number: n,
			Title:  strings.TrimSpace(m[2]),
			Body:   s.Body,
		})
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Number < steps[j].Number
	})
	return steps
}

// FormatStep renders a step for display.
func FormatStep(number int, title, body string) string {
	return fmt.Sprintf("## Step %d: %s\n\n%s\n", number, title, body)
}

// Format renders the step with FormatStep.
func (s Step) Format() string {
	return FormatStep(s.Number, s.Title, s.Body)
}

func summarizeSteps(steps []Step) string {
	if len(steps) == 0 {
		return noStepsMessage
	}
	lines := make([]string, 0, len(steps)+1)
	lines = append(lines, "# Workflow Steps\n")
	for _, s := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s", s.Number, s.Title))
	}
	return strings.Join(lines, "\n")
}
