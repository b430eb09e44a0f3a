package procedure

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gatesDoc = `# Workflow

Overview for {PROJECT_NAME}.

## Quality Gates

Run gate checks before merging.

## 1. Branch

git checkout -b feature/{ISSUE_NUMBER}

## Error Recovery

Roll back and retry.
`

func TestDocument_Section(t *testing.T) {
	doc := New(gatesDoc, nil)

	body, ok := doc.Section("Error Recovery")
	require.True(t, ok)
	assert.Equal(t, "Roll back and retry.", body)

	_, ok = doc.Section("error recovery")
	assert.False(t, ok, "lookup is exact")
}

func TestDocument_FindSections(t *testing.T) {
	doc := New(gatesDoc, nil)

	lower := doc.FindSections("gate")
	require.Len(t, lower, 1)
	assert.Equal(t, "Quality Gates", lower[0].Title)

	upper := doc.FindSections("GATE")
	assert.Equal(t, lower, upper)

	body := doc.FindSections("roll back")
	require.Len(t, body, 1)
	assert.Equal(t, "Error Recovery", body[0].Title)

	assert.Empty(t, doc.FindSections("deploy"))
	assert.Len(t, doc.FindSections(""), 4)
}

func TestDocument_Substitute(t *testing.T) {
	doc := New(gatesDoc, Vars{{Name: "PROJECT_NAME", Value: "trowel"}})

	_, err := doc.Substitute()
	require.Error(t, err)
	assert.Equal(t, []string{"ISSUE_NUMBER"}, doc.MissingVariables())
	assert.Equal(t, []string{"ISSUE_NUMBER", "PROJECT_NAME"}, doc.Placeholders())

	doc = New(gatesDoc, Vars{
		{Name: "PROJECT_NAME", Value: "trowel"},
		{Name: "ISSUE_NUMBER", Value: 42},
	})
	out, err := doc.Substitute()
	require.NoError(t, err)
	assert.Contains(t, out, "Overview for trowel.")
	assert.Contains(t, out, "feature/42")
	assert.Equal(t, gatesDoc, doc.Text())
}

func TestDocument_ReturnsCopies(t *testing.T) {
	vars := Vars{{Name: "A", Value: "1"}}
	doc := New("# 1. One\nbody {A}\n", vars)

	vars[0].Value = "changed"
	got, err := doc.Substitute()
	require.NoError(t, err)
	assert.Equal(t, "# 1. One\nbody 1\n", got)

	sections := doc.Sections()
	sections[0].Body = "mutated"
	steps := doc.Steps()
	steps[0].Title = "mutated"

	body, _ := doc.Section("1. One")
	assert.Equal(t, "body {A}", body)
	step, _ := doc.Step(1)
	assert.Equal(t, "One", step.Title)
}

func TestDocument_ConcurrentReads(t *testing.T) {
	doc := New(twoStepDoc, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = doc.NextStep(1)
			_ = doc.StepsSummary()
			_ = doc.FindSections("step")
		}()
	}
	wg.Wait()
}
