package procedure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections_Empty(t *testing.T) {
	assert.Empty(t, ExtractSections(""))
}

func TestExtractSections_NoHeadings(t *testing.T) {
	text := "just some text\n\nwith #hashtags and\n#nospace headings\n"
	assert.Empty(t, ExtractSections(text))
}

func TestExtractSections_Basic(t *testing.T) {
	text := "preamble is dropped\n# Title\n\nIntro.\n\n## Setup\n\nInstall things.\nThen more.\n\n### Deep\ntail\n"
	sections := ExtractSections(text)

	require.Len(t, sections, 3)
	assert.Equal(t, Section{Title: "Title", Body: "Intro."}, sections[0])
	assert.Equal(t, Section{Title: "Setup", Body: "Install things.\nThen more."}, sections[1])
	assert.Equal(t, Section{Title: "Deep", Body: "tail"}, sections[2])
}

func TestExtractSections_ConsecutiveHeadings(t *testing.T) {
	sections := ExtractSections("# A\n# B\nbody\n")
	require.Len(t, sections, 2)
	assert.Equal(t, "", sections[0].Body)
	assert.Equal(t, "body", sections[1].Body)
}

func TestExtractSections_HeadingLevels(t *testing.T) {
	text := "###### Six\nok\n####### Seven\nnot a heading\n#\tTab\nx"
	sections := ExtractSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "Six", sections[0].Title)
	assert.Equal(t, "ok\n####### Seven\nnot a heading", sections[0].Body)
	assert.Equal(t, "Tab", sections[1].Title)
}

func TestExtractSections_TitleTrimmed(t *testing.T) {
	sections := ExtractSections("##   Spaced Title   \r\nbody\r\n")
	require.Len(t, sections, 1)
	assert.Equal(t, "Spaced Title", sections[0].Title)
	assert.Equal(t, "body", sections[0].Body)
}

func TestExtractSections_DuplicateTitleLastWins(t *testing.T) {
	text := "# Notes\nfirst\n# Other\nmiddle\n# Notes\nsecond\n"
	sections := ExtractSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, Section{Title: "Notes", Body: "second"}, sections[0])
	assert.Equal(t, Section{Title: "Other", Body: "middle"}, sections[1])
}

func TestExtractSections_BlankTitleClosesSection(t *testing.T) {
	text := "# A\nkept\n#    \ndropped\n# B\nalso kept\n"
	sections := ExtractSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "kept", sections[0].Body)
	assert.Equal(t, "also kept", sections[1].Body)
}

func TestExtractSections_BodiesReconstructContent(t *testing.T) {
	text := "intro\n# One\nline a\nline b\n## Two\nline c\n# Three\nline d\nline e"
	var got []string
	for _, s := range ExtractSections(text) {
		got = append(got, strings.Split(s.Body, "\n")...)
	}
	assert.Equal(t, []string{"line a", "line b", "line c", "line d", "line e"}, got)
}
