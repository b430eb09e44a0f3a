package procedure

import (
	"regexp"
	"strings"
)

// Section is a heading title and the text beneath it.
type Section struct {
	Title string
	Body  string
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// ExtractSections splits text into sections keyed by heading title, in order
// of first appearance. Heading depth is ignored and sections never nest.
// Text before the first heading belongs to no section.
//
// When a title repeats, the later body replaces the earlier one but the
// section keeps its original position.
func ExtractSections(text string) []Section {
	var sections []Section
	index := make(map[string]int)

	var (
		title string
		body  []string
	)
	flush := func() {
		if title == "" {
			return
		}
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if i, ok := index[title]; ok {
			sections[i].Body = content
			return
		}
		index[title] = len(sections)
		sections = append(sections, Section{Title: title, Body: content})
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			// A blank title closes the open section without starting a new one.
			title = strings.TrimSpace(m[2])
			body = body[:0]
			continue
		}
		if title != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}
