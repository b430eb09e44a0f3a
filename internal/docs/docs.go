package docs

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Topic holds a single documentation article.
type Topic struct {
	Name    string // short slug used as CLI argument
	Title   string // human-readable title
	Summary string // one-line description for topic listing
	Content string // full article text (plain text or markdown, no ANSI)
}

// All returns every topic in display order.
func All() []Topic {
	return topics
}

// Get looks up a topic by name. Returns an error with a hint if not found,
// naming the closest topic when name is an abbreviation of one.
func Get(name string) (Topic, error) {
	names := make([]string, len(topics))
	for i, t := range topics {
		if t.Name == name {
			return t, nil
		}
		names[i] = t.Name
	}
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return Topic{}, fmt.Errorf("unknown topic %q (did you mean %q?): run 'engmgr docs' to list available topics",
			name, ranks[0].Target)
	}
	return Topic{}, fmt.Errorf("unknown topic %q: run 'engmgr docs' to list available topics", name)
}

// Templates returns the template variable guide served as the
// engmanager://templates resource.
func Templates() string {
	return topicTemplates
}
