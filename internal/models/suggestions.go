package models

import "strings"

// Quick-add values offered next to the editable lists
var (
	KeyPointSuggestions = []string{
		"Practical examples", "Exercises", "Case studies", "Chapter summaries", "Checklists", "Quotes",
	}
	AvoidSuggestions = []string{
		"Technical jargon", "Offensive content", "Protected names", "Outdated information", "Unrealistic promises",
	}
	RecurringElementSuggestions = []string{
		"Headers", "Page numbers", "Boxes", "Section dividers", "Footnotes", "Index",
	}
	ImageTagSuggestions = []string{
		"Style", "Colors", "Layout", "Typography", "Illustration",
	}
)

// AppendUnique trims value and appends it unless it is blank or already
// present. Lists may still hold duplicates added by other means; this only
// keeps a quick-add from repeating itself.
func AppendUnique(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// RemoveAt drops the element at index i. Out of range indexes are ignored.
func RemoveAt[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
