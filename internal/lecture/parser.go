// Package lecture derives display metadata from raw lecture markdown.
package lecture

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/lectern/internal/domain"
)

// titleLine matches a level-one heading: a single '#' followed by spaces or tabs.
var titleLine = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)

// Title returns the text of the first non-blank level-one heading in content,
// or id when the content has none.
func Title(content, id string) string {
	for _, m := range titleLine.FindAllStringSubmatch(content, -1) {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return id
}

// Order parses the leading digit run of id. Identifiers without one sort as 0.
func Order(id string) int {
	end := 0
	for end < len(id) && id[end] >= '0' && id[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(id[:end])
	if err != nil {
		return 0
	}
	return n
}

// Parse builds a Lecture from raw text. Content passes through untouched.
func Parse(content, id string) domain.Lecture {
	return domain.Lecture{
		ID:      id,
		Title:   Title(content, id),
		Content: content,
		Order:   Order(id),
	}
}

// Metadata builds the listing projection of a lecture.
func Metadata(id, content string) domain.LectureMetadata {
	return domain.LectureMetadata{
		ID:    id,
		Title: Title(content, id),
		Order: Order(id),
	}
}

// SortByOrder sorts lectures by their order key, keeping configuration order for ties.
func SortByOrder(lectures []domain.LectureMetadata) {
	sort.SliceStable(lectures, func(i, j int) bool {
		return lectures[i].Order < lectures[j].Order
	})
}
