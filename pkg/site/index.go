package site

import (
	"sort"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

const indexRowFormat = "<li><a href='{{link}}'>{{title}}</a>" +
	"<span class='post-date' style='color:#666; font-size:0.9rem; margin-left:15px;'>{{date}}</span></li>\n"

// SortEntries orders entries newest first by lexicographic date.
// Entries sharing a date keep their discovery order.
func SortEntries(entries []core.IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// RenderList renders the article list that replaces {{article_list}}.
func RenderList(entries []core.IndexEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(strings.NewReplacer(
			"{{link}}", e.Link,
			"{{title}}", e.Title,
			"{{date}}", e.Date,
		).Replace(indexRowFormat))
	}
	return sb.String()
}
