package youtube

import (
	"strings"
	"unicode/utf8"

	"tubeexpert/internal/seo"
)

const (
	maxTitleRunes       = 100
	maxDescriptionBytes = 5000
	maxTagChars         = 500
)

// Metadata is what ApplyMetadata writes to a video snippet.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
}

// MetadataFromPackage picks the English title and description, appends the
// hashtags YouTube surfaces above the title, and fits both tag lists into
// the tag budget.
func MetadataFromPackage(pkg *seo.Package) Metadata {
	desc := strings.TrimSpace(pkg.DescriptionEnglish)
	if tags := strings.Join(pkg.HashtagsEnglish, " "); tags != "" && !strings.Contains(desc, pkg.HashtagsEnglish[0]) {
		desc += "\n\n" + tags
	}

	tags := make([]string, 0, len(pkg.TagsEnglish)+len(pkg.TagsNative))
	tags = append(tags, pkg.TagsEnglish...)
	tags = append(tags, pkg.TagsNative...)

	return Metadata{
		Title:       truncateRunes(strings.TrimSpace(pkg.TitleEnglish), maxTitleRunes),
		Description: truncateBytes(desc, maxDescriptionBytes),
		Tags:        FitTags(tags, maxTagChars),
	}
}

// FitTags drops duplicates and leading '#' and keeps tags in order while
// they fit budget. YouTube counts the comma between tags and wraps tags
// containing spaces in quotes.
func FitTags(tags []string, budget int) []string {
	seen := make(map[string]bool)
	var out []string
	used := 0
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "#"))
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}

		cost := utf8.RuneCountInString(t)
		if strings.Contains(t, " ") {
			cost += 2
		}
		if len(out) > 0 {
			cost++
		}
		if used+cost > budget {
			continue
		}

		seen[key] = true
		used += cost
		out = append(out, t)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
