package present

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"tubeexpert/internal/seo"
)

var ErrNoResult = errors.New("no generated package")

type Tab string

const (
	TabMetadata Tab = "metadata"
	TabContent  Tab = "content"
	TabStrategy Tab = "strategy"
	TabVisuals  Tab = "visuals"
)

var tabs = []Tab{TabMetadata, TabContent, TabStrategy, TabVisuals}

func Tabs() []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Card is one titled block of a result tab. List cards hold Items, text
// cards hold Text.
type Card struct {
	Title string
	Text  string
	Items []string
	List  bool
	// Separator is used for display only.
	Separator string
}

// CopyText returns what the copy action puts on the clipboard. Lists whose
// title mentions tags are comma separated, other lists are space separated.
func (c Card) CopyText() string {
	if !c.List {
		return c.Text
	}
	if strings.Contains(strings.ToLower(c.Title), "tag") {
		return strings.Join(c.Items, ", ")
	}
	return strings.Join(c.Items, " ")
}

// DisplayText is the card body as shown on screen.
func (c Card) DisplayText() string {
	if !c.List {
		return c.Text
	}
	if c.Separator == "" {
		return c.CopyText()
	}
	return strings.Join(c.Items, c.Separator)
}

func textCard(title, text string) Card {
	return Card{Title: title, Text: text}
}

func listCard(title string, items []string) Card {
	return Card{Title: title, Items: items, List: true}
}

// Cards partitions pkg into the cards of one tab. language labels the
// native-language cards.
func Cards(pkg *seo.Package, tab Tab, language string) []Card {
	if pkg == nil {
		return nil
	}
	lang := languageLabel(language)
	abbr := LanguageCode(language)

	switch tab {
	case TabMetadata:
		cards := []Card{
			textCard("English Title", pkg.TitleEnglish),
			textCard(lang+" Title", pkg.TitleNative),
			listCard("Primary Tags (EN)", pkg.TagsEnglish),
			listCard(fmt.Sprintf("Primary Tags (%s)", abbr), pkg.TagsNative),
			listCard("Viral Hashtags (EN)", pkg.HashtagsEnglish),
			listCard(fmt.Sprintf("Viral Hashtags (%s)", abbr), pkg.HashtagsNative),
		}
		if len(pkg.HashtagScores) > 0 {
			lines := make([]string, 0, len(pkg.HashtagScores))
			for _, s := range pkg.HashtagScores {
				lines = append(lines, fmt.Sprintf("%s  %.0f  %s", s.Tag, s.Score, s.Impact))
			}
			cards = append(cards, textCard("Hashtag Scores", strings.Join(lines, "\n")))
		}
		if o := pkg.HashtagOptimization; o != nil {
			cards = append(cards,
				listCard("Long-Tail Hashtags", o.LongTailHashtags),
				listCard("Niche Hashtags", o.NicheHashtags),
				listCard("Suggested Hashtag Replacements", o.SuggestedReplacements),
				textCard("Redundancy Report", o.RedundancyReport),
			)
		}
		return cards

	case TabContent:
		hooksEN := listCard("English Hooks", quoted(pkg.RetentionHooksEnglish))
		hooksEN.Separator = "\n"
		hooksNative := listCard(lang+" Hooks", quoted(pkg.RetentionHooksNative))
		hooksNative.Separator = "\n"
		return []Card{
			textCard("Full English Description", pkg.DescriptionEnglish),
			textCard(lang+" Description", pkg.DescriptionNative),
			hooksEN,
			hooksNative,
			textCard("Strategic Chapters", chapterLines(pkg.Chapters)),
		}

	case TabStrategy:
		var cards []Card
		for _, in := range pkg.Insights {
			cards = append(cards, textCard(in.Trend, fmt.Sprintf("%s\nHACK: %s", in.Impact, in.Hack)))
		}
		s := pkg.Strategy
		cards = append(cards,
			textCard("Viral Launch Timeline", roadmapLines(pkg.Roadmap)),
			textCard("Best Upload Time", s.BestUploadTime),
			textCard("A/B Testing", s.ABTesting),
			textCard("Pinned Comment", s.PinnedComment),
			textCard("Keyword Strategy", s.KeywordStrategy),
			textCard("Engagement Bait", s.EngagementBait),
			textCard("First 24 Hours", s.ViralHack),
		)
		if len(pkg.Sources) > 0 {
			cards = append(cards, textCard("Grounding Sources", sourceLines(pkg.Sources)))
		}
		return cards

	case TabVisuals:
		en := listCard("English Hook Text", pkg.ThumbnailTextEnglish)
		en.Separator = " / "
		native := listCard(lang+" Text", pkg.ThumbnailTextNative)
		native.Separator = " / "
		return []Card{
			en,
			native,
			textCard("Thumbnail Prompt", pkg.ThumbnailPrompt),
		}
	}
	return nil
}

// FindCard looks a card up by case-insensitive title across all tabs.
func FindCard(pkg *seo.Package, language, title string) (Card, bool) {
	for _, tab := range tabs {
		for _, c := range Cards(pkg, tab, language) {
			if strings.EqualFold(c.Title, strings.TrimSpace(title)) {
				return c, true
			}
		}
	}
	return Card{}, false
}

// LanguageCode abbreviates a language name for labels: initials for
// multi-word names, otherwise the first two letters.
func LanguageCode(language string) string {
	words := strings.Fields(language)
	switch len(words) {
	case 0:
		return "NATIVE"
	case 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}

	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}

func languageLabel(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return "Native"
	}
	return language
}

func quoted(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = `"` + s + `"`
	}
	return out
}

func chapterLines(chapters []seo.Chapter) string {
	lines := make([]string, 0, len(chapters))
	for _, c := range chapters {
		lines = append(lines, c.Timestamp+" "+c.Title)
	}
	return strings.Join(lines, "\n")
}

func roadmapLines(steps []seo.RoadmapStep) string {
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		lines = append(lines, s.Timeframe+": "+s.Action)
	}
	return strings.Join(lines, "\n")
}

func sourceLines(sources []seo.Source) string {
	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		lines = append(lines, s.Title+" - "+s.URI)
	}
	return strings.Join(lines, "\n")
}
