package present

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tubeexpert/internal/seo"
)

const noneDetected = "None detected"

// Path separators and dot runs would make the name unsafe to store.
var unsafeFilenameRun = regexp.MustCompile(`(?:[\s/\\]|\.{2,})+`)

// Meta describes the request a package was generated for.
type Meta struct {
	ChannelName string
	VideoType   seo.VideoType
	Language    string
	Generated   time.Time
}

// MetaFor builds report metadata from the submitted request.
func MetaFor(req seo.Request, generated time.Time) Meta {
	return Meta{
		ChannelName: strings.TrimSpace(req.ChannelName),
		VideoType:   req.EffectiveVideoType(),
		Language:    strings.TrimSpace(req.Language),
		Generated:   generated,
	}
}

// ReportFilename names the downloadable report after the channel and date.
func ReportFilename(channel string, date time.Time) string {
	name := strings.Trim(unsafeFilenameRun.ReplaceAllString(channel, "_"), "_")
	return fmt.Sprintf("SEO_Report_%s_%s.txt", name, date.Format("2006-01-02"))
}

// Report renders the plain-text strategy report. Every section header is
// always present.
func Report(pkg *seo.Package, meta Meta) (string, error) {
	if pkg == nil {
		return "", ErrNoResult
	}

	lang := strings.ToUpper(languageLabel(meta.Language))
	var b strings.Builder

	b.WriteString("TUBEEXPERT PRO - SEO STRATEGY REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", meta.Generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target: %s | %s\n", meta.ChannelName, meta.VideoType)
	b.WriteString(strings.Repeat("-", 59) + "\n")

	section(&b, "TITLES",
		"ENG: "+orNone(pkg.TitleEnglish),
		lang+": "+orNone(pkg.TitleNative))
	section(&b, "DESCRIPTION (ENGLISH)", orNone(pkg.DescriptionEnglish))
	section(&b, "DESCRIPTION ("+lang+")", orNone(pkg.DescriptionNative))
	section(&b, "TAGS & KEYWORDS",
		"ENG: "+orNone(strings.Join(pkg.TagsEnglish, ", ")),
		lang+": "+orNone(strings.Join(pkg.TagsNative, ", ")))
	section(&b, "HASHTAGS",
		"ENG: "+orNone(strings.Join(pkg.HashtagsEnglish, " ")),
		lang+": "+orNone(strings.Join(pkg.HashtagsNative, " ")))
	section(&b, "RETENTION STRATEGY", orNone(pkg.Strategy.ViralHack))
	section(&b, "LAUNCH ROADMAP", orNone(roadmapLines(pkg.Roadmap)))
	section(&b, "CHAPTERS", orNone(chapterLines(pkg.Chapters)))
	section(&b, "GROUNDING SOURCES", orNone(sourceLines(pkg.Sources)))

	b.WriteString("\nGenerated via TubeExpert AI Matrix.\n")
	return b.String(), nil
}

// Essentials is the short block copied by the "copy essentials" action.
func Essentials(pkg *seo.Package, language string) (string, error) {
	if pkg == nil {
		return "", ErrNoResult
	}

	var b strings.Builder
	b.WriteString("TITLES:\n")
	fmt.Fprintf(&b, "- EN: %s\n", pkg.TitleEnglish)
	fmt.Fprintf(&b, "- %s: %s\n", LanguageCode(language), pkg.TitleNative)
	b.WriteString("\nDESCRIPTION (EN):\n")
	b.WriteString(pkg.DescriptionEnglish)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "TAGS: %s\n", strings.Join(pkg.TagsEnglish, ", "))
	fmt.Fprintf(&b, "HASHTAGS: %s", strings.Join(pkg.HashtagsEnglish, " "))
	return b.String(), nil
}

func section(b *strings.Builder, header string, lines ...string) {
	fmt.Fprintf(b, "\n[ %s ]\n", header)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noneDetected
	}
	return s
}
