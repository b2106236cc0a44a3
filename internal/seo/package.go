package seo

import (
	"errors"
	"strings"
)

var ErrMalformedPackage = errors.New("malformed package")

type HashtagScore struct {
	Tag    string  `json:"tag"`
	Score  float64 `json:"score"`
	Impact string  `json:"impact"`
}

type HashtagOptimization struct {
	LongTailHashtags      []string `json:"longTailHashtags"`
	NicheHashtags         []string `json:"nicheHashtags"`
	RedundancyReport      string   `json:"redundancyReport"`
	SuggestedReplacements []string `json:"suggestedReplacements"`
}

type BoostStrategy struct {
	BestUploadTime  string `json:"bestUploadTime"`
	ABTesting       string `json:"abTesting"`
	PinnedComment   string `json:"pinnedComment"`
	KeywordStrategy string `json:"keywordStrategy"`
	EngagementBait  string `json:"engagementBait"`
	ViralHack       string `json:"viralHack110"`
}

type Chapter struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
}

type RoadmapStep struct {
	Timeframe string `json:"timeframe"`
	Action    string `json:"action"`
}

type Insight struct {
	Trend  string `json:"trend"`
	Impact string `json:"impact"`
	Hack   string `json:"hack"`
}

// Source is a web citation returned by search-grounded generation.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Package is the full result of one generation. Treat it as read-only once
// returned; a new submission replaces it.
type Package struct {
	TitleEnglish string `json:"titleEnglish"`
	TitleNative  string `json:"titleNative"`

	DescriptionEnglish string `json:"descriptionEnglish"`
	DescriptionNative  string `json:"descriptionNative"`

	TagsEnglish []string `json:"tagsEnglish"`
	TagsNative  []string `json:"tagsNative"`

	HashtagsEnglish []string       `json:"hashtagsEnglish"`
	HashtagsNative  []string       `json:"hashtagsNative"`
	HashtagScores   []HashtagScore `json:"hashtagScores,omitempty"`

	HashtagOptimization *HashtagOptimization `json:"hashtagOptimization,omitempty"`

	ThumbnailTextEnglish []string `json:"thumbnailTextEnglish"`
	ThumbnailTextNative  []string `json:"thumbnailTextNative"`
	ThumbnailPrompt      string   `json:"thumbnailAIPrompt"`

	RetentionHooksEnglish []string `json:"retentionHooksEnglish,omitempty"`
	RetentionHooksNative  []string `json:"retentionHooksNative,omitempty"`

	Chapters []Chapter     `json:"videoChapters,omitempty"`
	Roadmap  []RoadmapStep `json:"launchRoadmap,omitempty"`
	Insights []Insight     `json:"dailyAlgoInsights,omitempty"`

	Strategy BoostStrategy `json:"algorithmBoostStrategy"`

	Sources []Source `json:"groundingSources,omitempty"`
}

// Validate checks the fields every package must carry.
func (p *Package) Validate() error {
	if p == nil {
		return ErrMalformedPackage
	}
	if strings.TrimSpace(p.TitleEnglish) == "" || strings.TrimSpace(p.DescriptionEnglish) == "" {
		return ErrMalformedPackage
	}
	return nil
}
