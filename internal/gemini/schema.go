package gemini

import "google.golang.org/genai"

func ptr[T any](v T) *T { return &v }

var (
	stringSchema     = &genai.Schema{Type: genai.TypeString}
	stringListSchema = &genai.Schema{Type: genai.TypeArray, Items: stringSchema}
)

var hashtagScoreSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tag":    stringSchema,
		"score":  {Type: genai.TypeNumber, Description: "Relevance score from 0 to 100"},
		"impact": stringSchema,
	},
	Required: []string{"tag", "score", "impact"},
}

var hashtagOptimizationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"longTailHashtags":      stringListSchema,
		"nicheHashtags":         stringListSchema,
		"redundancyReport":      stringSchema,
		"suggestedReplacements": stringListSchema,
	},
	Required: []string{"longTailHashtags", "nicheHashtags", "redundancyReport", "suggestedReplacements"},
}

var chapterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"timestamp": {Type: genai.TypeString, Description: "mm:ss"},
		"title":     stringSchema,
	},
	Required: []string{"timestamp", "title"},
}

var roadmapSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"timeframe": stringSchema,
		"action":    stringSchema,
	},
	Required: []string{"timeframe", "action"},
}

var insightSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"trend":  stringSchema,
		"impact": stringSchema,
		"hack":   stringSchema,
	},
	Required: []string{"trend", "impact", "hack"},
}

var boostStrategySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"bestUploadTime":  stringSchema,
		"abTesting":       stringSchema,
		"pinnedComment":   stringSchema,
		"keywordStrategy": stringSchema,
		"engagementBait":  stringSchema,
		"viralHack110":    {Type: genai.TypeString, Description: "How to maximise reach in the first 24 hours"},
	},
	Required: []string{"bestUploadTime", "abTesting", "pinnedComment", "keywordStrategy", "engagementBait", "viralHack110"},
}

var packageSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"titleEnglish":           stringSchema,
		"titleNative":            {Type: genai.TypeString, Description: "Title in the requested language"},
		"descriptionEnglish":     {Type: genai.TypeString, Description: "About 500 words of SEO optimized description in English"},
		"descriptionNative":      {Type: genai.TypeString, Description: "About 500 words of SEO optimized description in the requested language"},
		"tagsEnglish":            stringListSchema,
		"tagsNative":             stringListSchema,
		"hashtagsEnglish":        {Type: genai.TypeArray, Items: stringSchema, MinItems: ptr[int64](10)},
		"hashtagsNative":         {Type: genai.TypeArray, Items: stringSchema, MinItems: ptr[int64](10)},
		"hashtagScores":          {Type: genai.TypeArray, Items: hashtagScoreSchema},
		"hashtagOptimization":    hashtagOptimizationSchema,
		"thumbnailTextEnglish":   stringListSchema,
		"thumbnailTextNative":    stringListSchema,
		"thumbnailAIPrompt":      stringSchema,
		"retentionHooksEnglish":  stringListSchema,
		"retentionHooksNative":   stringListSchema,
		"videoChapters":          {Type: genai.TypeArray, Items: chapterSchema},
		"launchRoadmap":          {Type: genai.TypeArray, Items: roadmapSchema},
		"dailyAlgoInsights":      {Type: genai.TypeArray, Items: insightSchema},
		"algorithmBoostStrategy": boostStrategySchema,
	},
	Required: []string{
		"titleEnglish", "titleNative", "descriptionEnglish", "descriptionNative",
		"tagsEnglish", "tagsNative", "hashtagsEnglish", "hashtagsNative",
		"thumbnailTextEnglish", "thumbnailTextNative", "thumbnailAIPrompt",
		"algorithmBoostStrategy",
	},
}
