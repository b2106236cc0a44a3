package seo

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingFields = errors.New("missing required fields")

type VideoType string

const (
	VideoTypeEducation VideoType = "Education"
	VideoTypeVlog      VideoType = "Vlog"
	VideoTypeTech      VideoType = "Tech"
	VideoTypeNews      VideoType = "News"
	VideoTypeShorts    VideoType = "Shorts"
	VideoTypeAI        VideoType = "AI"
	VideoTypeFinance   VideoType = "Finance"
	VideoTypeGaming    VideoType = "Gaming"
	VideoTypeSports    VideoType = "Sports"
)

const DefaultVideoType = VideoTypeNews

var videoTypes = []VideoType{
	VideoTypeEducation,
	VideoTypeVlog,
	VideoTypeTech,
	VideoTypeNews,
	VideoTypeShorts,
	VideoTypeAI,
	VideoTypeFinance,
	VideoTypeGaming,
	VideoTypeSports,
}

// VideoTypes returns the selectable video types in form order.
func VideoTypes() []VideoType {
	out := make([]VideoType, len(videoTypes))
	copy(out, videoTypes)
	return out
}

func ParseVideoType(s string) (VideoType, error) {
	s = strings.TrimSpace(s)
	for _, vt := range videoTypes {
		if strings.EqualFold(string(vt), s) {
			return vt, nil
		}
	}
	return "", fmt.Errorf("unknown video type %q", s)
}

// Request carries the parameters of one generation.
type Request struct {
	Topic         string    `json:"topic"`
	Language      string    `json:"language"`
	ChannelName   string    `json:"channel_name"`
	TargetCountry string    `json:"target_country"`
	VideoType     VideoType `json:"video_type"`
	UploadTime    string    `json:"upload_time"`
	ShortsMode    bool      `json:"shorts_mode"`
}

// Validate reports every empty required field at once.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Topic) == "" {
		missing = append(missing, "topic")
	}
	if strings.TrimSpace(r.Language) == "" {
		missing = append(missing, "language")
	}
	if strings.TrimSpace(r.ChannelName) == "" {
		missing = append(missing, "channel name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// EffectiveVideoType resolves the type sent to the model. Shorts mode wins
// over whatever the select holds.
func (r Request) EffectiveVideoType() VideoType {
	if r.ShortsMode {
		return VideoTypeShorts
	}
	if r.VideoType == "" {
		return DefaultVideoType
	}
	return r.VideoType
}
