package seo

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultLanguage      = "Roman Sindhi"
	DefaultChannelName   = "Sindh TV News"
	DefaultTargetCountry = "Pakistan"
	DefaultUploadTime    = "7:30 PM"
)

// Form field names, shared by the web form and the terminal prompts.
const (
	FieldTopic         = "topic"
	FieldLanguage      = "language"
	FieldChannelName   = "channel_name"
	FieldTargetCountry = "target_country"
	FieldVideoType     = "video_type"
	FieldUploadTime    = "upload_time"
	FieldShortsMode    = "shorts_mode"
)

// FormState holds the request being edited. It is not safe for concurrent
// use; callers serialize access.
type FormState struct {
	req         Request
	defaultType VideoType
}

func NewFormState(defaults Request) *FormState {
	if defaults.Language == "" {
		defaults.Language = DefaultLanguage
	}
	if defaults.ChannelName == "" {
		defaults.ChannelName = DefaultChannelName
	}
	if defaults.TargetCountry == "" {
		defaults.TargetCountry = DefaultTargetCountry
	}
	if defaults.UploadTime == "" {
		defaults.UploadTime = DefaultUploadTime
	}
	if defaults.VideoType == "" || defaults.VideoType == VideoTypeShorts {
		defaults.VideoType = DefaultVideoType
	}
	defaultType := defaults.VideoType
	shorts := defaults.ShortsMode
	defaults.ShortsMode = false

	f := &FormState{req: defaults, defaultType: defaultType}
	if shorts {
		f.SetShortsMode(true)
	}
	return f
}

func (f *FormState) Request() Request {
	return f.req
}

// Set updates one field by its form name.
func (f *FormState) Set(field, value string) error {
	switch field {
	case FieldTopic:
		f.req.Topic = value
	case FieldLanguage:
		f.req.Language = value
	case FieldChannelName:
		f.req.ChannelName = value
	case FieldTargetCountry:
		f.req.TargetCountry = value
	case FieldUploadTime:
		f.req.UploadTime = value
	case FieldVideoType:
		vt, err := ParseVideoType(value)
		if err != nil {
			return err
		}
		f.SetVideoType(vt)
	case FieldShortsMode:
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("parse shorts mode: %w", err)
		}
		f.SetShortsMode(enabled)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// SetVideoType changes the selected type. Picking Shorts from the list
// behaves like the toggle.
func (f *FormState) SetVideoType(vt VideoType) {
	if vt == VideoTypeShorts {
		f.SetShortsMode(true)
		return
	}
	f.req.ShortsMode = false
	f.req.VideoType = vt
}

// SetShortsMode switches shorts on or off. Switching off always goes back
// to the configured default type.
func (f *FormState) SetShortsMode(enabled bool) {
	if enabled == f.req.ShortsMode {
		return
	}
	f.req.ShortsMode = enabled
	if enabled {
		f.req.VideoType = VideoTypeShorts
		return
	}
	f.req.VideoType = f.defaultType
}

func (f *FormState) ToggleShorts() {
	f.SetShortsMode(!f.req.ShortsMode)
}
