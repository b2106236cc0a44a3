package seo

import (
	"errors"
	"strings"
	"testing"
)

func validRequest() Request {
	return Request{
		Topic:       "Indus river floods",
		Language:    "Roman Sindhi",
		ChannelName: "Sindh TV News",
		VideoType:   VideoTypeNews,
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(r *Request)
		wantErr     bool
		wantMissing []string
	}{
		{
			name:   "complete",
			modify: func(r *Request) {},
		},
		{
			name:        "emptyTopic",
			modify:      func(r *Request) { r.Topic = "" },
			wantErr:     true,
			wantMissing: []string{"topic"},
		},
		{
			name:        "whitespaceChannel",
			modify:      func(r *Request) { r.ChannelName = "   " },
			wantErr:     true,
			wantMissing: []string{"channel name"},
		},
		{
			name: "allRequiredMissing",
			modify: func(r *Request) {
				r.Topic = ""
				r.Language = ""
				r.ChannelName = ""
			},
			wantErr:     true,
			wantMissing: []string{"topic", "language", "channel name"},
		},
		{
			name: "optionalFieldsEmpty",
			modify: func(r *Request) {
				r.TargetCountry = ""
				r.UploadTime = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)

			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("Validate() error = %v, want ErrMissingFields", err)
			}
			for _, field := range tt.wantMissing {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("Validate() error = %q, want mention of %q", err, field)
				}
			}
		})
	}
}

func TestParseVideoType(t *testing.T) {
	tests := []struct {
		in      string
		want    VideoType
		wantErr bool
	}{
		{in: "News", want: VideoTypeNews},
		{in: "shorts", want: VideoTypeShorts},
		{in: " ai ", want: VideoTypeAI},
		{in: "podcast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVideoType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVideoType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVideoType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVideoTypesReturnsCopy(t *testing.T) {
	types := VideoTypes()
	types[0] = "mutated"
	if VideoTypes()[0] != VideoTypeEducation {
		t.Error("VideoTypes() exposed internal slice")
	}
}

func TestFormStateDefaults(t *testing.T) {
	f := NewFormState(Request{})
	req := f.Request()

	if req.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", req.Language, DefaultLanguage)
	}
	if req.ChannelName != DefaultChannelName {
		t.Errorf("ChannelName = %q, want %q", req.ChannelName, DefaultChannelName)
	}
	if req.VideoType != DefaultVideoType {
		t.Errorf("VideoType = %q, want %q", req.VideoType, DefaultVideoType)
	}
	if req.ShortsMode {
		t.Error("ShortsMode = true, want false")
	}
}

func TestFormStateShortsToggle(t *testing.T) {
	f := NewFormState(Request{})

	f.SetShortsMode(true)
	if got := f.Request().VideoType; got != VideoTypeShorts {
		t.Fatalf("VideoType after enabling = %q, want Shorts", got)
	}
	if !f.Request().ShortsMode {
		t.Fatal("ShortsMode = false after enabling")
	}

	f.SetShortsMode(false)
	if got := f.Request().VideoType; got != DefaultVideoType {
		t.Errorf("VideoType after disabling = %q, want %q", got, DefaultVideoType)
	}
}

func TestFormStateShortsToggleRestoresDefaultType(t *testing.T) {
	tests := []struct {
		name     string
		defaults Request
		picked   VideoType
		want     VideoType
	}{
		{"builtInDefault", Request{}, VideoTypeTech, DefaultVideoType},
		{"configuredDefault", Request{VideoType: VideoTypeSports}, VideoTypeGaming, VideoTypeSports},
		{"pickedDefault", Request{}, DefaultVideoType, DefaultVideoType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormState(tt.defaults)
			f.SetVideoType(tt.picked)

			f.ToggleShorts()
			f.ToggleShorts()

			if got := f.Request().VideoType; got != tt.want {
				t.Errorf("VideoType = %q, want %q", got, tt.want)
			}
			if f.Request().ShortsMode {
				t.Error("ShortsMode = true after toggling twice")
			}
		})
	}
}

func TestFormStateShortsDefaultRequest(t *testing.T) {
	f := NewFormState(Request{ShortsMode: true})
	if got := f.Request().VideoType; got != VideoTypeShorts {
		t.Fatalf("VideoType = %q, want Shorts", got)
	}

	f.SetShortsMode(false)
	if got := f.Request().VideoType; got != DefaultVideoType {
		t.Errorf("VideoType = %q, want %q", got, DefaultVideoType)
	}
}

func TestFormStateSet(t *testing.T) {
	f := NewFormState(Request{})

	fields := map[string]string{
		FieldTopic:         "Monsoon update",
		FieldLanguage:      "Urdu",
		FieldChannelName:   "Karachi Live",
		FieldTargetCountry: "UAE",
		FieldUploadTime:    "9:00 PM",
		FieldVideoType:     "tech",
	}
	for field, value := range fields {
		if err := f.Set(field, value); err != nil {
			t.Fatalf("Set(%q) error: %v", field, err)
		}
	}

	req := f.Request()
	if req.Topic != "Monsoon update" || req.Language != "Urdu" || req.ChannelName != "Karachi Live" {
		t.Errorf("Request() = %+v", req)
	}
	if req.VideoType != VideoTypeTech {
		t.Errorf("VideoType = %q, want Tech", req.VideoType)
	}

	if err := f.Set(FieldShortsMode, "true"); err != nil {
		t.Fatalf("Set(shorts) error: %v", err)
	}
	if f.Request().VideoType != VideoTypeShorts {
		t.Errorf("VideoType = %q, want Shorts", f.Request().VideoType)
	}

	if err := f.Set("unknown", "x"); err == nil {
		t.Error("Set(unknown) expected error")
	}
	if err := f.Set(FieldVideoType, "podcast"); err == nil {
		t.Error("Set(video_type, podcast) expected error")
	}
}

func TestEffectiveVideoType(t *testing.T) {
	req := validRequest()
	req.ShortsMode = true
	if got := req.EffectiveVideoType(); got != VideoTypeShorts {
		t.Errorf("EffectiveVideoType() = %q, want Shorts", got)
	}

	req = Request{}
	if got := req.EffectiveVideoType(); got != DefaultVideoType {
		t.Errorf("EffectiveVideoType() = %q, want %q", got, DefaultVideoType)
	}
}

func TestPackageValidate(t *testing.T) {
	var nilPkg *Package
	if !errors.Is(nilPkg.Validate(), ErrMalformedPackage) {
		t.Error("nil package should be malformed")
	}

	pkg := &Package{TitleEnglish: "Title"}
	if !errors.Is(pkg.Validate(), ErrMalformedPackage) {
		t.Error("package without description should be malformed")
	}

	pkg.DescriptionEnglish = "Description"
	if err := pkg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
