package lifecycle

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"tubeexpert/internal/llm"
	"tubeexpert/pkg/config"
)

var (
	ErrBusy        = errors.New("a request is already in flight")
	ErrCoolingDown = errors.New("cooling down after rate limit")
)

type Category string

const (
	CategoryRateLimit     Category = "rate_limit"
	CategoryAuthorization Category = "authorization"
	CategoryMissingConfig Category = "missing_configuration"
	CategoryMalformed     Category = "malformed_response"
	CategoryImage         Category = "image_failure"
	CategoryFault         Category = "fault"
)

const (
	MessageRateLimit     = "Quota exhausted. The system is recharging, try again when the cooldown ends."
	MessageAuthorization = "Access denied. Check that the API key is valid and allowed to use this model."
	MessageMissingConfig = "API_KEY is not configured. Run the setup command or set GEMINI_API_KEY."
	MessageMalformed     = "Viral system fault. The response could not be read."
	MessageImage         = "Visual projection offline."
	MessageFault         = "Viral system fault."
)

// Failure is the user-facing form of a generation error.
type Failure struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Err      error    `json:"-"`
}

func (f Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

// Classify maps an error from a generator onto a category and message.
// Structured API errors and sentinels win over text matching.
func Classify(err error) Failure {
	return Failure{Category: category(err), Err: err}.withMessage()
}

// classifyImage folds everything except quota, credential and configuration
// problems into an image failure.
func classifyImage(err error) Failure {
	f := Classify(err)
	switch f.Category {
	case CategoryRateLimit, CategoryAuthorization, CategoryMissingConfig:
		return f
	}
	return Failure{Category: CategoryImage, Message: MessageImage, Err: err}
}

func (f Failure) withMessage() Failure {
	switch f.Category {
	case CategoryRateLimit:
		f.Message = MessageRateLimit
	case CategoryAuthorization:
		f.Message = MessageAuthorization
	case CategoryMissingConfig:
		f.Message = MessageMissingConfig
	case CategoryMalformed:
		f.Message = MessageMalformed
	case CategoryImage:
		f.Message = MessageImage
	default:
		f.Message = MessageFault
	}
	return f
}

func category(err error) Category {
	if err == nil {
		return CategoryFault
	}
	if errors.Is(err, config.ErrMissingAPIKey) {
		return CategoryMissingConfig
	}
	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return CategoryRateLimit
		case apiErr.Code == http.StatusForbidden || apiErr.Status == "PERMISSION_DENIED":
			return CategoryAuthorization
		}
	}
	if errors.Is(err, llm.ErrMalformedResponse) {
		return CategoryMalformed
	}
	if errors.Is(err, llm.ErrNoImage) {
		return CategoryImage
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"):
		return CategoryRateLimit
	case strings.Contains(msg, "403"):
		return CategoryAuthorization
	case strings.Contains(msg, "API_KEY"):
		return CategoryMissingConfig
	}
	return CategoryFault
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}
