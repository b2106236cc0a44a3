package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubeexpert/internal/llm"
	"tubeexpert/internal/seo"
)

const (
	DefaultCooldownSeconds = 60
	defaultTickInterval    = time.Second
)

type State string

const (
	StateIdle     State = "idle"
	StatePending  State = "pending"
	StateCooldown State = "cooldown"
)

type Options struct {
	Generator       llm.PackageGenerator
	Images          llm.ImageGenerator
	CooldownSeconds int
	TickInterval    time.Duration
	// ManualTick disables the background ticker. The caller drives the
	// cooldown with Tick.
	ManualTick bool
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State           State        `json:"state"`
	Generating      bool         `json:"generating"`
	GeneratingImage bool         `json:"generating_image"`
	Cooldown        int          `json:"cooldown"`
	Failure         *Failure     `json:"failure,omitempty"`
	Result          *seo.Package `json:"result,omitempty"`
	Thumbnail       string       `json:"thumbnail,omitempty"`
	RequestID       string       `json:"request_id,omitempty"`
}

// CanSubmit reports whether a new request would be admitted.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateIdle
}

// Controller admits at most one generation at a time and blocks new ones
// while a rate-limit cooldown runs. It is safe for concurrent use.
type Controller struct {
	generator       llm.PackageGenerator
	images          llm.ImageGenerator
	cooldownSeconds int
	tickInterval    time.Duration
	manualTick      bool

	mu              sync.Mutex
	generating      bool
	generatingImage bool
	cooldown        int
	failure         *Failure
	result          *seo.Package
	thumbnail       string
	requestID       string
	stopTicker      chan struct{}
	closed          bool
}

func NewController(opts Options) *Controller {
	if opts.CooldownSeconds <= 0 {
		opts.CooldownSeconds = DefaultCooldownSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	return &Controller{
		generator:       opts.Generator,
		images:          opts.Images,
		cooldownSeconds: opts.CooldownSeconds,
		tickInterval:    opts.TickInterval,
		manualTick:      opts.ManualTick,
	}
}

// Submit validates req, then runs one package generation. Validation errors
// and admission errors leave the state untouched.
func (c *Controller) Submit(ctx context.Context, req seo.Request) (*seo.Package, error) {
	log, err := c.beginSubmit(req)
	if err != nil {
		return nil, err
	}
	return c.runSubmit(ctx, req, log)
}

// SubmitAsync admits req the same way as Submit and runs the generation in
// the background. done, when set, receives the outcome.
func (c *Controller) SubmitAsync(ctx context.Context, req seo.Request, done func(*seo.Package, error)) error {
	log, err := c.beginSubmit(req)
	if err != nil {
		return err
	}
	go func() {
		pkg, err := c.runSubmit(ctx, req, log)
		if done != nil {
			done(pkg, err)
		}
	}()
	return nil
}

func (c *Controller) beginSubmit(req seo.Request) (*slog.Logger, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.admitLocked(); err != nil {
		return nil, err
	}
	c.generating = true
	c.result = nil
	c.failure = nil
	c.thumbnail = ""
	c.requestID = uuid.NewString()
	return slog.With("request_id", c.requestID), nil
}

func (c *Controller) runSubmit(ctx context.Context, req seo.Request, log *slog.Logger) (*seo.Package, error) {
	log.Info("Generating package",
		"topic", req.Topic,
		"channel", req.ChannelName,
		"language", req.Language,
		"video_type", req.EffectiveVideoType())
	start := time.Now()

	pkg, err := c.generator.GeneratePackage(ctx, req)
	if err == nil && pkg == nil {
		err = llm.ErrMalformedResponse
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generating = false

	if err != nil {
		f := Classify(err)
		c.failLocked(f)
		log.Warn("Package generation failed", "category", f.Category, "error", err)
		return nil, f
	}

	c.result = pkg
	log.Info("Package generated", "title", pkg.TitleEnglish, "duration", time.Since(start).Round(time.Millisecond))
	return pkg, nil
}

// RequestImage renders a thumbnail for prompt. It shares admission with
// Submit and keeps the current result.
func (c *Controller) RequestImage(ctx context.Context, prompt string) (string, error) {
	log, err := c.beginImage(prompt)
	if err != nil {
		return "", err
	}
	return c.runImage(ctx, prompt, log)
}

func (c *Controller) RequestImageAsync(ctx context.Context, prompt string, done func(string, error)) error {
	log, err := c.beginImage(prompt)
	if err != nil {
		return err
	}
	go func() {
		uri, err := c.runImage(ctx, prompt, log)
		if done != nil {
			done(uri, err)
		}
	}()
	return nil
}

func (c *Controller) beginImage(prompt string) (*slog.Logger, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: thumbnail prompt", seo.ErrMissingFields)
	}
	if c.images == nil {
		return nil, classifyImage(fmt.Errorf("image generator not configured"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.admitLocked(); err != nil {
		return nil, err
	}
	c.generatingImage = true
	return slog.With("request_id", c.requestID), nil
}

func (c *Controller) runImage(ctx context.Context, prompt string, log *slog.Logger) (string, error) {
	log.Info("Generating thumbnail")

	uri, err := c.images.GenerateImage(ctx, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generatingImage = false

	if err != nil {
		f := classifyImage(err)
		c.failLocked(f)
		log.Warn("Thumbnail generation failed", "category", f.Category, "error", err)
		return "", f
	}

	c.thumbnail = uri
	log.Info("Thumbnail generated", "bytes", len(uri))
	return uri, nil
}

// Tick advances the cooldown by one step and returns the remaining count.
// Reaching zero clears the displayed failure.
func (c *Controller) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cooldown == 0 {
		return 0
	}
	c.cooldown--
	if c.cooldown == 0 {
		c.failure = nil
		c.stopTickerLocked()
		slog.Debug("Cooldown finished")
	}
	return c.cooldown
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:           c.stateLocked(),
		Generating:      c.generating,
		GeneratingImage: c.generatingImage,
		Cooldown:        c.cooldown,
		Result:          c.result,
		Thumbnail:       c.thumbnail,
		RequestID:       c.requestID,
	}
	if c.failure != nil {
		f := *c.failure
		s.Failure = &f
	}
	return s
}

// Close stops the cooldown ticker. In-flight calls still finish and record
// their outcome.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTickerLocked()
}

func (c *Controller) admitLocked() error {
	if c.cooldown > 0 {
		return fmt.Errorf("%w: %ds remaining", ErrCoolingDown, c.cooldown)
	}
	if c.generating || c.generatingImage {
		return ErrBusy
	}
	return nil
}

func (c *Controller) stateLocked() State {
	switch {
	case c.generating || c.generatingImage:
		return StatePending
	case c.cooldown > 0:
		return StateCooldown
	default:
		return StateIdle
	}
}

func (c *Controller) failLocked(f Failure) {
	c.failure = &f
	if f.Category != CategoryRateLimit {
		return
	}
	c.cooldown = c.cooldownSeconds
	slog.Info("Cooldown armed", "seconds", c.cooldown)
	c.startTickerLocked()
}

func (c *Controller) startTickerLocked() {
	if c.manualTick || c.closed || c.stopTicker != nil {
		return
	}
	stop := make(chan struct{})
	c.stopTicker = stop
	go c.runTicker(stop)
}

func (c *Controller) stopTickerLocked() {
	if c.stopTicker == nil {
		return
	}
	close(c.stopTicker)
	c.stopTicker = nil
}

func (c *Controller) runTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.Tick() == 0 {
				return
			}
		}
	}
}
