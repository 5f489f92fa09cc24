// Package ai wraps the generative model behind two calls that never fail:
// SuggestTasks and Reflect. Failures are logged and reported through Source.
package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
)

const DefaultTimeout = 30 * time.Second

type Source string

const (
	SourceGenerated Source = "generated"
	SourceDisabled  Source = "disabled"
	SourceFailed    Source = "failed"
)

const (
	ReflectionDisabled = "Stay hydrated and rest well."
	ReflectionEmpty    = "Balance is key to a healthy life."
	ReflectionFailed   = "Take a moment to breathe deeply."
)

type Suggestions struct {
	Items   []board.Suggestion
	Dropped int
	Source  Source
}

type Reflection struct {
	Text   string
	Source Source
}

// Fallback reports whether Text is fixed copy rather than model output.
func (r Reflection) Fallback() bool {
	return r.Source != SourceGenerated
}

type Client struct {
	gen     Generator
	log     *slog.Logger
	timeout time.Duration
}

func NewClient(gen Generator, log *slog.Logger, timeout time.Duration) *Client {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{gen: gen, log: log, timeout: timeout}
}

func (c *Client) Enabled() bool {
	return c != nil && c.gen != nil && c.gen.Available()
}

// SuggestTasks asks for one task per priority toward goal. A blank goal or a
// disabled generator returns an empty result without any network call.
func (c *Client) SuggestTasks(ctx context.Context, domainLabel, goal string) Suggestions {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return Suggestions{Items: []board.Suggestion{}, Source: SourceDisabled}
	}
	if !c.Enabled() {
		c.log.Debug("suggestions disabled, no credential", "domain", domainLabel)
		return Suggestions{Items: []board.Suggestion{}, Source: SourceDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.gen.Generate(ctx, GenerateRequest{
		Prompt: buildSuggestPrompt(domainLabel, goal),
		Schema: suggestionSchema(),
	})
	if err != nil {
		c.log.Warn("suggest tasks failed", "op", "suggest", "domain", domainLabel, "err", err)
		return Suggestions{Items: []board.Suggestion{}, Source: SourceFailed}
	}
	items, dropped, err := DecodeSuggestions(raw)
	if err != nil {
		c.log.Warn("suggest tasks failed", "op", "suggest", "domain", domainLabel, "err", err)
		return Suggestions{Items: []board.Suggestion{}, Source: SourceFailed}
	}
	if dropped > 0 {
		c.log.Info("dropped suggestions", "op", "suggest", "domain", domainLabel, "dropped", dropped)
	}
	return Suggestions{Items: items, Dropped: dropped, Source: SourceGenerated}
}

func (c *Client) Reflect(ctx context.Context, h model.HealthRecord) Reflection {
	if !c.Enabled() {
		return Reflection{Text: ReflectionDisabled, Source: SourceDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt, err := buildReflectionPrompt(h)
	if err != nil {
		c.log.Warn("reflection prompt failed", "op", "reflect", "err", err)
		return Reflection{Text: ReflectionFailed, Source: SourceFailed}
	}
	raw, err := c.gen.Generate(ctx, GenerateRequest{Prompt: prompt})
	if err != nil {
		c.log.Warn("reflection failed", "op", "reflect", "err", err)
		return Reflection{Text: ReflectionFailed, Source: SourceFailed}
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return Reflection{Text: ReflectionEmpty, Source: SourceFailed}
	}
	return Reflection{Text: text, Source: SourceGenerated}
}
