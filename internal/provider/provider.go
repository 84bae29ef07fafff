// Package provider wraps the third-party text-generation backends. Each client turns
// one question into plain text and reports every failure as an *errx.Error of kind
// provider, marked retryable when the failure is transient.
package provider

import (
	"context"
	"io"
	"sort"
	"strings"
)

// Engine names accepted by the dispatcher.
const (
	Gemini      = "gemini"
	Groq        = "groq"
	OpenAI      = "openai"
	HuggingFace = "huggingface"
	Fallback    = "fallback"
)

var known = map[string]bool{
	Gemini:      true,
	Groq:        true,
	OpenAI:      true,
	HuggingFace: true,
	Fallback:    true,
}

// IsKnown reports whether name is part of the engine set, configured or not.
func IsKnown(name string) bool {
	return known[name]
}

// Normalize trims and lower-cases an engine name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, question string) (string, error)
}

// Registry is built once at start and only read afterwards.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the configured engines, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases providers holding connections (the Gemini SDK client).
func (r *Registry) Close() error {
	var firstErr error
	for _, p := range r.providers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
