// Package resources looks up free learning material for a question and appends it
// to answers. Every lookup is best effort: failures are logged, never returned.
package resources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/career-roadmap/ai-gateway/internal/logx"
)

const (
	maxResources = 10
	maxListed    = 5

	DefaultSearchTimeout = 10 * time.Second
)

type Resource struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]Resource, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]Resource, bool, error)
	Set(ctx context.Context, key string, resources []Resource) error
}

var staticResources = []struct {
	keyword   string
	resources []Resource
}{
	{"javascript", []Resource{
		{Title: "JavaScript Tutorial - MDN", URL: "https://developer.mozilla.org/en-US/docs/Web/JavaScript", Type: "documentation", Source: "MDN"},
		{Title: "JavaScript Course - freeCodeCamp", URL: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/", Type: "course", Source: "freeCodeCamp"},
	}},
	{"python", []Resource{
		{Title: "Python Tutorial - Official", URL: "https://docs.python.org/3/tutorial/", Type: "documentation", Source: "Python.org"},
		{Title: "Python Course - freeCodeCamp", URL: "https://www.freecodecamp.org/learn/scientific-computing-with-python/", Type: "course", Source: "freeCodeCamp"},
	}},
	{"react", []Resource{
		{Title: "React Tutorial - Official", URL: "https://react.dev/learn", Type: "documentation", Source: "React"},
		{Title: "React Course - freeCodeCamp", URL: "https://www.freecodecamp.org/learn/front-end-development-libraries/", Type: "course", Source: "freeCodeCamp"},
	}},
}

// Finder combines video search results with the static list. searcher and cache
// are both optional.
type Finder struct {
	searcher Searcher
	cache    Cache
	timeout  time.Duration
}

// NewFinder bounds each lookup (cache and search together) by timeout. A zero timeout
// selects DefaultSearchTimeout.
func NewFinder(searcher Searcher, cache Cache, timeout time.Duration) *Finder {
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	return &Finder{searcher: searcher, cache: cache, timeout: timeout}
}

// Find returns search hits first, then static entries whose keyword appears in the question.
func (f *Finder) Find(ctx context.Context, question string) []Resource {
	var out []Resource
	if f.searcher != nil {
		out = append(out, f.search(ctx, question)...)
	}

	lower := strings.ToLower(question)
	for _, s := range staticResources {
		if strings.Contains(lower, s.keyword) {
			out = append(out, s.resources...)
		}
	}
	if len(out) > maxResources {
		out = out[:maxResources]
	}
	return out
}

func (f *Finder) search(ctx context.Context, question string) []Resource {
	log := logx.Ctx(ctx)
	key := cacheKey(question)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("resource cache read failed")
		} else if ok {
			return cached
		}
	}

	found, err := f.searcher.Search(ctx, question+" tutorial")
	if err != nil {
		log.Warn().Err(err).Msg("learning resource search failed")
		return nil
	}
	if f.cache != nil && len(found) > 0 {
		if err := f.cache.Set(ctx, key, found); err != nil {
			log.Warn().Err(err).Msg("resource cache write failed")
		}
	}
	return found
}

// Enrich appends a markdown list of at most five resources. The answer is returned
// unchanged when nothing was found.
func (f *Finder) Enrich(ctx context.Context, question, answer string) string {
	found := f.Find(ctx, question)
	if len(found) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\n**Free Learning Resources:**\n")
	for i, r := range found {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "- [%s](%s) (%s)\n", r.Title, r.URL, r.Source)
	}
	return b.String()
}

func cacheKey(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return "resources:youtube:" + hex.EncodeToString(sum[:16])
}
