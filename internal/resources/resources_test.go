package resources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
)

type fakeSearcher struct {
	calls   int
	results []Resource
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]Resource, error) {
	f.calls++
	return f.results, f.err
}

type mapCache struct {
	data   map[string][]Resource
	getErr error
}

func (m *mapCache) Get(_ context.Context, key string) ([]Resource, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	r, ok := m.data[key]
	return r, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, resources []Resource) error {
	m.data[key] = resources
	return nil
}

func TestFindStaticOnly(t *testing.T) {
	f := NewFinder(nil, nil, 0)

	got := f.Find(context.Background(), "Should I learn Python or JavaScript?")
	if len(got) != 4 {
		t.Fatalf("want 4 static resources, got %d", len(got))
	}
	if got[0].Source != "MDN" || got[2].Source != "Python.org" {
		t.Fatalf("order: got=%+v", got)
	}
	if len(f.Find(context.Background(), "career in sales")) != 0 {
		t.Fatalf("unrelated question should find nothing")
	}
}

func TestFindUsesCache(t *testing.T) {
	searcher := &fakeSearcher{results: []Resource{{Title: "Go in 100 seconds", URL: "https://www.youtube.com/watch?v=1", Source: "YouTube"}}}
	cache := &mapCache{data: map[string][]Resource{}}
	f := NewFinder(searcher, cache, 0)
	ctx := context.Background()

	first := f.Find(ctx, "golang")
	second := f.Find(ctx, "  GOLANG ")
	if searcher.calls != 1 {
		t.Fatalf("searcher calls: want=1 got=%d", searcher.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Title != "Go in 100 seconds" {
		t.Fatalf("cached results differ: %+v vs %+v", first, second)
	}
}

func TestFindSurvivesFailures(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	cache := &mapCache{data: map[string][]Resource{}, getErr: errors.New("redis down")}
	f := NewFinder(searcher, cache, 0)

	got := f.Find(context.Background(), "react hooks")
	if len(got) != 2 || got[0].Source != "React" {
		t.Fatalf("want static react resources, got %+v", got)
	}
	if searcher.calls != 1 {
		t.Fatalf("cache failure should fall through to search")
	}
}

func TestEnrich(t *testing.T) {
	var many []Resource
	for i := 0; i < 8; i++ {
		many = append(many, Resource{Title: "Video", URL: "https://example.com", Source: "YouTube"})
	}
	f := NewFinder(&fakeSearcher{results: many}, nil, 0)

	got := f.Enrich(context.Background(), "kubernetes", "Base answer.")
	if !strings.HasPrefix(got, "Base answer.\n\n**Free Learning Resources:**\n") {
		t.Fatalf("missing header: %q", got)
	}
	if n := strings.Count(got, "- [Video](https://example.com) (YouTube)"); n != 5 {
		t.Fatalf("listed resources: want=5 got=%d", n)
	}

	plain := NewFinder(nil, nil, 0).Enrich(context.Background(), "career in sales", "Base answer.")
	if plain != "Base answer." {
		t.Fatalf("answer should be unchanged, got %q", plain)
	}
}

func TestYouTubeSearcher(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			t.Errorf("path: got=%s", r.URL.Path)
		}
		query = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc123"},"snippet":{"title":"Go Tutorial"}},
			{"id":{"kind":"youtube#channel","channelId":"UC1"},"snippet":{"title":"A channel"}}
		]}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	y, err := NewYouTubeSearcher(ctx, "yt-key",
		option.WithEndpoint(srv.URL+"/youtube/v3/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewYouTubeSearcher: %v", err)
	}

	got, err := y.Search(ctx, "golang tutorial")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if query != "golang tutorial" {
		t.Fatalf("q: want=%q got=%q", "golang tutorial", query)
	}
	if len(got) != 1 {
		t.Fatalf("want only the video item, got %+v", got)
	}
	if got[0].URL != "https://www.youtube.com/watch?v=abc123" || got[0].Type != "video" {
		t.Fatalf("resource: got=%+v", got[0])
	}
}

func TestEnrichGivesUpOnStalledSearch(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx := context.Background()
	y, err := NewYouTubeSearcher(ctx, "yt-key",
		option.WithEndpoint(srv.URL+"/youtube/v3/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewYouTubeSearcher: %v", err)
	}
	f := NewFinder(y, nil, 100*time.Millisecond)

	start := time.Now()
	got := f.Enrich(ctx, "career in sales", "Base answer.")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Enrich blocked for %s on a stalled search", elapsed)
	}
	if got != "Base answer." {
		t.Fatalf("answer should be unchanged, got %q", got)
	}
}

func TestNewFinderDefaultsTimeout(t *testing.T) {
	if f := NewFinder(nil, nil, 0); f.timeout != DefaultSearchTimeout {
		t.Fatalf("timeout: want=%s got=%s", DefaultSearchTimeout, f.timeout)
	}
}

func TestNewRedisCacheErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "not a url", time.Minute); err == nil {
		t.Fatalf("want parse error")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", time.Minute); err == nil {
		t.Fatalf("want connection error")
	}
}
