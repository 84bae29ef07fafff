package resources

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeSearcher finds tutorial videos through the YouTube Data API.
type YouTubeSearcher struct {
	service    *youtube.Service
	maxResults int64
}

func NewYouTubeSearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeSearcher{service: svc, maxResults: 5}, nil
}

func (y *YouTubeSearcher) Search(ctx context.Context, query string) ([]Resource, error) {
	resp, err := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(y.maxResults).
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	out := make([]Resource, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		out = append(out, Resource{
			Title:  item.Snippet.Title,
			URL:    "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			Type:   "video",
			Source: "YouTube",
		})
	}
	return out, nil
}
