package core

import (
	"context"
	"strings"

	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/store"
)

type ReferenceStore interface {
	EventsFor(ctx context.Context, domain string, pct float64) ([]store.Event, error)
	ProjectsFor(ctx context.Context, domain string, pct float64) ([]store.Project, error)
}

// SuggestionService picks events and projects unlocked at a completion percentage.
type SuggestionService struct {
	store ReferenceStore
}

func NewSuggestionService(s ReferenceStore) *SuggestionService {
	return &SuggestionService{store: s}
}

func (s *SuggestionService) Events(ctx context.Context, uid, domain string, pct float64) ([]store.Event, error) {
	domain, err := validateSuggestion(uid, domain, pct)
	if err != nil {
		return nil, err
	}
	return s.store.EventsFor(ctx, domain, pct)
}

func (s *SuggestionService) Projects(ctx context.Context, uid, domain string, pct float64) ([]store.Project, error) {
	domain, err := validateSuggestion(uid, domain, pct)
	if err != nil {
		return nil, err
	}
	return s.store.ProjectsFor(ctx, domain, pct)
}

func validateSuggestion(uid, domain string, pct float64) (string, error) {
	domain = strings.TrimSpace(domain)
	if strings.TrimSpace(uid) == "" || domain == "" {
		return "", errx.Validation("Missing uid or domain")
	}
	if pct < 0 || pct > 100 {
		return "", errx.Validation("completion_percentage must be between 0 and 100")
	}
	return domain, nil
}
