package core

import (
	"context"
	"strings"

	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/logx"
	"github.com/career-roadmap/ai-gateway/internal/store"
)

const DefaultPlanningDays = 30

type RoadmapStore interface {
	CreateRoadmapProgress(ctx context.Context, uid string, steps []string, planningDays int) (*store.RoadmapProgress, error)
}

type RoadmapRenderer interface {
	Render(uid string, steps []string) (string, error)
}

type Roadmap struct {
	Steps        []string
	ImagePath    string
	PlanningDays int
	DaysPerStep  int
}

type RoadmapService struct {
	store    RoadmapStore
	renderer RoadmapRenderer
}

func NewRoadmapService(s RoadmapStore, r RoadmapRenderer) *RoadmapService {
	return &RoadmapService{store: s, renderer: r}
}

// Generate turns skills into "Learn <skill>" steps, renders them and records a
// progress row at 0%.
func (s *RoadmapService) Generate(ctx context.Context, uid string, skills []string, planningDays int) (*Roadmap, error) {
	uid = strings.TrimSpace(uid)
	steps := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			steps = append(steps, "Learn "+skill)
		}
	}
	if uid == "" || len(steps) == 0 {
		return nil, errx.Validation("Missing uid or skills_to_learn")
	}
	if planningDays < 1 {
		return nil, errx.Validation("planning_days must be at least 1")
	}

	path, err := s.renderer.Render(uid, steps)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.CreateRoadmapProgress(ctx, uid, steps, planningDays); err != nil {
		return nil, err
	}

	log := logx.Ctx(ctx)
	log.Info().Str("uid", uid).Int("steps", len(steps)).Str("image", path).Msg("roadmap generated")
	return &Roadmap{
		Steps:        steps,
		ImagePath:    path,
		PlanningDays: planningDays,
		DaysPerStep:  (planningDays + len(steps) - 1) / len(steps),
	}, nil
}
