package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/career-roadmap/ai-gateway/internal/errx"
)

func (s *Store) CreateRoadmapProgress(ctx context.Context, uid string, steps []string, planningDays int) (*RoadmapProgress, error) {
	raw, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode roadmap steps: %w", err)
	}
	progress := &RoadmapProgress{
		UID:          uid,
		RoadmapStep:  datatypes.JSON(raw),
		PlanningDays: planningDays,
	}
	if err := s.db.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, errx.Storage("create roadmap progress", err)
	}
	return progress, nil
}

// EventsFor returns the domain's events unlocked at pct, lowest threshold first.
func (s *Store) EventsFor(ctx context.Context, domain string, pct float64) ([]Event, error) {
	events := make([]Event, 0)
	err := s.db.WithContext(ctx).
		Where("domain = ? AND suggested_for_percentage <= ?", domain, pct).
		Order("suggested_for_percentage ASC").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, errx.Storage("list events", err)
	}
	return events, nil
}

func (s *Store) ProjectsFor(ctx context.Context, domain string, pct float64) ([]Project, error) {
	projects := make([]Project, 0)
	err := s.db.WithContext(ctx).
		Where("domain = ? AND suggested_for_percentage <= ?", domain, pct).
		Order("suggested_for_percentage ASC").
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, errx.Storage("list projects", err)
	}
	return projects, nil
}

// SeedReference replaces the events and projects tables in one transaction.
func (s *Store) SeedReference(ctx context.Context, data ReferenceData) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Event{}).Error; err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&Project{}).Error; err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		if len(data.Events) > 0 {
			if err := tx.CreateInBatches(data.Events, 100).Error; err != nil {
				return fmt.Errorf("failed to insert events: %w", err)
			}
		}
		if len(data.Projects) > 0 {
			if err := tx.CreateInBatches(data.Projects, 100).Error; err != nil {
				return fmt.Errorf("failed to insert projects: %w", err)
			}
		}
		return nil
	})
}

// LoadReferenceFile reads and validates a YAML seed file.
func LoadReferenceFile(path string) (ReferenceData, error) {
	var data ReferenceData
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to parse reference file %s: %w", path, err)
	}

	for i, e := range data.Events {
		if strings.TrimSpace(e.EventName) == "" || strings.TrimSpace(e.Domain) == "" {
			return data, fmt.Errorf("event #%d: event_name and domain are required", i+1)
		}
		if e.SuggestedForPercentage < 0 || e.SuggestedForPercentage > 100 {
			return data, fmt.Errorf("event %q: suggested_for_percentage must be within 0-100", e.EventName)
		}
	}
	for i, p := range data.Projects {
		if strings.TrimSpace(p.ProjectName) == "" || strings.TrimSpace(p.Domain) == "" {
			return data, fmt.Errorf("project #%d: project_name and domain are required", i+1)
		}
		if p.SuggestedForPercentage < 0 || p.SuggestedForPercentage > 100 {
			return data, fmt.Errorf("project %q: suggested_for_percentage must be within 0-100", p.ProjectName)
		}
	}
	return data, nil
}
