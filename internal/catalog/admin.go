package catalog

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/learnpath/internal/models"
)

// Defaults applied to roadmaps created without the corresponding field
const (
	DefaultTitle    = "New Roadmap"
	DefaultCategory = "General"
	DefaultDuration = "4-6 weeks"
	DefaultIcon     = "📚"
	DefaultColor    = "from-blue-500 to-purple-500"
)

// CreateRoadmap builds a draft roadmap from a patch and prepends it to the catalog
func (c *Catalog) CreateRoadmap(patch models.RoadmapPatch) *models.Roadmap {
	now := c.now().UTC()

	r := &models.Roadmap{
		ID:         "roadmap-" + uuid.NewString()[:8],
		Title:      DefaultTitle,
		Category:   DefaultCategory,
		Difficulty: models.Beginner,
		Duration:   DefaultDuration,
		Icon:       DefaultIcon,
		Color:      DefaultColor,
		Learners:   "0",
		Steps:      []models.Step{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	patch.ApplyTo(r)
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	// New roadmaps always start as drafts
	r.Published = false

	c.mu.Lock()
	c.roadmaps = append([]*models.Roadmap{r}, c.roadmaps...)
	c.mu.Unlock()

	slog.Info("roadmap created", "id", r.ID, "title", r.Title)
	return r
}

// UpdateRoadmap merges a patch into an existing roadmap
func (c *Catalog) UpdateRoadmap(id string, patch models.RoadmapPatch) (*models.Roadmap, error) {
	return c.replaceRoadmap(id, func(r *models.Roadmap) {
		patch.ApplyTo(r)
	})
}

// TogglePublish flips the published flag of a roadmap
func (c *Catalog) TogglePublish(id string) (*models.Roadmap, error) {
	return c.replaceRoadmap(id, func(r *models.Roadmap) {
		r.Published = !r.Published
	})
}

// DeleteRoadmap removes a roadmap from the collection
func (c *Catalog) DeleteRoadmap(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.roadmapIndex(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrRoadmapNotFound)
	}
	c.roadmaps = append(c.roadmaps[:i:i], c.roadmaps[i+1:]...)

	slog.Info("roadmap deleted", "id", id)
	return nil
}

func (c *Catalog) replaceRoadmap(id string, mutate func(*models.Roadmap)) (*models.Roadmap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.roadmapIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("update %s: %w", id, ErrRoadmapNotFound)
	}

	updated := *c.roadmaps[i]
	mutate(&updated)
	updated.UpdatedAt = c.now().UTC().Truncate(time.Second)
	c.roadmaps[i] = &updated

	slog.Info("roadmap updated", "id", id, "published", updated.Published)
	return &updated, nil
}
