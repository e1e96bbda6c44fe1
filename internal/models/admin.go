package models

// RoadmapPatch carries only the roadmap fields an editor actually changed.
// Nil pointers and nil slices mean "unchanged".
type RoadmapPatch struct {
	Title            *string     `json:"title,omitempty"`
	Description      *string     `json:"description,omitempty"`
	Category         *string     `json:"category,omitempty"`
	Difficulty       *Difficulty `json:"difficulty,omitempty"`
	Duration         *string     `json:"duration,omitempty"`
	Icon             *string     `json:"icon,omitempty"`
	Color            *string     `json:"color,omitempty"`
	Published        *bool       `json:"published,omitempty"`
	Steps            []Step      `json:"steps,omitempty"`
	Prerequisites    []string    `json:"prerequisites,omitempty"`
	LearningOutcomes []string    `json:"learningOutcomes,omitempty"`
	GeneralResources []StepLink  `json:"generalResources,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p *RoadmapPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Difficulty == nil &&
		p.Duration == nil && p.Icon == nil && p.Color == nil && p.Published == nil &&
		p.Steps == nil && p.Prerequisites == nil && p.LearningOutcomes == nil && p.GeneralResources == nil
}

// ApplyTo merges the patch into r
func (p *RoadmapPatch) ApplyTo(r *Roadmap) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	if p.Duration != nil {
		r.Duration = *p.Duration
	}
	if p.Icon != nil {
		r.Icon = *p.Icon
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	if p.Published != nil {
		r.Published = *p.Published
	}
	if p.Steps != nil {
		r.Steps = p.Steps
	}
	if p.Prerequisites != nil {
		r.Prerequisites = p.Prerequisites
	}
	if p.LearningOutcomes != nil {
		r.LearningOutcomes = p.LearningOutcomes
	}
	if p.GeneralResources != nil {
		r.GeneralResources = p.GeneralResources
	}
}

// SaveResult is what the admin editor hands to the caller on save
type SaveResult struct {
	Patch         RoadmapPatch `json:"patch"`
	StepCount     int          `json:"steps"`
	ResourceCount int          `json:"resources"`
}

// RoadmapForm is the full editor input accepted by the admin API
type RoadmapForm struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	Duration         string     `json:"duration"`
	Icon             string     `json:"icon"`
	Color            string     `json:"color"`
	Published        *bool      `json:"published"`
	Steps            []Step     `json:"steps"`
	Prerequisites    []string   `json:"prerequisites"`
	LearningOutcomes []string   `json:"learningOutcomes"`
	GeneralResources []StepLink `json:"generalResources"`
}
