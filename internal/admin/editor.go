// Package admin shapes roadmap editor input into catalog patches.
//
// An Editor is bound to one roadmap (edit mode) or to none (create mode).
// Mutators change the working form; Save validates it and reports which
// fields changed along with step and resource counts.
package admin

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/models"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Field names tracked for the patch
const (
	fieldTitle            = "title"
	fieldDescription      = "description"
	fieldCategory         = "category"
	fieldDifficulty       = "difficulty"
	fieldDuration         = "duration"
	fieldIcon             = "icon"
	fieldColor            = "color"
	fieldPublished        = "published"
	fieldSteps            = "steps"
	fieldPrerequisites    = "prerequisites"
	fieldLearningOutcomes = "learningOutcomes"
	fieldGeneralResources = "generalResources"
)

// Editor holds the working copy of a roadmap form
type Editor struct {
	original *models.Roadmap
	form     models.RoadmapForm
	edited   map[string]bool
}

// NewEditor starts an editor. A nil roadmap selects create mode.
func NewEditor(existing *models.Roadmap) *Editor {
	e := &Editor{edited: make(map[string]bool)}

	if existing == nil {
		published := false
		e.form = models.RoadmapForm{
			Difficulty:       models.Beginner,
			Icon:             catalog.DefaultIcon,
			Color:            catalog.DefaultColor,
			Published:        &published,
			Steps:            []models.Step{},
			Prerequisites:    []string{},
			LearningOutcomes: []string{},
			GeneralResources: []models.StepLink{},
		}
		return e
	}

	cp := *existing
	e.original = &cp

	published := existing.Published
	e.form = models.RoadmapForm{
		Title:            existing.Title,
		Description:      existing.Description,
		Category:         existing.Category,
		Difficulty:       existing.Difficulty,
		Duration:         existing.Duration,
		Icon:             existing.Icon,
		Color:            existing.Color,
		Published:        &published,
		Steps:            cloneSteps(existing.Steps),
		Prerequisites:    slices.Clone(existing.Prerequisites),
		LearningOutcomes: slices.Clone(existing.LearningOutcomes),
		GeneralResources: slices.Clone(existing.GeneralResources),
	}
	return e
}

// IsEditing reports edit mode
func (e *Editor) IsEditing() bool { return e.original != nil }

// Form returns a copy of the working form
func (e *Editor) Form() models.RoadmapForm {
	f := e.form
	f.Steps = cloneSteps(e.form.Steps)
	f.Prerequisites = slices.Clone(e.form.Prerequisites)
	f.LearningOutcomes = slices.Clone(e.form.LearningOutcomes)
	f.GeneralResources = slices.Clone(e.form.GeneralResources)
	return f
}

// --- Basic info ---

func (e *Editor) SetTitle(v string) {
	e.form.Title = v
	e.touch(fieldTitle)
}

func (e *Editor) SetDescription(v string) {
	e.form.Description = v
	e.touch(fieldDescription)
}

func (e *Editor) SetCategory(v string) {
	e.form.Category = v
	e.touch(fieldCategory)
}

func (e *Editor) SetDuration(v string) {
	e.form.Duration = v
	e.touch(fieldDuration)
}

func (e *Editor) SetPublished(v bool) {
	e.form.Published = &v
	e.touch(fieldPublished)
}

func (e *Editor) SetDifficulty(d models.Difficulty) error {
	if !d.Valid() {
		return &ValidationError{Field: fieldDifficulty, Message: "Please select a valid difficulty"}
	}
	e.form.Difficulty = d
	e.touch(fieldDifficulty)
	return nil
}

func (e *Editor) SetIcon(icon string) error {
	if !ValidIcon(icon) {
		return &ValidationError{Field: fieldIcon, Message: fieldMessages["icon.icon"]}
	}
	e.form.Icon = icon
	e.touch(fieldIcon)
	return nil
}

func (e *Editor) SetColor(color string) error {
	if !ValidColor(color) {
		return &ValidationError{Field: fieldColor, Message: fieldMessages["color.color"]}
	}
	e.form.Color = color
	e.touch(fieldColor)
	return nil
}

// --- Steps ---

// AddStep appends an empty step and returns its index
func (e *Editor) AddStep() int {
	n := len(e.form.Steps)
	e.form.Steps = append(e.form.Steps, models.Step{
		ID:         fmt.Sprintf("step-%d", n+1),
		Difficulty: models.Beginner,
		Resources:  []models.StepLink{},
	})
	e.touch(fieldSteps)
	return n
}

func (e *Editor) UpdateStep(i int, step models.Step) error {
	if i < 0 || i >= len(e.form.Steps) {
		return fmt.Errorf("step %d: %w", i, ErrIndexOutOfRange)
	}
	if step.Resources == nil {
		step.Resources = e.form.Steps[i].Resources
	}
	e.form.Steps[i] = step
	e.touch(fieldSteps)
	return nil
}

func (e *Editor) RemoveStep(i int) error {
	if i < 0 || i >= len(e.form.Steps) {
		return fmt.Errorf("step %d: %w", i, ErrIndexOutOfRange)
	}
	e.form.Steps = slices.Delete(e.form.Steps, i, i+1)
	e.touch(fieldSteps)
	return nil
}

func (e *Editor) AddStepResource(step int, link models.StepLink) error {
	if step < 0 || step >= len(e.form.Steps) {
		return fmt.Errorf("step %d: %w", step, ErrIndexOutOfRange)
	}
	e.form.Steps[step].Resources = append(e.form.Steps[step].Resources, link)
	e.touch(fieldSteps)
	return nil
}

func (e *Editor) UpdateStepResource(step, i int, link models.StepLink) error {
	if step < 0 || step >= len(e.form.Steps) || i < 0 || i >= len(e.form.Steps[step].Resources) {
		return fmt.Errorf("step %d resource %d: %w", step, i, ErrIndexOutOfRange)
	}
	e.form.Steps[step].Resources[i] = link
	e.touch(fieldSteps)
	return nil
}

func (e *Editor) RemoveStepResource(step, i int) error {
	if step < 0 || step >= len(e.form.Steps) || i < 0 || i >= len(e.form.Steps[step].Resources) {
		return fmt.Errorf("step %d resource %d: %w", step, i, ErrIndexOutOfRange)
	}
	e.form.Steps[step].Resources = slices.Delete(e.form.Steps[step].Resources, i, i+1)
	e.touch(fieldSteps)
	return nil
}

// --- Prerequisites, outcomes and general resources ---

func (e *Editor) AddPrerequisite(v string) {
	e.form.Prerequisites = append(e.form.Prerequisites, v)
	e.touch(fieldPrerequisites)
}

func (e *Editor) UpdatePrerequisite(i int, v string) error {
	return e.setString(&e.form.Prerequisites, fieldPrerequisites, i, v)
}

func (e *Editor) RemovePrerequisite(i int) error {
	return e.removeString(&e.form.Prerequisites, fieldPrerequisites, i)
}

func (e *Editor) AddLearningOutcome(v string) {
	e.form.LearningOutcomes = append(e.form.LearningOutcomes, v)
	e.touch(fieldLearningOutcomes)
}

func (e *Editor) UpdateLearningOutcome(i int, v string) error {
	return e.setString(&e.form.LearningOutcomes, fieldLearningOutcomes, i, v)
}

func (e *Editor) RemoveLearningOutcome(i int) error {
	return e.removeString(&e.form.LearningOutcomes, fieldLearningOutcomes, i)
}

func (e *Editor) AddGeneralResource(link models.StepLink) {
	e.form.GeneralResources = append(e.form.GeneralResources, link)
	e.touch(fieldGeneralResources)
}

func (e *Editor) UpdateGeneralResource(i int, link models.StepLink) error {
	if i < 0 || i >= len(e.form.GeneralResources) {
		return fmt.Errorf("general resource %d: %w", i, ErrIndexOutOfRange)
	}
	e.form.GeneralResources[i] = link
	e.touch(fieldGeneralResources)
	return nil
}

func (e *Editor) RemoveGeneralResource(i int) error {
	if i < 0 || i >= len(e.form.GeneralResources) {
		return fmt.Errorf("general resource %d: %w", i, ErrIndexOutOfRange)
	}
	e.form.GeneralResources = slices.Delete(e.form.GeneralResources, i, i+1)
	e.touch(fieldGeneralResources)
	return nil
}

// ApplyForm copies a full form submitted over the API. Empty strings and
// nil slices leave the working value untouched.
func (e *Editor) ApplyForm(f models.RoadmapForm) error {
	if f.Title != "" {
		e.SetTitle(f.Title)
	}
	if f.Description != "" {
		e.SetDescription(f.Description)
	}
	if f.Category != "" {
		e.SetCategory(f.Category)
	}
	if f.Duration != "" {
		e.SetDuration(f.Duration)
	}
	if f.Difficulty != "" {
		if err := e.SetDifficulty(f.Difficulty); err != nil {
			return err
		}
	}
	if f.Icon != "" {
		if err := e.SetIcon(f.Icon); err != nil {
			return err
		}
	}
	if f.Color != "" {
		if err := e.SetColor(f.Color); err != nil {
			return err
		}
	}
	if f.Published != nil {
		e.SetPublished(*f.Published)
	}
	if f.Steps != nil {
		e.form.Steps = cloneSteps(f.Steps)
		e.touch(fieldSteps)
	}
	if f.Prerequisites != nil {
		e.form.Prerequisites = slices.Clone(f.Prerequisites)
		e.touch(fieldPrerequisites)
	}
	if f.LearningOutcomes != nil {
		e.form.LearningOutcomes = slices.Clone(f.LearningOutcomes)
		e.touch(fieldLearningOutcomes)
	}
	if f.GeneralResources != nil {
		e.form.GeneralResources = slices.Clone(f.GeneralResources)
		e.touch(fieldGeneralResources)
	}
	return nil
}

// Save validates the form. Title, description and category are checked
// first, in that order, after trimming whitespace.
func (e *Editor) Save() (*models.SaveResult, error) {
	if err := validateForm(&e.form); err != nil {
		return nil, err
	}

	result := &models.SaveResult{
		Patch:     e.patch(),
		StepCount: len(e.form.Steps),
	}
	result.ResourceCount = len(e.form.GeneralResources)
	for _, s := range e.form.Steps {
		result.ResourceCount += len(s.Resources)
	}

	return result, nil
}

// patch collects edited fields. In create mode every field is included.
func (e *Editor) patch() models.RoadmapPatch {
	var p models.RoadmapPatch
	f := e.Form()

	include := func(name string, current, original any) bool {
		if e.original == nil {
			return true
		}
		return e.edited[name] && !reflect.DeepEqual(current, original)
	}

	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	category := strings.TrimSpace(f.Category)

	var o models.Roadmap
	if e.original != nil {
		o = *e.original
	}

	if include(fieldTitle, title, o.Title) {
		p.Title = &title
	}
	if include(fieldDescription, description, o.Description) {
		p.Description = &description
	}
	if include(fieldCategory, category, o.Category) {
		p.Category = &category
	}
	if include(fieldDifficulty, f.Difficulty, o.Difficulty) {
		p.Difficulty = &f.Difficulty
	}
	if include(fieldDuration, f.Duration, o.Duration) {
		p.Duration = &f.Duration
	}
	if include(fieldIcon, f.Icon, o.Icon) {
		p.Icon = &f.Icon
	}
	if include(fieldColor, f.Color, o.Color) {
		p.Color = &f.Color
	}
	if f.Published != nil && include(fieldPublished, *f.Published, o.Published) {
		p.Published = f.Published
	}
	if include(fieldSteps, f.Steps, o.Steps) {
		p.Steps = f.Steps
	}
	if include(fieldPrerequisites, f.Prerequisites, o.Prerequisites) {
		p.Prerequisites = f.Prerequisites
	}
	if include(fieldLearningOutcomes, f.LearningOutcomes, o.LearningOutcomes) {
		p.LearningOutcomes = f.LearningOutcomes
	}
	if include(fieldGeneralResources, f.GeneralResources, o.GeneralResources) {
		p.GeneralResources = f.GeneralResources
	}

	return p
}

func (e *Editor) touch(field string) { e.edited[field] = true }

func (e *Editor) setString(list *[]string, field string, i int, v string) error {
	if i < 0 || i >= len(*list) {
		return fmt.Errorf("%s %d: %w", field, i, ErrIndexOutOfRange)
	}
	(*list)[i] = v
	e.touch(field)
	return nil
}

func (e *Editor) removeString(list *[]string, field string, i int) error {
	if i < 0 || i >= len(*list) {
		return fmt.Errorf("%s %d: %w", field, i, ErrIndexOutOfRange)
	}
	*list = slices.Delete(*list, i, i+1)
	e.touch(field)
	return nil
}

func cloneSteps(steps []models.Step) []models.Step {
	if steps == nil {
		return []models.Step{}
	}
	out := make([]models.Step, len(steps))
	for i, s := range steps {
		s.Resources = slices.Clone(s.Resources)
		if s.Resources == nil {
			s.Resources = []models.StepLink{}
		}
		out[i] = s
	}
	return out
}
