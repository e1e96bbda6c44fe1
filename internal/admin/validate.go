package admin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/learnpath/internal/models"
)

// ValidationError names the first field that failed and a message fit for display
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// fieldMessages maps field/tag pairs to display messages
var fieldMessages = map[string]string{
	"title.required":       "Please enter a roadmap title",
	"description.required": "Please enter a roadmap description",
	"category.required":    "Please select a category",
	"difficulty.oneof":     "Please select a valid difficulty",
	"icon.icon":            "Please pick an icon from the palette",
	"color.color":          "Please pick a color from the palette",
	"title.max":            "Roadmap title is too long",
	"url.url":              "Please enter a valid resource URL",
	"steps.title.required": "Every step needs a title",
}

// roadmapInput is the validated shape of an editor form. Field order
// decides which message is reported first.
type roadmapInput struct {
	Title       string      `json:"title" validate:"required,max=120"`
	Description string      `json:"description" validate:"required"`
	Category    string      `json:"category" validate:"required"`
	Difficulty  string      `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced Expert"`
	Icon        string      `json:"icon" validate:"icon"`
	Color       string      `json:"color" validate:"color"`
	Steps       []stepInput `json:"steps" validate:"dive"`
	General     []linkInput `json:"generalResources" validate:"dive"`
}

type stepInput struct {
	Title     string      `json:"title" validate:"required"`
	Resources []linkInput `json:"resources" validate:"dive"`
}

type linkInput struct {
	URL string `json:"url" validate:"omitempty,url"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("icon", func(fl validator.FieldLevel) bool {
			return ValidIcon(fl.Field().String())
		})
		validate.RegisterValidation("color", func(fl validator.FieldLevel) bool {
			return ValidColor(fl.Field().String())
		})
	})
	return validate
}

func newRoadmapInput(f *models.RoadmapForm) roadmapInput {
	in := roadmapInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		Difficulty:  string(f.Difficulty),
		Icon:        f.Icon,
		Color:       f.Color,
	}
	for _, s := range f.Steps {
		step := stepInput{Title: strings.TrimSpace(s.Title)}
		for _, r := range s.Resources {
			step.Resources = append(step.Resources, linkInput{URL: r.URL})
		}
		in.Steps = append(in.Steps, step)
	}
	for _, r := range f.GeneralResources {
		in.General = append(in.General, linkInput{URL: r.URL})
	}
	return in
}

// validateForm returns the first failing rule as a *ValidationError
func validateForm(f *models.RoadmapForm) error {
	in := newRoadmapInput(f)

	err := getValidator().Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate roadmap: %w", err)
	}

	first := verrs[0]
	return &ValidationError{Field: fieldPath(first), Message: messageFor(first)}
}

// fieldPath turns "roadmapInput.steps[1].resources[0].url" into "steps[1].resources[0].url"
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		if fe.Field() == "title" && strings.HasPrefix(fieldPath(fe), "steps[") {
			return fieldMessages["steps.title."+fe.Tag()]
		}
		return msg
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
