package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/models"
)

func frontendRoadmap() *models.Roadmap {
	return &models.Roadmap{
		ID:          "frontend",
		Title:       "Frontend Developer",
		Description: "Build modern web apps",
		Category:    "Web Development",
		Difficulty:  models.Beginner,
		Duration:    "6 months",
		Icon:        "🌐",
		Color:       "from-blue-500 to-cyan-500",
		Published:   true,
		Steps: []models.Step{
			{ID: "html", Title: "HTML", Resources: []models.StepLink{{Title: "MDN", URL: "https://developer.mozilla.org"}}},
		},
		GeneralResources: []models.StepLink{{Title: "roadmap.sh", URL: "https://roadmap.sh"}},
	}
}

func TestEditor_CreateDefaults(t *testing.T) {
	e := NewEditor(nil)
	f := e.Form()

	assert.False(t, e.IsEditing())
	assert.Equal(t, models.Beginner, f.Difficulty)
	assert.Equal(t, catalog.DefaultIcon, f.Icon)
	assert.Equal(t, catalog.DefaultColor, f.Color)
	require.NotNil(t, f.Published)
	assert.False(t, *f.Published)
}

func TestEditor_SaveValidationOrder(t *testing.T) {
	e := NewEditor(nil)
	e.SetDescription("   ")

	_, err := e.Save()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "Please enter a roadmap title", verr.Message)

	e.SetTitle("  Go Backend  ")
	_, err = e.Save()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a roadmap description", verr.Message)

	e.SetDescription("APIs in Go")
	_, err = e.Save()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
	assert.Equal(t, "Please select a category", verr.Message)

	e.SetCategory("Backend")
	res, err := e.Save()
	require.NoError(t, err)
	require.NotNil(t, res.Patch.Title)
	assert.Equal(t, "Go Backend", *res.Patch.Title)
	assert.Equal(t, 0, res.StepCount)
	assert.Equal(t, 0, res.ResourceCount)
}

func TestEditor_SaveCounts(t *testing.T) {
	e := NewEditor(frontendRoadmap())

	i := e.AddStep()
	require.NoError(t, e.UpdateStep(i, models.Step{ID: "css", Title: "CSS"}))
	require.NoError(t, e.AddStepResource(i, models.StepLink{Title: "Flexbox", URL: "https://css-tricks.com/flexbox"}))
	require.NoError(t, e.AddStepResource(i, models.StepLink{Title: "Grid", URL: "https://css-tricks.com/grid"}))
	e.AddGeneralResource(models.StepLink{Title: "web.dev", URL: "https://web.dev"})

	res, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, 2, res.StepCount)
	assert.Equal(t, 5, res.ResourceCount)
}

func TestEditor_PatchOnlyEditedFields(t *testing.T) {
	e := NewEditor(frontendRoadmap())
	e.SetDuration("4 months")
	e.SetTitle("Frontend Developer")
	e.AddPrerequisite("HTML basics")

	res, err := e.Save()
	require.NoError(t, err)

	p := res.Patch
	require.NotNil(t, p.Duration)
	assert.Equal(t, "4 months", *p.Duration)
	assert.Nil(t, p.Title, "unchanged value is not part of the patch")
	assert.Nil(t, p.Description)
	assert.Nil(t, p.Steps)
	assert.Equal(t, []string{"HTML basics"}, p.Prerequisites)
}

func TestEditor_StepErrors(t *testing.T) {
	e := NewEditor(frontendRoadmap())

	assert.ErrorIs(t, e.RemoveStep(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.AddStepResource(-1, models.StepLink{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.RemoveStepResource(0, 3), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.UpdatePrerequisite(0, "x"), ErrIndexOutOfRange)

	require.NoError(t, e.RemoveStepResource(0, 0))
	require.NoError(t, e.RemoveStep(0))
	assert.Empty(t, e.Form().Steps)
}

func TestEditor_StepValidation(t *testing.T) {
	e := NewEditor(frontendRoadmap())
	e.AddStep()

	_, err := e.Save()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "steps[1].title", verr.Field)
	assert.Equal(t, "Every step needs a title", verr.Message)
}

func TestEditor_ResourceURLValidation(t *testing.T) {
	e := NewEditor(frontendRoadmap())
	e.AddGeneralResource(models.StepLink{Title: "broken", URL: "not a url"})

	_, err := e.Save()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "generalResources[1].url", verr.Field)
}

func TestEditor_Palettes(t *testing.T) {
	e := NewEditor(nil)

	assert.NoError(t, e.SetIcon("🚀"))
	assert.Error(t, e.SetIcon("🦄"))
	assert.NoError(t, e.SetColor("from-pink-500 to-rose-500"))
	assert.NoError(t, e.SetColor(catalog.DefaultColor))
	assert.Error(t, e.SetColor("from-black to-white"))
	assert.Error(t, e.SetDifficulty("Impossible"))

	assert.Len(t, IconPalette, 20)
	assert.Len(t, ColorPalette, 10)
}

func TestEditor_ApplyForm(t *testing.T) {
	e := NewEditor(frontendRoadmap())
	published := false

	err := e.ApplyForm(models.RoadmapForm{
		Description: "Updated",
		Published:   &published,
		Steps:       []models.Step{},
	})
	require.NoError(t, err)

	res, err := e.Save()
	require.NoError(t, err)
	require.NotNil(t, res.Patch.Description)
	require.NotNil(t, res.Patch.Published)
	assert.False(t, *res.Patch.Published)
	assert.NotNil(t, res.Patch.Steps)
	assert.Equal(t, 0, res.StepCount)
	assert.Equal(t, 1, res.ResourceCount)

	assert.Error(t, e.ApplyForm(models.RoadmapForm{Icon: "not-an-icon"}))
}
