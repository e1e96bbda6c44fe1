package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFromDir("testdata")
	require.NoError(t, err)
	return c
}

func TestLoadFromDir(t *testing.T) {
	c := loadTestCatalog(t)

	roadmaps := c.Roadmaps()
	require.Len(t, roadmaps, 2)
	assert.Equal(t, "frontend", roadmaps[0].ID)
	assert.Equal(t, "devops", roadmaps[1].ID)

	frontend, err := c.Roadmap("frontend")
	require.NoError(t, err)
	assert.Equal(t, models.Intermediate, frontend.Difficulty)
	assert.Len(t, frontend.Steps, 2)
	assert.Equal(t, 3, frontend.ResourceCount())
	assert.Equal(t, 78, frontend.CompletionRate)

	assert.Len(t, c.Topics(), 2)
	assert.Len(t, c.Resources(), 4)
	assert.Len(t, c.Questions(), 2)

	react, err := c.Question("react-1")
	require.NoError(t, err)
	assert.Equal(t, 1, react.CorrectAnswer)
	_, err = c.Question("missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.Len(t, c.InterviewQuestions(), 1)
	assert.Len(t, c.Exercises(), 1)

	q := c.Questions()[0]
	assert.Equal(t, "57", q.Options[q.CorrectAnswer])
}

func TestLoadFromDir_MissingFilesAreSkipped(t *testing.T) {
	c, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, c.Roadmaps())
	assert.Empty(t, c.Questions())
}

func TestLoadFromDir_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RoadmapsFile), []byte("roadmaps: [unclosed"), 0o644))

	_, err := LoadFromDir(dir)
	assert.Error(t, err)
}

func TestLoadFromDir_DuplicateIDsFail(t *testing.T) {
	dir := t.TempDir()
	content := "topics:\n  - id: a\n    title: A\n  - id: a\n    title: B\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, TopicsFile), []byte(content), 0o644))

	_, err := LoadFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate topic id")
}

func TestLookups(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Roadmap("nope")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)

	topic, err := c.Topic("docker")
	require.NoError(t, err)
	assert.Equal(t, "Docker", topic.Title)

	_, err = c.Resource("nope")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	byTopic := c.ResourcesByTopic("react-basics")
	require.Len(t, byTopic, 2)
	assert.Equal(t, "react-1", byTopic[0].ID)
	assert.Equal(t, "react-2", byTopic[1].ID)

	assert.NotNil(t, c.ResourcesByTopic("unknown"))
}

func TestQuizFacets(t *testing.T) {
	c := loadTestCatalog(t)

	f := c.QuizFacets()
	assert.Equal(t, []string{"All", "JavaScript", "React", "Node.js", "Strings"}, f.Categories)
	assert.Equal(t, []string{"All", "Easy", "Medium", "Hard"}, f.Difficulties)
	assert.Equal(t, []string{"All", "GeeksforGeeks", "FreeCodeCamp", "InterviewBit"}, f.Sources)
}

func TestCheck(t *testing.T) {
	c := loadTestCatalog(t)

	warnings := c.Check()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "orphan-1")
}

func TestStats(t *testing.T) {
	c := loadTestCatalog(t)

	s := c.Stats()
	assert.Equal(t, 2, s.Roadmaps)
	assert.Equal(t, 1, s.PublishedRoadmaps)
	assert.Equal(t, 1, s.DraftRoadmaps)
	assert.Equal(t, 2, s.Steps)
}

func TestQuestionsXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), QuestionSheetFile)
	in := []*models.Question{
		{ID: "x-1", Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Difficulty: models.Easy, Category: "Math", Tags: []string{"arith"}, Source: "Sheet"},
	}
	require.NoError(t, WriteQuestionsXLSX(path, in))

	out, err := ImportQuestionsXLSX(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestLoadFromDir_ImportsQuestionSheet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteQuestionsXLSX(filepath.Join(dir, QuestionSheetFile), []*models.Question{
		{ID: "x-1", Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Tags: []string{}},
	}))

	c, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, c.Questions(), 1)
	assert.Equal(t, "x-1", c.Questions()[0].ID)
}
