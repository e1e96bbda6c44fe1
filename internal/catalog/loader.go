package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/learnpath/internal/models"
)

// Content file names inside the content directory
const (
	RoadmapsFile      = "roadmaps.yaml"
	TopicsFile        = "topics.yaml"
	ResourcesFile     = "resources.yaml"
	QuizFile          = "quiz.yaml"
	QuestionSheetFile = "questions.xlsx"
)

type roadmapsFile struct {
	Roadmaps []*models.Roadmap `yaml:"roadmaps"`
}

type topicsFile struct {
	Topics []*models.Topic `yaml:"topics"`
}

type resourcesFile struct {
	Resources []*models.Resource `yaml:"resources"`
}

type quizFile struct {
	Questions          []*models.Question          `yaml:"questions"`
	InterviewQuestions []*models.InterviewQuestion `yaml:"interview_questions"`
	Exercises          []*models.Exercise          `yaml:"exercises"`
}

// LoadFromDir reads every content file from dir into a new catalog.
// Missing files are skipped; malformed files fail the load.
func LoadFromDir(dir string) (*Catalog, error) {
	slog.Info("loading catalog from directory", "dir", dir)

	c := New()

	var rf roadmapsFile
	if err := readYAML(filepath.Join(dir, RoadmapsFile), &rf); err != nil {
		return nil, err
	}
	var tf topicsFile
	if err := readYAML(filepath.Join(dir, TopicsFile), &tf); err != nil {
		return nil, err
	}
	var sf resourcesFile
	if err := readYAML(filepath.Join(dir, ResourcesFile), &sf); err != nil {
		return nil, err
	}
	var qf quizFile
	if err := readYAML(filepath.Join(dir, QuizFile), &qf); err != nil {
		return nil, err
	}

	sheet := filepath.Join(dir, QuestionSheetFile)
	if _, err := os.Stat(sheet); err == nil {
		imported, err := ImportQuestionsXLSX(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", QuestionSheetFile, err)
		}
		qf.Questions = append(qf.Questions, imported...)
	}

	if err := c.Replace(Content{
		Roadmaps:           rf.Roadmaps,
		Topics:             tf.Topics,
		Resources:          sf.Resources,
		Questions:          qf.Questions,
		InterviewQuestions: qf.InterviewQuestions,
		Exercises:          qf.Exercises,
	}); err != nil {
		return nil, err
	}

	stats := c.Stats()
	slog.Info("catalog loaded",
		"roadmaps", stats.Roadmaps,
		"topics", stats.Topics,
		"resources", stats.Resources,
		"questions", stats.Questions,
		"interview_questions", stats.InterviewQuestions,
		"exercises", stats.Exercises,
	)
	return c, nil
}

// Content is a full set of catalog collections
type Content struct {
	Roadmaps           []*models.Roadmap
	Topics             []*models.Topic
	Resources          []*models.Resource
	Questions          []*models.Question
	InterviewQuestions []*models.InterviewQuestion
	Exercises          []*models.Exercise
}

// Replace validates content and swaps it in atomically
func (c *Catalog) Replace(content Content) error {
	if err := validate(content); err != nil {
		return err
	}

	for _, r := range content.Roadmaps {
		if r.Difficulty == "" {
			r.Difficulty = models.Beginner
		}
		if r.Steps == nil {
			r.Steps = []models.Step{}
		}
	}

	c.mu.Lock()
	c.roadmaps = content.Roadmaps
	c.topics = content.Topics
	c.resources = content.Resources
	c.questions = content.Questions
	c.interviewQuestions = content.InterviewQuestions
	c.exercises = content.Exercises
	c.mu.Unlock()
	return nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("content file not found, skipping", "file", path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func validate(content Content) error {
	if err := uniqueIDs("roadmap", content.Roadmaps, func(r *models.Roadmap) string { return r.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("topic", content.Topics, func(t *models.Topic) string { return t.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("resource", content.Resources, func(r *models.Resource) string { return r.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("question", content.Questions, func(q *models.Question) string { return q.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("interview question", content.InterviewQuestions, func(q *models.InterviewQuestion) string { return q.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("exercise", content.Exercises, func(e *models.Exercise) string { return e.ID }); err != nil {
		return err
	}

	for _, r := range content.Roadmaps {
		if r.Difficulty != "" && !r.Difficulty.Valid() {
			return fmt.Errorf("roadmap %s: invalid difficulty %q", r.ID, r.Difficulty)
		}
	}
	for _, r := range content.Resources {
		if !r.Type.Valid() {
			return fmt.Errorf("resource %s: invalid type %q", r.ID, r.Type)
		}
	}
	for _, q := range content.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("question %s: correct answer %d out of range", q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

func uniqueIDs[T any](kind string, items []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := id(item)
		if key == "" {
			return fmt.Errorf("%s id is required", kind)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate %s id: %s", kind, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Check reports non-fatal content problems: dangling topic references
// and resource URLs that do not parse.
func (c *Catalog) Check() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := make(map[string]struct{}, len(c.topics))
	for _, t := range c.topics {
		topics[t.ID] = struct{}{}
	}

	var warnings []string
	for _, r := range c.resources {
		if _, ok := topics[r.TopicID]; !ok {
			warnings = append(warnings, fmt.Sprintf("resource %s references unknown topic %q", r.ID, r.TopicID))
		}
		if u, err := url.Parse(r.URL); err != nil || u.Host == "" {
			warnings = append(warnings, fmt.Sprintf("resource %s has invalid url %q", r.ID, r.URL))
		}
	}
	for _, r := range c.roadmaps {
		for _, s := range r.Steps {
			for _, link := range s.Resources {
				if u, err := url.Parse(link.URL); err != nil || u.Host == "" {
					warnings = append(warnings, fmt.Sprintf("roadmap %s step %s has invalid url %q", r.ID, s.ID, link.URL))
				}
			}
		}
	}
	return warnings
}
