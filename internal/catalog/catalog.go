package catalog

import (
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/terra-clan/learnpath/internal/models"
)

var (
	ErrRoadmapNotFound  = errors.New("roadmap not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// Catalog holds the static content collections in storage order.
// Roadmaps are the only records mutated after load; they are replaced,
// never modified in place, so pointers handed out stay consistent.
type Catalog struct {
	mu sync.RWMutex

	roadmaps           []*models.Roadmap
	topics             []*models.Topic
	resources          []*models.Resource
	questions          []*models.Question
	interviewQuestions []*models.InterviewQuestion
	exercises          []*models.Exercise

	now func() time.Time
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{now: time.Now}
}

// Roadmaps returns all roadmaps
func (c *Catalog) Roadmaps() []*models.Roadmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.roadmaps)
}

// Roadmap returns a roadmap by ID
func (c *Catalog) Roadmap(id string) (*models.Roadmap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.roadmapIndex(id); i >= 0 {
		return c.roadmaps[i], nil
	}
	return nil, ErrRoadmapNotFound
}

// Topics returns all topics
func (c *Catalog) Topics() []*models.Topic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.topics)
}

// Topic returns a topic by ID
func (c *Catalog) Topic(id string) (*models.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrTopicNotFound
}

// Resources returns all resources
func (c *Catalog) Resources() []*models.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.resources)
}

// Resource returns a resource by ID
func (c *Catalog) Resource(id string) (*models.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrResourceNotFound
}

// ResourcesByTopic returns the resources linked to a topic
func (c *Catalog) ResourcesByTopic(topicID string) []*models.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*models.Resource, 0)
	for _, r := range c.resources {
		if r.TopicID == topicID {
			result = append(result, r)
		}
	}
	return result
}

// Questions returns the quiz question bank
func (c *Catalog) Questions() []*models.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.questions)
}

// Question returns a quiz question by ID
func (c *Catalog) Question(id string) (*models.Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, ErrQuestionNotFound
}

// InterviewQuestions returns the interview question bank
func (c *Catalog) InterviewQuestions() []*models.InterviewQuestion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.interviewQuestions)
}

// Exercises returns the coding exercises
func (c *Catalog) Exercises() []*models.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.exercises)
}

// Facets lists the distinct filter values of the quiz bank
type Facets struct {
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
	Sources      []string `json:"sources"`
}

// QuizFacets collects categories, difficulties and sources across questions,
// interview questions and exercises. Each list starts with "All".
func (c *Catalog) QuizFacets() Facets {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := newOrderedSet()
	sources := newOrderedSet()
	for _, q := range c.questions {
		categories.add(q.Category)
		sources.add(q.Source)
	}
	for _, q := range c.interviewQuestions {
		categories.add(q.Category)
		sources.add(q.Source)
	}
	for _, e := range c.exercises {
		categories.add(e.Category)
		sources.add(e.Source)
	}

	return Facets{
		Categories:   append([]string{"All"}, categories.items...),
		Difficulties: []string{"All", string(models.Easy), string(models.Medium), string(models.Hard)},
		Sources:      append([]string{"All"}, sources.items...),
	}
}

// RoadmapCategories returns the distinct roadmap categories in first-seen order
func (c *Catalog) RoadmapCategories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := newOrderedSet()
	for _, r := range c.roadmaps {
		set.add(r.Category)
	}
	return set.items
}

// Platforms returns the distinct resource platforms, sorted
func (c *Catalog) Platforms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := newOrderedSet()
	for _, r := range c.resources {
		set.add(r.Platform)
	}
	sort.Strings(set.items)
	return set.items
}

// Stats summarizes the catalog for the admin overview
type Stats struct {
	Roadmaps           int `json:"roadmaps"`
	PublishedRoadmaps  int `json:"published_roadmaps"`
	DraftRoadmaps      int `json:"draft_roadmaps"`
	Steps              int `json:"steps"`
	Topics             int `json:"topics"`
	Resources          int `json:"resources"`
	Questions          int `json:"questions"`
	InterviewQuestions int `json:"interview_questions"`
	Exercises          int `json:"exercises"`
}

// Stats returns counts across the catalog
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Roadmaps:           len(c.roadmaps),
		Topics:             len(c.topics),
		Resources:          len(c.resources),
		Questions:          len(c.questions),
		InterviewQuestions: len(c.interviewQuestions),
		Exercises:          len(c.exercises),
	}
	for _, r := range c.roadmaps {
		if r.Published {
			s.PublishedRoadmaps++
		} else {
			s.DraftRoadmaps++
		}
		s.Steps += len(r.Steps)
	}
	return s
}

// must be called with mu held
func (c *Catalog) roadmapIndex(id string) int {
	return slices.IndexFunc(c.roadmaps, func(r *models.Roadmap) bool { return r.ID == id })
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
