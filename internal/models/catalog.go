package models

import "time"

// Difficulty is the level of a roadmap, step, topic or resource
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
	Expert       Difficulty = "Expert"
)

// Valid reports whether d is one of the roadmap difficulty levels
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// QuizDifficulty is the level of a quiz-bank record
type QuizDifficulty string

const (
	Easy   QuizDifficulty = "Easy"
	Medium QuizDifficulty = "Medium"
	Hard   QuizDifficulty = "Hard"
)

// ResourceType is the kind of content behind a resource link
type ResourceType string

const (
	ResourceVideo         ResourceType = "video"
	ResourceArticle       ResourceType = "article"
	ResourceDocumentation ResourceType = "documentation"
	ResourceCourse        ResourceType = "course"
	ResourceTutorial      ResourceType = "tutorial"
	ResourceBook          ResourceType = "book"
	ResourcePodcast       ResourceType = "podcast"
	ResourceInteractive   ResourceType = "interactive"
	ResourcePractice      ResourceType = "practice"
	ResourceTool          ResourceType = "tool"
)

// Valid reports whether t is a known resource type
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceVideo, ResourceArticle, ResourceDocumentation, ResourceCourse, ResourceTutorial,
		ResourceBook, ResourcePodcast, ResourceInteractive, ResourcePractice, ResourceTool:
		return true
	}
	return false
}

// Roadmap is a structured multi-step learning path for a career track
type Roadmap struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	Category         string     `json:"category" yaml:"category"`
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	Duration         string     `json:"duration" yaml:"duration"`
	Icon             string     `json:"icon" yaml:"icon"`
	Color            string     `json:"color" yaml:"color"`
	Published        bool       `json:"published" yaml:"published"`
	Skills           []string   `json:"skills,omitempty" yaml:"skills"`
	Learners         string     `json:"learners" yaml:"learners"`
	Rating           float64    `json:"rating" yaml:"rating"`
	CompletionRate   int        `json:"completionRate" yaml:"completion_rate"`
	Prerequisites    []string   `json:"prerequisites,omitempty" yaml:"prerequisites"`
	LearningOutcomes []string   `json:"learningOutcomes,omitempty" yaml:"learning_outcomes"`
	GeneralResources []StepLink `json:"generalResources,omitempty" yaml:"general_resources"`
	Steps            []Step     `json:"steps" yaml:"steps"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// ResourceCount counts step resources plus general resources
func (r *Roadmap) ResourceCount() int {
	total := len(r.GeneralResources)
	for _, s := range r.Steps {
		total += len(s.Resources)
	}
	return total
}

// SearchText implements query.Record
func (r *Roadmap) SearchText() []string {
	return []string{r.Title, r.Description, r.Category}
}

// SearchTags implements query.Record
func (r *Roadmap) SearchTags() []string { return r.Skills }

// Facet implements query.Record
func (r *Roadmap) Facet(name string) (string, bool) {
	switch name {
	case "category":
		return r.Category, true
	case "difficulty":
		return string(r.Difficulty), true
	case "status":
		if r.Published {
			return "published", true
		}
		return "draft", true
	}
	return "", false
}

// Step is an ordered stage of a roadmap. It has no lifecycle of its own.
type Step struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	EstimatedTime string     `json:"estimatedTime" yaml:"estimated_time"`
	Resources     []StepLink `json:"resources" yaml:"resources"`
}

// StepLink is a resource reference embedded in a step
type StepLink struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Type  string `json:"type" yaml:"type"`
}

// Topic is a standalone learning unit referenced by resources
type Topic struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Category      string     `json:"category" yaml:"category"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	EstimatedTime string     `json:"estimatedTime" yaml:"estimated_time"`
	Skills        []string   `json:"skills" yaml:"skills"`
	Prerequisites []string   `json:"prerequisites,omitempty" yaml:"prerequisites"`
	KeyTopics     []string   `json:"keyTopics,omitempty" yaml:"key_topics"`
	RoadmapID     string     `json:"roadmapId,omitempty" yaml:"roadmap_id"`
}

// SearchText implements query.Record
func (t *Topic) SearchText() []string {
	return []string{t.Title, t.Description}
}

// SearchTags implements query.Record
func (t *Topic) SearchTags() []string { return t.Skills }

// Facet implements query.Record
func (t *Topic) Facet(name string) (string, bool) {
	switch name {
	case "category":
		return t.Category, true
	case "difficulty":
		return string(t.Difficulty), true
	}
	return "", false
}

// Resource is an external learning material
type Resource struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	URL         string       `json:"url" yaml:"url"`
	Type        ResourceType `json:"type" yaml:"type"`
	Platform    string       `json:"platform" yaml:"platform"`
	Difficulty  Difficulty   `json:"difficulty,omitempty" yaml:"difficulty"`
	Duration    string       `json:"duration,omitempty" yaml:"duration"`
	Rating      float64      `json:"rating,omitempty" yaml:"rating"`
	Free        bool         `json:"free" yaml:"free"`
	Author      string       `json:"author,omitempty" yaml:"author"`
	Views       string       `json:"views,omitempty" yaml:"views"`
	Tags        []string     `json:"tags" yaml:"tags"`
	TopicID     string       `json:"topicId" yaml:"topic_id"`
}

// SearchText implements query.Record
func (r *Resource) SearchText() []string {
	return []string{r.Title, r.Description, r.Platform, r.Author}
}

// SearchTags implements query.Record
func (r *Resource) SearchTags() []string { return r.Tags }

// Facet implements query.Record
func (r *Resource) Facet(name string) (string, bool) {
	switch name {
	case "difficulty":
		return string(r.Difficulty), true
	case "platform", "source":
		return r.Platform, true
	case "type":
		return string(r.Type), true
	case "topic":
		return r.TopicID, true
	case "free":
		if r.Free {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// Question is a multiple-choice quiz question
type Question struct {
	ID            string         `json:"id" yaml:"id"`
	Question      string         `json:"question" yaml:"question"`
	Options       []string       `json:"options" yaml:"options"`
	CorrectAnswer int            `json:"correctAnswer" yaml:"correct_answer"`
	Explanation   string         `json:"explanation" yaml:"explanation"`
	Difficulty    QuizDifficulty `json:"difficulty" yaml:"difficulty"`
	Category      string         `json:"category" yaml:"category"`
	Tags          []string       `json:"tags" yaml:"tags"`
	Source        string         `json:"source" yaml:"source"`
}

// SearchText implements query.Record
func (q *Question) SearchText() []string { return []string{q.Question, q.Category} }

// SearchTags implements query.Record
func (q *Question) SearchTags() []string { return q.Tags }

// Facet implements query.Record
func (q *Question) Facet(name string) (string, bool) {
	return quizFacet(name, q.Category, q.Difficulty, q.Source)
}

// InterviewQuestion is an open question with a reference answer
type InterviewQuestion struct {
	ID                string         `json:"id" yaml:"id"`
	Question          string         `json:"question" yaml:"question"`
	Answer            string         `json:"answer" yaml:"answer"`
	Difficulty        QuizDifficulty `json:"difficulty" yaml:"difficulty"`
	Category          string         `json:"category" yaml:"category"`
	Tags              []string       `json:"tags" yaml:"tags"`
	FollowUpQuestions []string       `json:"followUpQuestions,omitempty" yaml:"follow_up_questions"`
	Source            string         `json:"source" yaml:"source"`
}

// SearchText implements query.Record
func (q *InterviewQuestion) SearchText() []string { return []string{q.Question, q.Category} }

// SearchTags implements query.Record
func (q *InterviewQuestion) SearchTags() []string { return q.Tags }

// Facet implements query.Record
func (q *InterviewQuestion) Facet(name string) (string, bool) {
	return quizFacet(name, q.Category, q.Difficulty, q.Source)
}

// TestCase is an input/output pair of a coding exercise
type TestCase struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// Exercise is a coding exercise
type Exercise struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Difficulty  QuizDifficulty `json:"difficulty" yaml:"difficulty"`
	Category    string         `json:"category" yaml:"category"`
	Tags        []string       `json:"tags" yaml:"tags"`
	Solution    string         `json:"solution,omitempty" yaml:"solution"`
	Hints       []string       `json:"hints" yaml:"hints"`
	TestCases   []TestCase     `json:"testCases" yaml:"test_cases"`
	Source      string         `json:"source" yaml:"source"`
}

// SearchText implements query.Record
func (e *Exercise) SearchText() []string { return []string{e.Title, e.Description, e.Category} }

// SearchTags implements query.Record
func (e *Exercise) SearchTags() []string { return e.Tags }

// Facet implements query.Record
func (e *Exercise) Facet(name string) (string, bool) {
	return quizFacet(name, e.Category, e.Difficulty, e.Source)
}

func quizFacet(name, category string, difficulty QuizDifficulty, source string) (string, bool) {
	switch name {
	case "category":
		return category, true
	case "difficulty":
		return string(difficulty), true
	case "source":
		return source, true
	}
	return "", false
}
