package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/query"
	"github.com/terra-clan/learnpath/internal/quiz"
)

// Catalog handlers: filtered browsing of roadmaps, topics, resources and the quiz banks

func (s *Server) handleListRoadmaps(w http.ResponseWriter, r *http.Request) {
	sel := query.FromValues(r.URL.Query())
	// Drafts are only listed when asked for
	if sel.Status == "" {
		sel.Status = "published"
	}

	roadmaps := query.Apply(s.catalog.Roadmaps(), sel)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"roadmaps":   roadmaps,
		"total":      len(roadmaps),
		"categories": s.catalog.RoadmapCategories(),
	})
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.catalog.Roadmap(chi.URLParam(r, "id"))
	if err == nil && !roadmap.Published {
		// Drafts stay behind the admin routes
		err = catalog.ErrRoadmapNotFound
	}
	if err != nil {
		respondServiceError(w, err, "get roadmap")
		return
	}
	respondJSON(w, http.StatusOK, roadmap)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics := query.Apply(s.catalog.Topics(), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"topics": topics,
		"total":  len(topics),
	})
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := s.catalog.Topic(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "get topic")
		return
	}
	respondJSON(w, http.StatusOK, topic)
}

func (s *Server) handleListTopicResources(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "id")
	if _, err := s.catalog.Topic(topicID); err != nil {
		respondServiceError(w, err, "list topic resources")
		return
	}

	resources := query.Apply(s.catalog.ResourcesByTopic(topicID), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"total":     len(resources),
	})
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	resources := query.Apply(s.catalog.Resources(), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"resources": resources,
		"total":     len(resources),
		"platforms": s.catalog.Platforms(),
	})
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	resource, err := s.catalog.Resource(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "get resource")
		return
	}
	respondJSON(w, http.StatusOK, resource)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions := query.Apply(s.catalog.Questions(), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"total":     len(questions),
	})
}

func (s *Server) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.catalog.Question(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "answer question")
		return
	}

	var req models.AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answer == nil {
		writeError(w, http.StatusBadRequest, &apiError{Code: "validation_error", Message: "answer is required", Field: "answer"})
		return
	}

	result, err := quiz.Grade(question, *req.Answer)
	if err != nil {
		respondServiceError(w, err, "answer question")
		return
	}
	if s.metrics != nil {
		s.metrics.QuizAnswers.WithLabelValues(answerLabel(result.Correct)).Inc()
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizAttempt(w http.ResponseWriter, r *http.Request) {
	var req models.AttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	questions := query.Apply(s.catalog.Questions(), query.Selection{
		Search:     req.Search,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Source:     req.Source,
	})
	score := quiz.Score(questions, req.Answers)
	if s.metrics != nil {
		s.metrics.QuizAttempts.Observe(float64(score.Percentage))
	}
	respondJSON(w, http.StatusOK, score)
}

func answerLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

func (s *Server) handleListInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	questions := query.Apply(s.catalog.InterviewQuestions(), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"total":     len(questions),
	})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises := query.Apply(s.catalog.Exercises(), query.FromValues(r.URL.Query()))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"exercises": exercises,
		"total":     len(exercises),
	})
}

func (s *Server) handleQuizFacets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.catalog.QuizFacets())
}
