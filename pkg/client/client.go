package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/models"
)

// Client is a Go SDK for the learnpath API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new learnpath client. token is a user access token
// or an admin API key; it may be empty for public endpoints.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error envelope returned by the server
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// IsAlreadyEnrolled reports whether err is the informational duplicate
// enrollment answer
func IsAlreadyEnrolled(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "already_enrolled"
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Filter narrows list endpoints. Empty fields and "All" are ignored.
type Filter struct {
	Search     string
	Category   string
	Difficulty string
	Source     string
	Status     string
	Platform   string
	Type       string
	Topic      string
	FreeOnly   bool
}

func (f Filter) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("difficulty", f.Difficulty)
	set("source", f.Source)
	set("status", f.Status)
	set("platform", f.Platform)
	set("type", f.Type)
	set("topic", f.Topic)
	if f.FreeOnly {
		v.Set("free", "true")
	}
	return v
}

// Progress is the progress overview of the signed-in user
type Progress struct {
	models.ProgressOverview
	Stale bool `json:"stale,omitempty"`
}

// SaveResult is the answer of admin create and update calls
type SaveResult struct {
	Roadmap       *models.Roadmap `json:"roadmap"`
	StepCount     int             `json:"steps"`
	ResourceCount int             `json:"resources"`
}

// Catalog

// ListRoadmaps lists roadmaps matching the filter
func (c *Client) ListRoadmaps(ctx context.Context, f Filter) ([]*models.Roadmap, error) {
	data, err := call[struct {
		Roadmaps []*models.Roadmap `json:"roadmaps"`
	}](ctx, c, http.MethodGet, withQuery("/api/v1/roadmaps", f.values()), nil)
	return data.Roadmaps, err
}

// GetRoadmap retrieves a roadmap by ID
func (c *Client) GetRoadmap(ctx context.Context, id string) (*models.Roadmap, error) {
	return call[*models.Roadmap](ctx, c, http.MethodGet, "/api/v1/roadmaps/"+url.PathEscape(id), nil)
}

// ListTopics lists topics matching the filter
func (c *Client) ListTopics(ctx context.Context, f Filter) ([]*models.Topic, error) {
	data, err := call[struct {
		Topics []*models.Topic `json:"topics"`
	}](ctx, c, http.MethodGet, withQuery("/api/v1/topics", f.values()), nil)
	return data.Topics, err
}

// ListResources lists resources matching the filter
func (c *Client) ListResources(ctx context.Context, f Filter) ([]*models.Resource, error) {
	data, err := call[struct {
		Resources []*models.Resource `json:"resources"`
	}](ctx, c, http.MethodGet, withQuery("/api/v1/resources", f.values()), nil)
	return data.Resources, err
}

// ListQuestions lists quiz questions matching the filter
func (c *Client) ListQuestions(ctx context.Context, f Filter) ([]*models.Question, error) {
	data, err := call[struct {
		Questions []*models.Question `json:"questions"`
	}](ctx, c, http.MethodGet, withQuery("/api/v1/quiz/questions", f.values()), nil)
	return data.Questions, err
}

// AnswerQuestion grades one answer and returns the correct option with its explanation
func (c *Client) AnswerQuestion(ctx context.Context, questionID string, answer int) (*models.AnswerResult, error) {
	return call[*models.AnswerResult](ctx, c, http.MethodPost,
		"/api/v1/quiz/questions/"+url.PathEscape(questionID)+"/answer", models.AnswerRequest{Answer: &answer})
}

// SubmitAttempt scores answers against the questions matching the filter
func (c *Client) SubmitAttempt(ctx context.Context, f Filter, answers map[string]int) (*models.QuizScore, error) {
	return call[*models.QuizScore](ctx, c, http.MethodPost, "/api/v1/quiz/attempts", models.AttemptRequest{
		Search:     f.Search,
		Category:   f.Category,
		Difficulty: f.Difficulty,
		Source:     f.Source,
		Answers:    answers,
	})
}

// QuizFacets returns the category, difficulty and source options of the quiz banks
func (c *Client) QuizFacets(ctx context.Context) (*catalog.Facets, error) {
	return call[*catalog.Facets](ctx, c, http.MethodGet, "/api/v1/quiz/facets", nil)
}

// Embedding

// CheckEmbed asks whether url can be shown in the in-app viewer
func (c *Client) CheckEmbed(ctx context.Context, rawURL string) (*models.EmbedAdvice, error) {
	return call[*models.EmbedAdvice](ctx, c, http.MethodPost, "/api/v1/embed/check", models.EmbedCheckRequest{URL: rawURL})
}

// OpenViewer starts a viewer session for a catalog resource
func (c *Client) OpenViewer(ctx context.Context, resourceID string) (*models.ViewerSession, error) {
	return call[*models.ViewerSession](ctx, c, http.MethodPost, "/api/v1/viewer/sessions", models.OpenViewerRequest{ResourceID: resourceID})
}

// ReportLoaded records that the viewer frame finished loading
func (c *Client) ReportLoaded(ctx context.Context, sessionID string) (*models.ViewerSession, error) {
	return call[*models.ViewerSession](ctx, c, http.MethodPost, viewerPath(sessionID, "loaded"), nil)
}

// ReportError records a viewer frame error
func (c *Client) ReportError(ctx context.Context, sessionID, reason string) (*models.ViewerSession, error) {
	return call[*models.ViewerSession](ctx, c, http.MethodPost, viewerPath(sessionID, "error"), models.ViewerErrorRequest{Reason: reason})
}

// RetryViewer starts a new load attempt
func (c *Client) RetryViewer(ctx context.Context, sessionID string) (*models.ViewerSession, error) {
	return call[*models.ViewerSession](ctx, c, http.MethodPost, viewerPath(sessionID, "retry"), nil)
}

// Progress

// GetProgress fetches the progress overview of the signed-in user
func (c *Client) GetProgress(ctx context.Context) (*Progress, error) {
	return call[*Progress](ctx, c, http.MethodGet, "/api/v1/progress", nil)
}

// GetRoadmapProgress fetches the progress summary of one roadmap
func (c *Client) GetRoadmapProgress(ctx context.Context, roadmapID string) (*models.RoadmapSummary, error) {
	return call[*models.RoadmapSummary](ctx, c, http.MethodGet, "/api/v1/progress/roadmaps/"+url.PathEscape(roadmapID), nil)
}

// Enroll enrolls the signed-in user in a roadmap
func (c *Client) Enroll(ctx context.Context, roadmapID string) (*Progress, error) {
	return call[*Progress](ctx, c, http.MethodPost, "/api/v1/enrollments", models.EnrollRequest{RoadmapID: roadmapID})
}

// UpdateProgress records progress on a roadmap or one of its topics
func (c *Client) UpdateProgress(ctx context.Context, req models.UpdateProgressRequest) (*Progress, error) {
	return call[*Progress](ctx, c, http.MethodPut, "/api/v1/progress", req)
}

// Me returns the signed-in user, or nil when the token is empty
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	data, err := call[struct {
		User *models.User `json:"user"`
	}](ctx, c, http.MethodGet, "/api/v1/me", nil)
	return data.User, err
}

// SignOut ends the session behind the client token
func (c *Client) SignOut(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, "/auth/signout", nil)
	return err
}

// Admin

// CreateRoadmap creates a draft roadmap
func (c *Client) CreateRoadmap(ctx context.Context, form models.RoadmapForm) (*SaveResult, error) {
	return call[*SaveResult](ctx, c, http.MethodPost, "/api/v1/admin/roadmaps", form)
}

// UpdateRoadmap applies the non-empty fields of form to a roadmap
func (c *Client) UpdateRoadmap(ctx context.Context, id string, form models.RoadmapForm) (*SaveResult, error) {
	return call[*SaveResult](ctx, c, http.MethodPut, "/api/v1/admin/roadmaps/"+url.PathEscape(id), form)
}

// TogglePublish flips the published flag of a roadmap
func (c *Client) TogglePublish(ctx context.Context, id string) (*models.Roadmap, error) {
	return call[*models.Roadmap](ctx, c, http.MethodPost, "/api/v1/admin/roadmaps/"+url.PathEscape(id)+"/publish", nil)
}

// DeleteRoadmap removes a roadmap
func (c *Client) DeleteRoadmap(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, "/api/v1/admin/roadmaps/"+url.PathEscape(id), nil)
	return err
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	return err
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
}

// call sends body as JSON and unwraps the response envelope
func call[T any](ctx context.Context, c *Client, method, path string, body interface{}) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, reader)
	if err != nil {
		return zero, err
	}

	var result envelope[T]
	if err := json.Unmarshal(resp, &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.Data, nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var result envelope[json.RawMessage]
		if err := json.Unmarshal(respBody, &result); err == nil && result.Error != nil {
			result.Error.Status = resp.StatusCode
			return nil, result.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Code: "http_error", Message: string(respBody)}
	}

	return respBody, nil
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func viewerPath(sessionID, action string) string {
	return "/api/v1/viewer/sessions/" + url.PathEscape(sessionID) + "/" + action
}
