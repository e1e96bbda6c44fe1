package models

import "time"

// ViewerState is the load state of an embedded resource
type ViewerState string

const (
	ViewerLoading ViewerState = "loading"
	ViewerLoaded  ViewerState = "loaded"
	ViewerFailed  ViewerState = "failed"
)

// EmbedMode tells the client how to open a resource
type EmbedMode string

const (
	EmbedInApp    EmbedMode = "embed"
	EmbedExternal EmbedMode = "external"
)

// EmbedAdvice is the result of classifying a resource URL
type EmbedAdvice struct {
	URL        string    `json:"url"`
	Mode       EmbedMode `json:"mode"`
	Embeddable bool      `json:"embeddable"`
}

// ViewerSession tracks one in-app viewer of an embeddable resource.
// Failed sessions offer "open externally" and "retry".
type ViewerSession struct {
	ID            string      `json:"id"`
	ResourceID    string      `json:"resource_id,omitempty"`
	URL           string      `json:"url"`
	State         ViewerState `json:"state"`
	Attempt       int         `json:"attempt"`
	FailureReason string      `json:"failure_reason,omitempty"`
	ExternalURL   string      `json:"external_url"`
	OpenedAt      time.Time   `json:"opened_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	ExpiresAt     time.Time   `json:"expires_at"`
}

// IsExpired checks if the session TTL has elapsed
func (s *ViewerSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// OpenViewerRequest is the body of POST /viewer/sessions
type OpenViewerRequest struct {
	ResourceID string `json:"resource_id"`
	URL        string `json:"url,omitempty"`
}

// ViewerErrorRequest is the body of POST /viewer/sessions/{id}/error
type ViewerErrorRequest struct {
	Reason string `json:"reason"`
}

// EmbedCheckRequest is the body of POST /embed/check
type EmbedCheckRequest struct {
	URL string `json:"url"`
}
