package embed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
)

func TestAdvisor_IsEmbeddable(t *testing.T) {
	a := NewAdvisor(nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://WWW.CodePen.IO/pen/xyz", true},
		{"https://developer.mozilla.org/en-US/docs/Web", true},
		{"https://example.com/article", false},
		{"https://medium.com/@someone/post", false},
		{"not a url", false},
		{"", false},
		{"://broken", false},
		{"/relative/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, a.IsEmbeddable(tt.url))
		})
	}
}

func TestAdvisor_Advise(t *testing.T) {
	a := NewAdvisor(nil)

	advice := a.Advise("https://youtu.be/abc")
	assert.Equal(t, models.EmbedInApp, advice.Mode)
	assert.True(t, advice.Embeddable)

	advice = a.Advise("https://example.com")
	assert.Equal(t, models.EmbedExternal, advice.Mode)
	assert.Equal(t, "https://example.com", advice.URL)
}

func TestAdvisor_CustomList(t *testing.T) {
	a := NewAdvisor([]string{" Example.COM ", "example.com", ""})
	assert.Equal(t, []string{"example.com"}, a.Domains())
	assert.True(t, a.IsEmbeddable("https://docs.example.com/x"))
	assert.False(t, a.IsEmbeddable("https://youtube.com/x"))

	assert.Equal(t, DefaultAllowList, NewAdvisor([]string{"  "}).Domains())
}

func TestLoadAllowList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains:\n  - vimeo.com\n  - loom.com\n"), 0o644))

	domains, err := LoadAllowList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vimeo.com", "loom.com"}, domains)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("domains: []\n"), 0o644))
	_, err = LoadAllowList(empty)
	assert.Error(t, err)

	_, err = LoadAllowList(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMonitor_LoadedBeforeTimeout(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(clock, 10*time.Second, nil)

	assert.Equal(t, models.ViewerLoading, m.Status().State)
	assert.True(t, m.Loaded())

	clock.Advance(11 * time.Second)
	assert.Equal(t, models.ViewerLoaded, m.Status().State)
	assert.Empty(t, m.Status().Reason)
}

func TestMonitor_TimeoutFiresOnce(t *testing.T) {
	clock := newFakeClock()
	var failures int
	m := NewMonitor(clock, 10*time.Second, func(st Status) {
		if st.State == models.ViewerFailed {
			failures++
		}
	})

	clock.Advance(9 * time.Second)
	assert.Equal(t, models.ViewerLoading, m.Status().State)

	clock.Advance(time.Second)
	assert.Equal(t, models.ViewerFailed, m.Status().State)
	assert.Equal(t, ReasonTimeout, m.Status().Reason)

	assert.False(t, m.Fail("load_error"))
	assert.False(t, m.Loaded())
	clock.fireAll()
	assert.Equal(t, 1, failures)
}

func TestMonitor_RetryIgnoresStaleTimer(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(clock, 10*time.Second, nil)

	assert.True(t, m.Fail("cross_origin"))
	assert.Equal(t, "cross_origin", m.Status().Reason)

	st := m.Retry()
	assert.Equal(t, models.ViewerLoading, st.State)
	assert.Equal(t, 2, st.Attempt)
	assert.Empty(t, st.Reason)

	// the first attempt's timer firing late must not fail attempt 2
	clock.fireAll()
	// fireAll also ran the second timer, so attempt 2 timed out exactly once
	assert.Equal(t, models.ViewerFailed, m.Status().State)
	assert.Equal(t, ReasonTimeout, m.Status().Reason)

	m.Retry()
	assert.True(t, m.Loaded())
	clock.Advance(time.Minute)
	assert.Equal(t, models.ViewerLoaded, m.Status().State)
	assert.Equal(t, 3, m.Status().Attempt)
}

func TestSessions_Lifecycle(t *testing.T) {
	clock := newFakeClock()
	s := NewSessions(NewAdvisor(nil), SessionsConfig{LoadTimeout: 10 * time.Second, TTL: time.Minute, Clock: clock})

	_, err := s.Open("r1", "https://example.com/page")
	assert.ErrorIs(t, err, ErrNotEmbeddable)

	sess, err := s.Open("r2", "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, models.ViewerLoading, sess.State)
	assert.Equal(t, 1, sess.Attempt)
	assert.Equal(t, "https://youtu.be/abc", sess.ExternalURL)

	clock.Advance(10 * time.Second)
	sess, err = s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerFailed, sess.State)
	assert.Equal(t, ReasonTimeout, sess.FailureReason)

	sess, err = s.Retry(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerLoading, sess.State)
	assert.Equal(t, 2, sess.Attempt)

	sess, err = s.Loaded(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerLoaded, sess.State)

	_, err = s.Fail("missing", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, s.SweepExpired())
	assert.Equal(t, 0, s.Len())
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessions_LateFailureAfterRetryIsDropped(t *testing.T) {
	clock := newFakeClock()
	s := NewSessions(NewAdvisor(nil), SessionsConfig{LoadTimeout: 10 * time.Second, TTL: time.Minute, Clock: clock})

	sess, err := s.Open("r1", "https://youtu.be/abc")
	require.NoError(t, err)

	sess, err = s.Retry(sess.ID)
	require.NoError(t, err)
	require.Equal(t, 2, sess.Attempt)

	// attempt 1 timing out, delivered after the retry landed
	s.apply(sess.ID, Status{State: models.ViewerFailed, Attempt: 1, Reason: ReasonTimeout})

	sess, err = s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerLoading, sess.State)
	assert.Equal(t, 2, sess.Attempt)
	assert.Empty(t, sess.FailureReason)

	// a late loading notice for the same attempt does not undo a settle
	_, err = s.Loaded(sess.ID)
	require.NoError(t, err)
	s.apply(sess.ID, Status{State: models.ViewerLoading, Attempt: 2})

	sess, err = s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViewerLoaded, sess.State)
}
