package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/catalog"
	"github.com/terra-clan/learnpath/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "learnpath (devel)")
}

func TestEmbedCheck(t *testing.T) {
	t.Setenv("EMBED_ALLOWLIST", "")
	out, err := run(t, "embed", "check", "https://youtu.be/abc", "https://example.com/post")
	require.NoError(t, err)
	assert.Contains(t, out, "embed     https://youtu.be/abc")
	assert.Contains(t, out, "external  https://example.com/post")
}

func TestCatalogCheck(t *testing.T) {
	dir := filepath.Join("..", "..", "internal", "catalog", "testdata")

	out, err := run(t, "catalog", "check", "--dir", dir, "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, out, "roadmaps: 2")
	assert.Contains(t, out, `unknown topic "missing-topic"`)

	_, err = run(t, "catalog", "check", "--dir", dir, "--strict")
	assert.Error(t, err)
}

func TestCatalogCheck_BundledContent(t *testing.T) {
	out, err := run(t, "catalog", "check", "--dir", filepath.Join("..", "..", "content"), "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "roadmaps: 6")
	assert.Contains(t, out, "resources: 27")
}

func TestCatalogImportRejectsBadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, catalog.WriteQuestionsXLSX(path, []*models.Question{
		{ID: "q1", Question: "Pick one", Options: []string{"a", "b"}, CorrectAnswer: 5, Difficulty: models.Easy},
	}))

	_, err := run(t, "catalog", "import", path, "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestCatalogImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "questions.xlsx")
	require.NoError(t, catalog.WriteQuestionsXLSX(path, []*models.Question{
		{ID: "go-1", Question: "Which keyword starts a goroutine?", Options: []string{"go", "async"}, Difficulty: models.Easy, Category: "Go", Source: "Core"},
	}))

	out, err := run(t, "catalog", "import", path, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 questions")

	cat, err := catalog.LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, cat.Questions(), 1)
	assert.Equal(t, "go-1", cat.Questions()[0].ID)
}
