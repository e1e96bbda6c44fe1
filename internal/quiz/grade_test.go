package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
)

func questions() []*models.Question {
	return []*models.Question{
		{ID: "js-1", Options: []string{"327", "57", "12", "Error"}, CorrectAnswer: 1, Explanation: "3 + 2 is evaluated first"},
		{ID: "react-1", Options: []string{"A browser API", "An in-memory tree", "A CSS feature"}, CorrectAnswer: 1, Explanation: "React diffs a lightweight tree"},
		{ID: "css-1", Options: []string{"block", "inline"}, CorrectAnswer: 0, Explanation: "div is block-level"},
	}
}

func TestGrade(t *testing.T) {
	q := questions()[0]

	r, err := Grade(q, 1)
	require.NoError(t, err)
	assert.True(t, r.Correct)
	assert.Equal(t, "js-1", r.QuestionID)
	assert.Equal(t, 1, r.CorrectAnswer)
	assert.Equal(t, "3 + 2 is evaluated first", r.Explanation)
	require.NotNil(t, r.Answer)
	assert.Equal(t, 1, *r.Answer)

	r, err = Grade(q, 0)
	require.NoError(t, err)
	assert.False(t, r.Correct)
	assert.Equal(t, 1, r.CorrectAnswer)
	assert.NotEmpty(t, r.Explanation)

	for _, answer := range []int{-1, 4} {
		_, err = Grade(q, answer)
		assert.ErrorIs(t, err, ErrInvalidAnswer)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{5, 5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestScore(t *testing.T) {
	qs := questions()

	s := Score(qs, map[string]int{
		"js-1":    1,
		"react-1": 0,
		"other":   2,
	})

	assert.Equal(t, 1, s.Score)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Answered)
	assert.Equal(t, 33, s.Percentage)
	require.Len(t, s.Results, 3)

	assert.Equal(t, []string{"js-1", "react-1", "css-1"}, []string{s.Results[0].QuestionID, s.Results[1].QuestionID, s.Results[2].QuestionID})
	assert.True(t, s.Results[0].Correct)
	assert.False(t, s.Results[1].Correct)
	assert.Nil(t, s.Results[2].Answer)
	assert.False(t, s.Results[2].Correct)
	assert.Equal(t, "div is block-level", s.Results[2].Explanation)
}

func TestScore_OutOfRangeAnswerIsIncorrect(t *testing.T) {
	s := Score(questions()[:1], map[string]int{"js-1": 9})
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 1, s.Answered)
	assert.Equal(t, 0, s.Percentage)
}

func TestScore_EmptySet(t *testing.T) {
	s := Score(nil, map[string]int{"js-1": 1})
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Answered)
	assert.Equal(t, 0, s.Percentage)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Results)
}
