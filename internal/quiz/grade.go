// Package quiz grades multiple-choice answers against the question bank.
package quiz

import (
	"errors"
	"fmt"
	"math"

	"github.com/terra-clan/learnpath/internal/models"
)

// ErrInvalidAnswer is returned when an answer is not an option index of the question
var ErrInvalidAnswer = errors.New("answer is not an option of the question")

// Grade checks a single answer. Only indexes within the question's options
// are accepted.
func Grade(q *models.Question, answer int) (models.AnswerResult, error) {
	if answer < 0 || answer >= len(q.Options) {
		return models.AnswerResult{}, fmt.Errorf("%w: %d of %d options", ErrInvalidAnswer, answer, len(q.Options))
	}
	return result(q, &answer), nil
}

// Score grades a run over questions, in order. Unanswered questions count
// against the score, out-of-range answers are incorrect and answers for
// questions outside the set are ignored.
func Score(questions []*models.Question, answers map[string]int) models.QuizScore {
	score := models.QuizScore{
		Total:   len(questions),
		Results: make([]models.AnswerResult, 0, len(questions)),
	}

	for _, q := range questions {
		var answer *int
		if a, ok := answers[q.ID]; ok {
			answer = &a
			score.Answered++
		}

		r := result(q, answer)
		if r.Correct {
			score.Score++
		}
		score.Results = append(score.Results, r)
	}

	score.Percentage = Percentage(score.Score, score.Total)
	return score
}

// Percentage rounds score/total to a whole percent, half up. An empty set
// scores 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

func result(q *models.Question, answer *int) models.AnswerResult {
	return models.AnswerResult{
		QuestionID:    q.ID,
		Answer:        answer,
		Correct:       answer != nil && *answer == q.CorrectAnswer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}
