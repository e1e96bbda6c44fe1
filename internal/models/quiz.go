package models

// AnswerRequest submits one option index for a quiz question
type AnswerRequest struct {
	Answer *int `json:"answer"`
}

// AttemptRequest grades a quiz run. The selection fields choose the question
// set the same way the list endpoint does; Answers maps question id to the
// chosen option index.
type AttemptRequest struct {
	Search     string         `json:"search"`
	Category   string         `json:"category"`
	Difficulty string         `json:"difficulty"`
	Source     string         `json:"source"`
	Answers    map[string]int `json:"answers"`
}

// AnswerResult is the outcome of one graded question. Answer is nil when the
// question was left unanswered.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	Answer        *int   `json:"answer"`
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// QuizScore summarises a graded run over the selected question set
type QuizScore struct {
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Answered   int            `json:"answered"`
	Percentage int            `json:"percentage"`
	Results    []AnswerResult `json:"results"`
}
