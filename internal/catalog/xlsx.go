package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/terra-clan/learnpath/internal/models"
)

// QuestionSheet is the sheet read by ImportQuestionsXLSX
const QuestionSheet = "Questions"

// Column order of the question sheet
const (
	colID = iota
	colQuestion
	colOptions
	colCorrect
	colExplanation
	colDifficulty
	colCategory
	colTags
	colSource
	questionColumns
)

// ImportQuestionsXLSX reads quiz questions from a spreadsheet. The first row
// is a header. Options are separated by "|", tags by ",".
func ImportQuestionsXLSX(path string) ([]*models.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(QuestionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", QuestionSheet, err)
	}

	var questions []*models.Question
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(row[colID]) == "" {
			continue
		}
		q, err := parseQuestionRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func parseQuestionRow(row []string) (*models.Question, error) {
	cells := make([]string, questionColumns)
	copy(cells, row)

	correct, err := strconv.Atoi(strings.TrimSpace(cells[colCorrect]))
	if err != nil {
		return nil, fmt.Errorf("invalid correct answer %q", cells[colCorrect])
	}

	return &models.Question{
		ID:            strings.TrimSpace(cells[colID]),
		Question:      strings.TrimSpace(cells[colQuestion]),
		Options:       splitList(cells[colOptions], "|"),
		CorrectAnswer: correct,
		Explanation:   strings.TrimSpace(cells[colExplanation]),
		Difficulty:    models.QuizDifficulty(strings.TrimSpace(cells[colDifficulty])),
		Category:      strings.TrimSpace(cells[colCategory]),
		Tags:          splitList(cells[colTags], ","),
		Source:        strings.TrimSpace(cells[colSource]),
	}, nil
}

// WriteQuestionsXLSX writes questions in the layout ImportQuestionsXLSX reads
func WriteQuestionsXLSX(path string, questions []*models.Question) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QuestionSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"id", "question", "options", "correct", "explanation", "difficulty", "category", "tags", "source"}
	if err := f.SetSheetRow(QuestionSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, q := range questions {
		row := []interface{}{
			q.ID, q.Question, strings.Join(q.Options, "|"), q.CorrectAnswer, q.Explanation,
			string(q.Difficulty), q.Category, strings.Join(q.Tags, ","), q.Source,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(QuestionSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.SaveAs(path)
}

func splitList(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
