package tally

import (
	"encoding/json"
	"fmt"
	"os"
)

// QuestionsFile is the serialized questions document inside a tally
// working directory.
const QuestionsFile = "questions_json"

// BallotsFile is the per-session ballot file, one JSON array of answer
// IDs per line.
const BallotsFile = "plaintexts_json"

// Answer is one selectable option of a Question. TotalCount and
// WinnerPosition are attached by the counting pass; WinnerPosition stays
// null for non-winners.
type Answer struct {
	ID             int    `json:"id"`
	Text           string `json:"text"`
	Category       string `json:"category"`
	TotalCount     int    `json:"total_count"`
	WinnerPosition *int   `json:"winner_position"`
}

// Totals aggregates the ballot counts of one question. The grand total of
// cast ballots is the sum of the three buckets.
type Totals struct {
	BlankVotes int `json:"blank_votes"`
	NullVotes  int `json:"null_votes"`
	ValidVotes int `json:"valid_votes"`
}

// Question mirrors one entry of a questions document, before and after
// counting. Max and Min bound how many answers one ballot may select.
type Question struct {
	Title      string   `json:"title"`
	TallyType  string   `json:"tally_type"`
	NumWinners int      `json:"num_winners"`
	Max        int      `json:"max"`
	Min        int      `json:"min"`
	Answers    []Answer `json:"answers"`
	Totals     *Totals  `json:"totals,omitempty"`
}

// Results is the document a tally stage attaches to a record.
type Results struct {
	Questions  []Question `json:"questions"`
	TotalVotes int        `json:"total_votes"`
}

// QuestionLog summarizes the counting pass of one question.
type QuestionLog struct {
	CountedBallots int `json:"counted_ballots"`
	BlankBallots   int `json:"blank_ballots"`
	InvalidBallots int `json:"invalid_ballots"`
}

// LoadQuestions reads and parses the questions document at path.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	return qs, nil
}
