package pipes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrutiny/internal/pipeline"
	"scrutiny/internal/records"
	"scrutiny/internal/tally"
)

// --- test helpers ---

func pluralityQuestion(title string, numAnswers int) tally.Question {
	q := tally.Question{
		Title:      title,
		TallyType:  tally.TypePlurality,
		NumWinners: 1,
		Max:        1,
		Min:        0,
	}
	for id := 0; id < numAnswers; id++ {
		q.Answers = append(q.Answers, tally.Answer{
			ID:   id,
			Text: fmt.Sprintf("Candidate %d", id),
		})
	}
	return q
}

// writeTallyDir lays out a tally working directory: the questions document
// plus one ballot session per question index.
func writeTallyDir(t *testing.T, questions []tally.Question, ballots map[int][]string) string {
	t.Helper()
	dir := t.TempDir()

	raw, err := json.Marshal(questions)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, tally.QuestionsFile), raw, 0644); err != nil {
		t.Fatal(err)
	}

	for index, lines := range ballots {
		session := filepath.Join(dir, fmt.Sprintf("%d-%04x", index, 0xa0a0+index))
		if err := os.MkdirAll(session, 0755); err != nil {
			t.Fatal(err)
		}
		content := strings.Join(lines, "\n")
		if len(lines) > 0 {
			content += "\n"
		}
		if err := os.WriteFile(filepath.Join(session, tally.BallotsFile), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func storeWith(dirs ...string) *records.Store {
	store := records.NewStore()
	for _, dir := range dirs {
		store.Append(records.New(dir, records.OriginArchive))
	}
	return store
}

func answerIDs(q tally.Question) []int {
	ids := make([]int, len(q.Answers))
	for i, a := range q.Answers {
		ids[i] = a.ID
	}
	return ids
}

// --- tests ---

func TestBuiltinNames(t *testing.T) {
	want := []string{
		"scrutiny.pipes.results.apply_removals",
		"scrutiny.pipes.results.do_tallies",
		"scrutiny.pipes.results.to_files",
		"scrutiny.pipes.sort.sort_non_iterative",
	}
	if diff := cmp.Diff(want, Builtin().Names()); diff != "" {
		t.Errorf("registry names mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinResolvable(t *testing.T) {
	reg := Builtin()
	for _, name := range reg.Names() {
		if _, err := reg.Resolve(name); err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
		}
	}
}

func TestDefaultPipelineEndToEnd(t *testing.T) {
	dir := writeTallyDir(t,
		[]tally.Question{pluralityQuestion("Mayor", 3)},
		map[int][]string{0: {"[2]", "[2]", "[0]", "[2]", "[0]", ""}},
	)
	store := storeWith(dir)

	if err := pipeline.Run(context.Background(), pipeline.DefaultSpec(), Builtin(), store); err != nil {
		t.Fatalf("default pipeline failed: %v", err)
	}

	rec := store.First()
	if rec.Results == nil || len(rec.Results.Questions) == 0 {
		t.Fatal("pipeline left no results on the record")
	}

	q := rec.Results.Questions[0]
	if diff := cmp.Diff([]int{2, 0, 1}, answerIDs(q)); diff != "" {
		t.Errorf("answers not sorted by vote count (-want +got):\n%s", diff)
	}
	if q.Answers[0].TotalCount != 3 {
		t.Errorf("top answer has %d votes, want 3", q.Answers[0].TotalCount)
	}
	if q.Answers[0].WinnerPosition == nil || *q.Answers[0].WinnerPosition != 0 {
		t.Errorf("top answer should be winner 0, got %v", q.Answers[0].WinnerPosition)
	}
	wantTotals := &tally.Totals{BlankVotes: 1, NullVotes: 0, ValidVotes: 5}
	if diff := cmp.Diff(wantTotals, q.Totals); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
	if rec.Results.TotalVotes != 6 {
		t.Errorf("TotalVotes = %d, want 6", rec.Results.TotalVotes)
	}
}
