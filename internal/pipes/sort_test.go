package pipes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrutiny/internal/pipeline"
	"scrutiny/internal/records"
	"scrutiny/internal/tally"
)

func sortFixture(counts ...int) *records.Store {
	q := pluralityQuestion("Mayor", len(counts))
	for i, c := range counts {
		q.Answers[i].TotalCount = c
	}
	tally.AssignWinners(&q)

	rec := records.New("unused", records.OriginArchive)
	rec.Results = &tally.Results{Questions: []tally.Question{q}}
	store := records.NewStore()
	store.Append(rec)
	return store
}

func TestSortNonIterative(t *testing.T) {
	store := sortFixture(1, 5, 3)

	if err := SortNonIterative(store, pipeline.Params{}); err != nil {
		t.Fatalf("SortNonIterative failed: %v", err)
	}

	q := store.First().Results.Questions[0]
	if diff := cmp.Diff([]int{1, 2, 0}, answerIDs(q)); diff != "" {
		t.Errorf("answers not sorted by descending count (-want +got):\n%s", diff)
	}
	if q.Answers[0].WinnerPosition == nil || *q.Answers[0].WinnerPosition != 0 {
		t.Error("winner position did not travel with its answer")
	}
}

func TestSortNonIterative_Ascending(t *testing.T) {
	store := sortFixture(1, 5, 3)

	if err := SortNonIterative(store, pipeline.Params{"reverse": false}); err != nil {
		t.Fatalf("SortNonIterative failed: %v", err)
	}

	q := store.First().Results.Questions[0]
	if diff := cmp.Diff([]int{0, 2, 1}, answerIDs(q)); diff != "" {
		t.Errorf("answers not sorted by ascending count (-want +got):\n%s", diff)
	}
}

func TestSortNonIterative_TieBreaksByID(t *testing.T) {
	store := sortFixture(2, 2, 2)

	if err := SortNonIterative(store, pipeline.Params{}); err != nil {
		t.Fatalf("SortNonIterative failed: %v", err)
	}

	q := store.First().Results.Questions[0]
	if diff := cmp.Diff([]int{0, 1, 2}, answerIDs(q)); diff != "" {
		t.Errorf("tied answers should order by ID (-want +got):\n%s", diff)
	}
}

func TestSortNonIterative_IndexesBeyondQuestions(t *testing.T) {
	store := sortFixture(1, 5, 3)

	indexes := make([]any, 16)
	for i := range indexes {
		indexes[i] = i
	}
	if err := SortNonIterative(store, pipeline.Params{"question_indexes": indexes}); err != nil {
		t.Fatalf("indexes beyond the question count must be ignored, got: %v", err)
	}
}

func TestSortNonIterative_OnlySelectedQuestions(t *testing.T) {
	store := sortFixture(1, 5, 3)
	rec := store.First()
	second := pluralityQuestion("Treasurer", 2)
	second.Answers[0].TotalCount = 1
	second.Answers[1].TotalCount = 9
	rec.Results.Questions = append(rec.Results.Questions, second)

	if err := SortNonIterative(store, pipeline.Params{"question_indexes": []any{1}}); err != nil {
		t.Fatalf("SortNonIterative failed: %v", err)
	}

	if diff := cmp.Diff([]int{0, 1, 2}, answerIDs(rec.Results.Questions[0])); diff != "" {
		t.Errorf("unselected question was reordered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 0}, answerIDs(rec.Results.Questions[1])); diff != "" {
		t.Errorf("selected question was not sorted (-want +got):\n%s", diff)
	}
}

func TestSortNonIterative_NeedsResults(t *testing.T) {
	store := records.NewStore()
	store.Append(records.New("unused", records.OriginArchive))

	if err := SortNonIterative(store, pipeline.Params{}); err == nil {
		t.Error("sorting an untallied record should fail")
	}
}
