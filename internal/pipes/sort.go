package pipes

import (
	"fmt"
	"slices"
	"sort"

	"scrutiny/internal/pipeline"
	"scrutiny/internal/records"
	"scrutiny/internal/tally"
)

// SortNonIterative reorders each eligible question's answers by vote
// count, ties broken by lower answer ID. Winner positions travel with
// their answers. Parameters:
//
//	question_indexes: sort only these questions (default all)
//	reverse:          most-voted first (default true)
//
// Indexes beyond a record's question count are ignored, so a generous
// default list works against any tally size. Sorting requires tallied
// results on every record.
func SortNonIterative(store *records.Store, params pipeline.Params) error {
	questionIndexes, err := params.Ints("question_indexes")
	if err != nil {
		return err
	}
	reverse, err := params.Bool("reverse", true)
	if err != nil {
		return err
	}

	for i, rec := range store.Records() {
		if rec.Results == nil {
			return fmt.Errorf("record %d: sorting needs tallied results", i)
		}
		for qi := range rec.Results.Questions {
			if questionIndexes != nil && !slices.Contains(questionIndexes, qi) {
				continue
			}
			sortAnswers(&rec.Results.Questions[qi], reverse)
		}
	}
	return nil
}

func sortAnswers(q *tally.Question, reverse bool) {
	sort.SliceStable(q.Answers, func(a, b int) bool {
		left, right := &q.Answers[a], &q.Answers[b]
		if left.TotalCount != right.TotalCount {
			if reverse {
				return left.TotalCount > right.TotalCount
			}
			return left.TotalCount < right.TotalCount
		}
		return left.ID < right.ID
	})
}
