package pipes

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"scrutiny/internal/logging"
	"scrutiny/internal/pipeline"
	"scrutiny/internal/present"
	"scrutiny/internal/records"
	"scrutiny/internal/tally"
)

// DoTallies counts the ballots of every record and attaches the results
// and the per-question counting log. Parameters:
//
//	question_indexes:     count only these questions (default all)
//	tallies_indexes:      count only these records (default all)
//	ignore_invalid_votes: count invalid ballots as null votes (default true)
//	reuse_results:        recount against the previously attached results
//	                      instead of reloading the questions document
//
// A partial recount (question_indexes set) keeps the previous log entries
// of the questions it skips.
func DoTallies(store *records.Store, params pipeline.Params) error {
	questionIndexes, err := params.Ints("question_indexes")
	if err != nil {
		return err
	}
	talliesIndexes, err := params.Ints("tallies_indexes")
	if err != nil {
		return err
	}
	ignoreInvalid, err := params.Bool("ignore_invalid_votes", true)
	if err != nil {
		return err
	}
	reuse, err := params.Bool("reuse_results", false)
	if err != nil {
		return err
	}

	log := logging.New("pipes")
	for i, rec := range store.Records() {
		if talliesIndexes != nil && !slices.Contains(talliesIndexes, i) {
			continue
		}

		var questions []tally.Question
		if reuse {
			if rec.Results == nil {
				return fmt.Errorf("record %d: reuse_results without prior results", i)
			}
			questions = rec.Results.Questions
		} else {
			questions, err = tally.LoadQuestions(filepath.Join(rec.WorkDir, tally.QuestionsFile))
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}

		withdrawals, err := withdrawalList(rec.Meta[MetaWithdrawals])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}

		res, logs, err := tally.DoTally(rec.WorkDir, questions, tally.Options{
			QuestionIndexes: questionIndexes,
			IgnoreInvalid:   ignoreInvalid,
			Withdrawals:     withdrawals,
		})
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}

		if questionIndexes != nil && rec.Log != nil {
			for qi := range logs {
				if !slices.Contains(questionIndexes, qi) && qi < len(rec.Log) {
					logs[qi] = rec.Log[qi]
				}
			}
		}

		rec.Results = res
		rec.Log = logs
		log.Debug("tallied record",
			slog.Int("record", i),
			slog.String("origin", rec.Origin.String()),
			slog.Int("questions", len(res.Questions)),
			slog.Int("ballots", res.TotalVotes))
	}
	return nil
}

// ToFiles writes each record's results document to the matching entry of
// the paths parameter, one path per record in store order. Only the base
// name of each path is honored, so output always lands in the current
// directory no matter what the pipeline document says.
func ToFiles(store *records.Store, params pipeline.Params) error {
	paths, err := params.Strings("paths")
	if err != nil {
		return err
	}
	if len(paths) < store.Len() {
		return fmt.Errorf("%d output paths for %d records", len(paths), store.Len())
	}

	for i, rec := range store.Records() {
		if rec.Results == nil {
			return fmt.Errorf("record %d has no results to write", i)
		}
		name := filepath.Base(paths[i])
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		if err := present.EncodeJSON(f, rec.Results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	return nil
}

// ApplyRemovals strips removed candidates from the first record's results.
// The removal list lives under the "removed-candidates" meta key as
// {question_index, answer_id} pairs; a record without one is left alone.
func ApplyRemovals(store *records.Store, _ pipeline.Params) error {
	rec := store.First()
	if rec == nil {
		return nil
	}
	raw, ok := rec.Meta[MetaRemovedCandidates]
	if !ok {
		return nil
	}
	removals, err := withdrawalList(raw)
	if err != nil {
		return err
	}
	if rec.Results == nil {
		return errors.New("candidate removals declared but no results to filter")
	}

	for qi := range rec.Results.Questions {
		removed := make(map[int]bool)
		for _, r := range removals {
			if r.QuestionIndex == qi {
				removed[r.AnswerID] = true
			}
		}
		if len(removed) == 0 {
			continue
		}
		q := &rec.Results.Questions[qi]
		kept := q.Answers[:0]
		for _, a := range q.Answers {
			if !removed[a.ID] {
				kept = append(kept, a)
			}
		}
		q.Answers = kept
	}
	return nil
}
