package present

import (
	"fmt"
	"io"
	"log/slog"

	"scrutiny/internal/format"
	"scrutiny/internal/logging"
	"scrutiny/internal/tally"
)

// Tabular writes one block per eligible question: a question header, its
// totals with the grand total, and one row per answer. Questions whose
// tally type has no tabular rendering are skipped silently.
func Tabular(w io.Writer, res *tally.Results, mode format.Mode) error {
	log := logging.New("present")
	for i := range res.Questions {
		q := &res.Questions[i]
		if !tabularSupported(q.TallyType) {
			log.Debug("skipping question in tabular output",
				slog.Int("question", i), slog.String("tally_type", q.TallyType))
			continue
		}
		if err := tabularQuestion(w, i, q, mode); err != nil {
			return err
		}
	}
	return nil
}

func tabularSupported(tallyType string) bool {
	return tallyType == tally.TypePlurality
}

func tabularQuestion(w io.Writer, index int, q *tally.Question, mode format.Mode) error {
	head := format.NewTable(mode)
	head.Header("question", "title", "tally type", "winners")
	head.Row(index, q.Title, q.TallyType, q.NumWinners)

	var t tally.Totals
	if q.Totals != nil {
		t = *q.Totals
	}
	totals := format.NewTable(mode)
	totals.Header("null votes", "blank votes", "valid votes", "total")
	totals.Row(t.NullVotes, t.BlankVotes, t.ValidVotes, t.NullVotes+t.BlankVotes+t.ValidVotes)

	answers := format.NewTable(mode)
	answers.Header("id", "text", "category", "votes", "position")
	for _, a := range q.Answers {
		pos := any("")
		if a.WinnerPosition != nil {
			pos = *a.WinnerPosition
		}
		answers.Row(a.ID, a.Text, a.Category, a.TotalCount, pos)
	}

	for _, block := range []format.TableBuilder{head, totals, answers} {
		if _, err := fmt.Fprintln(w, block.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
