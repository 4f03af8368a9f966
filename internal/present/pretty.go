package present

import (
	"fmt"
	"io"

	"scrutiny/internal/format"
	"scrutiny/internal/tally"
)

// Pretty writes a human-readable rendering of every question: a boxed
// table of its answers with the totals in the footer. Every tally type
// renders here; pretty mode just shows whatever counts exist.
func Pretty(w io.Writer, res *tally.Results) error {
	for i := range res.Questions {
		q := &res.Questions[i]

		tb := format.NewTable(format.ASCII)
		tb.Title(fmt.Sprintf("Question %d: %s (%s)", i, q.Title, q.TallyType))
		tb.Header("id", "text", "category", "votes", "position")
		for _, a := range q.Answers {
			pos := any("")
			if a.WinnerPosition != nil {
				pos = fmt.Sprintf("winner %d", *a.WinnerPosition)
			}
			tb.Row(a.ID, a.Text, a.Category, a.TotalCount, pos)
		}
		if q.Totals != nil {
			total := q.Totals.NullVotes + q.Totals.BlankVotes + q.Totals.ValidVotes
			tb.Footer("", fmt.Sprintf("null %d / blank %d / valid %d",
				q.Totals.NullVotes, q.Totals.BlankVotes, q.Totals.ValidVotes), "", total, "total")
		}
		tb.Columns(format.ColumnConfig{Number: 4, Align: format.AlignRight})

		if _, err := fmt.Fprintln(w, tb.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "ballots cast: %d\n", res.TotalVotes)
	return err
}
