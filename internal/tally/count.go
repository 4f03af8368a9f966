package tally

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Supported tally types. Anything else fails the counting pass; the
// presentation layer applies its own, narrower support set.
const (
	TypePlurality = "plurality-at-large"
	TypeBorda     = "borda"
)

// Withdrawal excludes one answer of one question from counting. Selections
// of a withdrawn answer are dropped from the ballot before validity checks,
// shifting later preferences up.
type Withdrawal struct {
	QuestionIndex int `json:"question_index"`
	AnswerID      int `json:"answer_id"`
}

// Options configure one counting pass.
type Options struct {
	QuestionIndexes []int        // restrict counting to these question indexes (nil = all)
	IgnoreInvalid   bool         // count invalid ballots as null votes instead of failing
	Withdrawals     []Withdrawal // answers excluded from counting
}

// DoTally counts the ballots found under dir against questions, mutating
// each counted question in place: answer counts, totals, and winner
// positions are reset and recomputed. Questions outside
// opts.QuestionIndexes are left untouched. dir must contain one session
// subdirectory per counted question, named "{index}-{id}".
func DoTally(dir string, questions []Question, opts Options) (*Results, []QuestionLog, error) {
	sessions, err := sessionDirs(dir)
	if err != nil {
		return nil, nil, err
	}

	res := &Results{Questions: questions}
	logs := make([]QuestionLog, len(questions))

	for i := range res.Questions {
		if opts.QuestionIndexes != nil && !slices.Contains(opts.QuestionIndexes, i) {
			continue
		}
		session, ok := sessions[i]
		if !ok {
			return nil, nil, fmt.Errorf("no ballot session for question %d", i)
		}
		qlog, err := countQuestion(session, &res.Questions[i], withdrawnFor(opts.Withdrawals, i), opts.IgnoreInvalid)
		if err != nil {
			return nil, nil, fmt.Errorf("question %d: %w", i, err)
		}
		logs[i] = qlog
		if cast := qlog.CountedBallots; cast > res.TotalVotes {
			res.TotalVotes = cast
		}
	}
	return res, logs, nil
}

// AssignWinners ranks answers by vote count (ties broken by lower answer
// ID) and marks the top NumWinners with 0-based winner positions. Every
// other answer gets a null position.
func AssignWinners(q *Question) {
	order := make([]int, len(q.Answers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := &q.Answers[order[a]], &q.Answers[order[b]]
		if left.TotalCount != right.TotalCount {
			return left.TotalCount > right.TotalCount
		}
		return left.ID < right.ID
	})

	for i := range q.Answers {
		q.Answers[i].WinnerPosition = nil
	}
	for pos := 0; pos < q.NumWinners && pos < len(order); pos++ {
		p := pos
		q.Answers[order[pos]].WinnerPosition = &p
	}
}

// sessionDirs maps question indexes to their ballot session directories.
// Session names carry the question index before the first dash; anything
// else in the directory is ignored.
func sessionDirs(dir string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read tally dir: %w", err)
	}
	sessions := make(map[int]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "-")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		if _, dup := sessions[idx]; dup {
			return nil, fmt.Errorf("duplicate ballot session for question %d", idx)
		}
		sessions[idx] = filepath.Join(dir, e.Name())
	}
	return sessions, nil
}

func withdrawnFor(withdrawals []Withdrawal, questionIndex int) map[int]bool {
	var ids map[int]bool
	for _, w := range withdrawals {
		if w.QuestionIndex != questionIndex {
			continue
		}
		if ids == nil {
			ids = make(map[int]bool)
		}
		ids[w.AnswerID] = true
	}
	return ids
}

func countQuestion(sessionDir string, q *Question, withdrawn map[int]bool, ignoreInvalid bool) (QuestionLog, error) {
	switch q.TallyType {
	case TypePlurality, TypeBorda:
	default:
		return QuestionLog{}, fmt.Errorf("unsupported tally type %q", q.TallyType)
	}

	known := make(map[int]int, len(q.Answers)) // answer id -> answers index
	for i := range q.Answers {
		known[q.Answers[i].ID] = i
		q.Answers[i].TotalCount = 0
		q.Answers[i].WinnerPosition = nil
	}
	q.Totals = nil

	f, err := os.Open(filepath.Join(sessionDir, BallotsFile))
	if err != nil {
		return QuestionLog{}, fmt.Errorf("open ballots: %w", err)
	}
	defer f.Close()

	var qlog QuestionLog
	var totals Totals
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		qlog.CountedBallots++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			totals.BlankVotes++
			qlog.BlankBallots++
			continue
		}

		var sel []int
		if err := json.Unmarshal(line, &sel); err != nil {
			if !ignoreInvalid {
				return qlog, fmt.Errorf("malformed ballot %d: %w", qlog.CountedBallots, err)
			}
			totals.NullVotes++
			qlog.InvalidBallots++
			continue
		}

		kept := sel[:0]
		for _, id := range sel {
			if !withdrawn[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			totals.BlankVotes++
			qlog.BlankBallots++
			continue
		}

		if err := checkSelection(q, kept, known); err != nil {
			if !ignoreInvalid {
				return qlog, fmt.Errorf("invalid ballot %d: %w", qlog.CountedBallots, err)
			}
			totals.NullVotes++
			qlog.InvalidBallots++
			continue
		}

		switch q.TallyType {
		case TypePlurality:
			for _, id := range kept {
				q.Answers[known[id]].TotalCount++
			}
		case TypeBorda:
			for pos, id := range kept {
				points := q.Max - pos
				if points < 1 {
					points = 1
				}
				q.Answers[known[id]].TotalCount += points
			}
		}
		totals.ValidVotes++
	}
	if err := sc.Err(); err != nil {
		return qlog, fmt.Errorf("read ballots: %w", err)
	}

	q.Totals = &totals
	AssignWinners(q)
	return qlog, nil
}

func checkSelection(q *Question, sel []int, known map[int]int) error {
	if len(sel) > q.Max {
		return fmt.Errorf("selects %d answers, max is %d", len(sel), q.Max)
	}
	if len(sel) < q.Min {
		return fmt.Errorf("selects %d answers, min is %d", len(sel), q.Min)
	}
	seen := make(map[int]bool, len(sel))
	for _, id := range sel {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("unknown answer id %d", id)
		}
		if seen[id] {
			return fmt.Errorf("duplicate answer id %d", id)
		}
		seen[id] = true
	}
	return nil
}
